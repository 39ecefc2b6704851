// Package common contains shared constants, sentinel errors and small helpers
// used across Smart Voyage components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// APIKeyHeaderName carries the project's public (anon) key on every request to
// the hosted auth and function platform.
const APIKeyHeaderName = "apikey"

// AuthorizationHeaderName carries "Bearer <token>" on HTTP requests.
const AuthorizationHeaderName = "Authorization"
