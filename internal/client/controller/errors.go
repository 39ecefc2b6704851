package controller

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartvoyage/internal/client/gateway"
	"github.com/dmitrijs2005/smartvoyage/internal/client/generation"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoItinerary      = errors.New("no itinerary is open")
)

// AuthError is a failed sign-in, sign-up or sign-out.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// GenerationError is a failed call to the generation service.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// userMessage picks the text shown to the user for err.
func userMessage(err error, fallback string) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var remoteErr *generation.RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Message != "" {
		return remoteErr.Message
	}
	return fallback
}
