package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrNotConfigured = errors.New("not configured")

	ErrInvalidToken = errors.New("invalid token")
)
