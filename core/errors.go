package core

import (
	"errors"
	"fmt"
)

// Registration outcomes
var (
	ErrInvalidInput       = errors.New("invalid input")                       // 400 Bad Request
	ErrPasswordMismatch   = errors.New("passwords do not match")              // 400 Bad Request
	ErrDuplicateIdentity  = errors.New("email is already registered")         // 409 Conflict
	ErrStorageUnavailable = errors.New("storage unavailable")                 // 503 Service Unavailable
	ErrHashingFailed      = errors.New("failed to hash password")             // 500
	ErrIdentityIncomplete = errors.New("identity is missing required fields") // 500
)

// Validation errors (client input). All of them wrap ErrInvalidInput.
var (
	ErrEmailRequired    = fmt.Errorf("%w: email is required", ErrInvalidInput)
	ErrPasswordRequired = fmt.Errorf("%w: password is required", ErrInvalidInput)
	ErrPasswordTooLong  = fmt.Errorf("%w: password is too long", ErrInvalidInput)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrInvalidInput)
)

// Session errors
var (
	ErrInvalidToken    = errors.New("invalid session token") // 401
	ErrSessionNotFound = errors.New("session not found")     // 401
	ErrSessionExpired  = errors.New("session expired")       // 401
	ErrCacheNotFound   = errors.New("session not found in cache")
)

// Catalog errors
var (
	ErrGameNotFound = errors.New("game not found") // 404
)

// Config errors (server-side configuration)
var (
	ErrIdentityStoreRequired  = errors.New("identity store is required")     // 500
	ErrSessionStorageRequired = errors.New("session storage is required")    // 500
	ErrGameStoreRequired      = errors.New("game store is required")         // 500
	ErrHTTPAdapterRequired    = errors.New("adapter is required")            // 500
	ErrInvalidRedirect        = errors.New("redirect path must be absolute") // 500
)
