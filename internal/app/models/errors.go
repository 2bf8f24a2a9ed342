package models

import "errors"

// Errors shared by the session, gateway and backend layers.
var (
	// ErrInvalidToken means a session token could not be decoded into an identity.
	ErrInvalidToken = errors.New("session token is malformed or unverifiable")
	// ErrNoSession means an operation needs an identity and none is present.
	ErrNoSession = errors.New("no active session")

	ErrUnauthenticated  = errors.New("authentication required or invalid credentials")
	ErrForbidden        = errors.New("action forbidden")
	ErrNotFound         = errors.New("requested item not found")
	ErrValidation       = errors.New("validation failed")
	ErrServer           = errors.New("backend server error")
	ErrUnexpectedStatus = errors.New("unexpected backend status")
	ErrNetwork          = errors.New("backend unreachable")

	// ErrUnexpectedShape means a 2xx body did not match the endpoint's result type.
	ErrUnexpectedShape = errors.New("unexpected response shape")

	ErrInvalidRole = errors.New("invalid role")
)
