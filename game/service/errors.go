package service

import "errors"

// Sentinel errors shared by the storage packages and the transports. The session and
// config packages re-export them under their own names.
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
	ErrConfigNotFound       = errors.New("configuration not found")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrTooManyMoves         = errors.New("too many moves")
)
