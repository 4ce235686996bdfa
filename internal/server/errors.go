package server

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidMessage       = errors.New("invalid message")
	ErrRateLimited          = errors.New("rate limited")
	ErrServerAlreadyRunning = errors.New("server is already running")
)
