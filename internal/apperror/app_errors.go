package apperror

import "errors"

var (
	ErrEmptyCommand     = errors.New("command is empty")
	ErrCommandTooLong   = errors.New("command is too long")
	ErrNotConnected     = errors.New("not connected to the server")
	ErrAlreadyConnected = errors.New("already connected")
	ErrClientClosed     = errors.New("client is closed")
)
