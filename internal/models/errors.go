package models

import "errors"

// The canvas messages are matched verbatim by API clients.
var (
	ErrCanvasNotFound        = errors.New("Canvas not found")
	ErrUnsupportedCanvasType = errors.New("Unsupported canvas type")

	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrSessionNotFound = errors.New("session not found")
	ErrDebateNotFound  = errors.New("debate not found")
)
