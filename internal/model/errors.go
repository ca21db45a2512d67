package model

import "errors"

var (
	// Session related errors
	ErrNoSession      = errors.New("no session")
	ErrSessionStorage = errors.New("session storage unavailable")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Upstream related errors
	ErrBackendUnavailable = errors.New("backend unavailable")

	// Attachment related errors
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrUnsupportedPreview = errors.New("unsupported preview type")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
