package tools

import "errors"

// Registry errors.
var (
	// ErrToolNameEmpty is returned when a definition has no name.
	ErrToolNameEmpty = errors.New("tool name cannot be empty")

	// ErrHandlerNil is returned when registering a nil handler.
	ErrHandlerNil = errors.New("tool handler cannot be nil")

	// ErrToolAlreadyRegistered is returned when registering a duplicate.
	ErrToolAlreadyRegistered = errors.New("tool already registered")
)
