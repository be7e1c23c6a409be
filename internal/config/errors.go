package config

import "errors"

// Sentinel errors for configuration operations.
// Callers match with errors.Is to map failures to user-facing messages.
var (
	// ErrInvalidKey indicates a config key that cannot be stored
	// (empty, or containing '=' or newline).
	ErrInvalidKey = errors.New("invalid config key")

	// ErrInvalidSyntax indicates a malformed line in the config file.
	ErrInvalidSyntax = errors.New("invalid config syntax")

	// ErrNotDirectory indicates a path that exists but is not a directory.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrNotWritable indicates a directory the process cannot write into.
	ErrNotWritable = errors.New("directory is not writable")
)
