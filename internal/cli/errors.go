package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates the provider's API key environment
	// variable is not set.
	ErrAPIKeyMissing = errors.New("API key environment variable not set")

	// ErrTitleNotFound indicates a requested title does not match any
	// book in the library.
	ErrTitleNotFound = errors.New("title not found in library")

	// ErrNoClips indicates a title has no extracted clips to transcribe.
	ErrNoClips = errors.New("no clips found")
)
