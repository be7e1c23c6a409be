package audible

import "errors"

// ErrCredentialsMissing indicates no persisted credentials file was found.
// Credentials are written by an external authentication flow.
var ErrCredentialsMissing = errors.New("audible credentials not found")

// ErrCredentialsInvalid indicates the credentials file could not be parsed.
var ErrCredentialsInvalid = errors.New("audible credentials invalid")

// ErrLibraryFetch indicates the library listing could not be retrieved.
var ErrLibraryFetch = errors.New("library fetch failed")

// ErrAnnotationFetch indicates the annotation sidecar could not be
// retrieved or decoded for a title.
var ErrAnnotationFetch = errors.New("annotation fetch failed")
