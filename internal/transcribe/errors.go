package transcribe

import "errors"

// ErrAPIKeyMissing indicates no API key was provided for the selected
// transcription provider.
var ErrAPIKeyMissing = errors.New("transcription API key not set")

// ErrRecognition indicates the provider accepted the clip but could not
// produce a transcript (unintelligible speech or a failed job).
var ErrRecognition = errors.New("speech recognition failed")
