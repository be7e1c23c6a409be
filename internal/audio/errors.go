package audio

import "errors"

// ErrAudioNotFound indicates the decoded audiobook file does not exist.
// Decoding is a separate concern; this package never decodes on demand.
var ErrAudioNotFound = errors.New("decoded audio not found")

// ErrExtractionFailed indicates FFmpeg failed while exporting a clip.
var ErrExtractionFailed = errors.New("clip extraction failed")

// ErrNoDuration indicates the audio duration could not be determined.
var ErrNoDuration = errors.New("could not determine audio duration")
