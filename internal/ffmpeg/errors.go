package ffmpeg

import "errors"

// ErrNotFound indicates the FFmpeg binary is not installed.
var ErrNotFound = errors.New("ffmpeg not found")
