package audio

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// ParseDurationFromFFmpegOutput exports parseDurationFromFFmpegOutput for testing.
var ParseDurationFromFFmpegOutput = parseDurationFromFFmpegOutput

// ParseTimeComponents exports parseTimeComponents for testing.
var ParseTimeComponents = parseTimeComponents

// FormatFFmpegTime exports formatFFmpegTime for testing.
var FormatFFmpegTime = formatFFmpegTime

// SanitizeLabel exports sanitizeLabel for testing.
var SanitizeLabel = sanitizeLabel

// --- Dependency injection exports ---

// CommandRunner exports commandRunner interface for testing.
type CommandRunner = commandRunner

// DirMaker exports dirMaker interface for testing.
type DirMaker = dirMaker

// FileRemover exports fileRemover interface for testing.
type FileRemover = fileRemover

// FileStatter exports fileStatter interface for testing.
type FileStatter = fileStatter
