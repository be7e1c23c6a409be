package cli

// Bridge for internal helpers under test.
var (
	FindBook      = findBook
	ScanClips     = scanClips
	ClampParallel = clampParallel
)
