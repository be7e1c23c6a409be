package audio

import (
	"context"
	"os"
	"os/exec"
)

// commandRunner executes external commands and returns their combined output.
type commandRunner interface {
	CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error)
}

// dirMaker creates directories.
type dirMaker interface {
	MkdirAll(path string, perm os.FileMode) error
}

// fileStatter retrieves file information.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// fileRemover removes files.
type fileRemover interface {
	Remove(name string) error
}

// --- Default implementations using real OS functions ---

// osCommandRunner implements commandRunner using exec.CommandContext.
type osCommandRunner struct{}

func (osCommandRunner) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	// #nosec G204 -- name and args are controlled by the extractor, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// osDirMaker implements dirMaker using os.MkdirAll.
type osDirMaker struct{}

func (osDirMaker) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// osFileStatter implements fileStatter using os.Stat.
type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// osFileRemover implements fileRemover using os.Remove.
type osFileRemover struct{}

func (osFileRemover) Remove(name string) error {
	return os.Remove(name)
}
