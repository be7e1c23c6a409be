package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ferrovax/go-highlights/internal/annotation"
)

// Notes:
// - White-box testing (package config) to test internal parseFile and dir.
// - Uses t.TempDir() + t.Setenv("XDG_CONFIG_HOME") for I/O isolation.
// - Tests using t.Setenv are NOT parallel (incompatible with t.Parallel).
// - Pure functions (ResolveOutputPath, ExpandPath) use t.Parallel().
// - Permission tests (chmod) may behave differently on Windows.
//
// Coverage gaps (intentional - rare I/O errors not worth mocking):
// - os.UserHomeDir() failures in dir(), ExpandPath()
// - Non-NotExist errors in Load(), Get(), List()
// - Write errors in writeFile() (disk full, permission denied mid-write)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// writeConfigFile creates a config file in the given XDG config directory.
func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "go-highlights")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configPath := filepath.Join(configDir, "config")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

// clearEnv blanks every environment fallback so tests only see what they set.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HIGHLIGHTS_ARTIFACTS_DIR", "")
	t.Setenv("HIGHLIGHTS_OUTPUT_DIR", "")
	t.Setenv("HIGHLIGHTS_PRE_ROLL_MS", "")
	t.Setenv("HIGHLIGHTS_POST_ROLL_MS", "")
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Pure function for output path resolution
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		output      string
		outputDir   string
		defaultName string
		want        string
	}{
		// Case 1: Absolute path - used as-is
		{
			name:        "absolute path ignores outputDir",
			output:      "/absolute/path/file.json",
			outputDir:   "/some/dir",
			defaultName: "bookmarks.json",
			want:        "/absolute/path/file.json",
		},
		{
			name:        "absolute path with empty outputDir",
			output:      "/absolute/path/file.json",
			outputDir:   "",
			defaultName: "bookmarks.json",
			want:        "/absolute/path/file.json",
		},

		// Case 2: Relative path with outputDir
		{
			name:        "relative path joined with outputDir",
			output:      "subdir/file.json",
			outputDir:   "/base/dir",
			defaultName: "bookmarks.json",
			want:        "/base/dir/subdir/file.json",
		},
		{
			name:        "relative path without outputDir",
			output:      "subdir/file.json",
			outputDir:   "",
			defaultName: "bookmarks.json",
			want:        "subdir/file.json",
		},
		{
			name:        "filename only with outputDir",
			output:      "file.json",
			outputDir:   "/base/dir",
			defaultName: "bookmarks.json",
			want:        "/base/dir/file.json",
		},

		// Case 3: Empty output - uses defaultName
		{
			name:        "empty output uses defaultName with outputDir",
			output:      "",
			outputDir:   "/base/dir",
			defaultName: "bookmarks.json",
			want:        "/base/dir/bookmarks.json",
		},
		{
			name:        "empty output uses defaultName without outputDir",
			output:      "",
			outputDir:   "",
			defaultName: "bookmarks.json",
			want:        "bookmarks.json",
		},

		// Edge cases: path cleaning
		{
			name:        "cleans redundant separators",
			output:      "subdir//file.json",
			outputDir:   "/base//dir",
			defaultName: "bookmarks.json",
			want:        "/base/dir/subdir/file.json",
		},
		{
			name:        "cleans dot segments",
			output:      "./subdir/../file.json",
			outputDir:   "/base/./dir",
			defaultName: "bookmarks.json",
			want:        "/base/dir/file.json",
		},
		{
			name:        "handles trailing slash in outputDir",
			output:      "file.json",
			outputDir:   "/base/dir/",
			defaultName: "bookmarks.json",
			want:        "/base/dir/file.json",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ResolveOutputPath(tt.output, tt.outputDir, tt.defaultName)
			if got != tt.want {
				t.Errorf("ResolveOutputPath(%q, %q, %q) = %q, want %q",
					tt.output, tt.outputDir, tt.defaultName, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExpandPath - Pure function for ~ expansion
// ---------------------------------------------------------------------------

func TestExpandPath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("cannot get home dir: %v", err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "expands tilde prefix",
			path: "~/audiobooks/clips",
			want: filepath.Join(home, "audiobooks/clips"),
		},
		{
			name: "no expansion for absolute path",
			path: "/absolute/path",
			want: "/absolute/path",
		},
		{
			name: "no expansion for relative path",
			path: "relative/path",
			want: "relative/path",
		},
		{
			name: "no expansion for tilde in middle",
			path: "/path/~/file",
			want: "/path/~/file",
		},
		{
			name: "tilde alone expands to home",
			path: "~",
			want: home,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExpandPath(tt.path)
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoad - Config loading with file, env, and default precedence
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	// NO t.Parallel() - uses t.Setenv

	t.Run("returns defaults when file missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.OutputDir != "" {
			t.Errorf("OutputDir = %q, want empty", cfg.OutputDir)
		}
		if cfg.ArtifactsDir == "" {
			t.Error("ArtifactsDir is empty, want home-based default")
		}
		if cfg.PreRollMs != annotation.DefaultPreRoll {
			t.Errorf("PreRollMs = %d, want %d", cfg.PreRollMs, annotation.DefaultPreRoll)
		}
		if cfg.PostRollMs != annotation.DefaultPostRoll {
			t.Errorf("PostRollMs = %d, want %d", cfg.PostRollMs, annotation.DefaultPostRoll)
		}
	})

	t.Run("reads all keys from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		clearEnv(t)
		writeConfigFile(t, tmpDir,
			"artifacts-dir=/from/file/artifacts\n"+
				"output-dir=/from/file/out\n"+
				"pre-roll-ms=5000\n"+
				"post-roll-ms=2000\n")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ArtifactsDir != "/from/file/artifacts" {
			t.Errorf("ArtifactsDir = %q, want %q", cfg.ArtifactsDir, "/from/file/artifacts")
		}
		if cfg.OutputDir != "/from/file/out" {
			t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "/from/file/out")
		}
		if cfg.PreRollMs != 5000 {
			t.Errorf("PreRollMs = %d, want 5000", cfg.PreRollMs)
		}
		if cfg.PostRollMs != 2000 {
			t.Errorf("PostRollMs = %d, want 2000", cfg.PostRollMs)
		}
	})

	t.Run("explicit zero roll is respected", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		clearEnv(t)
		writeConfigFile(t, tmpDir, "pre-roll-ms=0\n")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.PreRollMs != 0 {
			t.Errorf("PreRollMs = %d, want 0 (explicit zero, not default)", cfg.PreRollMs)
		}
	})

	t.Run("falls back to env vars when file empty", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		clearEnv(t)
		t.Setenv("HIGHLIGHTS_OUTPUT_DIR", "/from/env")
		t.Setenv("HIGHLIGHTS_PRE_ROLL_MS", "7000")
		writeConfigFile(t, tmpDir, "# empty config\n")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.OutputDir != "/from/env" {
			t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "/from/env")
		}
		if cfg.PreRollMs != 7000 {
			t.Errorf("PreRollMs = %d, want 7000", cfg.PreRollMs)
		}
	})

	t.Run("file takes precedence over env vars", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		clearEnv(t)
		t.Setenv("HIGHLIGHTS_OUTPUT_DIR", "/from/env")
		writeConfigFile(t, tmpDir, "output-dir=/from/file\n")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.OutputDir != "/from/file" {
			t.Errorf("OutputDir = %q, want %q (file should take precedence)", cfg.OutputDir, "/from/file")
		}
	})

	t.Run("env var used when key missing from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		clearEnv(t)
		t.Setenv("HIGHLIGHTS_POST_ROLL_MS", "1500")
		writeConfigFile(t, tmpDir, "output-dir=/from/file\n")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.PostRollMs != 1500 {
			t.Errorf("PostRollMs = %d, want 1500", cfg.PostRollMs)
		}
	})

	t.Run("expands tilde in artifacts dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		clearEnv(t)
		writeConfigFile(t, tmpDir, "artifacts-dir=~/highlights-data\n")

		home, err := os.UserHomeDir()
		if err != nil {
			t.Skipf("cannot get home dir: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		want := filepath.Join(home, "highlights-data")
		if cfg.ArtifactsDir != want {
			t.Errorf("ArtifactsDir = %q, want %q", cfg.ArtifactsDir, want)
		}
	})

	t.Run("returns error for invalid config syntax", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		clearEnv(t)
		writeConfigFile(t, tmpDir, "invalid-line-no-equals\n")

		_, err := Load()
		if err == nil {
			t.Error("Load() = nil, want error for invalid syntax")
		}
	})
}

// ---------------------------------------------------------------------------
// TestSave - Config persistence
// ---------------------------------------------------------------------------

func TestSave(t *testing.T) {
	// NO t.Parallel() - uses t.Setenv

	t.Run("creates config file when missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		clearEnv(t)

		err := Save(KeyOutputDir, "/new/path")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.OutputDir != "/new/path" {
			t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "/new/path")
		}
	})

	t.Run("updates existing value", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		clearEnv(t)
		writeConfigFile(t, tmpDir, "pre-roll-ms=10000\n")

		err := Save(KeyPreRoll, "5000")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.PreRollMs != 5000 {
			t.Errorf("PreRollMs = %d, want 5000", cfg.PreRollMs)
		}
	})

	t.Run("preserves other keys", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		writeConfigFile(t, tmpDir, "artifacts-dir=/kept\noutput-dir=/old\n")

		err := Save(KeyOutputDir, "/new")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		data, err := List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if data[KeyArtifactsDir] != "/kept" {
			t.Errorf("artifacts-dir = %q, want %q", data[KeyArtifactsDir], "/kept")
		}
		if data[KeyOutputDir] != "/new" {
			t.Errorf("output-dir = %q, want %q", data[KeyOutputDir], "/new")
		}
	})

	t.Run("adds new key to existing file", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		writeConfigFile(t, tmpDir, "output-dir=/existing\n")

		err := Save(KeyPostRoll, "500")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		data, err := List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if data[KeyOutputDir] != "/existing" {
			t.Errorf("output-dir = %q, want %q", data[KeyOutputDir], "/existing")
		}
		if data[KeyPostRoll] != "500" {
			t.Errorf("post-roll-ms = %q, want %q", data[KeyPostRoll], "500")
		}
	})

	t.Run("rejects empty key", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)

		err := Save("", "value")
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Save(\"\", ...) error = %v, want ErrInvalidKey", err)
		}
	})

	t.Run("rejects key with equals sign", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)

		err := Save("key=value", "value")
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Save(\"key=value\", ...) error = %v, want ErrInvalidKey", err)
		}
	})

	t.Run("rejects key with newline", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)

		err := Save("key\nvalue", "value")
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Save(\"key\\nvalue\", ...) error = %v, want ErrInvalidKey", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestGet - Single value retrieval
// ---------------------------------------------------------------------------

func TestGet(t *testing.T) {
	// NO t.Parallel() - uses t.Setenv

	t.Run("returns value when key exists", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		writeConfigFile(t, tmpDir, "pre-roll-ms=8000\n")

		got, err := Get(KeyPreRoll)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "8000" {
			t.Errorf("Get(%q) = %q, want %q", KeyPreRoll, got, "8000")
		}
	})

	t.Run("returns empty when key missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		writeConfigFile(t, tmpDir, "output-dir=/somewhere\n")

		got, err := Get(KeyArtifactsDir)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "" {
			t.Errorf("Get(%q) = %q, want empty", KeyArtifactsDir, got)
		}
	})

	t.Run("returns empty when file missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)

		got, err := Get(KeyOutputDir)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "" {
			t.Errorf("Get(%q) = %q, want empty", KeyOutputDir, got)
		}
	})

	t.Run("returns error for invalid config syntax", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		writeConfigFile(t, tmpDir, "invalid-no-equals\n")

		_, err := Get(KeyOutputDir)
		if err == nil {
			t.Error("Get() = nil, want error for invalid syntax")
		}
	})
}

// ---------------------------------------------------------------------------
// TestList - All values retrieval
// ---------------------------------------------------------------------------

func TestList(t *testing.T) {
	// NO t.Parallel() - uses t.Setenv

	t.Run("returns all values", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		writeConfigFile(t, tmpDir, "artifacts-dir=/a\noutput-dir=/b\n")

		got, err := List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("List() returned %d items, want 2", len(got))
		}
		if got[KeyArtifactsDir] != "/a" {
			t.Errorf("artifacts-dir = %q, want %q", got[KeyArtifactsDir], "/a")
		}
		if got[KeyOutputDir] != "/b" {
			t.Errorf("output-dir = %q, want %q", got[KeyOutputDir], "/b")
		}
	})

	t.Run("returns empty map when file missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)

		got, err := List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if got == nil {
			t.Error("List() returned nil, want empty map")
		}
		if len(got) != 0 {
			t.Errorf("List() returned %d items, want 0", len(got))
		}
	})

	t.Run("returns error for invalid config syntax", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		writeConfigFile(t, tmpDir, "invalid-no-equals\n")

		_, err := List()
		if err == nil {
			t.Error("List() = nil, want error for invalid syntax")
		}
	})
}

// ---------------------------------------------------------------------------
// TestEnsureOutputDir - Directory validation and creation
// ---------------------------------------------------------------------------

func TestEnsureOutputDir(t *testing.T) {
	// NO t.Parallel() - modifies filesystem

	t.Run("accepts existing writable directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		if err := EnsureOutputDir(tmpDir); err != nil {
			t.Errorf("EnsureOutputDir(%q) = %v, want nil", tmpDir, err)
		}
	})

	t.Run("creates missing directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		newDir := filepath.Join(tmpDir, "new", "nested", "dir")

		if err := EnsureOutputDir(newDir); err != nil {
			t.Fatalf("EnsureOutputDir(%q) = %v, want nil", newDir, err)
		}

		info, err := os.Stat(newDir)
		if err != nil {
			t.Fatalf("os.Stat(%q) error = %v", newDir, err)
		}
		if !info.IsDir() {
			t.Errorf("%q is not a directory", newDir)
		}
	})

	t.Run("rejects empty path", func(t *testing.T) {
		if err := EnsureOutputDir(""); err == nil {
			t.Error("EnsureOutputDir(\"\") = nil, want error")
		}
	})

	t.Run("rejects file path", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "file.txt")
		if err := os.WriteFile(filePath, []byte("content"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		err := EnsureOutputDir(filePath)
		if !errors.Is(err, ErrNotDirectory) {
			t.Errorf("EnsureOutputDir(%q) error = %v, want ErrNotDirectory", filePath, err)
		}
	})
}

func TestEnsureOutputDir_Permissions(t *testing.T) {
	// NO t.Parallel() - modifies filesystem permissions

	if runtime.GOOS == "windows" {
		t.Skip("skipping permission tests on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("skipping permission tests as root")
	}

	t.Run("rejects non-writable directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		readOnlyDir := filepath.Join(tmpDir, "readonly")
		if err := os.Mkdir(readOnlyDir, 0555); err != nil {
			t.Fatalf("failed to create readonly dir: %v", err)
		}
		t.Cleanup(func() {
			os.Chmod(readOnlyDir, 0755)
		})

		err := EnsureOutputDir(readOnlyDir)
		if !errors.Is(err, ErrNotWritable) {
			t.Errorf("EnsureOutputDir(%q) error = %v, want ErrNotWritable", readOnlyDir, err)
		}
	})

	t.Run("rejects when parent not writable", func(t *testing.T) {
		tmpDir := t.TempDir()
		readOnlyParent := filepath.Join(tmpDir, "readonly-parent")
		if err := os.Mkdir(readOnlyParent, 0555); err != nil {
			t.Fatalf("failed to create readonly parent: %v", err)
		}
		t.Cleanup(func() {
			os.Chmod(readOnlyParent, 0755)
		})

		newDir := filepath.Join(readOnlyParent, "newdir")
		if err := EnsureOutputDir(newDir); err == nil {
			t.Errorf("EnsureOutputDir(%q) = nil, want error when parent not writable", newDir)
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseFile - Internal parsing logic
// ---------------------------------------------------------------------------

func TestParseFile(t *testing.T) {
	// NO t.Parallel() - uses filesystem

	t.Run("parses key=value pairs", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config")
		content := "key1=value1\nkey2=value2\n"
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		got, err := parseFile(configPath)
		if err != nil {
			t.Fatalf("parseFile() error = %v", err)
		}
		if got["key1"] != "value1" {
			t.Errorf("key1 = %q, want %q", got["key1"], "value1")
		}
		if got["key2"] != "value2" {
			t.Errorf("key2 = %q, want %q", got["key2"], "value2")
		}
	})

	t.Run("ignores comments and empty lines", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config")
		content := "# This is a comment\n\nkey=value\n\n# Another comment\n"
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		got, err := parseFile(configPath)
		if err != nil {
			t.Fatalf("parseFile() error = %v", err)
		}
		if len(got) != 1 {
			t.Errorf("parseFile() returned %d items, want 1", len(got))
		}
		if got["key"] != "value" {
			t.Errorf("key = %q, want %q", got["key"], "value")
		}
	})

	t.Run("trims whitespace around key and value", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config")
		content := "  key  =  value  \n"
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		got, err := parseFile(configPath)
		if err != nil {
			t.Fatalf("parseFile() error = %v", err)
		}
		if got["key"] != "value" {
			t.Errorf("key = %q, want %q (should trim whitespace)", got["key"], "value")
		}
	})

	t.Run("handles value with equals sign", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config")
		content := "key=value=with=equals\n"
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		got, err := parseFile(configPath)
		if err != nil {
			t.Fatalf("parseFile() error = %v", err)
		}
		if got["key"] != "value=with=equals" {
			t.Errorf("key = %q, want %q", got["key"], "value=with=equals")
		}
	})

	t.Run("returns error for invalid syntax", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config")
		content := "invalid-line-without-equals\n"
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		_, err := parseFile(configPath)
		if !errors.Is(err, ErrInvalidSyntax) {
			t.Errorf("parseFile() error = %v, want ErrInvalidSyntax", err)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := parseFile("/nonexistent/path/config")
		if err == nil {
			t.Error("parseFile() = nil, want error for missing file")
		}
	})
}

// ---------------------------------------------------------------------------
// TestDir - Internal directory resolution
// ---------------------------------------------------------------------------

func TestDir(t *testing.T) {
	// NO t.Parallel() - uses t.Setenv

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")

		got, err := dir()
		if err != nil {
			t.Fatalf("dir() error = %v", err)
		}
		want := "/custom/config/go-highlights"
		if got != want {
			t.Errorf("dir() = %q, want %q", got, want)
		}
	})

	t.Run("uses home/.config when XDG not set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")

		home, err := os.UserHomeDir()
		if err != nil {
			t.Skipf("cannot get home dir: %v", err)
		}

		got, err := dir()
		if err != nil {
			t.Fatalf("dir() error = %v", err)
		}
		want := filepath.Join(home, ".config", "go-highlights")
		if got != want {
			t.Errorf("dir() = %q, want %q", got, want)
		}
	})
}
