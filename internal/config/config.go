package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/ferrovax/go-highlights/internal/annotation"
)

// Config keys.
const (
	KeyArtifactsDir = "artifacts-dir"
	KeyOutputDir    = "output-dir"
	KeyPreRoll      = "pre-roll-ms"
	KeyPostRoll     = "post-roll-ms"
)

// envPrefix is the prefix for environment variable fallbacks,
// e.g. HIGHLIGHTS_ARTIFACTS_DIR, HIGHLIGHTS_PRE_ROLL_MS.
const envPrefix = "highlights"

// Environment variable names for the config keys.
const (
	EnvArtifactsDir = "HIGHLIGHTS_ARTIFACTS_DIR"
	EnvOutputDir    = "HIGHLIGHTS_OUTPUT_DIR"
	EnvPreRoll      = "HIGHLIGHTS_PRE_ROLL_MS"
	EnvPostRoll     = "HIGHLIGHTS_POST_ROLL_MS"
)

// Config holds user configuration loaded from ~/.config/go-highlights/config.
type Config struct {
	// ArtifactsDir is the root under which per-title audiobooks, clips,
	// and transcriptions are stored. Defaults to ~/.go-highlights.
	ArtifactsDir string

	// OutputDir is where exports (bookmarks.json) land when no explicit
	// path is given. Empty means the current directory.
	OutputDir string

	// PreRollMs is subtracted from each raw annotation position before
	// slicing. Defaults to annotation.DefaultPreRoll.
	PreRollMs int64

	// PostRollMs is added after each raw annotation end position.
	// Defaults to annotation.DefaultPostRoll.
	PostRollMs int64
}

// envOverrides mirrors Config with string fields so a variable that is
// set but empty reads as unset instead of a parse error.
type envOverrides struct {
	ArtifactsDir string `envconfig:"ARTIFACTS_DIR"`
	OutputDir    string `envconfig:"OUTPUT_DIR"`
	PreRollMs    string `envconfig:"PRE_ROLL_MS"`
	PostRollMs   string `envconfig:"POST_ROLL_MS"`
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/go-highlights.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "go-highlights"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "go-highlights"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment fallbacks
// (HIGHLIGHTS_* via envconfig), then built-in defaults.
// A missing config file is not an error.
func Load() (Config, error) {
	// Sentinel -1 distinguishes "unset" from an explicit zero roll.
	cfg := Config{PreRollMs: -1, PostRollMs: -1}

	p, err := path()
	if err != nil {
		return defaults(cfg), err
	}

	if data, err := parseFile(p); err == nil {
		cfg.ArtifactsDir = data[KeyArtifactsDir]
		cfg.OutputDir = data[KeyOutputDir]
		if v, ok := data[KeyPreRoll]; ok {
			if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms >= 0 {
				cfg.PreRollMs = ms
			}
		}
		if v, ok := data[KeyPostRoll]; ok {
			if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms >= 0 {
				cfg.PostRollMs = ms
			}
		}
	} else if !os.IsNotExist(err) {
		return defaults(cfg), fmt.Errorf("failed to read config: %w", err)
	}

	// Environment fallbacks fill only what the file left unset.
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return defaults(cfg), fmt.Errorf("failed to read environment: %w", err)
	}
	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = env.ArtifactsDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = env.OutputDir
	}
	if cfg.PreRollMs < 0 && env.PreRollMs != "" {
		if ms, err := strconv.ParseInt(env.PreRollMs, 10, 64); err == nil && ms >= 0 {
			cfg.PreRollMs = ms
		}
	}
	if cfg.PostRollMs < 0 && env.PostRollMs != "" {
		if ms, err := strconv.ParseInt(env.PostRollMs, 10, 64); err == nil && ms >= 0 {
			cfg.PostRollMs = ms
		}
	}

	return defaults(cfg), nil
}

// defaults fills remaining zero/sentinel values with built-in defaults.
func defaults(cfg Config) Config {
	if cfg.ArtifactsDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.ArtifactsDir = filepath.Join(home, ".go-highlights")
		} else {
			cfg.ArtifactsDir = ".go-highlights"
		}
	} else {
		cfg.ArtifactsDir = ExpandPath(cfg.ArtifactsDir)
	}
	if cfg.PreRollMs < 0 {
		cfg.PreRollMs = annotation.DefaultPreRoll
	}
	if cfg.PostRollMs < 0 {
		cfg.PostRollMs = annotation.DefaultPostRoll
	}
	return cfg
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w at line %d: %q", ErrInvalidSyntax, lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		data[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\n") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	p, err := path()
	if err != nil {
		return err
	}

	// Ensure config directory exists.
	d := filepath.Dir(p)
	if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	// Read existing config (if any).
	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}

	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file.
func writeFile(p string, data map[string]string) error {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	for key, value := range data {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return data[key], nil
}

// List returns all config values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// ResolveOutputPath resolves the final output path using the following precedence:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
func ResolveOutputPath(output, outputDir, defaultName string) string {
	// Case 1: Explicit absolute path - use as-is.
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}

	// Case 2: Explicit relative path - combine with outputDir if set.
	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}

	// Case 3: No output specified - use default name.
	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// EnsureOutputDir validates that the given path is a writable directory,
// creating it (and any parents) if missing. The path may start with ~.
func EnsureOutputDir(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty path", ErrNotDirectory)
	}

	p = ExpandPath(p)

	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(p, 0750); mkErr != nil { // #nosec G301 -- user-chosen output dir
				return fmt.Errorf("cannot create directory %s: %w", p, mkErr)
			}
			return nil
		}
		return fmt.Errorf("cannot access %s: %w", p, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, p)
	}

	// Probe writability; a mode check misses ACLs and read-only mounts.
	probe := filepath.Join(p, ".highlights-write-check")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY, 0600) // #nosec G304 -- probe inside validated dir
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotWritable, p)
	}
	_ = f.Close()
	_ = os.Remove(probe)

	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[1:])
	}
	return p
}

// Dir returns the configuration directory path (exported for testing).
func Dir() (string, error) {
	return dir()
}

// ParseFile reads a key=value config file (exported for testing).
func ParseFile(p string) (map[string]string, error) {
	return parseFile(p)
}
