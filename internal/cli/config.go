package cli

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ferrovax/go-highlights/internal/config"
)

// validConfigKeys lists all supported configuration keys.
var validConfigKeys = []string{
	config.KeyArtifactsDir,
	config.KeyOutputDir,
	config.KeyPreRoll,
	config.KeyPostRoll,
}

// envVarForKey maps config keys to their environment variable fallbacks.
var envVarForKey = map[string]string{
	config.KeyArtifactsDir: config.EnvArtifactsDir,
	config.KeyOutputDir:    config.EnvOutputDir,
	config.KeyPreRoll:      config.EnvPreRoll,
	config.KeyPostRoll:     config.EnvPostRoll,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/go-highlights/config.
Settings can also be overridden via environment variables.

Supported settings:
  artifacts-dir  Root for audiobooks, clips, and credentials (env: HIGHLIGHTS_ARTIFACTS_DIR)
  output-dir     Default directory for output files (env: HIGHLIGHTS_OUTPUT_DIR)
  pre-roll-ms    Milliseconds of lead-in before each annotation (env: HIGHLIGHTS_PRE_ROLL_MS)
  post-roll-ms   Milliseconds of tail after each annotation (env: HIGHLIGHTS_POST_ROLL_MS)`,
		Example: `  highlights config set output-dir ~/Documents/highlights
  highlights config set pre-roll-ms 5000
  highlights config get artifacts-dir
  highlights config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Supported keys:
  artifacts-dir  Root for audiobooks, clips, and credentials
  output-dir     Default directory for output files
  pre-roll-ms    Milliseconds of lead-in before each annotation
  post-roll-ms   Milliseconds of tail after each annotation

Directories will be created if they don't exist. Roll values must be
non-negative integers.`,
		Example: `  highlights config set output-dir ~/Documents/highlights
  highlights config set pre-roll-ms 5000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			return runConfigSet(env, key, value)
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  highlights config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable overrides.`,
		Example: `  highlights config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(cmd, env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	// Validate key.
	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	// Key-specific validation.
	switch key {
	case config.KeyArtifactsDir, config.KeyOutputDir:
		// Expand ~ and validate directory.
		expanded := config.ExpandPath(value)
		if err := config.EnsureOutputDir(expanded); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		// Store the expanded path for consistency.
		value = expanded
	case config.KeyPreRoll, config.KeyPostRoll:
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil || ms < 0 {
			return fmt.Errorf("invalid %s: %q is not a non-negative integer", key, value)
		}
	}

	// Save to config file.
	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(cmd *cobra.Command, env *Env, key string) error {
	// Validate key.
	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		value = env.Getenv(envVarForKey[key])
	}

	if value != "" {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(cmd *cobra.Command, env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for _, key := range validConfigKeys {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(envVarForKey[key]); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	out := cmd.OutOrStdout()
	if len(data) == 0 {
		fmt.Fprintln(out, "No configuration set.")
		fmt.Fprintln(out, "\nAvailable settings:")
		for _, key := range validConfigKeys {
			fmt.Fprintf(out, "  %s\n", key)
		}
		return nil
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "%s=%s\n", key, data[key])
	}

	return nil
}

// isValidConfigKey checks if a key is a valid configuration key.
func isValidConfigKey(key string) bool {
	return slices.Contains(validConfigKeys, key)
}
