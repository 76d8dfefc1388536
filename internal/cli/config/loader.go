package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/dbprime/internal/config"
	"github.com/leapstack-labs/dbprime/pkg/core"
	"github.com/spf13/pflag"
)

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// findConfigFile finds the config file to use.
// Priority: explicit path > dbprime.yaml > dbprime.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("dbprime.yaml"); err == nil {
		return "dbprime.yaml"
	}
	if _, err := os.Stat("dbprime.yml"); err == nil {
		return "dbprime.yml"
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithEnv(cfgFile, "", flags)
}

// LoadConfigWithEnv loads configuration with an optional environment
// override. The envOverride parameter selects which environment's target
// overrides apply on top of the base target.
func LoadConfigWithEnv(cfgFile string, envOverride string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"environment": DefaultEnv,
		"verbose":     false,
		"output":      DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (DBPRIME_ prefix)
	// Transform: DBPRIME_TARGET_HOST -> target.host
	if err := k.Load(env.Provider("DBPRIME_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "DBPRIME_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")

			// --env selects the environment; map it onto the environment key
			if key == "env" {
				return "environment", posflag.FlagVal(flags, f)
			}

			// Target-level flags map onto the target block
			switch key {
			case "type", "host", "port", "user", "password", "path",
				"database", "table", "connect_timeout":
				return "target." + key, posflag.FlagVal(flags, f)
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Determine which environment to use for target selection
	envForTarget := cfg.Environment
	if envOverride != "" {
		envForTarget = envOverride
		cfg.Environment = envOverride
	}

	// Apply environment-specific target overrides
	if envForTarget != "" && cfg.Environments != nil {
		if envCfg, ok := cfg.Environments[envForTarget]; ok && envCfg.Target != nil {
			cfg.Target = MergeTargetConfig(cfg.Target, envCfg.Target)
		}
	}

	if cfg.Target == nil {
		cfg.Target = &core.TargetConfig{}
	}

	// Apply defaults based on target type
	intconfig.ApplyTargetDefaults(cfg.Target)

	// Expand environment variables in target
	expandTargetEnvVars(cfg.Target)

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// ResolvedTarget returns the target for a named environment, merged over the
// base target with defaults and env var expansion applied. It does not
// mutate the loaded config.
func (c *Config) ResolvedTarget(envName string) (*core.TargetConfig, error) {
	target := c.Target
	if envName != "" && envName != c.Environment {
		envCfg, ok := c.Environments[envName]
		if !ok {
			return nil, fmt.Errorf("environment %q is not configured", envName)
		}
		target = MergeTargetConfig(c.Target, envCfg.Target)
	}
	if target == nil {
		return nil, fmt.Errorf("no target configured")
	}

	// Copy so per-environment resolution cannot leak into the base target.
	resolved := *target
	intconfig.ApplyTargetDefaults(&resolved)
	expandTargetEnvVars(&resolved)
	return &resolved, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig or LoadConfigWithEnv is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// expandEnvVars expands ${VAR} patterns in a string with environment
// variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *core.TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
	t.Path = expandEnvVars(t.Path)
}

// MergeTargetConfig merges two target configs, with override taking precedence.
func MergeTargetConfig(base, override *core.TargetConfig) *core.TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a copy of base
	merged := *base
	merged.Options = make(map[string]string, len(base.Options))
	for k, v := range base.Options {
		merged.Options[k] = v
	}

	// Apply overrides
	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.Table != "" {
		merged.Table = override.Table
	}
	if override.ConnectTimeout != 0 {
		merged.ConnectTimeout = override.ConnectTimeout
	}

	// Merge options
	for k, v := range override.Options {
		merged.Options[k] = v
	}

	return &merged
}
