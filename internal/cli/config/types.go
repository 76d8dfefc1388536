// Package config provides configuration management for the dbprime CLI.
//
// Configuration is layered: built-in defaults, then dbprime.yaml, then
// DBPRIME_* environment variables, then CLI flags. Environments add named
// target overrides on top of the base target.
package config

import (
	"github.com/leapstack-labs/dbprime/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
// This allows CLI code to use config.TargetConfig without importing pkg/core.
type TargetConfig = core.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	Target       *TargetConfig        `koanf:"target"`
	Environments map[string]EnvConfig `koanf:"environments"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultEnv    = "dev"
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=plain
)
