// Package config provides shared configuration defaults and validation for
// dbprime. It is decoupled from CLI concerns so other tools can load target
// configuration without pulling in cobra.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/dbprime/pkg/core"
	"github.com/leapstack-labs/dbprime/pkg/driver"
)

// Default configuration values.
const (
	DefaultEnv            = "dev"
	DefaultDatabase       = "default"
	DefaultConnectTimeout = 5 * time.Second
)

// ApplyTargetDefaults applies default values to a TargetConfig based on the
// target type.
func ApplyTargetDefaults(t *core.TargetConfig) {
	if t == nil {
		return
	}

	if t.Database == "" {
		t.Database = DefaultDatabase
	}
	if t.ConnectTimeout == 0 {
		t.ConnectTimeout = DefaultConnectTimeout
	}

	// Apply type-specific defaults
	if t.Type == "postgres" && t.Port == 0 {
		t.Port = 5432
	}
}

// ValidateTarget checks if the target configuration is valid.
// It uses the driver registry to determine which driver types are available.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil {
		return fmt.Errorf("target configuration is required")
	}
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	// Use driver registry as single source of truth
	if !driver.IsRegistered(strings.ToLower(t.Type)) {
		return &driver.UnknownDriverError{
			Type:      t.Type,
			Available: driver.ListDrivers(),
		}
	}

	if t.Table == "" {
		return fmt.Errorf("target table is required")
	}

	return nil
}
