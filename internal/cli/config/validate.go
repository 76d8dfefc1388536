package config

import (
	intconfig "github.com/leapstack-labs/dbprime/internal/config"
)

// Validate checks if the configuration is valid.
// Target validation needs the driver registry populated, so callers must
// blank-import the drivers they support before validating.
func (c *Config) Validate() error {
	return intconfig.ValidateTarget(c.Target)
}
