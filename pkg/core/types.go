// Package core defines the shared types used across dbprime's session,
// driver, and CLI layers.
//
// Keeping these types dependency-free lets drivers and the CLI share them
// without import cycles.
package core

import (
	"strconv"
	"time"
)

// TargetConfig holds the connection target for one provisioning session.
// It is supplied once at session construction and never mutated afterwards.
type TargetConfig struct {
	Type string `koanf:"type"` // postgres, duckdb, sqlite

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// File-based databases (DuckDB, SQLite)
	Path string `koanf:"path"`

	// Names provisioned by the session
	Database string `koanf:"database"`
	Table    string `koanf:"table"`

	// ConnectTimeout bounds the connect step only; later steps are bounded
	// by the caller's context.
	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// Addr returns the host:port form of the target, or the file path for
// file-based targets.
func (t TargetConfig) Addr() string {
	if t.Host == "" {
		return t.Path
	}
	if t.Port == 0 {
		return t.Host
	}
	return t.Host + ":" + strconv.Itoa(t.Port)
}
