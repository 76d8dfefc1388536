package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/leapstack-labs/dbprime/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadCheckConfig loads a sqlite target config so the check command can pick
// it up from the package-level config state.
func loadCheckConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	content := fmt.Sprintf(`
target:
  type: sqlite
  path: %s
  database: default
  table: users
`, filepath.Join(dir, "primary.db"))
	path := filepath.Join(dir, "dbprime.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.LoadConfig(path, nil)
	require.NoError(t, err)
	return cfg
}

func runCheckCommand(t *testing.T) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCheckCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestCheckCommand_DatabaseAbsent(t *testing.T) {
	dir := t.TempDir()
	loadCheckConfig(t, dir)

	out := runCheckCommand(t)
	assert.Contains(t, out, "server reachable")
	assert.Contains(t, out, `database "default" absent`)
	assert.Contains(t, out, `table "users" not checked (database absent)`)
}

func TestCheckCommand_AfterProvisioning(t *testing.T) {
	dir := t.TempDir()
	cfg := loadCheckConfig(t, dir)

	var mu sync.Mutex
	cmdCtx, _ := testCommandContext(t, cfg)
	require.NoError(t, provisionEnv(context.Background(), cmdCtx, "dev", "", &mu))

	out := runCheckCommand(t)
	assert.Contains(t, out, `database "default" present`)
	assert.Contains(t, out, `table "users" present`)
}
