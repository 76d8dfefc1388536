package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/leapstack-labs/dbprime/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainRenderer(out, errOut *bytes.Buffer) *Renderer {
	return NewRenderer(out, errOut, ModePlain)
}

func TestOutcomeLine(t *testing.T) {
	tests := []struct {
		name    string
		outcome core.Outcome
		want    string
	}{
		{
			name:    "created",
			outcome: core.Outcome{Entity: core.EntityDatabase, Name: "default", Status: core.StatusCreated},
			want:    `✓ database "default" created`,
		},
		{
			name:    "existed",
			outcome: core.Outcome{Entity: core.EntityDatabase, Name: "default", Status: core.StatusExisted},
			want:    `• database "default" already exists`,
		},
		{
			name:    "failed with cause",
			outcome: core.Outcome{Entity: core.EntityTable, Name: "users", Status: core.StatusFailed, Err: errors.New("boom")},
			want:    `✗ table "users" provisioning failed: boom`,
		},
		{
			name:    "failed without cause",
			outcome: core.Outcome{Entity: core.EntityTable, Name: "users", Status: core.StatusFailed},
			want:    `✗ table "users" provisioning failed`,
		},
		{
			name:    "skipped",
			outcome: core.Outcome{Entity: core.EntityTable, Name: "users", Status: core.StatusSkipped},
			want:    `- table "users" skipped`,
		},
	}

	var out, errOut bytes.Buffer
	r := plainRenderer(&out, &errOut)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.OutcomeLine(tt.outcome))
		})
	}
}

func TestReport_Plain(t *testing.T) {
	var out, errOut bytes.Buffer
	r := plainRenderer(&out, &errOut)

	rep := core.Report{
		SessionID: "abc",
		Database:  core.Outcome{Entity: core.EntityDatabase, Name: "default", Status: core.StatusCreated},
		Table:     core.Outcome{Entity: core.EntityTable, Name: "users", Status: core.StatusCreated},
	}
	require.NoError(t, r.Report("dev", rep))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "dev:", lines[0])
	assert.Contains(t, lines[1], `database "default" created`)
	assert.Contains(t, lines[2], `table "users" created`)
}

func TestReport_NoEnvHeader(t *testing.T) {
	var out, errOut bytes.Buffer
	r := plainRenderer(&out, &errOut)

	rep := core.Report{
		Database: core.Outcome{Entity: core.EntityDatabase, Name: "default", Status: core.StatusExisted},
		Table:    core.Outcome{Entity: core.EntityTable, Name: "users", Status: core.StatusSkipped},
	}
	require.NoError(t, r.Report("", rep))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], ":")
}

func TestReport_JSON(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeJSON)

	rep := core.Report{
		SessionID: "abc-123",
		Database:  core.Outcome{Entity: core.EntityDatabase, Name: "default", Status: core.StatusFailed, Err: errors.New("boom")},
		Table:     core.Outcome{Entity: core.EntityTable, Name: "users", Status: core.StatusSkipped},
	}
	require.NoError(t, r.Report("prod", rep))

	var decoded struct {
		Environment string `json:"environment"`
		Session     string `json:"session"`
		Database    struct {
			Name   string `json:"name"`
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"database"`
		Table struct {
			Name   string `json:"name"`
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))

	assert.Equal(t, "prod", decoded.Environment)
	assert.Equal(t, "abc-123", decoded.Session)
	assert.Equal(t, "failed", decoded.Database.Status)
	assert.Equal(t, "boom", decoded.Database.Error)
	assert.Equal(t, "skipped", decoded.Table.Status)
	assert.Empty(t, decoded.Table.Error)
}

func TestResolveMode(t *testing.T) {
	// Explicit modes pass through untouched; auto resolves to plain when
	// stdout is not a terminal, which is always the case under go test.
	assert.Equal(t, ModeJSON, resolveMode(ModeJSON))
	assert.Equal(t, ModeText, resolveMode(ModeText))
	assert.Equal(t, ModePlain, resolveMode(ModeAuto))
	assert.Equal(t, ModePlain, resolveMode(""))
}

func TestErrorf(t *testing.T) {
	var out, errOut bytes.Buffer
	r := plainRenderer(&out, &errOut)

	r.Errorf("environment %s: %v", "prod", errors.New("unreachable"))
	assert.Equal(t, "environment prod: unreachable\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestStylesForStatus(t *testing.T) {
	styles := DefaultStyles()
	assert.Equal(t, styles.Created.GetForeground(), styles.ForStatus(core.StatusCreated).GetForeground())
	assert.Equal(t, styles.Existed.GetForeground(), styles.ForStatus(core.StatusExisted).GetForeground())
	assert.Equal(t, styles.Failed.GetForeground(), styles.ForStatus(core.StatusFailed).GetForeground())
	assert.Equal(t, styles.Skipped.GetForeground(), styles.ForStatus(core.StatusSkipped).GetForeground())
}
