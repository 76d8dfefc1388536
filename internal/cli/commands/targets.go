package commands

import (
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewTargetsCommand creates the targets command.
func NewTargetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List configured environments and their targets",
		RunE:  runTargets,
	}
}

func runTargets(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	envs := make([]string, 0, len(cfg.Environments))
	for name := range cfg.Environments {
		envs = append(envs, name)
	}
	sort.Strings(envs)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Environment", "Type", "Target", "Database", "Table", "Timeout"})

	appendRow := func(name string, selector string) error {
		target, err := cfg.ResolvedTarget(selector)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{
			name,
			target.Type,
			target.Addr(),
			target.Database,
			target.Table,
			target.ConnectTimeout.Round(time.Millisecond).String(),
		})
		return nil
	}

	// The active environment's overrides are already merged into the base
	// target at load time.
	if err := appendRow(cfg.Environment+" (active)", ""); err != nil {
		return err
	}
	for _, env := range envs {
		if env == cfg.Environment {
			continue
		}
		if err := appendRow(env, env); err != nil {
			return err
		}
	}

	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}
