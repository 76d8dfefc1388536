package commands

import (
	"context"
	"fmt"
	"slices"

	intconfig "github.com/leapstack-labs/dbprime/internal/config"
	"github.com/leapstack-labs/dbprime/pkg/driver"
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe the target without provisioning anything",
		Long: `Connect to the target server and report whether the configured database
and table currently exist. Nothing is created; the connection is the only
side effect.`,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	target, err := cmdCtx.Cfg.ResolvedTarget("")
	if err != nil {
		return err
	}
	if err := intconfig.ValidateTarget(target); err != nil {
		return err
	}

	drv, err := driver.New(*target, cmdCtx.Logger)
	if err != nil {
		return err
	}

	connectCtx := ctx
	if target.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, target.ConnectTimeout)
		defer cancel()
	}
	if err := drv.Connect(connectCtx, *target); err != nil {
		return fmt.Errorf("server unreachable at %s: %w", target.Addr(), err)
	}
	defer func() { _ = drv.Close() }()
	drv.Use(target.Database)

	fmt.Fprintf(out, "server reachable at %s (%s)\n", target.Addr(), drv.Name())

	dbs, err := drv.ListDatabases(ctx)
	if err != nil {
		return fmt.Errorf("failed to list databases: %w", err)
	}

	if !slices.Contains(dbs, target.Database) {
		fmt.Fprintf(out, "database %q absent\n", target.Database)
		fmt.Fprintf(out, "table %q not checked (database absent)\n", target.Table)
		return nil
	}
	fmt.Fprintf(out, "database %q present\n", target.Database)

	tables, err := drv.ListTables(ctx, target.Database)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	if slices.Contains(tables, target.Table) {
		fmt.Fprintf(out, "table %q present\n", target.Table)
	} else {
		fmt.Fprintf(out, "table %q absent\n", target.Table)
	}

	return nil
}
