package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"

	intconfig "github.com/leapstack-labs/dbprime/internal/config"
	"github.com/leapstack-labs/dbprime/pkg/driver"
	"github.com/leapstack-labs/dbprime/pkg/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// UpOptions holds options for the up command.
type UpOptions struct {
	All bool // provision every configured environment
}

// NewUpCommand creates the up command.
func NewUpCommand() *cobra.Command {
	opts := &UpOptions{}
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Connect and provision the target database and table",
		Long: `Connect to the target server, then make sure its database and table exist.

Each run opens one session: connect within the configured timeout, bind the
database name, create the database if it is absent, and create the table if
this run created the database. A database that already existed is left
untouched and the table step is skipped. Provisioning failures are reported
per step and do not abort the run; only a connection failure does.`,
		Example: `  # Provision the active environment's target
  dbprime up

  # Provision every configured environment concurrently
  dbprime up --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUp(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "Provision every configured environment")

	return cmd
}

func runUp(cmd *cobra.Command, opts *UpOptions) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	if !opts.All || len(cmdCtx.Cfg.Environments) == 0 {
		var mu sync.Mutex
		return provisionEnv(ctx, cmdCtx, cmdCtx.Cfg.Environment, "", &mu)
	}

	envs := make([]string, 0, len(cmdCtx.Cfg.Environments))
	for name := range cmdCtx.Cfg.Environments {
		envs = append(envs, name)
	}
	sort.Strings(envs)

	// Sessions are independent; one environment failing must not cancel the
	// others, so no shared-cancel group is used.
	var g errgroup.Group
	var mu sync.Mutex
	for _, env := range envs {
		g.Go(func() error {
			return provisionEnv(ctx, cmdCtx, env, env, &mu)
		})
	}
	return g.Wait()
}

// provisionEnv runs one full initialization session for an environment.
// label names the environment in output and logs; selector picks the
// environment override set (empty means the already-resolved base target).
func provisionEnv(ctx context.Context, cmdCtx *CommandContext, label, selector string, mu *sync.Mutex) error {
	target, err := cmdCtx.Cfg.ResolvedTarget(selector)
	if err != nil {
		return err
	}
	if err := intconfig.ValidateTarget(target); err != nil {
		return err
	}

	logger := cmdCtx.Logger.With("environment", label)

	drv, err := driver.New(*target, logger)
	if err != nil {
		return err
	}

	sess, report, err := session.Initialize(ctx, *target, drv, logger)
	if err != nil {
		return fmt.Errorf("environment %s: %w", label, err)
	}
	defer func() { _ = sess.Close() }()

	mu.Lock()
	defer mu.Unlock()
	return cmdCtx.Renderer.Report(label, report)
}
