package commands

import (
	"log/slog"

	"github.com/leapstack-labs/dbprime/internal/cli/config"
	"github.com/leapstack-labs/dbprime/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's loaded
// configuration and context logger.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		// Help paths skip config loading; fall back to defaults.
		cfg = &config.Config{
			Environment:  config.DefaultEnv,
			OutputFormat: config.DefaultOutput,
		}
	}

	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}
