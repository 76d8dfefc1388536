// Package cli provides the command-line interface for dbprime.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/dbprime/internal/cli/commands"
	"github.com/leapstack-labs/dbprime/internal/cli/config"
	"github.com/spf13/cobra"

	// Register the bundled drivers.
	_ "github.com/leapstack-labs/dbprime/pkg/drivers/duckdb"
	_ "github.com/leapstack-labs/dbprime/pkg/drivers/postgres"
	_ "github.com/leapstack-labs/dbprime/pkg/drivers/sqlite"
)

var (
	cfgFile string
	envFlag string
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbprime",
		Short: "dbprime - Database Session Provisioner",
		Long: `dbprime opens a session against a database server and makes sure the
database and table it needs exist, creating them when absent.

Each provisioning step reports created, exists, or failed; a failed step is
recorded and the run continues. Only a connection failure aborts.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			// Load configuration with optional environment override and CLI flags
			cfg, err := config.LoadConfigWithEnv(cfgFile, envFlag, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			// Wire the logger: debug on stderr when verbose, info otherwise
			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			ctx := context.WithValue(cmd.Context(), config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
				if envFlag != "" {
					fmt.Fprintf(os.Stderr, "Using environment: %s\n", envFlag)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Database session provisioner
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dbprime.yaml)")
	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", "", "Environment to use (e.g., dev, staging, prod)")
	rootCmd.PersistentFlags().String("type", "", "Target driver type (postgres|duckdb|sqlite)")
	rootCmd.PersistentFlags().String("host", "", "Target server host")
	rootCmd.PersistentFlags().Int("port", 0, "Target server port")
	rootCmd.PersistentFlags().String("user", "", "Target server user")
	rootCmd.PersistentFlags().String("password", "", "Target server password")
	rootCmd.PersistentFlags().String("path", "", "Database file path (file-based drivers)")
	rootCmd.PersistentFlags().String("database", "", "Database name to provision")
	rootCmd.PersistentFlags().String("table", "", "Table name to provision")
	rootCmd.PersistentFlags().Duration("connect-timeout", 0, "Connection timeout (e.g., 5s)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|plain|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "plain", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for env flag
	_ = rootCmd.RegisterFlagCompletionFunc("env", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"dev", "staging", "prod"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewUpCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewTargetsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dbprime.

To load completions:

Bash:
  $ source <(dbprime completion bash)

Zsh:
  $ dbprime completion zsh > "${fpath[1]}/_dbprime"

Fish:
  $ dbprime completion fish | source

PowerShell:
  PS> dbprime completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
