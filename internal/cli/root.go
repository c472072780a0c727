package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"smartcal/internal/config"
	"smartcal/internal/logger"
)

// RootOptions holds global flags and the resolved configuration shared
// by all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	Config *config.Config
}

// NewRootCommand creates the root command for the smartcal CLI
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "smartcal",
		Short: "Weather-triggered camera test reminder agent",
		Long: "smartcal watches the local temperature, and when warmth is sustained " +
			"asks a local LLM whether it is time to remind you to test the outside " +
			"camera setup. Designed to run from cron every 30 minutes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "optional config.yaml with tuning overrides")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewSnoozeCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewDoneCommand(opts))

	return cmd
}

// load resolves configuration and initializes logging. Local .env
// support; k8s env vars simply take effect directly.
func (o *RootOptions) load() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if o.ConfigPath != "" {
		file, err := config.LoadFile(o.ConfigPath)
		if err != nil {
			return err
		}
		if err := cfg.ApplyFile(file); err != nil {
			return err
		}
	}

	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}

	o.Config = cfg
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
