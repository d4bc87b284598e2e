// Package commands implements the ingrediguard operator CLI.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ingrediguard/internal/app"
	"ingrediguard/internal/config"
	"ingrediguard/internal/logging"
)

type options struct {
	configPath string
	verbose    bool
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "ingrediguard",
		Short:        "Allergen checks and menu administration",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $CONFIG_PATH)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		checkCmd(opts),
		allergensCmd(opts),
		importCmd(opts),
		exportCmd(opts),
		usersCmd(opts),
		versionCmd(),
	)
	return root
}

func (o *options) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.PathFromEnv()
	}
	return config.Load(path)
}

func (o *options) logger() *zap.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	log, err := logging.New(level, "console")
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// openApp builds the full service graph against the configured database.
// OCR is never started from the CLI.
func (o *options) openApp(ctx context.Context) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.OCR.Enabled = false
	return app.Build(ctx, cfg, o.logger(), nil)
}
