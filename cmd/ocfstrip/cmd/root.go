package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calebcase/ocf/internal/config"
)

// app is the state shared by the subcommands once the root command has
// loaded the configuration.
type app struct {
	config *config.Config
	log    *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{
		config: config.DefaultConfig(),
		log:    zap.NewNop(),
	}

	cmd := &cobra.Command{
		Use:   "ocfstrip",
		Short: "Rewrite Avro object container files",
		Long: `ocfstrip rewrites Avro object container files as a stream, dropping
record fields and adjusting the embedded schema without buffering the file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			path, _ := cmd.Flags().GetString("config")
			if path != "" {
				a.config, err = config.Load(path)
				if err != nil {
					return err
				}
			}

			if cmd.Flags().Changed("log-level") {
				a.config.Log.Level, _ = cmd.Flags().GetString("log-level")
			}

			a.log, err = newLogger(a.config)

			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newStripCmd(a),
		newInspectCmd(a),
	)

	return cmd
}

func newLogger(c *config.Config) (*zap.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if level == zap.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
