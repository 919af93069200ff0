package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/leonardotrapani/neuronote/internal/config"
	"github.com/leonardotrapani/neuronote/internal/insights"
	"github.com/leonardotrapani/neuronote/internal/logging"
	"github.com/leonardotrapani/neuronote/internal/transcriber"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "neuronote",
		Short:        "Transcribe meeting recordings and generate meeting insights",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default $NEURONOTE_CONFIG or $XDG_CONFIG_HOME/neuronote/config.toml)")

	cmd.AddCommand(
		serveCmd(opts),
		processCmd(opts),
		modelsCmd(),
		configureCmd(opts),
		doctorCmd(opts),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "neuronote %s\n", version)
		},
	}
}

// services are the process-wide adapters shared by serve and process.
type services struct {
	transcriber *transcriber.Service
	insights    *insights.Service
}

// initServices is replaced in tests.
var initServices = func(ctx context.Context, cfg *config.Config, log zerolog.Logger) services {
	return services{
		transcriber: transcriber.Load(ctx, cfg.ToTranscriberConfig(), nil, log),
		insights:    insights.Init(cfg.ToInsightsConfig(), log),
	}
}

// ready fails when either adapter could not be initialized.
func (s services) ready() error {
	if !s.transcriber.Ready() {
		return fmt.Errorf("transcription model unavailable: %w", s.transcriber.Err())
	}
	if !s.insights.Ready() {
		return fmt.Errorf("insights model unavailable: %w", s.insights.Err())
	}
	return nil
}

// setupLogging builds the root logger for cfg. Console output goes to w.
func setupLogging(cfg *config.Config, w io.Writer) (zerolog.Logger, io.Closer) {
	lc := cfg.ToLoggingConfig()
	lc.Output = w
	return logging.New(lc)
}

// loggerForStartup is used until the configuration, and with it the real
// logger, has been loaded.
func loggerForStartup() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
