package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/neuronote/internal/config"
	"github.com/leonardotrapani/neuronote/internal/logging"
	"github.com/leonardotrapani/neuronote/internal/metrics"
	"github.com/leonardotrapani/neuronote/internal/pipeline"
	"github.com/leonardotrapani/neuronote/internal/server"
	"github.com/leonardotrapani/neuronote/internal/storage"
)

func serveCmd(root *rootOptions) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

POST /recorded-audio accepts a multipart "file" with a meeting recording,
transcribes it, generates insights and saves both under the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root.configPath, host, port)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config and HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config and PORT)")
	return cmd
}

func runServe(ctx context.Context, configFlag, host string, port int) error {
	path, err := config.ResolvePath(configFlag)
	if err != nil {
		return err
	}

	mgr, err := config.NewManager(path, loggerForStartup())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := mgr.GetConfig()
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	log, closer := setupLogging(cfg, os.Stderr)
	defer closer.Close()

	mgr.OnChange(func(c *config.Config) {
		logging.SetLevel(c.Log.Level)
		log.Info().Str("level", c.Log.Level).Msg("applied reloaded log level")
	})
	if _, err := os.Stat(filepath.Dir(path)); err == nil {
		if err := mgr.StartWatching(ctx); err != nil {
			log.Warn().Err(err).Msg("config hot reload disabled")
		} else {
			defer mgr.Stop()
		}
	}

	svcs := initServices(ctx, cfg, log)
	if err := svcs.ready(); err != nil {
		log.Error().Err(err).Msg("cannot serve requests")
		return err
	}

	m := metrics.New()
	store := storage.New(cfg.Storage.OutputDir, cfg.Storage.UploadDir, log)
	p := pipeline.New(svcs.transcriber, svcs.insights, store,
		pipeline.WithMetrics(m),
		pipeline.WithLogger(log),
	)

	srv := server.New(server.Deps{
		Processor:   p,
		Uploads:     store,
		IDs:         storage.NewIDGenerator(nil),
		Metrics:     m,
		Transcriber: svcs.transcriber,
		Insights:    svcs.insights,
		Log:         log,
	}, server.Options{
		Addr:              cfg.Addr(),
		Debug:             cfg.Server.Debug,
		MaxUploadBytes:    cfg.Server.MaxUploadMB << 20,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	})

	log.Info().
		Str("addr", cfg.Addr()).
		Str("output_dir", store.Root()).
		Msg("starting neuronote")
	return srv.Run(ctx)
}
