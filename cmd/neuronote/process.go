package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/neuronote/internal/config"
	"github.com/leonardotrapani/neuronote/internal/pipeline"
	"github.com/leonardotrapani/neuronote/internal/storage"
	"github.com/leonardotrapani/neuronote/internal/tui"
)

func processCmd(root *rootOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "process <audio-file>",
		Short: "Transcribe a local recording and print its insights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), cmd.OutOrStdout(), root.configPath, args[0], quiet)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the insights text")
	return cmd
}

func runProcess(ctx context.Context, out io.Writer, configFlag, audioPath string, quiet bool) error {
	if _, err := os.Stat(audioPath); err != nil {
		return fmt.Errorf("audio file: %w", err)
	}

	path, err := config.ResolvePath(configFlag)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer := setupLogging(cfg, os.Stderr)
	defer closer.Close()

	svcs := initServices(ctx, cfg, log)
	if err := svcs.ready(); err != nil {
		return err
	}

	pr := tui.NewPrinter(out)
	opts := []pipeline.Option{pipeline.WithLogger(log)}
	if !quiet {
		opts = append(opts, pipeline.WithObserver(func(_ string, s pipeline.Status) {
			switch s {
			case pipeline.Transcribing:
				pr.Muted("transcribing " + audioPath + "...")
			case pipeline.GeneratingInsights:
				pr.Muted("generating insights...")
			}
		}))
	}

	store := storage.New(cfg.Storage.OutputDir, cfg.Storage.UploadDir, log)
	meetingID := storage.NewIDGenerator(nil).Next()
	res, err := pipeline.New(svcs.transcriber, svcs.insights, store, opts...).Process(ctx, audioPath, meetingID)
	if err != nil {
		return err
	}

	if quiet {
		fmt.Fprintln(out, res.Insights)
		return nil
	}

	fmt.Fprintln(out)
	pr.Header("Meeting insights")
	pr.Box(res.Insights)
	pr.Field("Meeting", res.MeetingID)
	pr.Path("Transcript", res.TranscriptPath)
	pr.Path("Insights", res.InsightsPath)
	return nil
}
