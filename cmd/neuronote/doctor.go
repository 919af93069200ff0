package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/neuronote/internal/config"
	"github.com/leonardotrapani/neuronote/internal/deps"
	"github.com/leonardotrapani/neuronote/internal/insights"
	"github.com/leonardotrapani/neuronote/internal/models/whisper"
	"github.com/leonardotrapani/neuronote/internal/transcriber"
	"github.com/leonardotrapani/neuronote/internal/tui"
)

func doctorCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external programs, models and API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), cmd.OutOrStdout(), root.configPath)
		},
	}
}

func runDoctor(ctx context.Context, out io.Writer, configFlag string) error {
	path, err := config.ResolvePath(configFlag)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pr := tui.NewPrinter(out)
	pr.Header("Configuration")
	pr.Field("File", path)
	if err := cfg.Validate(); err != nil {
		pr.Error(err.Error())
		return err
	}
	pr.Success("valid")

	var problems []string

	pr.Header("Programs")
	statuses := deps.ForProvider(ctx, cfg.Transcription.Provider, cfg.Transcription.Binary)
	for _, s := range statuses {
		switch {
		case s.Installed:
			pr.Success(fmt.Sprintf("%s %s", s.Name, s.Version))
		case s.Required:
			pr.Error(s.Name + " not found")
		default:
			pr.Muted(s.Name + " not found (not needed for " + cfg.Transcription.Provider + ")")
		}
	}
	problems = append(problems, deps.Missing(statuses)...)

	pr.Header("Transcription")
	pr.Field("Provider", cfg.Transcription.Provider)
	pr.Field("Model", cfg.Transcription.Model)
	if cfg.Transcription.Provider == transcriber.ProviderWhisperCpp {
		reg := whisper.NewRegistry(cfg.Transcription.ModelsDir)
		if path, err := reg.InstalledPath(cfg.Transcription.Model); err == nil {
			pr.Success("model installed at " + path)
		} else if cfg.Transcription.AutoDownload {
			pr.Warn("model not installed, it will be downloaded on startup")
		} else {
			pr.Error(err.Error())
			problems = append(problems, "whisper model "+cfg.Transcription.Model)
		}
	} else if cfg.ToTranscriberConfig().APIKey == "" {
		pr.Error("no API key for " + cfg.Transcription.Provider)
		problems = append(problems, cfg.Transcription.Provider+" API key")
	} else {
		pr.Success("API key set")
	}

	pr.Header("Insights")
	ic := insights.Resolve(cfg.ToInsightsConfig())
	pr.Field("Provider", ic.Provider)
	pr.Field("Model", ic.Model)
	if ic.APIKey == "" {
		p, _ := insights.GetProvider(ic.Provider)
		pr.Error(p.KeyEnv + " is not set")
		problems = append(problems, p.KeyEnv)
	} else {
		pr.Success("API key set")
	}

	fmt.Fprintln(out)
	if len(problems) > 0 {
		return fmt.Errorf("not ready: %s", strings.Join(problems, ", "))
	}
	pr.Success("ready to serve")
	return nil
}
