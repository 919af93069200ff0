package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/neuronote/internal/config"
	"github.com/leonardotrapani/neuronote/internal/transcriber"
	"github.com/leonardotrapani/neuronote/internal/tui"
)

func configureCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration form for neuronote.
This will guide you through setting up:
- the transcription backend (local whisper.cpp or an API)
- the insights provider and its API key
- the server address, output directory and file logging`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd.OutOrStdout(), root.configPath)
		},
	}
}

func runConfigure(out io.Writer, configFlag string) error {
	path, err := config.ResolvePath(configFlag)
	if err != nil {
		return err
	}

	// the file alone, so environment overrides are not written back
	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pr := tui.NewPrinter(out)
	pr.Logo()
	fmt.Fprintln(out)

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration form error: %w", err)
	}
	if result.Cancelled {
		fmt.Fprintln(out, "Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		pr.Error(fmt.Sprintf("Configuration validation failed: %v", err))
		return err
	}

	if err := config.Save(path, result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(out)
	pr.Success("Configuration saved to " + path)
	fmt.Fprintln(out)
	pr.Header("Next steps")
	if result.Config.Transcription.Provider == transcriber.ProviderWhisperCpp {
		fmt.Fprintf(out, "1. Download the model: neuronote models download %s\n", result.Config.Transcription.Model)
	} else {
		fmt.Fprintln(out, "1. Make sure the transcription API key is set")
	}
	fmt.Fprintln(out, "2. Start the API: neuronote serve")
	return nil
}
