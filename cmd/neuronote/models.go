package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardotrapani/neuronote/internal/models/whisper"
	"github.com/leonardotrapani/neuronote/internal/tui"
)

type modelsOptions struct {
	dir          string
	source       string
	multilingual bool
}

func modelsCmd() *cobra.Command {
	opts := &modelsOptions{}
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage local whisper models",
	}
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "models directory (default "+whisper.DefaultModelsDir()+")")
	cmd.PersistentFlags().StringVar(&opts.source, "source", "", "download base URL")
	_ = cmd.PersistentFlags().MarkHidden("source")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List whisper models and whether they are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelList(cmd.OutOrStdout(), opts.registry(), opts.multilingual)
		},
	}
	listCmd.Flags().BoolVar(&opts.multilingual, "multilingual", false, "only models that support languages other than English")

	cmd.AddCommand(
		listCmd,
		&cobra.Command{
			Use:   "download <model-id>",
			Short: "Download a whisper model",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runModelDownload(cmd.Context(), cmd.OutOrStdout(), opts.registry(), args[0])
			},
		},
		&cobra.Command{
			Use:   "remove <model-id>",
			Short: "Remove a downloaded whisper model",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runModelRemove(cmd.OutOrStdout(), opts.registry(), args[0])
			},
		},
	)
	return cmd
}

func (o *modelsOptions) registry() *whisper.Registry {
	return whisper.NewRegistry(o.dir).WithSource(o.source, nil)
}

func runModelList(out io.Writer, reg *whisper.Registry, multilingual bool) error {
	pr := tui.NewPrinter(out)
	pr.Header("Whisper models")
	pr.Muted(reg.Dir())
	fmt.Fprintln(out)

	list := whisper.ListModels()
	if multilingual {
		list = whisper.ListMultilingualModels()
	}
	for _, m := range list {
		status := "  "
		if reg.IsInstalled(m.ID) {
			status = "✓ "
		}
		lang := "multilingual"
		if !m.Multilingual {
			lang = "english"
		}
		def := ""
		if m.ID == whisper.DefaultModelID {
			def = " (default)"
		}
		fmt.Fprintf(out, "%s%-16s %-7s %s%s\n", status, m.ID, m.Size, lang, def)
	}

	fmt.Fprintln(out)
	if installed := reg.ListInstalled(); len(installed) > 0 {
		pr.Success(fmt.Sprintf("%d installed: %s", len(installed), strings.Join(installed, ", ")))
	} else {
		pr.Warn("no models installed (run: neuronote models download " + whisper.DefaultModelID + ")")
	}
	return nil
}

func runModelDownload(ctx context.Context, out io.Writer, reg *whisper.Registry, modelID string) error {
	info := whisper.GetModel(modelID)
	if info == nil {
		return fmt.Errorf("unknown model: %s (run 'neuronote models list')", modelID)
	}

	if reg.IsInstalled(modelID) {
		fmt.Fprintf(out, "model '%s' is already installed at %s\n", modelID, reg.ModelPath(modelID))
		return nil
	}

	fmt.Fprintf(out, "downloading %s (%s)...\n", modelID, info.Size)

	var lastPercent int
	err := reg.Download(ctx, modelID, func(downloaded, total int64) {
		if total > 0 {
			percent := int(downloaded * 100 / total)
			if percent >= lastPercent+10 {
				fmt.Fprintf(out, "%d%% ", percent)
				lastPercent = percent
			}
		}
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Fprintf(out, "\ndownload complete: %s\n", reg.ModelPath(modelID))
	return nil
}

func runModelRemove(out io.Writer, reg *whisper.Registry, modelID string) error {
	if err := reg.Remove(modelID); err != nil {
		return err
	}
	fmt.Fprintf(out, "model '%s' removed successfully\n", modelID)
	return nil
}
