// Package tui holds the interactive configuration form and the styled
// terminal output of the CLI.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/neuronote/internal/config"
	"github.com/leonardotrapani/neuronote/internal/insights"
	"github.com/leonardotrapani/neuronote/internal/language"
	"github.com/leonardotrapani/neuronote/internal/models/whisper"
	"github.com/leonardotrapani/neuronote/internal/transcriber"
)

// ConfigureResult holds the configuration result from the form
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// answers are the form fields, kept apart from config so they can be
// applied and validated without a terminal.
type answers struct {
	TranscriptionProvider string
	WhisperModel          string
	TranscriptionModel    string
	TranscriptionKey      string
	Language              string
	InsightsProvider      string
	InsightsModel         string
	InsightsKey           string
	Host                  string
	Port                  string
	OutputDir             string
	FileLogging           bool
	Save                  bool
}

func answersFrom(cfg *config.Config) answers {
	a := answers{
		TranscriptionProvider: cfg.Transcription.Provider,
		Language:              cfg.Transcription.Language,
		InsightsProvider:      cfg.Insights.Provider,
		InsightsModel:         cfg.Insights.Model,
		Host:                  cfg.Server.Host,
		Port:                  strconv.Itoa(cfg.Server.Port),
		OutputDir:             cfg.Storage.OutputDir,
		FileLogging:           cfg.Log.FileLogging,
		Save:                  true,
	}
	if cfg.Transcription.Provider == transcriber.ProviderWhisperCpp {
		a.WhisperModel = cfg.Transcription.Model
	} else {
		a.TranscriptionModel = cfg.Transcription.Model
	}
	if a.WhisperModel == "" {
		a.WhisperModel = whisper.DefaultModelID
	}
	if pc, ok := cfg.Providers[cfg.Transcription.Provider]; ok {
		a.TranscriptionKey = pc.APIKey
	}
	if pc, ok := cfg.Providers[cfg.Insights.Provider]; ok {
		a.InsightsKey = pc.APIKey
	}
	return a
}

// apply writes the answers onto a copy of cfg.
func (a answers) apply(cfg *config.Config) *config.Config {
	out := *cfg
	out.Providers = make(map[string]config.ProviderConfig, len(cfg.Providers))
	for k, v := range cfg.Providers {
		out.Providers[k] = v
	}

	out.Transcription.Provider = a.TranscriptionProvider
	out.Transcription.Language = a.Language
	if a.TranscriptionProvider == transcriber.ProviderWhisperCpp {
		out.Transcription.Model = a.WhisperModel
	} else {
		out.Transcription.Model = strings.TrimSpace(a.TranscriptionModel)
		if key := strings.TrimSpace(a.TranscriptionKey); key != "" {
			out.Providers[a.TranscriptionProvider] = config.ProviderConfig{APIKey: key}
		}
	}

	out.Insights.Provider = a.InsightsProvider
	out.Insights.Model = strings.TrimSpace(a.InsightsModel)
	if key := strings.TrimSpace(a.InsightsKey); key != "" {
		out.Providers[a.InsightsProvider] = config.ProviderConfig{APIKey: key}
	}

	out.Server.Host = strings.TrimSpace(a.Host)
	if port, err := strconv.Atoi(strings.TrimSpace(a.Port)); err == nil {
		out.Server.Port = port
	}
	out.Storage.OutputDir = strings.TrimSpace(a.OutputDir)
	out.Log.FileLogging = a.FileLogging
	return &out
}

func validatePort(s string) error {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func validateNotEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func transcriptionProviderOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Local whisper.cpp (offline)", transcriber.ProviderWhisperCpp),
		huh.NewOption("OpenAI Whisper API", transcriber.ProviderOpenAI),
		huh.NewOption("Groq Whisper API", transcriber.ProviderGroq),
	}
}

func whisperModelOptions() []huh.Option[string] {
	var options []huh.Option[string]
	for _, m := range whisper.ListModels() {
		label := fmt.Sprintf("%s (%s)", m.ID, m.Size)
		if !m.Multilingual {
			label += " English only"
		}
		options = append(options, huh.NewOption(label, m.ID))
	}
	return options
}

func languageOptions() []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption(language.Auto, "")}
	for _, code := range language.Codes() {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", language.Name(code), code), code))
	}
	return options
}

func insightsProviderOptions() []huh.Option[string] {
	var options []huh.Option[string]
	for _, name := range insights.ListProviders() {
		p, _ := insights.GetProvider(name)
		options = append(options, huh.NewOption(fmt.Sprintf("%s (default model %s)", name, p.DefaultModel), name))
	}
	return options
}

// Run shows the configuration form prefilled from existing.
func Run(existing *config.Config) (*ConfigureResult, error) {
	if existing == nil {
		existing = config.DefaultConfig()
	}
	a := answersFrom(existing)
	isLocal := func() bool { return a.TranscriptionProvider == transcriber.ProviderWhisperCpp }

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription provider").
				Options(transcriptionProviderOptions()...).
				Value(&a.TranscriptionProvider),
			huh.NewSelect[string]().
				Title("Language").
				Description("Spoken language of your meetings").
				Options(languageOptions()...).
				Height(8).
				Value(&a.Language),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Whisper model").
				Description("Download it afterwards with 'neuronote models download'").
				Options(whisperModelOptions()...).
				Value(&a.WhisperModel),
		).WithHideFunc(func() bool { return !isLocal() }),
		huh.NewGroup(
			huh.NewInput().
				Title("Transcription model").
				Placeholder(transcriber.DefaultModel(a.TranscriptionProvider)).
				Value(&a.TranscriptionModel),
			huh.NewInput().
				Title("Transcription API key").
				Description("Leave empty to use the environment variable").
				EchoMode(huh.EchoModePassword).
				Value(&a.TranscriptionKey),
		).WithHideFunc(isLocal),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Insights provider").
				Options(insightsProviderOptions()...).
				Value(&a.InsightsProvider),
			huh.NewInput().
				Title("Insights model").
				Description("Leave empty for the provider default").
				Value(&a.InsightsModel),
			huh.NewInput().
				Title("Insights API key").
				Description("Leave empty to use GEMINI_API_KEY / OPENAI_API_KEY / GROQ_API_KEY").
				EchoMode(huh.EchoModePassword).
				Value(&a.InsightsKey),
		),
		huh.NewGroup(
			huh.NewInput().Title("Listen host").Validate(validateNotEmpty("host")).Value(&a.Host),
			huh.NewInput().Title("Listen port").Validate(validatePort).Value(&a.Port),
			huh.NewInput().Title("Output directory").Validate(validateNotEmpty("output directory")).Value(&a.OutputDir),
			huh.NewConfirm().Title("Write logs to a rotating file?").Value(&a.FileLogging),
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&a.Save),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return &ConfigureResult{Cancelled: true}, nil
		}
		return nil, err
	}
	if !a.Save {
		return &ConfigureResult{Cancelled: true}, nil
	}
	return &ConfigureResult{Config: a.apply(existing)}, nil
}
