package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/neuronote/internal/apperr"
	"github.com/leonardotrapani/neuronote/internal/logging"
)

var ErrModelUnavailable = errors.New("insights model not initialized")

// Service is the process-wide insight generator. Like the transcription
// service it is initialized once and then only read.
type Service struct {
	gen      Generator
	provider string
	model    string
	err      error
	log      zerolog.Logger
}

// Init resolves credentials and builds the generator for cfg. A failure
// leaves the service unavailable rather than returning an error, so callers
// decide whether that is fatal.
func Init(cfg Config, log zerolog.Logger) *Service {
	log = logging.Component(log, "insights")
	cfg = Resolve(cfg)

	log.Info().Str("provider", cfg.Provider).Str("model", cfg.Model).Msg("initializing insights model")
	gen, err := NewAdapter(cfg)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize insights model")
		return &Service{provider: cfg.Provider, model: cfg.Model, err: err, log: log}
	}

	log.Info().Str("model", cfg.Model).Msg("insights model loaded")
	return &Service{gen: gen, provider: cfg.Provider, model: cfg.Model, log: log}
}

// NewService wraps an existing generator.
func NewService(gen Generator, model string, log zerolog.Logger) *Service {
	return &Service{gen: gen, model: model, log: logging.Component(log, "insights")}
}

func (s *Service) Ready() bool { return s.gen != nil }

func (s *Service) Err() error { return s.err }

func (s *Service) Model() string { return s.model }

func (s *Service) Provider() string { return s.provider }

// Generate returns the model's response for transcript unmodified.
func (s *Service) Generate(ctx context.Context, transcript string) (string, error) {
	if s.gen == nil {
		s.log.Error().Msg("insights requested but no model is loaded")
		cause := s.err
		if cause == nil {
			cause = ErrModelUnavailable
		}
		return "", apperr.Insights("Insight generation model is not available or failed to load.", cause)
	}

	s.log.Info().Str("model", s.model).Int("chars", len(transcript)).Msg("generating insights")
	s.log.Debug().Str("snippet", logging.Snippet(transcript, 100)).Msg("transcript for insights")
	start := time.Now()

	text, err := s.gen.Generate(ctx, transcript)
	if err != nil {
		s.log.Error().Err(err).Msg("insight generation failed")
		return "", apperr.Insights(fmt.Sprintf("Insight generation failed: %v", err), err)
	}

	s.log.Info().Dur("duration", time.Since(start)).Msg("insights generated")
	s.log.Debug().Str("snippet", logging.Snippet(text, 100)).Msg("insights response")
	return text, nil
}
