package transcriber

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/neuronote/internal/apperr"
	"github.com/leonardotrapani/neuronote/internal/logging"
)

// Service is the process-wide transcription adapter. It is built once at
// startup and is read-only afterwards. A service whose model failed to load
// stays in the unavailable state and rejects every call.
type Service struct {
	backend  Transcriber
	provider string
	model    string
	err      error
	log      zerolog.Logger
}

// Load tries each candidate configuration in order until one opens. When
// none does, the returned service is unavailable and Err reports why.
func Load(ctx context.Context, cfg Config, open Opener, log zerolog.Logger) *Service {
	if open == nil {
		open = OpenBackend
	}
	log = logging.Component(log, "transcriber")

	candidates := Candidates(cfg)
	var lastErr error
	for i, c := range candidates {
		log.Info().Str("provider", c.Provider).Str("model", c.Model).Msg("initializing transcription model")

		backend, err := open(ctx, c)
		if err != nil {
			lastErr = err
			if i < len(candidates)-1 {
				log.Error().Err(err).Str("model", c.Model).
					Str("fallback", candidates[i+1].Model).
					Msg("failed to load transcription model, trying fallback")
			}
			continue
		}

		if i > 0 {
			log.Info().Str("model", c.Model).Msg("loaded fallback transcription model")
		} else {
			log.Info().Str("model", c.Model).Msg("transcription model loaded")
		}
		return &Service{backend: backend, provider: c.Provider, model: c.Model, log: log}
	}

	log.Error().Err(lastErr).Msg("could not initialize any transcription model")
	return &Service{
		provider: cfg.Provider,
		model:    cfg.Model,
		err:      fmt.Errorf("could not initialize transcription model: %w", lastErr),
		log:      log,
	}
}

// NewService wraps an already initialized backend.
func NewService(backend Transcriber, model string, log zerolog.Logger) *Service {
	return &Service{backend: backend, model: model, log: logging.Component(log, "transcriber")}
}

// Ready reports whether a model is loaded.
func (s *Service) Ready() bool { return s.backend != nil }

// Err returns the startup failure of an unavailable service.
func (s *Service) Err() error { return s.err }

func (s *Service) Model() string { return s.model }

func (s *Service) Provider() string { return s.provider }

// Transcribe returns the text of the audio file at path. Every failure is a
// Transcription failure regardless of cause.
func (s *Service) Transcribe(ctx context.Context, path string) (string, error) {
	if s.backend == nil {
		s.log.Error().Msg("transcription requested but no model is loaded")
		cause := s.err
		if cause == nil {
			cause = ErrModelUnavailable
		}
		return "", apperr.Transcription("Transcription model is not available or failed to load.", cause)
	}

	s.log.Info().Str("path", path).Str("model", s.model).Msg("starting transcription")
	start := time.Now()

	text, err := s.backend.Transcribe(ctx, path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("transcription failed")
		return "", apperr.Transcription(fmt.Sprintf("Transcription failed for %s: %v", filepath.Base(path), err), err)
	}

	s.log.Info().Str("path", path).Int("chars", len(text)).Dur("duration", time.Since(start)).Msg("transcription completed")
	s.log.Debug().Str("snippet", logging.Snippet(text, 100)).Msg("transcript")
	return text, nil
}
