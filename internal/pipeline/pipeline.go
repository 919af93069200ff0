// Package pipeline runs one meeting through transcription, insight
// generation and persistence.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/neuronote/internal/apperr"
	"github.com/leonardotrapani/neuronote/internal/metrics"
	"github.com/leonardotrapani/neuronote/internal/storage"
)

type Status string

const (
	Transcribing       Status = "transcribing"
	Transcribed        Status = "transcribed"
	GeneratingInsights Status = "generating_insights"
	InsightsGenerated  Status = "insights_generated"
	Persisting         Status = "persisting"
	Persisted          Status = "persisted"
	Failed             Status = "failed"
)

type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

type Generator interface {
	Generate(ctx context.Context, transcript string) (string, error)
}

// Result is the outcome of a processed meeting. A nil path means that
// artifact could not be saved.
type Result struct {
	MeetingID      string
	Transcript     string
	Insights       string
	TranscriptPath *string
	InsightsPath   *string
}

type Pipeline struct {
	transcriber Transcriber
	generator   Generator
	saver       storage.Saver
	metrics     *metrics.Metrics
	observer    func(meetingID string, s Status)
	log         zerolog.Logger
}

type Option func(*Pipeline)

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithObserver registers fn to be called on every status change.
func WithObserver(fn func(meetingID string, s Status)) Option {
	return func(p *Pipeline) { p.observer = fn }
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log.With().Str("component", "pipeline").Logger() }
}

func New(t Transcriber, g Generator, s storage.Saver, opts ...Option) *Pipeline {
	p := &Pipeline{
		transcriber: t,
		generator:   g,
		saver:       s,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) setStatus(meetingID string, s Status) {
	p.log.Debug().Str("meeting_id", meetingID).Str("status", string(s)).Msg("status changed")
	if p.observer != nil {
		p.observer(meetingID, s)
	}
}

// Process transcribes the audio at audioPath, generates insights from the
// transcript and saves both under meetingID. Transcription and insight
// failures abort; save failures are logged and leave the path nil. The
// audio file is not removed.
func (p *Pipeline) Process(ctx context.Context, audioPath, meetingID string) (*Result, error) {
	log := p.log.With().Str("meeting_id", meetingID).Logger()

	p.setStatus(meetingID, Transcribing)
	start := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, audioPath)
	p.metrics.ObserveStage(metrics.StageTranscribe, time.Since(start))
	if err != nil {
		p.setStatus(meetingID, Failed)
		if _, ok := apperr.As(err); !ok {
			err = apperr.Transcription(fmt.Sprintf("Transcription failed for %s: %v", filepath.Base(audioPath), err), err)
		}
		return nil, err
	}
	log.Info().Int("chars", len(transcript)).Msg("audio transcribed")
	p.setStatus(meetingID, Transcribed)

	p.setStatus(meetingID, GeneratingInsights)
	start = time.Now()
	insightsText, err := p.generator.Generate(ctx, transcript)
	p.metrics.ObserveStage(metrics.StageInsights, time.Since(start))
	if err != nil {
		p.setStatus(meetingID, Failed)
		if _, ok := apperr.As(err); !ok {
			err = apperr.Insights(fmt.Sprintf("Insight generation failed: %v", err), err)
		}
		return nil, err
	}
	log.Info().Int("chars", len(insightsText)).Msg("insights generated")
	p.setStatus(meetingID, InsightsGenerated)

	res := &Result{MeetingID: meetingID, Transcript: transcript, Insights: insightsText}

	p.setStatus(meetingID, Persisting)
	start = time.Now()
	res.TranscriptPath = p.save(log, transcript, storage.KindTranscript, meetingID)
	res.InsightsPath = p.save(log, insightsText, storage.KindInsights, meetingID)
	p.metrics.ObserveStage(metrics.StagePersist, time.Since(start))
	p.setStatus(meetingID, Persisted)

	return res, nil
}

func (p *Pipeline) save(log zerolog.Logger, content string, kind storage.Kind, meetingID string) *string {
	path, err := p.saver.Save(content, kind, meetingID)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("failed to save artifact, continuing without it")
		p.metrics.RecordPersistFailure(string(kind))
		return nil
	}
	return &path
}
