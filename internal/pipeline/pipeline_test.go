package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardotrapani/neuronote/internal/apperr"
	"github.com/leonardotrapani/neuronote/internal/metrics"
	"github.com/leonardotrapani/neuronote/internal/storage"
	fakes "github.com/leonardotrapani/neuronote/internal/testutil"
)

const meetingID = "meeting_20250101_120000_000001"

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.New(filepath.Join(t.TempDir(), "meetings"), t.TempDir(), zerolog.Nop())
}

func TestProcess_Success(t *testing.T) {
	ctx, cancel := fakes.TestContext()
	defer cancel()

	tr := &fakes.FakeTranscriber{Text: "Alice: ship it."}
	gen := &fakes.FakeGenerator{Text: "**1. Summary:** shipping"}
	store := newStore(t)

	var statuses []Status
	p := New(tr, gen, store, WithObserver(func(id string, s Status) {
		assert.Equal(t, meetingID, id)
		statuses = append(statuses, s)
	}))

	res, err := p.Process(ctx, "/tmp/upload.wav", meetingID)
	require.NoError(t, err)

	assert.Equal(t, meetingID, res.MeetingID)
	assert.Equal(t, "Alice: ship it.", res.Transcript)
	assert.Equal(t, "**1. Summary:** shipping", res.Insights)
	assert.Equal(t, []string{"Alice: ship it."}, gen.Transcripts())
	assert.Equal(t, []string{"/tmp/upload.wav"}, tr.Paths())

	require.NotNil(t, res.TranscriptPath)
	require.NotNil(t, res.InsightsPath)
	assert.Equal(t, filepath.Join(store.Root(), meetingID, meetingID+"_transcript.txt"), *res.TranscriptPath)
	assert.Equal(t, filepath.Join(store.Root(), meetingID, meetingID+"_insights.md"), *res.InsightsPath)

	data, err := os.ReadFile(*res.InsightsPath)
	require.NoError(t, err)
	assert.Equal(t, res.Insights, string(data))

	assert.Equal(t, []Status{Transcribing, Transcribed, GeneratingInsights, InsightsGenerated, Persisting, Persisted}, statuses)
}

func TestProcess_TranscriptionFailureStopsPipeline(t *testing.T) {
	ctx, cancel := fakes.TestContext()
	defer cancel()

	tr := &fakes.FakeTranscriber{Err: errors.New("decoder crashed")}
	gen := &fakes.FakeGenerator{Text: "unused"}
	saver := &fakes.FailingSaver{}

	var last Status
	p := New(tr, gen, saver, WithObserver(func(_ string, s Status) { last = s }))
	res, err := p.Process(ctx, "/tmp/uploads/meeting_1.wav", meetingID)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Zero(t, gen.Calls())
	assert.Zero(t, saver.Calls())
	assert.Equal(t, Failed, last)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindTranscription, appErr.Kind)
	assert.Contains(t, appErr.Message, "Transcription failed for meeting_1.wav")
}

func TestProcess_TypedErrorsPassThrough(t *testing.T) {
	ctx, cancel := fakes.TestContext()
	defer cancel()

	typed := apperr.Transcription("Transcription model is not available or failed to load.", nil)
	p := New(&fakes.FakeTranscriber{Err: typed}, &fakes.FakeGenerator{}, &fakes.FailingSaver{})

	_, err := p.Process(ctx, "/tmp/a.wav", meetingID)
	assert.Same(t, typed, err)
}

func TestProcess_InsightsFailureSkipsStorage(t *testing.T) {
	ctx, cancel := fakes.TestContext()
	defer cancel()

	saver := &fakes.FailingSaver{}
	p := New(&fakes.FakeTranscriber{Text: "hi"}, &fakes.FakeGenerator{Err: errors.New("quota exceeded")}, saver)

	_, err := p.Process(ctx, "/tmp/a.wav", meetingID)
	require.Error(t, err)
	assert.Zero(t, saver.Calls())

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindInsights, appErr.Kind)
	assert.Equal(t, "Insight generation failed: quota exceeded", appErr.Message)
}

func TestProcess_SaveFailuresAreSuppressed(t *testing.T) {
	tests := []struct {
		name           string
		fail           map[storage.Kind]bool
		wantTranscript bool
		wantInsights   bool
	}{
		{"both fail", nil, false, false},
		{"transcript fails", map[storage.Kind]bool{storage.KindTranscript: true}, false, true},
		{"insights fails", map[storage.Kind]bool{storage.KindInsights: true}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := fakes.TestContext()
			defer cancel()

			m := metrics.New()
			saver := &fakes.FailingSaver{Next: newStore(t), Fail: tt.fail}
			p := New(&fakes.FakeTranscriber{Text: "t"}, &fakes.FakeGenerator{Text: "i"}, saver,
				WithMetrics(m), WithLogger(zerolog.Nop()))

			res, err := p.Process(ctx, "/tmp/a.wav", meetingID)
			require.NoError(t, err)
			assert.Equal(t, 2, saver.Calls())
			assert.Equal(t, tt.wantTranscript, res.TranscriptPath != nil)
			assert.Equal(t, tt.wantInsights, res.InsightsPath != nil)
			assert.Equal(t, "i", res.Insights)

			failures := testutil.ToFloat64(m.PersistFailures.WithLabelValues("transcript")) +
				testutil.ToFloat64(m.PersistFailures.WithLabelValues("insights"))
			want := 0
			if !tt.wantTranscript {
				want++
			}
			if !tt.wantInsights {
				want++
			}
			assert.Equal(t, float64(want), failures)
		})
	}
}

func TestProcess_EmptyTranscriptIsPassedOn(t *testing.T) {
	ctx, cancel := fakes.TestContext()
	defer cancel()

	gen := &fakes.FakeGenerator{Text: "nothing discussed"}
	p := New(&fakes.FakeTranscriber{Text: ""}, gen, newStore(t))

	res, err := p.Process(ctx, "/tmp/silence.wav", meetingID)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, gen.Transcripts())
	assert.Equal(t, "nothing discussed", res.Insights)
}

func TestProcess_RecordsStageDurations(t *testing.T) {
	ctx, cancel := fakes.TestContext()
	defer cancel()

	m := metrics.New()
	p := New(&fakes.FakeTranscriber{Text: "t"}, &fakes.FakeGenerator{Text: "i"}, newStore(t), WithMetrics(m))
	_, err := p.Process(ctx, "/tmp/a.wav", meetingID)
	require.NoError(t, err)

	assert.Equal(t, 3, testutil.CollectAndCount(m.StageDuration))
}
