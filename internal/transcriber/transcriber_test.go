package transcriber

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardotrapani/neuronote/internal/apperr"
)

type stubBackend struct {
	text  string
	err   error
	calls int
}

func (s *stubBackend) Transcribe(ctx context.Context, path string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestOpenBackend(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "valid openai config",
			config: Config{Provider: ProviderOpenAI, APIKey: "test-key", Model: "whisper-1"},
		},
		{
			name:    "openai config without api key",
			config:  Config{Provider: ProviderOpenAI, Model: "whisper-1"},
			wantErr: "API key required",
		},
		{
			name:   "valid groq config",
			config: Config{Provider: ProviderGroq, APIKey: "gsk-test", Model: "whisper-large-v3"},
		},
		{
			name:    "groq config without api key",
			config:  Config{Provider: ProviderGroq, Model: "whisper-large-v3"},
			wantErr: "API key required",
		},
		{
			name:    "unknown whisper model",
			config:  Config{Provider: ProviderWhisperCpp, Model: "gigantic", ModelsDir: t.TempDir()},
			wantErr: "unknown whisper model",
		},
		{
			name:    "whisper model not installed",
			config:  Config{Provider: ProviderWhisperCpp, Model: "base", ModelsDir: t.TempDir()},
			wantErr: "model not installed",
		},
		{
			name:    "unsupported provider",
			config:  Config{Provider: "deepgram", APIKey: "k", Model: "nova"},
			wantErr: "unsupported provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := OpenBackend(context.Background(), tt.config)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, backend)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, backend)
		})
	}
}

func TestOpenBackend_WhisperCppMissingBinary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ggml-base.bin"), []byte("ggml"), 0o644))

	_, err := OpenBackend(context.Background(), Config{
		Provider:  ProviderWhisperCpp,
		Model:     "base",
		ModelsDir: dir,
		Binary:    "no-such-whisper-cli",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		wants []string
	}{
		{"configured differs from default", Config{Provider: ProviderWhisperCpp, Model: "small"}, []string{"small", "base"}},
		{"configured is default", Config{Provider: ProviderWhisperCpp, Model: "base"}, []string{"base"}},
		{"empty model uses default", Config{Provider: ProviderWhisperCpp}, []string{"base"}},
		{"openai default", Config{Provider: ProviderOpenAI, Model: "gpt-4o-transcribe"}, []string{"gpt-4o-transcribe", "whisper-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, c := range Candidates(tt.cfg) {
				got = append(got, c.Model)
				assert.Equal(t, tt.cfg.Provider, c.Provider)
			}
			assert.Equal(t, tt.wants, got)
		})
	}
}

func TestLoad_PrimarySucceeds(t *testing.T) {
	var tried []string
	open := func(ctx context.Context, cfg Config) (Transcriber, error) {
		tried = append(tried, cfg.Model)
		return &stubBackend{text: "hi"}, nil
	}

	svc := Load(context.Background(), Config{Provider: ProviderWhisperCpp, Model: "small"}, open, zerolog.Nop())
	assert.True(t, svc.Ready())
	assert.NoError(t, svc.Err())
	assert.Equal(t, "small", svc.Model())
	assert.Equal(t, []string{"small"}, tried)
}

func TestLoad_FallsBackToDefault(t *testing.T) {
	var tried []string
	open := func(ctx context.Context, cfg Config) (Transcriber, error) {
		tried = append(tried, cfg.Model)
		if cfg.Model == "large-v3" {
			return nil, errors.New("out of memory")
		}
		return &stubBackend{text: "hi"}, nil
	}

	svc := Load(context.Background(), Config{Provider: ProviderWhisperCpp, Model: "large-v3"}, open, zerolog.Nop())
	assert.True(t, svc.Ready())
	assert.Equal(t, "base", svc.Model())
	assert.Equal(t, []string{"large-v3", "base"}, tried)
}

func TestLoad_DefaultFailsOnlyTriedOnce(t *testing.T) {
	var tried []string
	open := func(ctx context.Context, cfg Config) (Transcriber, error) {
		tried = append(tried, cfg.Model)
		return nil, errors.New("broken")
	}

	svc := Load(context.Background(), Config{Provider: ProviderWhisperCpp, Model: "base"}, open, zerolog.Nop())
	assert.False(t, svc.Ready())
	assert.Equal(t, []string{"base"}, tried)
	require.Error(t, svc.Err())
	assert.Contains(t, svc.Err().Error(), "broken")
}

func TestLoad_AllCandidatesFail(t *testing.T) {
	open := func(ctx context.Context, cfg Config) (Transcriber, error) {
		return nil, errors.New("load failed for " + cfg.Model)
	}

	svc := Load(context.Background(), Config{Provider: ProviderWhisperCpp, Model: "small"}, open, zerolog.Nop())
	require.False(t, svc.Ready())
	assert.Contains(t, svc.Err().Error(), "load failed for base")

	_, err := svc.Transcribe(context.Background(), "/tmp/a.wav")
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindTranscription, appErr.Kind)
	assert.Equal(t, "Transcription model is not available or failed to load.", appErr.Message)
}

func TestService_Transcribe(t *testing.T) {
	backend := &stubBackend{text: "hello world"}
	svc := NewService(backend, "base", zerolog.Nop())

	text, err := svc.Transcribe(context.Background(), "/tmp/meeting.wav")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, 1, backend.calls)
}

func TestService_TranscribeWrapsEveryFailure(t *testing.T) {
	cause := errors.New("unsupported format")
	svc := NewService(&stubBackend{err: cause}, "base", zerolog.Nop())

	_, err := svc.Transcribe(context.Background(), "/tmp/uploads/meeting_1.ogg")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindTranscription, appErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status())
	assert.True(t, strings.HasPrefix(strings.ToLower(appErr.Message), "transcription failed for meeting_1.ogg"))
}

func TestOpenAIAdapter_Transcribe(t *testing.T) {
	var gotModel, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		if _, fh, err := r.FormFile("file"); err == nil {
			gotFile = fh.Filename
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"we agreed to ship on friday"}`))
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "meeting_1.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o644))

	a := NewOpenAIAdapter(Config{APIKey: "k", Model: "whisper-1", BaseURL: srv.URL + "/v1"})
	text, err := a.Transcribe(context.Background(), audio)
	require.NoError(t, err)
	assert.Equal(t, "we agreed to ship on friday", text)
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "meeting_1.wav", gotFile)
}

func TestOpenAIAdapter_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o644))

	a := NewGroqAdapter(Config{APIKey: "k", Model: "whisper-large-v3", BaseURL: srv.URL})
	_, err := a.Transcribe(context.Background(), audio)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq transcription")
}

func TestNewGroqAdapter_DefaultBaseURL(t *testing.T) {
	a := NewGroqAdapter(Config{APIKey: "k", Model: "whisper-large-v3"})
	assert.Equal(t, "groq", a.name)
	assert.Equal(t, groqBaseURL, a.config.BaseURL)
}
