package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardotrapani/neuronote/internal/config"
)

func TestAnswersRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Transcription.Model = "small"
	cfg.Providers["gemini"] = config.ProviderConfig{APIKey: "g-key"}

	a := answersFrom(cfg)
	assert.Equal(t, "whisper-cpp", a.TranscriptionProvider)
	assert.Equal(t, "small", a.WhisperModel)
	assert.Equal(t, "g-key", a.InsightsKey)
	assert.Equal(t, "5000", a.Port)

	out := a.apply(cfg)
	assert.Equal(t, cfg.Transcription, out.Transcription)
	assert.Equal(t, cfg.Server, out.Server)
	assert.Equal(t, cfg.Providers, out.Providers)
	require.NoError(t, out.Validate())
}

func TestAnswersApply_APIProviders(t *testing.T) {
	cfg := config.DefaultConfig()
	a := answersFrom(cfg)
	a.TranscriptionProvider = "groq"
	a.TranscriptionModel = " whisper-large-v3 "
	a.TranscriptionKey = "gsk-1"
	a.InsightsProvider = "openai"
	a.InsightsKey = "sk-1"
	a.Port = "8081"
	a.FileLogging = true

	out := a.apply(cfg)
	assert.Equal(t, "groq", out.Transcription.Provider)
	assert.Equal(t, "whisper-large-v3", out.Transcription.Model)
	assert.Equal(t, "gsk-1", out.Providers["groq"].APIKey)
	assert.Equal(t, "sk-1", out.Providers["openai"].APIKey)
	assert.Equal(t, 8081, out.Server.Port)
	assert.True(t, out.Log.FileLogging)

	assert.Empty(t, cfg.Providers, "original config is not modified")
	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestValidatePort(t *testing.T) {
	for _, ok := range []string{"1", "5000", " 65535 "} {
		assert.NoError(t, validatePort(ok), ok)
	}
	for _, bad := range []string{"", "0", "65536", "http"} {
		assert.Error(t, validatePort(bad), bad)
	}
}

func TestValidateNotEmpty(t *testing.T) {
	v := validateNotEmpty("host")
	assert.NoError(t, v("localhost"))
	err := v("  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host")
}

func TestOptions(t *testing.T) {
	assert.Len(t, transcriptionProviderOptions(), 3)
	assert.Len(t, insightsProviderOptions(), 3)
	assert.NotEmpty(t, whisperModelOptions())

	langs := languageOptions()
	require.NotEmpty(t, langs)
	assert.Equal(t, "", langs[0].Value)
	assert.Equal(t, "Auto-detect", langs[0].Key)
}

func TestPrinter_PlainWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	saved := "/out/m/m_insights.md"
	p.Header("Insights")
	p.Field("Meeting", "meeting_20250101_000000_000000")
	p.Path("Insights", &saved)
	p.Path("Transcript", nil)
	p.Success("done")

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "no escape codes for a buffer")
	assert.Contains(t, out, "Insights\n")
	assert.Contains(t, out, "Meeting: meeting_20250101_000000_000000")
	assert.Contains(t, out, "Insights: /out/m/m_insights.md")
	assert.Contains(t, out, "Transcript: not saved")
	assert.True(t, strings.HasSuffix(out, "✓ done\n"))
}

func TestPrinter_Box(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Box("**1. Summary:** ok\n")
	assert.Contains(t, buf.String(), "**1. Summary:** ok")
	assert.Contains(t, buf.String(), "╭")
}
