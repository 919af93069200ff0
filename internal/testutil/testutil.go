// Package testutil provides fakes and helpers shared by package tests.
package testutil

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/leonardotrapani/neuronote/internal/config"
	"github.com/leonardotrapani/neuronote/internal/storage"
)

// TestConfig returns a valid configuration whose output lands in t's
// temp directory.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	dir := t.TempDir()
	cfg.Storage.OutputDir = filepath.Join(dir, "meetings")
	cfg.Storage.UploadDir = filepath.Join(dir, "uploads")
	cfg.Insights.APIKey = "test-api-key"
	return cfg
}

// CreateTempConfigFile creates a temporary config file for testing
func CreateTempConfigFile(t *testing.T, name, configContent string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return configPath
}

// FakeTranscriber returns Text or Err and records every path it was given.
type FakeTranscriber struct {
	Text string
	Err  error
	// Check runs before returning, e.g. to inspect the audio file.
	Check func(path string)

	mu    sync.Mutex
	paths []string
}

func (f *FakeTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	if f.Check != nil {
		f.Check(path)
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

func (f *FakeTranscriber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.paths)
}

// Paths returns the audio paths passed to Transcribe, in call order.
func (f *FakeTranscriber) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

// FakeGenerator returns Text or Err and records the transcripts it saw.
type FakeGenerator struct {
	Text string
	Err  error

	mu          sync.Mutex
	transcripts []string
}

func (f *FakeGenerator) Generate(ctx context.Context, transcript string) (string, error) {
	f.mu.Lock()
	f.transcripts = append(f.transcripts, transcript)
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

func (f *FakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transcripts)
}

func (f *FakeGenerator) Transcripts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.transcripts...)
}

// ErrDiskFull is what FailingSaver returns by default.
var ErrDiskFull = errors.New("no space left on device")

// FailingSaver fails saves for the kinds in Fail and delegates the rest to
// Next. A nil Fail fails every kind.
type FailingSaver struct {
	Next storage.Saver
	Fail map[storage.Kind]bool
	Err  error

	mu    sync.Mutex
	calls int
}

func (f *FailingSaver) Save(content string, kind storage.Kind, meetingID string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.Fail == nil || f.Fail[kind] {
		err := f.Err
		if err == nil {
			err = ErrDiskFull
		}
		return "", err
	}
	return f.Next.Save(content, kind, meetingID)
}

func (f *FailingSaver) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// TestContext returns a context with timeout for testing
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// CaptureOutput captures stdout for testing
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		out, _ := io.ReadAll(r)
		done <- string(out)
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-done
}
