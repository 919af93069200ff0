package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/leonardotrapani/neuronote/internal/language"
	"github.com/leonardotrapani/neuronote/internal/media"
)

// WhisperCppOptions configures the local whisper-cli backend.
type WhisperCppOptions struct {
	ModelPath string // e.g. ~/.local/share/neuronote/models/whisper/ggml-base.bin
	Binary    string // whisper-cli path, resolved on PATH when empty
	Language  string // empty for auto
	Threads   int    // 0 lets whisper-cli choose
	Serialize bool   // run at most one whisper-cli per adapter
	Converter media.Converter
}

// WhisperCppAdapter transcribes files with a local whisper.cpp model
type WhisperCppAdapter struct {
	opts WhisperCppOptions
	mu   *sync.Mutex
}

func NewWhisperCppAdapter(opts WhisperCppOptions) *WhisperCppAdapter {
	if opts.Binary == "" {
		opts.Binary = "whisper-cli"
	}
	a := &WhisperCppAdapter{opts: opts}
	if opts.Serialize {
		a.mu = &sync.Mutex{}
	}
	return a
}

func (a *WhisperCppAdapter) Transcribe(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("audio file: %w", err)
	}
	if _, err := os.Stat(a.opts.ModelPath); os.IsNotExist(err) {
		return "", fmt.Errorf("model file not found: %s", a.opts.ModelPath)
	}

	input := path
	if media.NeedsConversion(path) {
		converted, err := a.opts.Converter.ToWAV(ctx, path)
		if err != nil {
			return "", fmt.Errorf("convert to WAV: %w", err)
		}
		defer os.Remove(converted)
		input = converted
	}

	args := []string{
		"-m", a.opts.ModelPath,
		"-l", language.ForWhisperCLI(a.opts.Language),
		"-nt", // no timestamps
		"-np", // no progress
		"-f", input,
	}
	if a.opts.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(a.opts.Threads))
	}

	if a.mu != nil {
		a.mu.Lock()
		defer a.mu.Unlock()
	}

	cmd := exec.CommandContext(ctx, a.opts.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("whisper-cli failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	// with -nt whisper-cli prints the bare transcription
	return strings.TrimSpace(stdout.String()), nil
}
