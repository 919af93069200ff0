// Package deps reports whether the external programs neuronote shells out to
// are installed.
package deps

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/leonardotrapani/neuronote/internal/transcriber"
)

const (
	DefaultWhisperCli = "whisper-cli"
	DefaultFFmpeg     = "ffmpeg"
)

// versionTimeout bounds each --version probe.
const versionTimeout = 5 * time.Second

// Status represents the installation status of a dependency
type Status struct {
	Name      string
	Installed bool
	Path      string
	Version   string
	// Required is set when the current configuration cannot work without it.
	Required bool
}

// Check looks up binary on PATH and reads the first line of its version
// output.
func Check(ctx context.Context, binary string, versionArgs ...string) Status {
	status := Status{Name: binary}
	path, err := exec.LookPath(binary)
	if err != nil {
		return status
	}
	status.Installed = true
	status.Path = path

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	output, err := exec.CommandContext(ctx, path, versionArgs...).CombinedOutput()
	if err == nil || len(output) > 0 {
		status.Version = firstLine(string(output))
	}
	return status
}

// CheckWhisperCli checks the whisper.cpp CLI; an empty binary uses whisper-cli.
func CheckWhisperCli(ctx context.Context, binary string) Status {
	if binary == "" {
		binary = DefaultWhisperCli
	}
	return Check(ctx, binary, "--version")
}

// CheckFFmpeg checks ffmpeg; an empty binary uses ffmpeg.
func CheckFFmpeg(ctx context.Context, binary string) Status {
	if binary == "" {
		binary = DefaultFFmpeg
	}
	return Check(ctx, binary, "-version")
}

// ForProvider returns the programs a transcription provider uses. whisper-cpp
// needs both binaries; API providers upload the file as-is and need neither.
func ForProvider(ctx context.Context, provider, whisperBinary string) []Status {
	local := provider == transcriber.ProviderWhisperCpp
	w := CheckWhisperCli(ctx, whisperBinary)
	w.Required = local
	f := CheckFFmpeg(ctx, "")
	f.Required = local
	return []Status{w, f}
}

// Missing returns the required programs that are not installed.
func Missing(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if s.Required && !s.Installed {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
