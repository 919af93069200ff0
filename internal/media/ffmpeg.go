// Package media prepares uploaded audio for the local whisper backend.
package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrFFmpegNotFound is returned when conversion is needed but ffmpeg is not
// on PATH.
var ErrFFmpegNotFound = errors.New("ffmpeg not found: install ffmpeg to transcribe non-WAV audio")

// Converter turns audio files into 16 kHz mono PCM WAV via ffmpeg.
type Converter struct {
	// Binary defaults to "ffmpeg" resolved on PATH.
	Binary string
	// TmpDir defaults to the OS temp directory.
	TmpDir string
}

// NeedsConversion reports whether path must be converted before whisper-cli
// can read it: anything that is not already a 16 kHz PCM WAV.
func NeedsConversion(path string) bool {
	if strings.ToLower(filepath.Ext(path)) != ".wav" {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	hdr := make([]byte, 36)
	if _, err := io.ReadFull(f, hdr); err != nil {
		return true
	}
	return !IsPCM16k(hdr)
}

// IsPCM16k reports whether a canonical WAV header describes 16 kHz PCM.
func IsPCM16k(hdr []byte) bool {
	if len(hdr) < 36 || !bytes.Equal(hdr[0:4], []byte("RIFF")) || !bytes.Equal(hdr[8:12], []byte("WAVE")) {
		return false
	}
	format := binary.LittleEndian.Uint16(hdr[20:22])
	sampleRate := binary.LittleEndian.Uint32(hdr[24:28])
	return format == 1 && sampleRate == 16000
}

// ToWAV converts src and returns the path of the new file. The caller removes
// it when done.
func (c Converter) ToWAV(ctx context.Context, src string) (string, error) {
	bin := c.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", ErrFFmpegNotFound
	}

	tmpDir := c.TmpDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	f, err := os.CreateTemp(tmpDir, base+"_*_16k.wav")
	if err != nil {
		return "", fmt.Errorf("create converted file: %w", err)
	}
	out := f.Name()
	f.Close()

	// ffmpeg -y -i input -ac 1 -ar 16000 -c:a pcm_s16le output
	cmd := exec.CommandContext(ctx, path,
		"-hide_banner", "-loglevel", "error",
		"-y", "-i", src,
		"-ac", "1", "-ar", "16000",
		"-c:a", "pcm_s16le",
		out,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(out)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// EncodeWAV wraps raw 16-bit little-endian mono PCM at sampleRate in a WAV
// container.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	var buf bytes.Buffer

	const channels = 1
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	const blockAlign = channels * bitsPerSample / 8

	dataSize := len(pcm)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(pcm)

	return buf.Bytes()
}
