// Package storage persists meeting artifacts as flat text files, one session
// directory per meeting:
//
//	{root}/{meeting_id}/{meeting_id}_transcript.txt
//	{root}/{meeting_id}/{meeting_id}_insights.md
//
// It also owns the temporary upload files the HTTP handler writes before
// transcription.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/leonardotrapani/neuronote/internal/apperr"
)

// Kind is the type of artifact being saved.
type Kind string

const (
	KindTranscript Kind = "transcript"
	KindInsights   Kind = "insights"
)

// Ext returns the file extension for the kind, without the dot.
func (k Kind) Ext() string {
	switch k {
	case KindTranscript:
		return "txt"
	case KindInsights:
		return "md"
	default:
		return ""
	}
}

// DefaultOutputDir is the output root used when none is configured.
const DefaultOutputDir = "output/meetings"

// Saver is what the pipeline needs from storage.
type Saver interface {
	Save(content string, kind Kind, meetingID string) (string, error)
}

// Store writes artifacts under Root and uploads under UploadDir.
type Store struct {
	root      string
	uploadDir string
	log       zerolog.Logger
}

// New returns a store rooted at root. An empty uploadDir uses the OS temp
// directory. Nothing is created until the first write.
func New(root, uploadDir string, log zerolog.Logger) *Store {
	if root == "" {
		root = DefaultOutputDir
	}
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	return &Store{
		root:      root,
		uploadDir: uploadDir,
		log:       log.With().Str("component", "storage").Logger(),
	}
}

func (s *Store) Root() string { return s.root }

func (s *Store) UploadDir() string { return s.uploadDir }

// SessionDir returns the directory holding a meeting's artifacts.
func (s *Store) SessionDir(meetingID string) string {
	return filepath.Join(s.root, meetingID)
}

// Save writes content as {meetingID}_{kind}.{ext} inside the meeting's
// session directory, replacing any previous file, and returns its path.
func (s *Store) Save(content string, kind Kind, meetingID string) (string, error) {
	ext := kind.Ext()
	if ext == "" {
		return "", apperr.FileStorage(fmt.Sprintf("Unknown artifact kind %q.", kind), nil)
	}
	if meetingID == "" || strings.ContainsAny(meetingID, `/\`) || meetingID == "." || meetingID == ".." {
		return "", apperr.FileStorage(fmt.Sprintf("Invalid meeting id %q.", meetingID), nil)
	}

	dir := s.SessionDir(meetingID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.Error().Err(err).Str("dir", dir).Msg("failed to create session directory")
		return "", apperr.FileStorage(fmt.Sprintf("Could not create directory %s: %v", dir, err), err)
	}
	s.log.Debug().Str("dir", dir).Msg("ensured session directory exists")

	name := fmt.Sprintf("%s_%s.%s", meetingID, kind, ext)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("failed to write artifact")
		return "", apperr.FileStorage(fmt.Sprintf("Could not write to file %s: %v", name, err), err)
	}

	s.log.Info().Str("path", path).Str("kind", string(kind)).Msg("saved artifact")
	return path, nil
}

func (s *Store) SaveTranscript(text, meetingID string) (string, error) {
	return s.Save(text, KindTranscript, meetingID)
}

func (s *Store) SaveInsights(text, meetingID string) (string, error) {
	return s.Save(text, KindInsights, meetingID)
}

// UploadPath returns the temporary path for a meeting's uploaded audio. The
// extension of the client filename is kept so backends can detect the
// format; ".wav" is used when there is none.
func (s *Store) UploadPath(meetingID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" || ext == "." {
		ext = ".wav"
	}
	return filepath.Join(s.uploadDir, meetingID+ext)
}

// WriteUpload copies r to the meeting's temporary upload path.
func (s *Store) WriteUpload(r io.Reader, meetingID, filename string) (string, error) {
	path := s.UploadPath(meetingID, filename)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", apperr.FileStorage(fmt.Sprintf("Could not create directory %s: %v", s.uploadDir, err), err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", apperr.FileStorage(fmt.Sprintf("Could not save uploaded file %s: %v", filename, err), err)
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(path)
		return "", apperr.FileStorage(fmt.Sprintf("Could not save uploaded file %s: %v", filename, copyErr), copyErr)
	}

	s.log.Info().Str("path", path).Int64("bytes", n).Msg("saved upload")
	return path, nil
}

// RemoveUpload deletes a temporary upload. A missing file is not an error.
func (s *Store) RemoveUpload(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload %s: %w", path, err)
	}
	return nil
}
