package config

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Manager holds the current configuration and reloads it when the config
// file changes.
type Manager struct {
	mu          sync.RWMutex
	path        string
	config      *Config
	subscribers []func(*Config)
	watcher     *fsnotify.Watcher
	wg          sync.WaitGroup
	log         zerolog.Logger
}

func NewManager(path string, log zerolog.Logger) (*Manager, error) {
	log = log.With().Str("component", "config").Logger()

	config, err := Load(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to load initial configuration")
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Info().Str("path", path).Msg("configuration loaded")
	return &Manager{path: path, config: config, log: log}, nil
}

func (m *Manager) Path() string { return m.path }

func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	return &configCopy
}

// OnChange registers fn to run after every successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// StartWatching watches the config file's directory until ctx is done or
// Stop is called. The directory must exist.
func (m *Manager) StartWatching(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		watcher.Close()
		return err
	}
	m.watcher = watcher

	m.wg.Add(1)
	go m.watchLoop(ctx)

	m.log.Info().Str("path", m.path).Msg("watching config for changes")
	return nil
}

func (m *Manager) Stop() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.wg.Wait()
}

func (m *Manager) watchLoop(ctx context.Context) {
	defer m.wg.Done()
	configFileName := filepath.Base(m.path)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFileName {
				continue
			}
			// editors often replace the file, so Create counts as a change
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				m.log.Info().Str("file", event.Name).Msg("config change detected, reloading")
				m.Reload()
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.log.Warn().Err(err).Msg("config watcher error")

		case <-ctx.Done():
			return
		}
	}
}

// Reload re-reads the file. An unreadable or invalid file keeps the
// current configuration and returns false.
func (m *Manager) Reload() bool {
	newConfig, err := Load(m.path)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to reload config")
		return false
	}
	if err := newConfig.Validate(); err != nil {
		m.log.Error().Err(err).Msg("invalid config after reload")
		return false
	}

	m.mu.Lock()
	m.config = newConfig
	subs := append([]func(*Config){}, m.subscribers...)
	m.mu.Unlock()

	for _, fn := range subs {
		configCopy := *newConfig
		fn(&configCopy)
	}

	m.log.Info().Msg("configuration reloaded")
	return true
}
