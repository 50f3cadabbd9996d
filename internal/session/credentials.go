package session

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/csheth/resumotube/internal/api"
)

// ConfigBackend reads and writes the remote configuration resource.
type ConfigBackend interface {
	FetchConfig(ctx context.Context) (api.Config, error)
	SaveConfig(ctx context.Context, cfg api.Config) error
}

// Credentials holds the user's provider API keys.
type Credentials struct {
	GeminiKey string
	OpenAIKey string
}

// KeyFor returns the key used by provider.
func (c Credentials) KeyFor(provider api.Provider) string {
	switch provider {
	case api.ProviderOpenAI:
		return c.OpenAIKey
	default:
		return c.GeminiKey
	}
}

func credentialsFromWire(cfg api.Config) Credentials {
	return Credentials{GeminiKey: cfg.GeminiAPIKey, OpenAIKey: cfg.OpenAIAPIKey}
}

func (c Credentials) wire() api.Config {
	return api.Config{GeminiAPIKey: c.GeminiKey, OpenAIAPIKey: c.OpenAIKey}
}

// CredentialsLoadedMsg reports the outcome of a load.
type CredentialsLoadedMsg struct {
	Revision    int
	Credentials Credentials
	Err         error
}

// CredentialsSavedMsg reports the outcome of a save.
type CredentialsSavedMsg struct {
	Candidate Credentials
	Err       error
}

// CredentialStore is the authoritative in-memory copy of the remote keys.
// Only HandleLoaded and HandleSaved change it.
type CredentialStore struct {
	backend ConfigBackend
	timeout time.Duration
	log     logrus.FieldLogger

	current  Credentials
	loaded   bool
	loadErr  string
	saving   bool
	revision int
}

// NewCredentialStore builds an empty store backed by backend.
func NewCredentialStore(backend ConfigBackend, timeout time.Duration, log logrus.FieldLogger) *CredentialStore {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CredentialStore{
		backend: backend,
		timeout: timeout,
		log:     log.WithField("component", "credentials"),
	}
}

// Current returns the authoritative credentials.
func (s *CredentialStore) Current() Credentials { return s.current }

// Loaded reports whether a load has succeeded at least once.
func (s *CredentialStore) Loaded() bool { return s.loaded }

// LoadError holds the last load failure, cleared by a successful load.
func (s *CredentialStore) LoadError() string { return s.loadErr }

// Saving reports whether a save is outstanding.
func (s *CredentialStore) Saving() bool { return s.saving }

// Load returns a job fetching the remote configuration.
func (s *CredentialStore) Load() Job {
	backend := s.backend
	timeout := s.timeout
	revision := s.revision
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		cfg, err := backend.FetchConfig(ctx)
		if err != nil {
			return CredentialsLoadedMsg{Revision: revision, Err: err}, err
		}
		return CredentialsLoadedMsg{Revision: revision, Credentials: credentialsFromWire(cfg)}, nil
	}
}

// HandleLoaded applies a load result. Failures keep the existing values.
// A load issued before a save committed is dropped so it cannot roll the
// committed keys back.
func (s *CredentialStore) HandleLoaded(msg CredentialsLoadedMsg) bool {
	if msg.Revision != s.revision {
		s.log.WithField("revision", msg.Revision).Debug("dropping load issued before the last save")
		return false
	}
	if msg.Err != nil {
		s.loadErr = msg.Err.Error()
		s.log.WithError(msg.Err).Warn("failed to load config; continuing with current credentials")
		return false
	}
	s.current = msg.Credentials
	s.loaded = true
	s.loadErr = ""
	return true
}

// Save returns a job persisting candidate, or nil while another save is
// still outstanding.
func (s *CredentialStore) Save(candidate Credentials) Job {
	if s.saving {
		s.log.Debug("save ignored; another save is in flight")
		return nil
	}
	s.saving = true
	backend := s.backend
	timeout := s.timeout
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		if err := backend.SaveConfig(ctx, candidate.wire()); err != nil {
			return CredentialsSavedMsg{Candidate: candidate, Err: err}, err
		}
		return CredentialsSavedMsg{Candidate: candidate}, nil
	}
}

// HandleSaved applies a save result and reports whether it committed.
func (s *CredentialStore) HandleSaved(msg CredentialsSavedMsg) bool {
	s.saving = false
	if msg.Err != nil {
		s.log.WithError(msg.Err).Warn("failed to save config")
		return false
	}
	s.current = msg.Candidate
	s.loaded = true
	s.revision++
	return true
}
