package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/csheth/resumotube/internal/api"
)

// SavingStatus tracks an outstanding settings save.
type SavingStatus int

const (
	SavingIdle SavingStatus = iota
	SavingInProgress
)

// Field identifies an editable credential.
type Field int

const (
	FieldGeminiKey Field = iota
	FieldOpenAIKey
)

// SettingsSavedMsg is the store's save result tagged with the session
// generation that asked for it.
type SettingsSavedMsg struct {
	Generation int
	Result     CredentialsSavedMsg
}

// SettingsSession is a transient edit buffer over a CredentialStore.
type SettingsSession struct {
	store *CredentialStore
	log   logrus.FieldLogger

	open       bool
	draft      Credentials
	touched    map[Field]bool
	status     SavingStatus
	generation int
	errMsg     string
}

// NewSettingsSession returns a closed session over store.
func NewSettingsSession(store *CredentialStore, log logrus.FieldLogger) *SettingsSession {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SettingsSession{store: store, log: log.WithField("component", "settings")}
}

func (s *SettingsSession) IsOpen() bool { return s.open }
func (s *SettingsSession) Draft() Credentials { return s.draft }
func (s *SettingsSession) Status() SavingStatus { return s.status }
func (s *SettingsSession) Error() string { return s.errMsg }

// Open snapshots the store into a fresh working copy.
func (s *SettingsSession) Open() {
	s.generation++
	s.open = true
	s.draft = s.store.Current()
	s.touched = map[Field]bool{}
	s.status = SavingIdle
	s.errMsg = ""
}

// Edit changes the working copy only.
func (s *SettingsSession) Edit(field Field, value string) {
	if !s.open {
		return
	}
	switch field {
	case FieldGeminiKey:
		s.draft.GeminiKey = value
	case FieldOpenAIKey:
		s.draft.OpenAIKey = value
	default:
		return
	}
	s.touched[field] = true
}

// Refresh copies freshly loaded credentials into every field the user has
// not edited yet. An open session that started before the load finished
// would otherwise save blanks over the remote keys.
func (s *SettingsSession) Refresh(current Credentials) {
	if !s.open || s.status == SavingInProgress {
		return
	}
	if !s.touched[FieldGeminiKey] {
		s.draft.GeminiKey = current.GeminiKey
	}
	if !s.touched[FieldOpenAIKey] {
		s.draft.OpenAIKey = current.OpenAIKey
	}
}

func (s *SettingsSession) refuse(reason string) {
	if s.open {
		s.errMsg = reason
	}
}

// Save hands the working copy to the store. It returns nil when the
// session is closed or a save is already outstanding.
func (s *SettingsSession) Save() Job {
	if !s.open {
		return nil
	}
	if s.status == SavingInProgress || s.store.Saving() {
		s.log.Debug("save ignored; previous save still running")
		return nil
	}
	inner := s.store.Save(s.draft)
	if inner == nil {
		return nil
	}
	s.status = SavingInProgress
	s.errMsg = ""
	generation := s.generation
	return func(ctx context.Context) (tea.Msg, error) {
		msg, err := inner(ctx)
		result, _ := msg.(CredentialsSavedMsg)
		return SettingsSavedMsg{Generation: generation, Result: result}, err
	}
}

// Cancel discards the working copy without persisting it.
func (s *SettingsSession) Cancel() {
	s.generation++
	s.open = false
	s.draft = Credentials{}
	s.touched = nil
	s.status = SavingIdle
	s.errMsg = ""
}

// HandleSaved finishes a save started by this session and reports whether
// the session closed. Results for an earlier generation are ignored; the
// store has already applied them.
func (s *SettingsSession) HandleSaved(msg SettingsSavedMsg) bool {
	if msg.Generation != s.generation {
		return false
	}
	s.status = SavingIdle
	if msg.Result.Err != nil {
		s.errMsg = describeSaveFailure(msg.Result.Err)
		return false
	}
	s.open = false
	s.draft = Credentials{}
	s.touched = nil
	s.errMsg = ""
	return true
}

func describeSaveFailure(err error) string {
	if detail, ok := api.ServiceDetail(err); ok {
		return "Falha ao salvar: " + detail
	}
	if api.IsTimeout(err) {
		return "Falha ao salvar: o servidor não respondeu a tempo."
	}
	return "Falha ao salvar: " + err.Error()
}
