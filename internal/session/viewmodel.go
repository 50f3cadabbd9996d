package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/csheth/resumotube/internal/api"
	"github.com/csheth/resumotube/internal/history"
)

const (
	// DefaultCopiedDisplay is how long the copy acknowledgment stays visible.
	DefaultCopiedDisplay = 2 * time.Second

	settingsLoadPending = "Aguarde o carregamento das chaves atuais."
	recentJobLimit      = 5
)

// Backend is everything the view model needs from the remote service.
type Backend interface {
	ConfigBackend
	SummaryBackend
}

// Archiver persists generated summaries on request.
type Archiver interface {
	Append(ctx context.Context, entry history.Entry) error
}

// Deps wires a ViewModel.
type Deps struct {
	Backend          Backend
	Archive          Archiver
	Clipboard        func(string) error
	Logger           logrus.FieldLogger
	RequestTimeout   time.Duration
	SummarizeTimeout time.Duration
	CopiedDisplay    time.Duration
}

// ArchiveResultMsg reports the outcome of an archive request.
type ArchiveResultMsg struct {
	Entry history.Entry
	Err   error
}

type copyExpiredMsg struct {
	generation int
}

// State is a plain-data snapshot for the presentation layer.
type State struct {
	Status    Status
	Summary   string
	Error     string
	Loading   bool
	Request   Request
	StartedAt time.Time

	Credentials       Credentials
	CredentialsLoaded bool
	ConfigLoadError   string

	SettingsOpen  bool
	Draft         Credentials
	Saving        bool
	SettingsError string

	Copied bool
	Notice string
	Jobs   []JobSnapshot
}

// KeyMissing reports whether the stored key for provider is empty.
func (s State) KeyMissing(provider api.Provider) bool {
	return strings.TrimSpace(s.Credentials.KeyFor(provider)) == ""
}

// ViewModel owns the core components and routes intents and results
// between them. It must only be driven from the update loop.
type ViewModel struct {
	bus        *jobBus
	store      *CredentialStore
	controller *Controller
	settings   *SettingsSession
	clipboard  *ClipboardExporter
	archive    Archiver
	log        logrus.FieldLogger

	requestTimeout time.Duration
	copiedDisplay  time.Duration
	notice         string
	jobs           []JobSnapshot
}

// NewViewModel assembles the core around deps.
func NewViewModel(deps Deps) *ViewModel {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	requestTimeout := deps.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	copiedDisplay := deps.CopiedDisplay
	if copiedDisplay <= 0 {
		copiedDisplay = DefaultCopiedDisplay
	}
	store := NewCredentialStore(deps.Backend, requestTimeout, log)
	return &ViewModel{
		bus:            newJobBus(log.WithField("component", "jobs")),
		store:          store,
		controller:     NewController(deps.Backend, deps.SummarizeTimeout, log),
		settings:       NewSettingsSession(store, log),
		clipboard:      NewClipboardExporter(deps.Clipboard, log),
		archive:        deps.Archive,
		log:            log,
		requestTimeout: requestTimeout,
		copiedDisplay:  copiedDisplay,
	}
}

// Init starts the initial credentials load.
func (vm *ViewModel) Init() tea.Cmd {
	return vm.bus.Start(JobLoadConfig, vm.store.Load())
}

// ReloadCredentials fetches the remote configuration again.
func (vm *ViewModel) ReloadCredentials() tea.Cmd {
	vm.notice = "Recarregando chaves…"
	return vm.bus.Start(JobLoadConfig, vm.store.Load())
}

// Submit starts a summarization. Validation failures resolve immediately
// and return a nil command.
func (vm *ViewModel) Submit(url string, provider api.Provider, prompt string) tea.Cmd {
	vm.clipboard.Reset()
	vm.notice = ""
	job := vm.controller.Submit(Request{URL: url, Provider: provider, PromptSupplement: prompt})
	return vm.bus.Start(JobSummarize, job)
}

func (vm *ViewModel) OpenSettings() { vm.settings.Open() }

func (vm *ViewModel) EditSetting(field Field, value string) { vm.settings.Edit(field, value) }

// SaveSettings persists the working copy; nil when the save was refused.
// Saving is refused until the first load has either arrived or failed.
func (vm *ViewModel) SaveSettings() tea.Cmd {
	if !vm.store.Loaded() && vm.store.LoadError() == "" {
		vm.settings.refuse(settingsLoadPending)
		return nil
	}
	return vm.bus.Start(JobSaveConfig, vm.settings.Save())
}

func (vm *ViewModel) CancelSettings() { vm.settings.Cancel() }

// Copy exports the current summary and schedules the acknowledgment to
// clear after the display interval.
func (vm *ViewModel) Copy() tea.Cmd {
	text := vm.controller.Summary()
	if vm.controller.Status() != StatusSucceeded || text == "" {
		vm.notice = "Nada para copiar ainda."
		return nil
	}
	generation, err := vm.clipboard.Copy(text)
	if err != nil {
		vm.notice = fmt.Sprintf("Não foi possível copiar: %v", err)
		return nil
	}
	vm.notice = ""
	return tea.Tick(vm.copiedDisplay, func(time.Time) tea.Msg {
		return copyExpiredMsg{generation: generation}
	})
}

// Archive appends the current summary to the local history.
func (vm *ViewModel) Archive() tea.Cmd {
	if vm.archive == nil {
		vm.notice = "Histórico desativado."
		return nil
	}
	if vm.controller.Status() != StatusSucceeded {
		vm.notice = "Gere um resumo antes de arquivar."
		return nil
	}
	req := vm.controller.LastRequest()
	entry := history.NewEntry(req.URL, string(req.Provider), req.PromptSupplement, vm.controller.Summary())
	archive := vm.archive
	timeout := vm.requestTimeout
	return vm.bus.Start(JobArchive, func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		err := archive.Append(ctx, entry)
		return ArchiveResultMsg{Entry: entry, Err: err}, err
	})
}

// Update applies messages that belong to the core and reports whether msg
// was consumed.
func (vm *ViewModel) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case JobSignalMsg:
		vm.recordJob(msg.Snapshot)
		return nil, true
	case JobResultMsg:
		vm.recordJob(msg.Snapshot)
		return vm.route(msg.Payload), true
	case copyExpiredMsg:
		vm.clipboard.Clear(msg.generation)
		return nil, true
	case CredentialsLoadedMsg, SettingsSavedMsg, SummaryResultMsg, ArchiveResultMsg:
		return vm.route(msg), true
	}
	return nil, false
}

func (vm *ViewModel) route(payload tea.Msg) tea.Cmd {
	switch msg := payload.(type) {
	case CredentialsLoadedMsg:
		applied := vm.store.HandleLoaded(msg)
		if vm.settings.Error() == settingsLoadPending && (vm.store.Loaded() || vm.store.LoadError() != "") {
			vm.settings.refuse("")
		}
		if !applied {
			return nil
		}
		vm.settings.Refresh(vm.store.Current())
		if strings.HasPrefix(vm.notice, "Recarregando") {
			vm.notice = ""
		}
	case SettingsSavedMsg:
		vm.store.HandleSaved(msg.Result)
		if vm.settings.HandleSaved(msg) {
			vm.notice = "Chaves salvas."
		}
	case SummaryResultMsg:
		vm.controller.HandleResult(msg)
	case ArchiveResultMsg:
		if msg.Err != nil {
			vm.notice = fmt.Sprintf("Falha ao arquivar: %v", msg.Err)
			return nil
		}
		vm.notice = fmt.Sprintf("Arquivado: %s", msg.Entry.Title())
	}
	return nil
}

func (vm *ViewModel) recordJob(snapshot JobSnapshot) {
	for i := range vm.jobs {
		if vm.jobs[i].ID == snapshot.ID {
			vm.jobs[i] = snapshot
			return
		}
	}
	vm.jobs = append(vm.jobs, snapshot)
	if len(vm.jobs) > recentJobLimit {
		vm.jobs = vm.jobs[len(vm.jobs)-recentJobLimit:]
	}
}

// State returns a snapshot safe to hold across updates.
func (vm *ViewModel) State() State {
	return State{
		Status:            vm.controller.Status(),
		Summary:           vm.controller.Summary(),
		Error:             vm.controller.Error(),
		Loading:           vm.controller.Loading(),
		Request:           vm.controller.LastRequest(),
		StartedAt:         vm.controller.StartedAt(),
		Credentials:       vm.store.Current(),
		CredentialsLoaded: vm.store.Loaded(),
		ConfigLoadError:   vm.store.LoadError(),
		SettingsOpen:      vm.settings.IsOpen(),
		Draft:             vm.settings.Draft(),
		Saving:            vm.settings.Status() == SavingInProgress || vm.store.Saving(),
		SettingsError:     vm.settings.Error(),
		Copied:            vm.clipboard.Copied(),
		Notice:            vm.notice,
		Jobs:              append([]JobSnapshot(nil), vm.jobs...),
	}
}
