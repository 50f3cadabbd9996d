package session

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// JobKind names the operation a job performs.
type JobKind string

// JobStatus tracks a job through its lifecycle.
type JobStatus string

const (
	JobLoadConfig JobKind = "load-config"
	JobSaveConfig JobKind = "save-config"
	JobSummarize  JobKind = "summarize"
	JobArchive    JobKind = "archive"
)

const (
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// JobSnapshot describes one job at a point in time.
type JobSnapshot struct {
	ID          string
	Kind        JobKind
	Status      JobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

// JobSignalMsg announces that a job started.
type JobSignalMsg struct {
	Snapshot JobSnapshot
}

// JobResultMsg carries a finished job's payload back to the update loop.
type JobResultMsg struct {
	Snapshot JobSnapshot
	Payload  tea.Msg
}

// Job performs I/O off the update loop and reports its outcome as a message.
// It must not touch component state; the payload is applied by the owner
// once it is delivered back.
type Job func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
	log     logrus.FieldLogger
}

func newJobBus(log logrus.FieldLogger) *jobBus {
	return &jobBus{log: log}
}

func (b *jobBus) nextID(kind JobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start schedules job and returns the command that runs it. A nil job
// yields a nil command.
func (b *jobBus) Start(kind JobKind, job Job) tea.Cmd {
	if job == nil {
		return nil
	}
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := JobSnapshot{ID: id, Kind: kind, Status: JobRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return JobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		payload, err := job(context.Background())
		snapshot := JobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = JobFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = JobSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		entry := b.log.WithFields(logrus.Fields{
			"job":      id,
			"status":   snapshot.Status,
			"duration": snapshot.Duration,
		})
		if err != nil {
			entry.WithError(err).Warn("job finished")
		} else {
			entry.Info("job finished")
		}
		return JobResultMsg{Snapshot: snapshot, Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}
