package session

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/csheth/resumotube/internal/api"
)

const (
	// DefaultSummarizeTimeout bounds how long a submission may stay Loading.
	DefaultSummarizeTimeout = 90 * time.Second
	// DefaultRequestTimeout bounds configuration reads and writes.
	DefaultRequestTimeout = 15 * time.Second
)

// User-facing failure messages.
const (
	MessageMissingURL     = "Por favor, insira o link do vídeo."
	MessageGenericFailure = "Ocorreu um erro ao gerar o resumo."
	MessageTimeout        = "O servidor demorou demais para responder. Tente novamente."
	MessageEmptySummary   = "O serviço não retornou um resumo."
)

// SummaryBackend submits summarization requests.
type SummaryBackend interface {
	Summarize(ctx context.Context, req api.SummarizeRequest) (string, error)
}

// Status is the lifecycle of the current summarization attempt.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request is one summarization submission. It is passed by value so the
// issued copy cannot change afterwards.
type Request struct {
	URL              string
	Provider         api.Provider
	PromptSupplement string
}

// SummaryResultMsg carries a response tagged with the submission that caused it.
type SummaryResultMsg struct {
	Seq     uint64
	Summary string
	Err     error
}

// Controller owns the request lifecycle for summarizations.
type Controller struct {
	backend SummaryBackend
	timeout time.Duration
	log     logrus.FieldLogger
	now     func() time.Time

	seq       uint64
	status    Status
	summary   string
	errMsg    string
	last      Request
	startedAt time.Time
}

// NewController builds an idle controller.
func NewController(backend SummaryBackend, timeout time.Duration, log logrus.FieldLogger) *Controller {
	if timeout <= 0 {
		timeout = DefaultSummarizeTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		backend: backend,
		timeout: timeout,
		log:     log.WithField("component", "summaries"),
		now:     time.Now,
	}
}

func (c *Controller) Status() Status { return c.status }
func (c *Controller) Summary() string { return c.summary }
func (c *Controller) Error() string { return c.errMsg }
func (c *Controller) Seq() uint64 { return c.seq }
func (c *Controller) LastRequest() Request { return c.last }
func (c *Controller) StartedAt() time.Time { return c.startedAt }
func (c *Controller) Loading() bool { return c.status == StatusLoading }

// Submit starts a new attempt and returns the job that performs it. An
// empty link fails immediately and yields no job. Either way the
// submission supersedes anything still in flight.
func (c *Controller) Submit(req Request) Job {
	req.URL = strings.TrimSpace(req.URL)
	if req.Provider == "" {
		req.Provider = api.DefaultProvider
	}
	c.seq++
	c.last = req
	c.summary = ""
	c.errMsg = ""
	if req.URL == "" {
		c.status = StatusFailed
		c.errMsg = MessageMissingURL
		return nil
	}
	c.status = StatusLoading
	c.startedAt = c.now()

	tag := c.seq
	backend := c.backend
	timeout := c.timeout
	payload := api.SummarizeRequest{
		URL:              req.URL,
		Provider:         req.Provider,
		PromptSupplement: req.PromptSupplement,
	}
	c.log.WithFields(logrus.Fields{"seq": tag, "provider": req.Provider}).Info("submitting summary request")
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		summary, err := backend.Summarize(ctx, payload)
		return SummaryResultMsg{Seq: tag, Summary: summary, Err: err}, err
	}
}

// HandleResult applies msg when it answers the latest submission and
// reports whether it did. Older responses are dropped.
func (c *Controller) HandleResult(msg SummaryResultMsg) bool {
	if msg.Seq != c.seq {
		c.log.WithFields(logrus.Fields{"seq": msg.Seq, "latest": c.seq}).Debug("dropping stale summary response")
		return false
	}
	if c.status != StatusLoading {
		return false
	}
	if msg.Err != nil {
		c.status = StatusFailed
		c.summary = ""
		c.errMsg = describeFailure(msg.Err)
		return true
	}
	c.status = StatusSucceeded
	c.summary = msg.Summary
	c.errMsg = ""
	return true
}

// describeFailure picks the most specific message available for err.
func describeFailure(err error) string {
	if err == nil {
		return MessageGenericFailure
	}
	if detail, ok := api.ServiceDetail(err); ok {
		return detail
	}
	if api.IsTimeout(err) {
		return MessageTimeout
	}
	if errors.Is(err, api.ErrEmptySummary) {
		return MessageEmptySummary
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MessageGenericFailure
}
