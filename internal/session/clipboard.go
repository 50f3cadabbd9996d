package session

import (
	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ClipboardExporter copies results to the system clipboard and remembers
// that it did until the presentation clears the flag.
type ClipboardExporter struct {
	write func(string) error
	log   logrus.FieldLogger

	copied     bool
	generation int
}

// NewClipboardExporter uses write, or the system clipboard when write is nil.
func NewClipboardExporter(write func(string) error, log logrus.FieldLogger) *ClipboardExporter {
	if write == nil {
		write = clipboard.WriteAll
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ClipboardExporter{write: write, log: log.WithField("component", "clipboard")}
}

// Copied reports whether the acknowledgment flag is set.
func (e *ClipboardExporter) Copied() bool { return e.copied }

// Copy writes text and returns the acknowledgment generation to clear later.
func (e *ClipboardExporter) Copy(text string) (int, error) {
	if err := e.write(text); err != nil {
		e.log.WithError(err).Warn("clipboard unavailable")
		return e.generation, errors.Wrap(err, "copy to clipboard")
	}
	e.generation++
	e.copied = true
	return e.generation, nil
}

// Clear drops the flag unless a newer copy happened after generation.
func (e *ClipboardExporter) Clear(generation int) {
	if generation != e.generation {
		return
	}
	e.copied = false
}

// Reset drops the flag regardless of generation.
func (e *ClipboardExporter) Reset() {
	e.copied = false
}
