package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Entry is one archived summary.
type Entry struct {
	ID               string    `json:"id"`
	URL              string    `json:"url"`
	Provider         string    `json:"provider"`
	PromptSupplement string    `json:"promptSupplement,omitempty"`
	Summary          string    `json:"summary"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewEntry stamps a fresh entry with an ID and creation time.
func NewEntry(url, provider, prompt, summary string) Entry {
	return Entry{
		ID:               uuid.NewString(),
		URL:              url,
		Provider:         provider,
		PromptSupplement: prompt,
		Summary:          summary,
		CreatedAt:        time.Now(),
	}
}

// Title is the first markdown heading of the summary, or its first line.
func (e Entry) Title() string {
	first := ""
	for _, line := range strings.Split(e.Summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			return trimmedTitle(strings.TrimSpace(strings.TrimLeft(line, "#")))
		}
		if first == "" {
			first = line
		}
	}
	if first == "" {
		return e.URL
	}
	return trimmedTitle(first)
}

func trimmedTitle(value string) string {
	runes := []rune(strings.TrimSpace(value))
	if len(runes) <= 60 {
		return string(runes)
	}
	return fmt.Sprintf("%s…", strings.TrimSpace(string(runes[:57])))
}

// Store appends entries to a JSON array on disk. Appends are serialized.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path reports the archive location.
func (s *Store) Path() string { return s.path }

// Append adds entry to the archive, creating the file if necessary.
func (s *Store) Append(ctx context.Context, entry Entry) error {
	if s.path == "" {
		return errors.New("history path not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create history dir")
	}
	entries, err := s.load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	entries = append(entries, entry)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode history")
	}
	return errors.Wrap(os.WriteFile(s.path, data, 0o644), "write history")
}

// Load returns every archived entry in insertion order.
func (s *Store) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "parse history %s", s.path)
	}
	return entries, nil
}
