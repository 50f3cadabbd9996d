package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/csheth/resumotube/internal/api"
	"github.com/csheth/resumotube/internal/session"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name           string
		width          int
		height         int
		viewportWidth  int
		viewportHeight int
		inputWidth     int
	}{
		{name: "narrow", width: 80, height: 24, viewportWidth: 76, viewportHeight: 8, inputWidth: 70},
		{name: "wide", width: 200, height: 40, viewportWidth: 196, viewportHeight: 24, inputWidth: 190},
		{name: "tiny", width: 20, height: 10, viewportWidth: 40, viewportHeight: 5, inputWidth: 34},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.viewportWidth != tc.viewportWidth {
				t.Fatalf("viewport width mismatch: got %d want %d", layout.viewportWidth, tc.viewportWidth)
			}
			if layout.viewportHeight != tc.viewportHeight {
				t.Fatalf("viewport height mismatch: got %d want %d", layout.viewportHeight, tc.viewportHeight)
			}
			if layout.inputWidth != tc.inputWidth {
				t.Fatalf("input width mismatch: got %d want %d", layout.inputWidth, tc.inputWidth)
			}
		})
	}
}

func TestBuildResultContentWraps(t *testing.T) {
	state := session.State{
		Status:  session.StatusSucceeded,
		Summary: strings.Repeat("palavra ", 20),
	}
	content := buildResultContent(state, 30)
	for _, line := range strings.Split(content, "\n") {
		if len([]rune(line)) > 30 {
			t.Fatalf("line exceeds wrap width: %q", line)
		}
	}
}

func TestLoadingDetailIncludesPrompt(t *testing.T) {
	state := session.State{
		Status:  session.StatusLoading,
		Request: session.Request{URL: "https://youtu.be/abc", Provider: api.ProviderOpenAI, PromptSupplement: "foco em dados"},
	}
	detail := loadingDetail(state)
	if !strings.Contains(detail, "OpenAI (GPT)") || !strings.Contains(detail, "foco em dados") {
		t.Fatalf("loading detail incomplete: %q", detail)
	}
}

func TestElapsedLabel(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if got := elapsedLabel(time.Time{}, start); got != "" {
		t.Fatalf("zero start should render nothing, got %q", got)
	}
	if got := elapsedLabel(start, start.Add(1500*time.Millisecond)); got != "2s" {
		t.Fatalf("elapsed mismatch, got %q", got)
	}
}

func TestMaskKey(t *testing.T) {
	cases := map[string]string{
		"":               "não configurada",
		"abc":            "•••",
		"AIzaSy-secret1": "••••••ret1",
	}
	for input, want := range cases {
		if got := maskKey(input); got != want {
			t.Fatalf("maskKey(%q) = %q, want %q", input, got, want)
		}
	}
}
