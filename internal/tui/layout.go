package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/resumotube/internal/session"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	inputWidth     int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 12,
		inputWidth:     70,
	}
}

// Update recomputes the panel sizes for a terminal of width x height.
func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.inputWidth = innerWidth - 6
	// hero, form, status and footer
	const chrome = 16
	usable := height - chrome
	if usable < 5 {
		usable = 5
	}
	l.viewportHeight = usable
}

// buildResultContent renders the viewport body for the current state.
func buildResultContent(state session.State, width int) string {
	var cb strings.Builder
	switch state.Status {
	case session.StatusSucceeded:
		cb.WriteString(sectionHeaderStyle.Render("Resumo"))
		cb.WriteRune('\n')
		cb.WriteString(wordwrap.String(state.Summary, width))
		cb.WriteRune('\n')
	case session.StatusFailed:
		cb.WriteString(sectionHeaderStyle.Render("Erro"))
		cb.WriteRune('\n')
		cb.WriteString(errorStyle.Render(wordwrap.String(state.Error, width)))
		cb.WriteRune('\n')
	case session.StatusLoading:
		cb.WriteString(helperStyle.Render(wordwrap.String(loadingDetail(state), width)))
		cb.WriteRune('\n')
	default:
		cb.WriteString(helperStyle.Render(infoIdle))
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render("Esc entra no modo de navegação; ? mostra os atalhos."))
		cb.WriteRune('\n')
	}
	return cb.String()
}

func loadingDetail(state session.State) string {
	parts := []string{fmt.Sprintf("Resumindo %s com %s.", state.Request.URL, state.Request.Provider.Label())}
	if prompt := strings.TrimSpace(state.Request.PromptSupplement); prompt != "" {
		parts = append(parts, fmt.Sprintf("Instruções: %s", previewText(prompt, 80)))
	}
	return strings.Join(parts, "\n")
}

func elapsedLabel(startedAt, now time.Time) string {
	if startedAt.IsZero() {
		return ""
	}
	elapsed := now.Sub(startedAt).Round(time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed.String()
}

func maskKey(value string) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	switch {
	case len(runes) == 0:
		return "não configurada"
	case len(runes) <= 4:
		return strings.Repeat("•", len(runes))
	default:
		return strings.Repeat("•", 6) + string(runes[len(runes)-4:])
	}
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}
