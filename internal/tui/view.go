package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/resumotube/internal/api"
	"github.com/csheth/resumotube/internal/session"
)

func (m *model) View() string {
	state := m.vm.State()
	m.refreshViewportIfDirty(state)

	parts := []string{m.heroView()}
	if state.SettingsOpen {
		parts = append(parts, m.settingsView(state))
	} else {
		parts = append(parts, m.formView(state))
	}
	parts = append(parts, m.statusView(state), m.viewport.View())
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	parts = append(parts, m.footerView(state))
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	lines := []string{renderLogo(), taglineStyle.Render(heroTagline)}
	if m.config.BaseURL != "" {
		lines = append(lines, helperStyle.Render("Servidor: "+m.config.BaseURL))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *model) formView(state session.State) string {
	provider := lipgloss.JoinHorizontal(
		lipgloss.Top,
		labelStyle.Render("Provedor "),
		providerStyle.Render(m.provider.Label()),
		helperStyle.Render("  Ctrl+T ou p alterna"),
	)
	parts := []string{
		labelStyle.Render("Link do vídeo"),
		m.urlInput.View(),
		labelStyle.Render("Instruções extras"),
		m.promptInput.View(),
		provider,
	}
	if warning := missingKeyWarning(state, m.provider); warning != "" {
		parts = append(parts, warningStyle.Render(warning))
	}
	return strings.Join(parts, "\n")
}

func missingKeyWarning(state session.State, provider api.Provider) string {
	if !state.CredentialsLoaded || !state.KeyMissing(provider) {
		return ""
	}
	return fmt.Sprintf("Nenhuma chave %s configurada. Esc e depois s para configurar.", provider.Label())
}

func (m *model) settingsView(state session.State) string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Chaves de API"))
	b.WriteRune('\n')
	b.WriteRune('\n')
	b.WriteString(keyFieldLabel(api.ProviderGemini, state.Credentials.GeminiKey))
	b.WriteRune('\n')
	b.WriteString(m.geminiInput.View())
	b.WriteRune('\n')
	b.WriteString(keyFieldLabel(api.ProviderOpenAI, state.Credentials.OpenAIKey))
	b.WriteRune('\n')
	b.WriteString(m.openaiInput.View())
	b.WriteRune('\n')
	b.WriteRune('\n')
	switch {
	case state.Saving:
		b.WriteString(helperStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), infoSaving)))
		b.WriteRune('\n')
	case state.SettingsError != "":
		b.WriteString(errorStyle.Render(state.SettingsError))
		b.WriteRune('\n')
	}
	b.WriteString(helperStyle.Render("Enter salva • Tab alterna o campo • Esc cancela"))
	return settingsBoxStyle.Render(b.String())
}

func keyFieldLabel(provider api.Provider, stored string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		labelStyle.Render(provider.Label()),
		helperStyle.Render("  atual: "+maskKey(stored)),
	)
}

func (m *model) statusView(state session.State) string {
	var lines []string
	switch state.Status {
	case session.StatusLoading:
		line := fmt.Sprintf("%s %s", m.spinner.View(), infoLoading)
		if elapsed := elapsedLabel(state.StartedAt, m.config.Now()); elapsed != "" {
			line = fmt.Sprintf("%s (%s)", line, elapsed)
		}
		lines = append(lines, helperStyle.Render(line))
	case session.StatusSucceeded:
		line := successStyle.Render(infoSucceeded)
		if state.Copied {
			line = lipgloss.JoinHorizontal(lipgloss.Top, line, "  ", successStyle.Render(infoCopied))
		}
		lines = append(lines, line)
	case session.StatusFailed:
		lines = append(lines, errorStyle.Render(state.Error))
	default:
		lines = append(lines, helperStyle.Render(infoIdle))
	}
	if state.Notice != "" {
		lines = append(lines, helperStyle.Render(state.Notice))
	}
	if state.ConfigLoadError != "" {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("Não foi possível carregar as chaves: %s (r tenta de novo)", state.ConfigLoadError)))
	}
	return strings.Join(lines, "\n")
}

func (m *model) footerView(state session.State) string {
	stats := []string{
		m.modeLabel(),
		m.provider.Label(),
		"Gemini " + keyBadge(state.Credentials.GeminiKey),
		"OpenAI " + keyBadge(state.Credentials.OpenAIKey),
	}
	stats = append(stats, jobStatusBadges(state.Jobs)...)
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) modeLabel() string {
	if m.mode == modeInsert {
		return "EDIÇÃO"
	}
	return "NAVEGAÇÃO"
}

func keyBadge(value string) string {
	if strings.TrimSpace(value) == "" {
		return "✗"
	}
	return "✓"
}

func jobStatusBadges(jobs []session.JobSnapshot) []string {
	badges := make([]string, 0, len(jobs))
	for _, job := range jobs {
		switch job.Status {
		case session.JobRunning:
			badges = append(badges, fmt.Sprintf("%s …", job.Kind))
		case session.JobFailed:
			badges = append(badges, fmt.Sprintf("%s ✗", job.Kind))
		default:
			badges = append(badges, fmt.Sprintf("%s ✓ %s", job.Kind, job.Duration.Round(100*time.Millisecond)))
		}
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Enter", "Resumir"},
		{"Esc", "Navegar"},
		{"i/e", "Editar link/instruções"},
		{"p", "Trocar provedor"},
		{"s", "Chaves de API"},
		{"c", "Copiar resumo"},
		{"a", "Arquivar resumo"},
		{"r", "Recarregar chaves"},
		{"↑/↓", "Rolar"},
		{"g/G", "Início/fim"},
		{"?", "Atalhos"},
		{"q", "Sair"},
	}
	rows := []string{sectionHeaderStyle.Render("Atalhos")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	// shadow first, face on top
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r == ' ' {
				continue
			}
			grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r == ' ' {
				continue
			}
			grid[y][x] = cell{r: r, style: logoFaceStyle}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
