package tui

type interactionMode int

const (
	modeNormal interactionMode = iota
	modeInsert
)

type focusTarget int

const (
	focusURL focusTarget = iota
	focusPrompt
)

const heroTagline = "Resumos de vídeos do YouTube com IA."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)

const (
	urlPlaceholder    = "https://www.youtube.com/watch?v=..."
	promptPlaceholder = "Ex.: foque nos pontos técnicos (opcional)"
	keyPlaceholder    = "cole a chave aqui"
)

const (
	infoIdle      = "Cole o link do vídeo e pressione Enter."
	infoLoading   = "Gerando resumo…"
	infoSucceeded = "Resumo pronto. c copia, a arquiva."
	infoCopied    = "Copiado!"
	infoSaving    = "Salvando chaves…"
)
