package classify

import (
	_ "embed"
	"strings"
)

//go:embed system_prompt.txt
var systemPromptRaw string

// systemPrompt is the fixed rule table handed to the model; the embedded
// file keeps a trailing newline the original instruction does not have.
var systemPrompt = strings.TrimRight(systemPromptRaw, "\n")

// KnowledgeSource supplies optional reference material appended to the
// system prompt. The engine consults it on every call so an upload or
// clear takes effect without rebuilding the engine.
type KnowledgeSource interface {
	IsAvailable() bool
	ReferenceContext(maxChars int) string
}

// referenceContextMaxChars caps the reference block appended to the prompt.
const referenceContextMaxChars = 8000

func buildSystemPrompt(kb KnowledgeSource) string {
	prompt := systemPrompt
	if kb != nil && kb.IsAvailable() {
		if ref := kb.ReferenceContext(referenceContextMaxChars); ref != "" {
			prompt += "\n\n### DOCUMENTO DE REFERENCIA ADICIONAL\n" +
				"Tienes acceso al documento oficial de dependencias de ICETEX con información detallada:\n\n" +
				ref +
				"\n\nUsa esta información detallada para hacer clasificaciones más precisas. " +
				"Todas las respuestas deben estar en español."
		}
	}
	return prompt
}
