package reduce

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/honterplatform/icetex/internal/llm"
	"github.com/honterplatform/icetex/internal/shared/telemetry"
)

// Budget and chunking constants for oversized petitions.
const (
	maxEstimatedTokens = 25000
	chunkSizeChars     = 15000
	summaryMaxTokens   = 2000
	resummarizeChars   = 20000
	chunkFallbackChars = 1000
	totalFallbackChars = 20000

	maxResummarizePasses = 3
)

const summaryInstruction = "Eres un asistente que resume documentos de peticiones dirigidas a ICETEX. " +
	"Resume el texto preservando el tipo de solicitud, el motivo principal, los datos de identificación " +
	"del solicitante y cualquier detalle relevante para la clasificación. El resumen debe estar en " +
	"español y ser conciso pero completo."

const truncatedNote = "\n\n[Nota: el texto fue truncado debido a los límites de tokens del modelo]"

// Reducer keeps petition text under the model's input budget by summarizing
// oversized documents chunk by chunk.
type Reducer struct {
	llm   llm.Client
	model string
}

// New builds a Reducer that summarizes with the given model.
func New(client llm.Client, model string) *Reducer {
	return &Reducer{llm: client, model: model}
}

// Reduce returns text unchanged when it fits the budget. Oversized text is
// split into paragraph-aligned chunks, each summarized independently, and
// the summaries joined; a still-oversized result is summarized again. A
// failing chunk degrades to its own head, and a failing final pass degrades
// to the head of the original text, so the output length is always bounded.
// The returned bool reports whether any reduction happened.
func (r *Reducer) Reduce(ctx context.Context, text string) (string, bool) {
	if estimatedTokens(text) <= maxEstimatedTokens {
		return text, false
	}

	chunks := splitParagraphChunks(text, chunkSizeChars)
	telemetry.Info("reduce.start", map[string]any{
		"chars":  utf8.RuneCountInString(text),
		"tokens": estimatedTokens(text),
		"chunks": len(chunks),
	})

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := r.summarize(ctx, chunk)
		if err != nil {
			telemetry.Warn("reduce.chunk.fallback", map[string]any{
				"chunk":  i + 1,
				"chunks": len(chunks),
				"error":  err.Error(),
			})
			summary = headRunes(chunk, chunkFallbackChars) + "..."
		}
		summaries = append(summaries, summary)
	}

	combined := strings.Join(summaries, "\n\n")
	for pass := 0; utf8.RuneCountInString(combined) > resummarizeChars; pass++ {
		if pass == maxResummarizePasses {
			combined = headRunes(combined, resummarizeChars)
			break
		}
		again, err := r.summarize(ctx, combined)
		if err != nil {
			telemetry.Error("reduce.failed", map[string]any{"error": err.Error()})
			return headRunes(text, totalFallbackChars) + truncatedNote, true
		}
		combined = again
	}
	return combined, true
}

func (r *Reducer) summarize(ctx context.Context, text string) (string, error) {
	resp, err := r.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0.3,
		MaxTokens:   summaryMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summaryInstruction},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary response has no choices")
	}
	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("summary response is empty")
	}
	return summary, nil
}

// estimatedTokens approximates the model token count as one token per four
// characters.
func estimatedTokens(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// splitParagraphChunks groups paragraphs into chunks of at most limit
// characters, never splitting a paragraph. A paragraph longer than the limit
// becomes its own oversized chunk.
func splitParagraphChunks(text string, limit int) []string {
	paragraphs := strings.Split(text, "\n\n")
	var chunks []string
	var current []string
	currentLen := 0
	for _, p := range paragraphs {
		pLen := utf8.RuneCountInString(p)
		sep := 0
		if len(current) > 0 {
			sep = 2
		}
		if len(current) > 0 && currentLen+sep+pLen > limit {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = current[:0]
			currentLen = 0
			sep = 0
		}
		current = append(current, p)
		currentLen += sep + pLen
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}
	return chunks
}

func headRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
