package classify

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/honterplatform/icetex/internal/llm"
	"github.com/honterplatform/icetex/internal/reduce"
	"github.com/honterplatform/icetex/internal/shared/telemetry"
)

const (
	defaultModel        = "gpt-4-turbo"
	classifyTemperature = 0.3

	// Texts shorter than this are rejected without a model call.
	minTextRunes = 10

	previewRunes = 200
)

const motivoTooShort = "The petition text is too short or empty to classify."

// Result is the structured classification returned for every petition.
// Failures never escape the engine as errors; they come back as a valid
// Result carrying the Error sentinel.
type Result struct {
	Dependencia   string   `json:"dependencia"`
	Confianza     string   `json:"confianza"`
	Motivo        string   `json:"motivo"`
	PalabrasClave []string `json:"palabras_clave"`
}

// Metadata describes the call that produced a Result.
type Metadata struct {
	Model       string `json:"model"`
	TextLength  int    `json:"text_length"`
	TextPreview string `json:"text_preview"`
	Reduced     bool   `json:"reduced"`
}

// Engine routes petition texts to ICETEX dependencies via a chat model.
type Engine struct {
	llm     llm.Client
	model   string
	reducer *reduce.Reducer
	kb      KnowledgeSource
}

// NewEngine builds a classification engine. kb may be nil when no reference
// document support is wanted.
func NewEngine(client llm.Client, model string, reducer *reduce.Reducer, kb KnowledgeSource) *Engine {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Engine{llm: client, model: model, reducer: reducer, kb: kb}
}

// Model reports the chat model the engine classifies with.
func (e *Engine) Model() string {
	return e.model
}

// Classify routes a petition text to one of the ICETEX dependencies.
func (e *Engine) Classify(ctx context.Context, petitionText string) Result {
	result, _ := e.classify(ctx, petitionText)
	return result
}

// ClassifyWithMetadata returns the classification along with details about
// the call that produced it.
func (e *Engine) ClassifyWithMetadata(ctx context.Context, petitionText string) (Result, Metadata) {
	result, reduced := e.classify(ctx, petitionText)
	return result, Metadata{
		Model:       e.model,
		TextLength:  utf8.RuneCountInString(petitionText),
		TextPreview: preview(petitionText),
		Reduced:     reduced,
	}
}

func (e *Engine) classify(ctx context.Context, petitionText string) (Result, bool) {
	if utf8.RuneCountInString(strings.TrimSpace(petitionText)) < minTextRunes {
		return errorResult(motivoTooShort), false
	}

	text := petitionText
	reduced := false
	if e.reducer != nil {
		text, reduced = e.reducer.Reduce(ctx, petitionText)
	}

	resp, err := e.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: classifyTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(e.kb)},
			{Role: openai.ChatMessageRoleUser, Content: "Classify this petition:\n\n" + text},
		},
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Classification error: %v", err)), reduced
	}
	if len(resp.Choices) == 0 {
		return errorResult("Classification error: response has no choices"), reduced
	}

	telemetry.Info("classify.llm.usage", map[string]any{
		"model":             e.model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
		"reduced":           reduced,
	})

	doc, err := decodeResultDoc(resp.Choices[0].Message.Content)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to parse OpenAI response as JSON: %v", err)), reduced
	}
	result, err := normalizeResult(doc)
	if err != nil {
		return errorResult(fmt.Sprintf("Classification error: invalid response shape: %v", err)), reduced
	}
	return result, reduced
}

func errorResult(motivo string) Result {
	return Result{
		Dependencia:   ErrorLabel,
		Confianza:     "0%",
		Motivo:        motivo,
		PalabrasClave: []string{},
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}
