package petitions

import (
	"time"

	"github.com/honterplatform/icetex/internal/classify"
)

// ClassificationMetadata describes the call that produced a classification.
type ClassificationMetadata struct {
	Model            string `json:"model"`
	TextLength       int    `json:"text_length"`
	TextPreview      string `json:"text_preview"`
	ExtractionMethod string `json:"extraction_method"`
	Reduced          bool   `json:"reduced"`
}

// ClassifyResponse is the outward-facing result of classifying one petition.
type ClassifyResponse struct {
	ID             string                 `json:"id"`
	Filename       string                 `json:"filename"`
	Classification classify.Result        `json:"classification"`
	Metadata       ClassificationMetadata `json:"metadata"`
}

// PetitionResponse is the outward-facing representation of a stored petition.
type PetitionResponse struct {
	ID             string                 `json:"id"`
	Filename       string                 `json:"filename"`
	Classification classify.Result        `json:"classification"`
	Metadata       ClassificationMetadata `json:"metadata"`
	CreatedAt      time.Time              `json:"created_at"`
}

func toClassification(p Petition) classify.Result {
	keywords := p.PalabrasClave
	if keywords == nil {
		keywords = []string{}
	}
	return classify.Result{
		Dependencia:   p.Dependencia,
		Confianza:     p.Confianza,
		Motivo:        p.Motivo,
		PalabrasClave: keywords,
	}
}

func toMetadata(p Petition) ClassificationMetadata {
	return ClassificationMetadata{
		Model:            p.Model,
		TextLength:       p.TextLength,
		TextPreview:      p.TextPreview,
		ExtractionMethod: p.Method,
		Reduced:          p.Reduced,
	}
}

func toClassifyResponse(p Petition) ClassifyResponse {
	return ClassifyResponse{
		ID:             p.ID,
		Filename:       p.FileName,
		Classification: toClassification(p),
		Metadata:       toMetadata(p),
	}
}

func toResponse(p Petition) PetitionResponse {
	return PetitionResponse{
		ID:             p.ID,
		Filename:       p.FileName,
		Classification: toClassification(p),
		Metadata:       toMetadata(p),
		CreatedAt:      p.CreatedAt,
	}
}

func toResponseList(items []Petition) []PetitionResponse {
	out := make([]PetitionResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toResponse(p))
	}
	return out
}
