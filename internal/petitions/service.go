package petitions

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/honterplatform/icetex/internal/classify"
	"github.com/honterplatform/icetex/internal/extract"
	"github.com/honterplatform/icetex/internal/shared/metrics"
	"github.com/honterplatform/icetex/internal/shared/storage/object"
	"github.com/honterplatform/icetex/internal/shared/telemetry"
)

// minClassifiableRunes is the least stripped text worth sending to the model.
const minClassifiableRunes = 10

// extractedPreviewRunes caps the extracted text echoed back on rejection.
const extractedPreviewRunes = 500

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Classifier routes petition text to an ICETEX dependency.
type Classifier interface {
	ClassifyWithMetadata(ctx context.Context, text string) (classify.Result, classify.Metadata)
	Model() string
}

// Extractor pulls text out of uploaded PDF bytes.
type Extractor interface {
	FromBytes(ctx context.Context, pdfBytes []byte) (extract.Extraction, error)
}

// Service contains business logic for petitions. Engine is nil when no API
// key is configured; callers must check Available first.
type Service struct {
	Engine    Classifier
	Extractor Extractor
	Store     object.ObjectStore
	Repo      Repo
}

// Available reports whether a classification engine is configured.
func (s *Service) Available() bool {
	return s.Engine != nil
}

// Classify extracts text from the PDF, classifies it, and records the
// outcome. The original document is archived before classification; an
// archiving failure downgrades to a warning so the petition still goes
// through.
func (s *Service) Classify(ctx context.Context, fileName string, pdfBytes []byte) (Petition, error) {
	if strings.TrimSpace(fileName) == "" || len(pdfBytes) == 0 {
		return Petition{}, ErrInvalidInput
	}

	metrics.IncClassificationStarted()
	start := metrics.NowMillis()

	ext, err := s.Extractor.FromBytes(ctx, pdfBytes)
	if err != nil {
		metrics.IncClassificationFailed()
		return Petition{}, fmt.Errorf("extract text: %w", err)
	}

	stripped := strings.TrimSpace(ext.Text)
	if utf8.RuneCountInString(stripped) < minClassifiableRunes {
		metrics.IncClassificationFailed()
		return Petition{}, &InsufficientTextError{Extracted: headRunes(ext.Text, extractedPreviewRunes)}
	}

	if ext.Method == extract.MethodOCR {
		metrics.IncOCRFallback()
	}

	storageKey := ""
	if s.Store != nil {
		key, _, _, err := s.Store.Save(ctx, "petitions", fileName, bytes.NewReader(pdfBytes))
		if err != nil {
			telemetry.Warn("petitions.store", map[string]any{"file": fileName, "error": err.Error()})
		} else {
			storageKey = key
		}
	}

	result, meta := s.Engine.ClassifyWithMetadata(ctx, ext.Text)
	if meta.Reduced {
		metrics.IncTextReduced()
	}

	p := Petition{
		ID:            uuid.NewString(),
		FileName:      fileName,
		StorageKey:    storageKey,
		Dependencia:   result.Dependencia,
		Confianza:     result.Confianza,
		Motivo:        result.Motivo,
		PalabrasClave: result.PalabrasClave,
		Model:         meta.Model,
		TextLength:    meta.TextLength,
		TextPreview:   meta.TextPreview,
		Method:        ext.Method,
		Reduced:       meta.Reduced,
		SizeBytes:     int64(len(pdfBytes)),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		metrics.IncClassificationFailed()
		return Petition{}, fmt.Errorf("persist petition: %w", err)
	}

	if result.Dependencia == classify.ErrorLabel {
		metrics.IncClassificationFailed()
	} else {
		metrics.IncClassificationCompleted()
	}
	metrics.ObserveClassificationDurationMs(metrics.NowMillis() - start)

	telemetry.Info("petitions.classified", map[string]any{
		"id":          p.ID,
		"file":        p.FileName,
		"dependencia": p.Dependencia,
		"method":      p.Method,
		"reduced":     p.Reduced,
	})
	return p, nil
}

// List returns recent petitions, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Petition, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, limit, offset)
}

// Get returns one petition by ID.
func (s *Service) Get(ctx context.Context, id string) (Petition, error) {
	if strings.TrimSpace(id) == "" {
		return Petition{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
