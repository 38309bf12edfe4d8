package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/honterplatform/icetex/internal/classify"
	"github.com/honterplatform/icetex/internal/extract"
	"github.com/honterplatform/icetex/internal/shared/storage/object"
	"github.com/honterplatform/icetex/internal/shared/telemetry"
	"github.com/honterplatform/icetex/internal/shared/util"
)

var _ classify.KnowledgeSource = (*Store)(nil)

const (
	infoFileName = "dependencies_info.json"
	textFileName = "reference_text.txt"

	// minReferenceRunes is the minimum stripped length accepted on upload.
	// IsAvailable requires strictly more than this.
	minReferenceRunes = 100

	archiveKey = "knowledge/reference.pdf"
)

// ErrInsufficientText is returned when the uploaded PDF yields too little text.
var ErrInsufficientText = errors.New("could not extract sufficient text from the PDF")

// DocumentInfo describes the reference document currently held by the store.
type DocumentInfo struct {
	FileHash      string `json:"file_hash"`
	Filename      string `json:"filename"`
	UploadDate    string `json:"upload_date"`
	Description   string `json:"description"`
	TextLength    int    `json:"text_length"`
	LastProcessed string `json:"last_processed"`
}

// Status summarizes the knowledge base for API consumers.
type Status struct {
	HasReferenceDocument bool          `json:"has_reference_document"`
	ReferenceTextLength  int           `json:"reference_text_length"`
	DependenciesInfo     *DocumentInfo `json:"dependencies_info,omitempty"`
	LastUpdated          string        `json:"last_updated"`
}

// UploadResult reports the outcome of processing a reference document.
type UploadResult struct {
	Message    string `json:"message"`
	FileHash   string `json:"file_hash"`
	Filename   string `json:"filename"`
	TextLength int    `json:"text_length"`
}

// Extractor pulls text out of a reference PDF on disk. Extraction failures,
// including unavailable OCR, abort the upload.
type Extractor interface {
	FromFile(ctx context.Context, path string) (extract.Extraction, error)
}

// Store keeps the ICETEX dependencies reference document on disk and serves
// its text as classification context. Reads never observe a partial update.
type Store struct {
	dir       string
	extractor Extractor
	archive   object.ObjectStore

	mu   sync.RWMutex
	info *DocumentInfo
	text string
}

// NewStore loads any previously uploaded reference document from dir. The
// archive store is optional; when set, uploaded PDFs are copied there.
func NewStore(dir string, extractor Extractor, archive object.ObjectStore) (*Store, error) {
	if dir == "" {
		return nil, errors.New("knowledge: storage directory required")
	}
	if extractor == nil {
		return nil, errors.New("knowledge: extractor required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("knowledge: create storage directory: %w", err)
	}

	s := &Store{dir: dir, extractor: extractor, archive: archive}
	s.load()
	return s, nil
}

func (s *Store) load() {
	if raw, err := os.ReadFile(filepath.Join(s.dir, infoFileName)); err == nil {
		var info DocumentInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			telemetry.Warn("knowledge.load", map[string]any{"file": infoFileName, "error": err.Error()})
		} else {
			s.info = &info
		}
	}
	if raw, err := os.ReadFile(filepath.Join(s.dir, textFileName)); err == nil {
		s.text = string(raw)
	}
}

// Upload extracts text from the given PDF and replaces the reference
// document. Re-uploading identical bytes is a no-op.
func (s *Store) Upload(ctx context.Context, pdfBytes []byte, filename, description string) (UploadResult, error) {
	if len(pdfBytes) == 0 {
		return UploadResult{}, errors.New("knowledge: empty file")
	}

	hash := util.HashBytes(pdfBytes)

	s.mu.RLock()
	if s.info != nil && s.info.FileHash == hash && s.text != "" {
		res := UploadResult{
			Message:    "Document already uploaded and processed",
			FileHash:   hash,
			Filename:   s.info.Filename,
			TextLength: s.info.TextLength,
		}
		s.mu.RUnlock()
		return res, nil
	}
	s.mu.RUnlock()

	tmp, err := os.CreateTemp("", "knowledge-*.pdf")
	if err != nil {
		return UploadResult{}, fmt.Errorf("knowledge: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(pdfBytes); err != nil {
		tmp.Close()
		return UploadResult{}, fmt.Errorf("knowledge: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("knowledge: close temp file: %w", err)
	}

	ext, err := s.extractor.FromFile(ctx, tmpPath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("knowledge: process reference document: %w", err)
	}

	text := strings.TrimSpace(ext.Text)
	if utf8.RuneCountInString(text) < minReferenceRunes {
		return UploadResult{}, ErrInsufficientText
	}

	now := time.Now().UTC().Format(time.RFC3339)
	info := DocumentInfo{
		FileHash:      hash,
		Filename:      filename,
		UploadDate:    now,
		Description:   description,
		TextLength:    utf8.RuneCountInString(text),
		LastProcessed: now,
	}

	if err := s.persist(info, text); err != nil {
		return UploadResult{}, err
	}

	s.mu.Lock()
	s.info = &info
	s.text = text
	s.mu.Unlock()

	if s.archive != nil {
		if _, err := s.archive.SaveWithKey(ctx, archiveKey, "application/pdf", bytes.NewReader(pdfBytes)); err != nil {
			telemetry.Warn("knowledge.archive", map[string]any{"key": archiveKey, "error": err.Error()})
		}
	}

	telemetry.Info("knowledge.upload", map[string]any{
		"filename":    filename,
		"text_length": info.TextLength,
		"method":      ext.Method,
	})

	return UploadResult{
		Message:    "Dependencies document uploaded and processed successfully",
		FileHash:   hash,
		Filename:   filename,
		TextLength: info.TextLength,
	}, nil
}

// persist writes both files through a temp-and-rename so a crash mid-write
// never leaves a torn file behind.
func (s *Store) persist(info DocumentInfo, text string) error {
	raw, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("knowledge: encode info: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, infoFileName), raw); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, textFileName), []byte(text))
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("knowledge: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("knowledge: write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("knowledge: close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("knowledge: replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Clear removes the reference document from disk and memory.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{infoFileName, textFileName} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("knowledge: remove %s: %w", name, err)
		}
	}
	s.info = nil
	s.text = ""
	return nil
}

// Info reports whether a reference document is loaded and its metadata.
func (s *Store) Info() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		HasReferenceDocument: s.text != "",
		ReferenceTextLength:  utf8.RuneCountInString(s.text),
		LastUpdated:          "Never",
	}
	if s.info != nil {
		info := *s.info
		st.DependenciesInfo = &info
		if info.UploadDate != "" {
			st.LastUpdated = info.UploadDate
		}
	}
	return st
}

// IsAvailable reports whether enough reference text is loaded to be useful.
func (s *Store) IsAvailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return utf8.RuneCountInString(strings.TrimSpace(s.text)) > minReferenceRunes
}

// ReferenceContext returns up to maxChars runes of the reference text. When
// truncating, it prefers to cut at the last sentence boundary past 80% of the
// budget so the model is not handed a half sentence.
func (s *Store) ReferenceContext(maxChars int) string {
	s.mu.RLock()
	text := s.text
	s.mu.RUnlock()

	if text == "" || maxChars <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	truncated := runes[:maxChars]
	lastPeriod := -1
	for i := len(truncated) - 1; i >= 0; i-- {
		if truncated[i] == '.' {
			lastPeriod = i
			break
		}
	}
	if lastPeriod > maxChars*8/10 {
		return string(truncated[:lastPeriod+1])
	}
	return string(truncated) + "..."
}
