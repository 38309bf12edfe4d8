package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/honterplatform/icetex/internal/shared/telemetry"
)

// Extraction methods.
const (
	MethodDigital = "digital"
	MethodOCR     = "ocr"
	MethodNone    = "none"
)

// Below this many characters of digital text the document is treated as scanned.
const scannedTextThreshold = 100

const (
	scannedPlaceholder = "El documento parece ser un PDF escaneado y el OCR no está disponible en el servidor. " +
		"No fue posible extraer el texto de la petición."
	ocrUnavailableNote = "\n\n[Nota: el documento parece estar escaneado y el OCR no está disponible; " +
		"el texto extraído puede estar incompleto]"
)

// ErrOCRUnavailable signals that the OCR binaries are not installed on the host.
var ErrOCRUnavailable = errors.New("ocr tools not installed")

// Extraction is the outcome of pulling text from a PDF.
type Extraction struct {
	Text   string
	Method string
	Pages  int
	Chars  int
}

// Config controls the OCR toolchain used for scanned documents.
type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Lang      string // tesseract language, default "spa"
	DPI       int    // rasterization DPI for scanned PDFs, default 300
}

// Extractor pulls plain text out of petition PDFs, falling back to OCR
// for scanned documents.
type Extractor struct {
	cfg    Config
	runner Runner
}

// New builds an Extractor backed by host binaries.
func New(cfg Config) *Extractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "spa"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: ExecRunner{}}
}

// FromBytes extracts text from an in-memory PDF payload. The bytes are
// written to a uniquely named temp file for the duration of the call since
// both extraction passes need a file path; the file is removed on all exit
// paths. An OCR failure on a scanned document degrades to a Spanish
// placeholder instead of failing the call.
func (e *Extractor) FromBytes(ctx context.Context, pdfBytes []byte) (Extraction, error) {
	if len(pdfBytes) == 0 {
		return Extraction{Text: "", Method: MethodNone}, nil
	}

	tmp, err := os.CreateTemp("", "petition-*.pdf")
	if err != nil {
		return Extraction{}, fmt.Errorf("create temp pdf: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(pdfBytes); err != nil {
		tmp.Close()
		return Extraction{}, fmt.Errorf("write temp pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Extraction{}, fmt.Errorf("close temp pdf: %w", err)
	}

	return e.fromPath(ctx, tmpPath, false)
}

// FromFile extracts text from a PDF on disk. Unlike FromBytes, an OCR
// failure on a scanned document is returned as an error; callers using this
// entry point need guaranteed extraction quality.
func (e *Extractor) FromFile(ctx context.Context, path string) (Extraction, error) {
	return e.fromPath(ctx, path, true)
}

func (e *Extractor) fromPath(ctx context.Context, path string, strictOCR bool) (Extraction, error) {
	digital, pages := e.digitalPass(path)
	result := Extraction{Text: digital, Method: MethodDigital, Pages: pages}

	if utf8.RuneCountInString(strings.TrimSpace(digital)) < scannedTextThreshold {
		ocrText, ocrPages, err := e.ocrPass(ctx, path)
		switch {
		case err != nil && strictOCR:
			return Extraction{}, err
		case err != nil:
			telemetry.Warn("extract.ocr.degraded", map[string]any{"error": err.Error()})
			result = degradeOCRUnavailable(digital, pages)
		case utf8.RuneCountInString(ocrText) > utf8.RuneCountInString(digital):
			result = Extraction{Text: ocrText, Method: MethodOCR, Pages: ocrPages}
		}
	}

	result.Text = strings.TrimSpace(result.Text)
	result.Chars = utf8.RuneCountInString(result.Text)
	if result.Text == "" && result.Method == MethodDigital {
		result.Method = MethodNone
	}
	return result, nil
}

// degradeOCRUnavailable keeps whatever the digital pass produced when the
// OCR pass cannot run, falling back to a fixed Spanish placeholder when
// there is nothing to keep.
func degradeOCRUnavailable(digital string, pages int) Extraction {
	if strings.TrimSpace(digital) == "" {
		return Extraction{Text: scannedPlaceholder, Method: MethodNone, Pages: pages}
	}
	return Extraction{Text: digital + ocrUnavailableNote, Method: MethodDigital, Pages: pages}
}

// digitalPass walks the PDF text layer page by page. A page the library
// cannot handle is skipped rather than aborting the document; a file the
// library cannot open yields empty text so the OCR pass can still run.
func (e *Extractor) digitalPass(path string) (string, int) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0
	}
	defer f.Close()

	total := r.NumPage()
	var b strings.Builder
	for i := 1; i <= total; i++ {
		text, err := pageText(r, i)
		if err != nil {
			telemetry.Warn("extract.page.skip", map[string]any{"page": i, "error": err.Error()})
			continue
		}
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	return b.String(), total
}

// pageText isolates the library call; it panics on some malformed documents.
func pageText(r *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", num, rec)
		}
	}()
	page := r.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// ocrPass rasterizes every page and runs tesseract on each image. A page
// whose recognition fails is skipped; missing binaries surface as
// ErrOCRUnavailable.
func (e *Extractor) ocrPass(ctx context.Context, path string) (string, int, error) {
	tmpDir, err := os.MkdirTemp("", "petition-ocr-*")
	if err != nil {
		return "", 0, err
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", 0, ErrOCRUnavailable
		}
		return "", 0, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", 0, fmt.Errorf("pdftoppm produced no images")
	}

	var b strings.Builder
	for _, img := range matches {
		// tesseract <page.png> stdout -l <lang>
		out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, img, "stdout", "-l", e.cfg.Lang)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return "", 0, ErrOCRUnavailable
			}
			telemetry.Warn("extract.ocr.page.skip", map[string]any{
				"image":  filepath.Base(img),
				"error":  err.Error(),
				"stderr": truncate(string(errb), 512),
			})
			continue
		}
		b.Write(out)
		b.WriteString("\n")
	}
	return b.String(), len(matches), nil
}
