package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

type stubRunner struct {
	run func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)
}

func (s stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return s.run(ctx, name, args...)
}

// scriptOCRTools fakes pdftoppm by writing page images and tesseract by
// returning canned text per image.
func scriptOCRTools(t *testing.T, pages int, recognize func(img string) ([]byte, error)) stubRunner {
	t.Helper()
	return stubRunner{run: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		switch name {
		case "pdftoppm":
			prefix := args[len(args)-1]
			for i := 1; i <= pages; i++ {
				if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
					t.Fatalf("write fake page: %v", err)
				}
			}
			return nil, nil, nil
		case "tesseract":
			out, err := recognize(args[0])
			return out, nil, err
		default:
			t.Fatalf("unexpected command %q", name)
			return nil, nil, nil
		}
	}}
}

func TestFromBytesEmptyInput(t *testing.T) {
	e := New(Config{})

	got, err := e.FromBytes(context.Background(), nil)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got.Text != "" {
		t.Fatalf("expected empty text, got %q", got.Text)
	}
	if got.Method != MethodNone {
		t.Fatalf("expected method none, got %q", got.Method)
	}
}

func TestFromBytesScannedUsesOCR(t *testing.T) {
	e := New(Config{})
	e.runner = scriptOCRTools(t, 2, func(img string) ([]byte, error) {
		if strings.HasSuffix(img, "-1.png") {
			return []byte("Solicitud de condonación de crédito educativo."), nil
		}
		return []byte("Atentamente, María Pérez."), nil
	})

	got, err := e.FromBytes(context.Background(), []byte("not a real pdf"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got.Method != MethodOCR {
		t.Fatalf("expected method ocr, got %q", got.Method)
	}
	if got.Pages != 2 {
		t.Fatalf("expected 2 pages, got %d", got.Pages)
	}
	if !strings.Contains(got.Text, "condonación") || !strings.Contains(got.Text, "María Pérez") {
		t.Fatalf("expected OCR text from both pages, got %q", got.Text)
	}
	if got.Text != strings.TrimSpace(got.Text) {
		t.Fatalf("expected trimmed text")
	}
}

func TestFromBytesSkipsFailingOCRPages(t *testing.T) {
	e := New(Config{})
	e.runner = scriptOCRTools(t, 3, func(img string) ([]byte, error) {
		if strings.HasSuffix(img, "-2.png") {
			return nil, errors.New("recognition failed")
		}
		return []byte("página " + filepath.Base(img)), nil
	})

	got, err := e.FromBytes(context.Background(), []byte("not a real pdf"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got.Pages != 3 {
		t.Fatalf("expected 3 rasterized pages, got %d", got.Pages)
	}
	if !strings.Contains(got.Text, "page-1.png") || !strings.Contains(got.Text, "page-3.png") {
		t.Fatalf("expected surviving pages in text, got %q", got.Text)
	}
	if strings.Contains(got.Text, "page-2.png") {
		t.Fatalf("failed page should be skipped, got %q", got.Text)
	}
}

func TestFromBytesOCRUnavailableReturnsPlaceholder(t *testing.T) {
	e := New(Config{})
	e.runner = stubRunner{run: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return nil, nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}}

	got, err := e.FromBytes(context.Background(), []byte("not a real pdf"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got.Method != MethodNone {
		t.Fatalf("expected method none, got %q", got.Method)
	}
	if got.Text != scannedPlaceholder {
		t.Fatalf("expected scanned placeholder, got %q", got.Text)
	}
}

func TestFromFileReRaisesOCRFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	if err := os.WriteFile(path, []byte("not a real pdf"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	e := New(Config{})
	e.runner = stubRunner{run: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return nil, []byte("boom"), errors.New("pdftoppm crashed")
	}}
	if _, err := e.FromFile(context.Background(), path); err == nil {
		t.Fatalf("expected error from strict entry point")
	}

	e.runner = stubRunner{run: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return nil, nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}}
	_, err := e.FromFile(context.Background(), path)
	if !errors.Is(err, ErrOCRUnavailable) {
		t.Fatalf("expected ErrOCRUnavailable, got %v", err)
	}
}

func TestDegradeOCRUnavailable(t *testing.T) {
	got := degradeOCRUnavailable("", 3)
	if got.Method != MethodNone || got.Text != scannedPlaceholder {
		t.Fatalf("expected placeholder for empty digital text, got %+v", got)
	}

	got = degradeOCRUnavailable("Texto parcial de la primera página.", 3)
	if got.Method != MethodDigital {
		t.Fatalf("expected digital method, got %q", got.Method)
	}
	if !strings.HasPrefix(got.Text, "Texto parcial") || !strings.Contains(got.Text, "[Nota:") {
		t.Fatalf("expected partial text with appended note, got %q", got.Text)
	}
}
