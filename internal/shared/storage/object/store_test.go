package object

import (
	"io"
	"strings"
	"testing"
)

func TestUniqueNameAvoidsCollisions(t *testing.T) {
	a := UniqueName("peticion.pdf")
	b := UniqueName("peticion.pdf")
	if a == b {
		t.Fatalf("expected distinct names, got %q twice", a)
	}
	if !strings.HasSuffix(a, "_peticion.pdf") {
		t.Fatalf("expected original name preserved, got %q", a)
	}
}

func TestSniffContentTypeReplaysConsumedBytes(t *testing.T) {
	content := "%PDF-1.4 solicitud"
	mimeType, body, err := SniffContentType(strings.NewReader(content))
	if err != nil {
		t.Fatalf("SniffContentType: %v", err)
	}
	if mimeType != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", mimeType)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != content {
		t.Fatalf("expected full content replayed, got %q", data)
	}
}

func TestSniffContentTypeEmptyReader(t *testing.T) {
	mimeType, body, err := SniffContentType(strings.NewReader(""))
	if err != nil {
		t.Fatalf("SniffContentType: %v", err)
	}
	if mimeType == "" {
		t.Fatalf("expected a default mime type for empty input")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty body, got %d bytes", len(data))
	}
}
