package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName("peticion condonación.pdf")
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if got != "peticion condonación.pdf" {
		t.Fatalf("expected name unchanged, got %q", got)
	}

	got, err = SanitizeFileName("dir/sub\\peticion.pdf")
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if got != "dir_sub_peticion.pdf" {
		t.Fatalf("expected separators replaced, got %q", got)
	}

	got, err = SanitizeFileName("peticion\x00\x1b.pdf")
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if got != "peticion.pdf" {
		t.Fatalf("expected control characters dropped, got %q", got)
	}

	if _, err := SanitizeFileName("../../etc/passwd"); err == nil {
		t.Fatal("expected traversal name to be rejected")
	}
	if _, err := SanitizeFileName("   "); err == nil {
		t.Fatal("expected blank name to be rejected")
	}
	if _, err := SanitizeFileName("\x00\x01"); err == nil {
		t.Fatal("expected control-only name to be rejected")
	}
}

func TestSanitizeFileNameKeepsExtensionWhenTruncating(t *testing.T) {
	long := strings.Repeat("a", 300) + ".pdf"
	got, err := SanitizeFileName(long)
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("expected extension preserved, got suffix %q", got[len(got)-8:])
	}
	if n := len([]rune(got)); n > 255 {
		t.Fatalf("expected at most 255 runes, got %d", n)
	}
}
