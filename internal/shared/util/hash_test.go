package util

import "testing"

func TestHashBytes(t *testing.T) {
	content := []byte("%PDF-1.4 solicitud de condonación")
	got := HashBytes(content)
	if got != HashBytes(content) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == HashBytes([]byte("%PDF-1.4 otra petición")) {
		t.Fatalf("expected different content to hash differently")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}
