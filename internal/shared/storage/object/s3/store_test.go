package s3

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "petitions/file.pdf", want: "petitions/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "petitions/file.pdf", want: "root/petitions/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "petitions/file.pdf", want: "root/petitions/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/petitions/file.pdf", want: "root/petitions/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "petitions/file.pdf", want: "root/sub/petitions/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestMeteredReaderTracksBytes(t *testing.T) {
	content := "contenido del acta de liquidación"
	metered := &meteredReader{r: strings.NewReader(content)}

	data, err := io.ReadAll(metered)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != content {
		t.Fatalf("unexpected content %q", data)
	}
	if metered.count != int64(len(content)) {
		t.Fatalf("expected %d bytes counted, got %d", len(content), metered.count)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), "us-east-1", "", "", ""); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
}
