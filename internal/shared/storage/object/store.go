// Package object abstracts binary storage so petition uploads and knowledge
// archives can live on local disk in development and in S3 in production.
package object

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// UniqueName prepends a UUID so repeated uploads of the same file never
// collide within a namespace.
func UniqueName(fileName string) string {
	return uuid.NewString() + "_" + fileName
}

// SniffContentType detects the MIME type from the first 512 bytes and
// returns a reader that replays the consumed bytes before the rest.
func SniffContentType(r io.Reader) (string, io.Reader, error) {
	var sniff [512]byte
	n, err := io.ReadFull(r, sniff[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	mimeType := http.DetectContentType(sniff[:n])
	return mimeType, io.MultiReader(bytes.NewReader(sniff[:n]), r), nil
}
