package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for archiving and retrieving the original
// resume files behind the relational records.
type ObjectStore interface {
	Save(ctx context.Context, fileHash string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
