package port

import (
	"context"
	"io"
)

// FileStore abstracts where uploaded invoice documents are kept.
// Names are opaque to callers; the store maps them to disk paths or S3 keys.
type FileStore interface {
	Save(ctx context.Context, name string, body io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}
