package storage

import (
	"context"
	"io"
)

// ResumeStore is the collaborator that persists uploaded resume files. The
// reference it returns is opaque to callers and is the only handle used for
// later retrieval or deletion, which makes rollback on a failed dependent
// write deterministic and testable.
type ResumeStore interface {
	Save(ctx context.Context, filename string, data []byte) (ref string, err error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}
