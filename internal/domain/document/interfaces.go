package document

import (
	"context"
	"io"
	"os"
)

// Repository persists Document rows. It holds no business rules.
type Repository interface {
	// Save inserts the document, or updates the seen flag of an existing one.
	Save(ctx context.Context, d *Document) error
	// FindByID returns ErrNotFound when no row matches.
	FindByID(ctx context.Context, id string) (*Document, error)
	FindByOwner(ctx context.Context, owner string) ([]*Document, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// ScratchArea is the local staging directory downloads pass through.
type ScratchArea interface {
	Path(key string) (string, error)
	Remove(key string) error
	// Stage writes r under key and returns an open handle to the staged bytes.
	Stage(key string, r io.Reader) (*os.File, int64, error)
}
