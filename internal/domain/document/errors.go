package document

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFile          = errors.New("file is empty")
	ErrInvalidContentType = errors.New("only application/pdf files are accepted")
	ErrFileTooLarge       = errors.New("file is bigger than 25MB")
	ErrEmptyOwner         = errors.New("owner is required")
	ErrNotFound           = errors.New("file not found")
)

// Kind is the closed set of failures callers have to tell apart.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindStorageFailure
	KindMetadataFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindStorageFailure:
		return "storage_failure"
	case KindMetadataFailure:
		return "metadata_failure"
	default:
		return "unknown"
	}
}

// Error carries the kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Reason is the human-readable part, suitable for InvalidInput responses.
func (e *Error) Reason() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func invalidInput(op string, err error) error {
	return &Error{Kind: KindInvalidInput, Op: op, Err: err}
}

func notFound(op, id string) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("%w: %s", ErrNotFound, id)}
}

func storageFailure(op string, err error) error {
	return &Error{Kind: KindStorageFailure, Op: op, Err: err}
}

func metadataFailure(op string, err error) error {
	return &Error{Kind: KindMetadataFailure, Op: op, Err: err}
}
