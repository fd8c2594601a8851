package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfvault/internal/config"
	"pdfvault/internal/metrics"
	"pdfvault/internal/objectstore"
)

const (
	AcceptedContentType       = "application/pdf"
	MaxFileSize         int64 = 25 * 1024 * 1024 // 25 MiB
	FileExtension             = ".pdf"

	defaultDisplayName = "document.pdf"
)

// UploadInput is one incoming document. Size is the declared byte count of Content.
type UploadInput struct {
	Content     io.Reader
	Filename    string
	ContentType string
	Size        int64
	Owner       string
}

// Download is a staged, readable copy of a stored document. File is open and
// positioned at the start; it stays valid even if a concurrent download of
// the same id replaces the staged path. Close must be called when done.
type Download struct {
	File        *os.File
	Path        string
	DisplayName string
	Size        int64
	Document    *Document

	release func()
}

// Close closes the handle and removes the staged file.
func (d *Download) Close() error {
	err := d.File.Close()
	if d.release != nil {
		d.release()
	}
	return err
}

// Service orchestrates uploads into the object store, metadata writes and
// downloads staged through the scratch area. It is the only writer of
// Document rows.
type Service struct {
	repo    Repository
	store   objectstore.Client
	scratch ScratchArea
	bucket  string
	logger  *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewService(cfg *config.Config, repo Repository, store objectstore.Client, scratch ScratchArea, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		store:   store,
		scratch: scratch,
		bucket:  cfg.Minio.BucketName,
		logger:  logger.With(slog.String("component", "document_service")),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Validate rejects empty content, any content type other than application/pdf
// and anything above MaxFileSize. It has no side effects.
func (s *Service) Validate(content io.Reader, contentType string, size int64) error {
	const op = "validate"
	if content == nil || size <= 0 {
		return invalidInput(op, ErrEmptyFile)
	}
	if contentType != AcceptedContentType {
		return invalidInput(op, fmt.Errorf("%w (got %q)", ErrInvalidContentType, contentType))
	}
	if size > MaxFileSize {
		return invalidInput(op, ErrFileTooLarge)
	}
	return nil
}

// Upload stores the blob first and writes metadata only after the blob write
// succeeded. If the metadata write then fails the blob stays orphaned; it is
// logged and left for reconciliation.
func (s *Service) Upload(ctx context.Context, in UploadInput) (doc *Document, err error) {
	const op = "upload"
	defer func() { s.observe(op, err) }()

	if err := s.Validate(in.Content, in.ContentType, in.Size); err != nil {
		return nil, err
	}
	owner := strings.TrimSpace(in.Owner)
	if owner == "" {
		return nil, invalidInput(op, ErrEmptyOwner)
	}

	id := s.newID()
	key := ObjectKey(id)

	if err := s.store.EnsureBucket(ctx, s.bucket); err != nil {
		return nil, storageFailure(op, err)
	}
	if err := s.store.Put(ctx, s.bucket, key, in.ContentType, in.Content, in.Size); err != nil {
		return nil, storageFailure(op, err)
	}

	doc = &Document{
		ID:          id,
		Owner:       owner,
		DisplayName: displayName(in.Filename),
		UploadedAt:  s.now().UTC(),
		Seen:        false,
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		s.logger.Error("metadata write failed after blob write, object is orphaned",
			slog.String("bucket", s.bucket),
			slog.String("object_key", key),
			slog.String("owner", owner),
			slog.String("error", err.Error()),
		)
		return nil, metadataFailure(op, err)
	}

	metrics.UploadedBytesTotal.Add(float64(in.Size))
	s.logger.Info("file uploaded",
		slog.String("file_id", id),
		slog.String("owner", owner),
		slog.Int64("size", in.Size),
	)
	return doc, nil
}

// Download looks the document up, clears any stale staged copy, fetches the
// blob into the scratch area and marks the document seen once an open handle
// to the staged bytes is held. On error nothing is left open.
func (s *Service) Download(ctx context.Context, id string) (dl *Download, err error) {
	const op = "download"
	defer func() { s.observe(op, err) }()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, notFound(op, id)
	}

	doc, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, notFound(op, id)
	}
	if err != nil {
		return nil, metadataFailure(op, err)
	}

	key := ObjectKey(doc.ID)
	if err := s.scratch.Remove(key); err != nil {
		return nil, storageFailure(op, err)
	}

	f, size, err := s.fetch(ctx, key)
	if err != nil {
		return nil, storageFailure(op, fmt.Errorf("could not read file %s: %w", id, err))
	}
	p, err := s.scratch.Path(key)
	if err != nil {
		f.Close()
		return nil, storageFailure(op, err)
	}

	release := func() {
		// a concurrent download may own the path by now; its handle is unaffected
		if err := s.scratch.Remove(key); err != nil {
			s.logger.Warn("could not remove staged file", slog.String("file_id", doc.ID), slog.String("error", err.Error()))
		}
	}

	if !doc.Seen {
		doc.Seen = true
		if err := s.repo.Save(ctx, doc); err != nil {
			doc.Seen = false
			f.Close()
			release()
			return nil, metadataFailure(op, err)
		}
		s.logger.Info("file marked as seen", slog.String("file_id", doc.ID), slog.String("owner", doc.Owner))
	}

	return &Download{
		File:        f,
		Path:        p,
		DisplayName: doc.DisplayName,
		Size:        size,
		Document:    doc,
		release:     release,
	}, nil
}

// ListByOwner never returns nil on success.
func (s *Service) ListByOwner(ctx context.Context, owner string) (docs []*Document, err error) {
	const op = "list"
	defer func() { s.observe(op, err) }()

	docs, err = s.repo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, metadataFailure(op, err)
	}
	if docs == nil {
		docs = []*Document{}
	}
	return docs, nil
}

func (s *Service) fetch(ctx context.Context, key string) (*os.File, int64, error) {
	body, err := s.store.Get(ctx, s.bucket, key)
	if err != nil {
		return nil, 0, err
	}
	defer body.Close()

	return s.scratch.Stage(key, body)
}

func (s *Service) observe(op string, err error) {
	result := "success"
	if err != nil {
		result = KindOf(err).String()
	}
	metrics.OperationsTotal.WithLabelValues(op, result).Inc()
}

// displayName keeps only the last path element of the uploader's file name.
func displayName(filename string) string {
	name := strings.TrimSpace(strings.ReplaceAll(filename, `\`, "/"))
	name = path.Base(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return defaultDisplayName
	}
	return name
}
