// Package reconcile compares the objects in the document bucket with the
// metadata rows and reports what does not line up. It never deletes anything.
//
// Findings:
//   - orphaned_blob: object without a metadata row (e.g. upload whose
//     metadata write failed)
//   - missing_blob: metadata row without an object
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"pdfvault/internal/domain/document"
	"pdfvault/internal/metrics"
	"pdfvault/internal/objectstore"
)

type IssueType string

const (
	OrphanedBlob IssueType = "orphaned_blob"
	MissingBlob  IssueType = "missing_blob"
)

type Issue struct {
	Type      IssueType `json:"type"`
	FileID    string    `json:"file_id,omitempty"`
	ObjectKey string    `json:"object_key"`
	Size      int64     `json:"size,omitempty"`
}

type Report struct {
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	ObjectsChecked int       `json:"objects_checked"`
	RecordsChecked int       `json:"records_checked"`
	Issues         []Issue   `json:"issues"`
}

// Count returns how many issues of type t the report holds.
func (r *Report) Count(t IssueType) int {
	n := 0
	for _, i := range r.Issues {
		if i.Type == t {
			n++
		}
	}
	return n
}

// IDSource lists every stored document id. document.Repository satisfies it.
type IDSource interface {
	ListIDs(ctx context.Context) ([]string, error)
}

type Service struct {
	store    objectstore.Lister
	ids      IDSource
	bucket   string
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	inProcess bool
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewService(store objectstore.Lister, ids IDSource, bucket string, interval time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		ids:      ids,
		bucket:   bucket,
		interval: interval,
		logger:   logger.With(slog.String("component", "reconcile")),
	}
}

// Start runs RunOnce on a ticker until ctx is cancelled or Stop is called.
// A non-positive interval disables the loop.
func (s *Service) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("reconciliation disabled")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx)

	s.logger.Info("reconciliation started", slog.String("interval", s.interval.String()))
}

// Stop cancels the loop and waits for it to exit.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.logger.Info("reconciliation stopped")
}

func (s *Service) IsInProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProcess
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("reconciliation failed", slog.String("error", err.Error()))
			}
		}
	}
}

// RunOnce performs one sweep. When a sweep is already running it returns
// nil, true, nil.
func (s *Service) RunOnce(ctx context.Context) (*Report, bool, error) {
	s.mu.Lock()
	if s.inProcess {
		s.mu.Unlock()
		s.logger.Warn("reconciliation already running, skipping")
		return nil, true, nil
	}
	s.inProcess = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inProcess = false
		s.mu.Unlock()
	}()

	report := &Report{StartedAt: time.Now().UTC(), Issues: []Issue{}}

	objects, err := s.store.List(ctx, s.bucket)
	if errors.Is(err, objectstore.ErrBucketNotFound) {
		// nothing uploaded yet
		objects, err = nil, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("list objects in %s: %w", s.bucket, err)
	}
	ids, err := s.ids.ListIDs(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("list document ids: %w", err)
	}
	report.ObjectsChecked = len(objects)
	report.RecordsChecked = len(ids)

	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	present := make(map[string]bool, len(objects))
	for _, obj := range objects {
		id, ok := strings.CutSuffix(obj.Key, document.FileExtension)
		if !ok || !known[id] {
			report.Issues = append(report.Issues, Issue{Type: OrphanedBlob, ObjectKey: obj.Key, Size: obj.Size})
			continue
		}
		present[id] = true
	}

	sort.Strings(ids)
	for _, id := range ids {
		if !present[id] {
			report.Issues = append(report.Issues, Issue{Type: MissingBlob, FileID: id, ObjectKey: document.ObjectKey(id)})
		}
	}

	report.CompletedAt = time.Now().UTC()

	metrics.ReconcileRunsTotal.Inc()
	for _, issue := range report.Issues {
		metrics.ReconcileIssuesTotal.WithLabelValues(string(issue.Type)).Inc()
	}

	s.logger.Info("reconciliation completed",
		slog.Int("objects_checked", report.ObjectsChecked),
		slog.Int("records_checked", report.RecordsChecked),
		slog.Int("orphaned_blobs", report.Count(OrphanedBlob)),
		slog.Int("missing_blobs", report.Count(MissingBlob)),
		slog.String("duration", report.CompletedAt.Sub(report.StartedAt).String()),
	)
	for _, issue := range report.Issues {
		s.logger.Warn("reconciliation issue",
			slog.String("type", string(issue.Type)),
			slog.String("object_key", issue.ObjectKey),
		)
	}

	return report, false, nil
}
