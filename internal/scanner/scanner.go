// Package scanner runs the periodic expiry sweep: documents past their expiry
// date collapse to expired, and documents inside the critical window get an
// expiry warning recorded.
package scanner

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	docmodels "github.com/Mutawai/ThiQaX-sub002/internal/document/models"
	"github.com/Mutawai/ThiQaX-sub002/internal/expiry"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// Documents is the slice of the document workflow the scanner drives.
type Documents interface {
	ListExpiring(ctx context.Context, cutoff time.Time) ([]*docmodels.Document, error)
	ProcessExpiry(ctx context.Context, id domain.DocumentID) (*docmodels.Document, error)
	MarkNotified(ctx context.Context, id domain.DocumentID) (*docmodels.Document, error)
}

const (
	defaultInterval    = time.Hour
	defaultConcurrency = 4
)

// Scanner sweeps the document collection on a fixed interval.
type Scanner struct {
	docs        Documents
	evaluator   *expiry.Evaluator
	interval    time.Duration
	concurrency int
	logger      *slog.Logger
}

// Option configures the Scanner.
type Option func(*Scanner)

// WithInterval sets the sweep interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scanner) { s.interval = d }
}

// WithConcurrency bounds the per-sweep worker count.
func WithConcurrency(n int) Option {
	return func(s *Scanner) { s.concurrency = n }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) { s.logger = logger }
}

// New constructs a scanner.
func New(docs Documents, evaluator *expiry.Evaluator, opts ...Option) (*Scanner, error) {
	if docs == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "scanner requires the document workflow")
	}
	if evaluator == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "scanner requires an expiry evaluator")
	}
	s := &Scanner{
		docs:        docs,
		evaluator:   evaluator,
		interval:    defaultInterval,
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval <= 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "scan interval must be positive")
	}
	if s.concurrency <= 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "scan concurrency must be positive")
	}
	return s, nil
}

// Run sweeps immediately and then on every tick until the context is
// cancelled. It returns the context error on shutdown.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Sweep runs one pass over the expiring documents. Exported for tests and
// one-shot invocations.
func (s *Scanner) Sweep(ctx context.Context) {
	s.sweep(ctx)
}

func (s *Scanner) sweep(ctx context.Context) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, s.evaluator.Thresholds().Warning)
	docs, err := s.docs.ListExpiring(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "expiry sweep query failed", "error", err)
		return
	}
	if len(docs) == 0 {
		return
	}

	var collapsed, notified int
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	results := make([]string, len(docs))
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = s.process(gctx, doc, now)
			return nil
		})
	}
	_ = g.Wait()
	for _, r := range results {
		switch r {
		case "collapsed":
			collapsed++
		case "notified":
			notified++
		}
	}
	s.logger.InfoContext(ctx, "expiry sweep complete",
		"candidates", len(docs), "collapsed", collapsed, "notified", notified)
}

func (s *Scanner) process(ctx context.Context, doc *docmodels.Document, now time.Time) string {
	cls := s.evaluator.Classify(doc.ExpiryDate, doc.IsExpired(), now)
	switch cls.Bucket {
	case expiry.BucketExpired:
		if _, err := s.docs.ProcessExpiry(ctx, doc.ID); err != nil {
			s.logger.WarnContext(ctx, "expiry collapse failed", "document_id", doc.ID, "error", err)
			return ""
		}
		return "collapsed"
	case expiry.BucketCritical:
		if doc.ExpiryNotified {
			return ""
		}
		if _, err := s.docs.MarkNotified(ctx, doc.ID); err != nil {
			s.logger.WarnContext(ctx, "expiry notification failed", "document_id", doc.ID, "error", err)
			return ""
		}
		s.logger.InfoContext(ctx, "expiry warning recorded",
			"document_id", doc.ID, "days_remaining", cls.DaysRemaining)
		return "notified"
	default:
		return ""
	}
}
