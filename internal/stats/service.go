package stats

import (
	"context"
	"log/slog"
	"time"

	docmodels "github.com/Mutawai/ThiQaX-sub002/internal/document/models"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
	"github.com/Mutawai/ThiQaX-sub002/pkg/requestcontext"
)

// DocumentSource is the read seam into the document collection.
type DocumentSource interface {
	ListByOwner(ctx context.Context, owner domain.UserID) ([]*docmodels.Document, error)
}

// Service computes owner dashboards, serving from cache when possible.
// Dashboards are derived state and tolerate cache staleness up to the TTL.
type Service struct {
	docs   DocumentSource
	calc   *Calculator
	cache  Cache
	logger *slog.Logger
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithCache sets the dashboard cache.
func WithCache(cache Cache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// NewService constructs the dashboard service. Without WithCache every read
// recomputes.
func NewService(docs DocumentSource, calc *Calculator, opts ...ServiceOption) (*Service, error) {
	if docs == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "document source is required")
	}
	if calc == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "stats calculator is required")
	}
	s := &Service{docs: docs, calc: calc, cache: NoopCache{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dashboard returns the owner's document statistics and journey score. Cache
// failures degrade to a recompute, never to an error.
func (s *Service) Dashboard(ctx context.Context, owner domain.UserID) (Dashboard, error) {
	if cached, ok, err := s.cache.Get(ctx, owner); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache read failed", "owner", owner, "error", err)
	} else if ok {
		return cached, nil
	}

	docs, err := s.docs.ListByOwner(ctx, owner)
	if err != nil {
		return Dashboard{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load documents for dashboard")
	}
	now := requestcontext.Now(ctx)
	d := Dashboard{
		Documents:  s.calc.Aggregate(docs, now),
		Journey:    s.calc.Journey(docs),
		ComputedAt: now,
	}
	if err := s.cache.Set(ctx, owner, d); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache write failed", "owner", owner, "error", err)
	}
	return d, nil
}

// TrustScore computes one document's trust score at the given instant.
func (s *Service) TrustScore(doc *docmodels.Document, now time.Time) int {
	return s.calc.TrustScore(doc, now)
}

// Invalidate drops the owner's cached dashboard. Workflows call it after any
// document write so the next dashboard read reflects the change.
func (s *Service) Invalidate(ctx context.Context, owner domain.UserID) {
	if err := s.cache.Invalidate(ctx, owner); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache invalidation failed", "owner", owner, "error", err)
	}
}
