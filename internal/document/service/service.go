// Package service implements the document verification workflow: it composes
// the transition guard, the audit ledger, and the expiry evaluator around the
// document store. All business policy lives here and in the models; the
// transport layer stays thin.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	appaudit "github.com/Mutawai/ThiQaX-sub002/internal/audit"
	docmetrics "github.com/Mutawai/ThiQaX-sub002/internal/document/metrics"
	"github.com/Mutawai/ThiQaX-sub002/internal/document/models"
	"github.com/Mutawai/ThiQaX-sub002/internal/expiry"
	"github.com/Mutawai/ThiQaX-sub002/internal/ledger"
	"github.com/Mutawai/ThiQaX-sub002/internal/lifecycle"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
	"github.com/Mutawai/ThiQaX-sub002/pkg/requestcontext"
)

var tracer = otel.Tracer("thiqax/document")

// Store is the persistence seam for documents.
type Store interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id domain.DocumentID) (*models.Document, error)
	ListByOwner(ctx context.Context, owner domain.UserID) ([]*models.Document, error)
	ListExpiring(ctx context.Context, cutoff time.Time) ([]*models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
}

// AuditPublisher emits transition events to operational consumers.
type AuditPublisher interface {
	Emit(ctx context.Context, event appaudit.Event) error
}

// Service orchestrates one document's verification lifecycle.
type Service struct {
	docs      Store
	evaluator *expiry.Evaluator
	logger    *slog.Logger
	audit     AuditPublisher
	metrics   *docmetrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithAuditPublisher sets the transition event publisher.
func WithAuditPublisher(pub AuditPublisher) Option {
	return func(s *Service) { s.audit = pub }
}

// WithMetrics sets the module metrics.
func WithMetrics(m *docmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the workflow service.
func New(docs Store, evaluator *expiry.Evaluator, opts ...Option) (*Service, error) {
	if docs == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "document store is required")
	}
	if evaluator == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "expiry evaluator is required")
	}
	s := &Service{docs: docs, evaluator: evaluator, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RegisterRequest carries the upload registration fields.
type RegisterRequest struct {
	Owner      domain.UserID
	Type       models.Type
	FileRef    string
	ExpiryDate *time.Time
}

// Register records an uploaded credential with its synthesized first history
// entry.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.Document, error) {
	ctx, span := tracer.Start(ctx, "document.Register")
	defer span.End()

	now := requestcontext.Now(ctx)
	doc, err := models.NewDocument(domain.NewDocumentID(), req.Owner, req.Type, req.FileRef, req.ExpiryDate, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.Message(err))
		}
		return nil, err
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store document")
	}
	s.emit(ctx, doc, "", string(models.StatusUploaded), "")
	return doc, nil
}

// Get loads one document, classifying but not persisting expiry: read paths
// stay side-effect free.
func (s *Service) Get(ctx context.Context, id domain.DocumentID) (*models.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "document")
	}
	return doc, nil
}

// ListByOwner loads all of an owner's documents.
func (s *Service) ListByOwner(ctx context.Context, owner domain.UserID) ([]*models.Document, error) {
	docs, err := s.docs.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return docs, nil
}

// History returns the document's audit trail, newest first.
func (s *Service) History(ctx context.Context, id domain.DocumentID) ([]ledger.Entry, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.History.Newest(), nil
}

// ClassifyExpiry buckets the document's remaining validity without mutating
// anything.
func (s *Service) ClassifyExpiry(ctx context.Context, id domain.DocumentID) (expiry.Classification, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return expiry.Classification{}, err
	}
	now := requestcontext.Now(ctx)
	return s.evaluator.Classify(doc.ExpiryDate, doc.IsExpired(), now), nil
}

// TransitionRequest carries the optional payload for a status change.
type TransitionRequest struct {
	Notes  string
	Scores *models.AutomatedScores
}

// RequestTransition processes one guarded status change.
//
// The expiry check runs before any other guard: a document whose expiry date
// has passed collapses to expired and is returned as-is, regardless of the
// requested status. Otherwise the adjacency and role guards run, the status
// and verification details are updated, and exactly one ledger entry is
// appended. The write is optimistic; a concurrent modification surfaces as a
// retryable conflict.
func (s *Service) RequestTransition(ctx context.Context, id domain.DocumentID, requested models.Status, req TransitionRequest) (*models.Document, error) {
	ctx, span := tracer.Start(ctx, "document.RequestTransition")
	defer span.End()
	start := time.Now()
	defer s.observe(start)

	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "document")
	}

	now := requestcontext.Now(ctx)
	if !doc.IsExpired() && expiry.IsPast(doc.ExpiryDate, now) {
		return s.collapseExpired(ctx, doc, now)
	}

	actor := requestcontext.ActorID(ctx)
	role := requestcontext.ActorRole(ctx)
	if denial := models.Ruleset.CanTransition(string(doc.Status), string(requested), role); denial != nil {
		s.denied(string(denial.Rule))
		return nil, denial.Err()
	}
	if requested == models.StatusRejected && req.Notes == "" {
		s.denied(string(lifecycle.RuleMissingPayload))
		return nil, dErrors.New(dErrors.CodeValidation, "a rejection reason is required")
	}

	from := doc.Status
	doc.ApplyTransition(requested, actor.String(), req.Notes, now)
	if req.Scores != nil {
		if err := doc.SetAutomatedScores(*req.Scores, now); err != nil {
			return nil, err
		}
	}

	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, wrapWriteErr(err, "document")
	}

	s.applied(string(requested))
	s.emit(ctx, doc, string(from), string(requested), req.Notes)
	return doc, nil
}

// ProcessExpiry collapses the document to expired if its date has passed.
// The scanner drives this; it is a no-op for documents still in validity.
func (s *Service) ProcessExpiry(ctx context.Context, id domain.DocumentID) (*models.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "document")
	}
	now := requestcontext.Now(ctx)
	if doc.IsExpired() || !expiry.IsPast(doc.ExpiryDate, now) {
		return doc, nil
	}
	return s.collapseExpired(ctx, doc, now)
}

// MarkNotified records that an expiry warning was dispatched. Idempotent; it
// never changes the document status.
func (s *Service) MarkNotified(ctx context.Context, id domain.DocumentID) (*models.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "document")
	}
	if doc.ExpiryNotified {
		return doc, nil
	}
	doc.MarkNotified(requestcontext.Now(ctx))
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, wrapWriteErr(err, "document")
	}
	return doc, nil
}

// ListExpiring exposes the scanner's candidate query.
func (s *Service) ListExpiring(ctx context.Context, cutoff time.Time) ([]*models.Document, error) {
	docs, err := s.docs.ListExpiring(ctx, cutoff)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list expiring documents")
	}
	return docs, nil
}

func (s *Service) collapseExpired(ctx context.Context, doc *models.Document, now time.Time) (*models.Document, error) {
	from := doc.Status
	doc.ApplyExpiry(now)
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, wrapWriteErr(err, "document")
	}
	if s.metrics != nil {
		s.metrics.IncExpiryCollapse()
	}
	s.logger.InfoContext(ctx, "document collapsed to expired",
		"document_id", doc.ID, "previous_status", from)
	s.emit(ctx, doc, string(from), string(models.StatusExpired), "expiry date passed")
	return doc, nil
}

func (s *Service) emit(ctx context.Context, doc *models.Document, from, to, notes string) {
	if s.audit == nil {
		return
	}
	event := appaudit.Event{
		Kind:       appaudit.KindDocument,
		EntityID:   doc.ID.String(),
		Actor:      requestcontext.ActorID(ctx).String(),
		FromStatus: from,
		ToStatus:   to,
		Notes:      notes,
		RequestID:  requestcontext.RequestID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit transition event",
			"document_id", doc.ID, "error", err)
	}
}

func (s *Service) applied(status string) {
	if s.metrics != nil {
		s.metrics.IncApplied(status)
	}
}

func (s *Service) denied(rule string) {
	if s.metrics != nil {
		s.metrics.IncDenied(rule)
	}
}

func (s *Service) observe(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(start)
	}
}

func wrapStoreErr(err error, kind string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, kind+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+kind)
}

func wrapWriteErr(err error, kind string) error {
	if errors.Is(err, sentinel.ErrVersionConflict) {
		return dErrors.New(dErrors.CodeConflict, kind+" was modified concurrently, retry with fresh state")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, kind+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store "+kind)
}
