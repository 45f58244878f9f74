// Package service implements the job posting workflow.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	appaudit "github.com/Mutawai/ThiQaX-sub002/internal/audit"
	"github.com/Mutawai/ThiQaX-sub002/internal/job/models"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
	"github.com/Mutawai/ThiQaX-sub002/pkg/requestcontext"
)

var tracer = otel.Tracer("thiqax/job")

// Store is the persistence seam for job postings.
type Store interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id domain.JobID) (*models.Job, error)
	ListBySponsor(ctx context.Context, sponsor domain.UserID) ([]*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
}

// AuditPublisher emits transition events to operational consumers.
type AuditPublisher interface {
	Emit(ctx context.Context, event appaudit.Event) error
}

// Service orchestrates one posting's lifecycle.
type Service struct {
	jobs   Store
	logger *slog.Logger
	audit  AuditPublisher
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

// New constructs the workflow service.
func New(jobs Store, opts ...Option) (*Service, error) {
	if jobs == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "job store is required")
	}
	s := &Service{jobs: jobs, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateRequest carries the posting creation fields.
type CreateRequest struct {
	Sponsor   domain.UserID
	Title     string
	ExpiresAt *time.Time
}

// Create records a draft posting.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Job, error) {
	ctx, span := tracer.Start(ctx, "job.Create")
	defer span.End()

	now := requestcontext.Now(ctx)
	job, err := models.NewJob(domain.NewJobID(), req.Sponsor, req.Title, req.ExpiresAt, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.Message(err))
		}
		return nil, err
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store job")
	}
	s.emit(ctx, job, "", string(models.StatusDraft))
	return job, nil
}

// Get loads one posting.
func (s *Service) Get(ctx context.Context, id domain.JobID) (*models.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "job not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load job")
	}
	return job, nil
}

// ListBySponsor returns all of a sponsor's postings.
func (s *Service) ListBySponsor(ctx context.Context, sponsor domain.UserID) ([]*models.Job, error) {
	jobs, err := s.jobs.ListBySponsor(ctx, sponsor)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list jobs")
	}
	return jobs, nil
}

// RequestTransition processes one guarded posting status change.
func (s *Service) RequestTransition(ctx context.Context, id domain.JobID, requested models.Status) (*models.Job, error) {
	ctx, span := tracer.Start(ctx, "job.RequestTransition")
	defer span.End()

	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	role := requestcontext.ActorRole(ctx)
	if denial := models.Ruleset.CanTransition(string(job.Status), string(requested), role); denial != nil {
		return nil, denial.Err()
	}

	from := job.Status
	job.ApplyTransition(requested, requestcontext.Now(ctx))
	if err := s.jobs.Update(ctx, job); err != nil {
		if errors.Is(err, sentinel.ErrVersionConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "job was modified concurrently, retry with fresh state")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store job")
	}

	s.emit(ctx, job, string(from), string(requested))
	return job, nil
}

func (s *Service) emit(ctx context.Context, job *models.Job, from, to string) {
	if s.audit == nil {
		return
	}
	event := appaudit.Event{
		Kind:       appaudit.KindJob,
		EntityID:   job.ID.String(),
		Actor:      requestcontext.ActorID(ctx).String(),
		FromStatus: from,
		ToStatus:   to,
		RequestID:  requestcontext.RequestID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit transition event",
			"job_id", job.ID, "error", err)
	}
}
