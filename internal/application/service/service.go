// Package service implements the application workflow: guarded status
// transitions, the offer sub-record, interview scheduling, and feedback.
// Accepting an offer also marks the posting filled, inside one unit of work.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	appaudit "github.com/Mutawai/ThiQaX-sub002/internal/audit"
	appmetrics "github.com/Mutawai/ThiQaX-sub002/internal/application/metrics"
	"github.com/Mutawai/ThiQaX-sub002/internal/application/models"
	jobmodels "github.com/Mutawai/ThiQaX-sub002/internal/job/models"
	"github.com/Mutawai/ThiQaX-sub002/internal/ledger"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/tx"
	"github.com/Mutawai/ThiQaX-sub002/pkg/requestcontext"
)

var tracer = otel.Tracer("thiqax/application")

// Store is the persistence seam for applications.
type Store interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id domain.ApplicationID) (*models.Application, error)
	FindByJobAndApplicant(ctx context.Context, job domain.JobID, applicant domain.UserID) (*models.Application, error)
	ListByJob(ctx context.Context, job domain.JobID) ([]*models.Application, error)
	ListByApplicant(ctx context.Context, applicant domain.UserID) ([]*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
}

// JobStore is the slice of the job store this workflow needs: loading the
// posting at submission time and marking it filled on acceptance.
type JobStore interface {
	FindByID(ctx context.Context, id domain.JobID) (*jobmodels.Job, error)
	Update(ctx context.Context, job *jobmodels.Job) error
}

// AuditPublisher emits transition events to operational consumers.
type AuditPublisher interface {
	Emit(ctx context.Context, event appaudit.Event) error
}

// Service orchestrates one application's lifecycle.
type Service struct {
	apps    Store
	jobs    JobStore
	runner  tx.Runner
	logger  *slog.Logger
	audit   AuditPublisher
	metrics *appmetrics.Metrics
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
func WithMetrics(m *appmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the workflow service. The runner scopes the application and
// job writes of an offer acceptance into one unit of work; in-memory callers
// pass tx.NoopRunner.
func New(apps Store, jobs JobStore, runner tx.Runner, opts ...Option) (*Service, error) {
	if apps == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "application store is required")
	}
	if jobs == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "job store is required")
	}
	if runner == nil {
		runner = tx.NoopRunner{}
	}
	s := &Service{apps: apps, jobs: jobs, runner: runner, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create submits a new application. The posting must be active and unexpired,
// and an applicant may hold at most one application per job.
func (s *Service) Create(ctx context.Context, jobID domain.JobID, applicant domain.UserID) (*models.Application, error) {
	ctx, span := tracer.Start(ctx, "application.Create")
	defer span.End()

	now := requestcontext.Now(ctx)
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, wrapStoreErr(err, "job")
	}
	if !job.AcceptsApplications(now) {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"job %s is not accepting applications", jobID)
	}

	if _, err := s.apps.FindByJobAndApplicant(ctx, jobID, applicant); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "an application for this job already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing applications")
	}

	app, err := models.NewApplication(domain.NewApplicationID(), jobID, applicant, now)
	if err != nil {
		return nil, err
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store application")
	}
	s.emit(ctx, app, "", string(models.StatusSubmitted), "")
	return app, nil
}

// Get loads one application.
func (s *Service) Get(ctx context.Context, id domain.ApplicationID) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "application")
	}
	return app, nil
}

// ListByJob returns all applications targeting the job.
func (s *Service) ListByJob(ctx context.Context, job domain.JobID) ([]*models.Application, error) {
	apps, err := s.apps.ListByJob(ctx, job)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// ListByApplicant returns all of an applicant's applications.
func (s *Service) ListByApplicant(ctx context.Context, applicant domain.UserID) ([]*models.Application, error) {
	apps, err := s.apps.ListByApplicant(ctx, applicant)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// History returns the application's audit trail, newest first.
func (s *Service) History(ctx context.Context, id domain.ApplicationID) ([]ledger.Entry, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return app.StatusHistory.Newest(), nil
}

// TransitionRequest carries the payload for a status change. Offer terms are
// mandatory when requesting offered; a rejection reason is mandatory when
// rejecting an application that carries an offer.
type TransitionRequest struct {
	Notes string
	Offer *models.OfferPayload
}

// RequestTransition processes one guarded status change.
//
// The adjacency and role guards both run; a denial appends nothing to the
// history. Acceptance of an offer additionally marks the posting filled,
// inside the same unit of work. The write is optimistic; a concurrent
// modification surfaces as a retryable conflict.
func (s *Service) RequestTransition(ctx context.Context, id domain.ApplicationID, requested models.Status, req TransitionRequest) (*models.Application, error) {
	ctx, span := tracer.Start(ctx, "application.RequestTransition")
	defer span.End()
	start := time.Now()
	defer s.observe(start)

	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "application")
	}

	now := requestcontext.Now(ctx)
	actor := requestcontext.ActorID(ctx)
	role := requestcontext.ActorRole(ctx)

	if denial := models.Ruleset.CanTransition(string(app.Status), string(requested), role); denial != nil {
		s.denied(string(denial.Rule))
		return nil, denial.Err()
	}
	if denial := app.CheckPayload(requested, req.Offer, req.Notes, now); denial != nil {
		s.denied(string(denial.Rule))
		return nil, denial.Err()
	}

	from := app.Status
	app.ApplyTransition(requested, actor.String(), req.Notes, req.Offer, now)

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.apps.Update(ctx, app); err != nil {
			return err
		}
		if requested == models.StatusAccepted {
			return s.markJobFilled(ctx, app.Job, now)
		}
		return nil
	})
	if err != nil {
		return nil, wrapWriteErr(err, "application")
	}

	s.applied(string(requested))
	switch requested {
	case models.StatusOffered:
		if s.metrics != nil {
			s.metrics.OffersExtended.Inc()
		}
	case models.StatusAccepted:
		if s.metrics != nil {
			s.metrics.OffersAccepted.Inc()
		}
	}
	s.emit(ctx, app, string(from), string(requested), req.Notes)
	return app, nil
}

// ScheduleInterview appends an interview round while the application is
// shortlisted or interviewing.
func (s *Service) ScheduleInterview(ctx context.Context, id domain.ApplicationID, detail models.InterviewDetail) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "application")
	}
	now := requestcontext.Now(ctx)
	if err := app.ScheduleInterview(detail, now); err != nil {
		return nil, err
	}
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, wrapWriteErr(err, "application")
	}
	return app, nil
}

// AddFeedback appends a rated feedback entry. Feedback sits outside the state
// machine and never changes the status.
func (s *Service) AddFeedback(ctx context.Context, id domain.ApplicationID, fb models.Feedback) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "application")
	}
	now := requestcontext.Now(ctx)
	if fb.From == "" {
		fb.From = requestcontext.ActorID(ctx).String()
	}
	if err := app.AddFeedback(fb, now); err != nil {
		return nil, err
	}
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, wrapWriteErr(err, "application")
	}
	return app, nil
}

// markJobFilled moves the posting to filled when an offer is accepted. A
// posting already out of active (closed by the sponsor, say) is left alone.
func (s *Service) markJobFilled(ctx context.Context, jobID domain.JobID, now time.Time) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != jobmodels.StatusActive {
		s.logger.WarnContext(ctx, "accepted offer against non-active job",
			"job_id", jobID, "job_status", job.Status)
		return nil
	}
	job.ApplyTransition(jobmodels.StatusFilled, now)
	return s.jobs.Update(ctx, job)
}

func (s *Service) emit(ctx context.Context, app *models.Application, from, to, notes string) {
	if s.audit == nil {
		return
	}
	event := appaudit.Event{
		Kind:       appaudit.KindApplication,
		EntityID:   app.ID.String(),
		Actor:      requestcontext.ActorID(ctx).String(),
		FromStatus: from,
		ToStatus:   to,
		Notes:      notes,
		RequestID:  requestcontext.RequestID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit transition event",
			"application_id", app.ID, "error", err)
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
