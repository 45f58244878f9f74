package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mutawai/ThiQaX-sub002/internal/application/models"
	"github.com/Mutawai/ThiQaX-sub002/internal/ledger"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
	txcontext "github.com/Mutawai/ThiQaX-sub002/pkg/platform/tx"
)

// Postgres persists applications in the applications table. Sub-records
// (history, interviews, offer, feedback) are stored as JSONB; the version
// column carries the optimistic concurrency marker.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps a database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const applicationColumns = `id, job_id, applicant_id, status, status_history,
	interview_details, offer_details, feedback, version, created_at, updated_at`

// Create inserts a new application row.
func (s *Postgres) Create(ctx context.Context, app *models.Application) error {
	cols, err := marshalApplication(app)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		app.ID.String(), app.Job.String(), app.Applicant.String(), string(app.Status),
		cols.history, cols.interviews, cols.offer, cols.feedback,
		app.Version, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrAlreadyExists
	}
	return nil
}

// FindByID loads one application.
func (s *Postgres) FindByID(ctx context.Context, id domain.ApplicationID) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, id.String())
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return app, err
}

// FindByJobAndApplicant returns the applicant's application against a job.
func (s *Postgres) FindByJobAndApplicant(ctx context.Context, job domain.JobID, applicant domain.UserID) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 AND applicant_id = $2`
	row := s.execer(ctx).QueryRowContext(ctx, query, job.String(), applicant.String())
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return app, err
}

// ListByJob loads all applications targeting the job, newest first.
func (s *Postgres) ListByJob(ctx context.Context, job domain.JobID) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 ORDER BY created_at DESC`
	return s.queryApplications(ctx, query, job.String())
}

// ListByApplicant loads all applications made by the applicant, newest first.
func (s *Postgres) ListByApplicant(ctx context.Context, applicant domain.UserID) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE applicant_id = $1 ORDER BY created_at DESC`
	return s.queryApplications(ctx, query, applicant.String())
}

// Update writes a modified application, accepting the write only when the
// version marker matches the stored row.
func (s *Postgres) Update(ctx context.Context, app *models.Application) error {
	cols, err := marshalApplication(app)
	if err != nil {
		return err
	}
	query := `
		UPDATE applications
		SET status = $2, status_history = $3, interview_details = $4,
			offer_details = $5, feedback = $6, version = version + 1, updated_at = $7
		WHERE id = $1 AND version = $8
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		app.ID.String(), string(app.Status),
		cols.history, cols.interviews, cols.offer, cols.feedback,
		app.UpdatedAt, app.Version,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if n == 0 {
		if _, err := s.FindByID(ctx, app.ID); errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrVersionConflict
	}
	app.Version++
	return nil
}

func (s *Postgres) queryApplications(ctx context.Context, query string, args ...any) ([]*models.Application, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()
	var out []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

type applicationJSON struct {
	history    []byte
	interviews []byte
	offer      []byte
	feedback   []byte
}

func marshalApplication(app *models.Application) (applicationJSON, error) {
	var cols applicationJSON
	var err error
	if cols.history, err = json.Marshal(app.StatusHistory); err != nil {
		return cols, fmt.Errorf("marshal status history: %w", err)
	}
	if cols.interviews, err = json.Marshal(app.InterviewDetails); err != nil {
		return cols, fmt.Errorf("marshal interview details: %w", err)
	}
	if cols.offer, err = json.Marshal(app.OfferDetails); err != nil {
		return cols, fmt.Errorf("marshal offer details: %w", err)
	}
	if cols.feedback, err = json.Marshal(app.Feedback); err != nil {
		return cols, fmt.Errorf("marshal feedback: %w", err)
	}
	return cols, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app                            models.Application
		idStr, jobStr, applicantStr    string
		status                         string
		histRaw, ivRaw, offRaw, fbRaw  []byte
	)
	err := row.Scan(
		&idStr, &jobStr, &applicantStr, &status,
		&histRaw, &ivRaw, &offRaw, &fbRaw,
		&app.Version, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := domain.ParseApplicationID(idStr)
	if err != nil {
		return nil, fmt.Errorf("scan application id: %w", err)
	}
	job, err := domain.ParseJobID(jobStr)
	if err != nil {
		return nil, fmt.Errorf("scan application job: %w", err)
	}
	applicant, err := domain.ParseUserID(applicantStr)
	if err != nil {
		return nil, fmt.Errorf("scan application applicant: %w", err)
	}
	app.ID = id
	app.Job = job
	app.Applicant = applicant
	app.Status = models.Status(status)
	var hist ledger.History
	if err := json.Unmarshal(histRaw, &hist); err != nil {
		return nil, fmt.Errorf("unmarshal status history: %w", err)
	}
	app.StatusHistory = hist
	if err := json.Unmarshal(ivRaw, &app.InterviewDetails); err != nil {
		return nil, fmt.Errorf("unmarshal interview details: %w", err)
	}
	if err := json.Unmarshal(offRaw, &app.OfferDetails); err != nil {
		return nil, fmt.Errorf("unmarshal offer details: %w", err)
	}
	if err := json.Unmarshal(fbRaw, &app.Feedback); err != nil {
		return nil, fmt.Errorf("unmarshal feedback: %w", err)
	}
	return &app, nil
}
