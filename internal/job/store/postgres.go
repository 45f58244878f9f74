package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mutawai/ThiQaX-sub002/internal/job/models"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
	txcontext "github.com/Mutawai/ThiQaX-sub002/pkg/platform/tx"
)

// Postgres persists job postings in the jobs table.
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

const jobColumns = `id, sponsor_id, title, status, expires_at, version, created_at, updated_at`

// Create inserts a new job row.
func (s *Postgres) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		job.ID.String(), job.Sponsor.String(), job.Title, string(job.Status),
		job.ExpiresAt, job.Version, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrAlreadyExists
	}
	return nil
}

// FindByID loads one job.
func (s *Postgres) FindByID(ctx context.Context, id domain.JobID) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, id.String())
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return job, err
}

// ListBySponsor loads all jobs posted by the sponsor, newest first.
func (s *Postgres) ListBySponsor(ctx context.Context, sponsor domain.UserID) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE sponsor_id = $1 ORDER BY created_at DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, sponsor.String())
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()
	var out []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// Update writes a modified job, accepting the write only when the version
// marker matches the stored row.
func (s *Postgres) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs
		SET title = $2, status = $3, expires_at = $4, version = version + 1, updated_at = $5
		WHERE id = $1 AND version = $6
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		job.ID.String(), job.Title, string(job.Status), job.ExpiresAt,
		job.UpdatedAt, job.Version,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if n == 0 {
		if _, err := s.FindByID(ctx, job.ID); errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrVersionConflict
	}
	job.Version++
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var (
		job                 models.Job
		idStr, sponsorStr   string
		status              string
	)
	err := row.Scan(&idStr, &sponsorStr, &job.Title, &status,
		&job.ExpiresAt, &job.Version, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	id, err := domain.ParseJobID(idStr)
	if err != nil {
		return nil, fmt.Errorf("scan job id: %w", err)
	}
	sponsor, err := domain.ParseUserID(sponsorStr)
	if err != nil {
		return nil, fmt.Errorf("scan job sponsor: %w", err)
	}
	job.ID = id
	job.Sponsor = sponsor
	job.Status = models.Status(status)
	return &job, nil
}
