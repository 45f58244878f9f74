package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Mutawai/ThiQaX-sub002/internal/document/models"
	"github.com/Mutawai/ThiQaX-sub002/internal/ledger"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
	txcontext "github.com/Mutawai/ThiQaX-sub002/pkg/platform/tx"
)

// Postgres persists documents in the documents table. Verification details
// and history are stored as JSONB; the version column carries the optimistic
// concurrency marker.
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

const documentColumns = `id, owner_id, doc_type, category, status, file_ref,
	expiry_date, expiry_notified, expiry_notification_date,
	verification_details, history, version, created_at, updated_at`

// Create inserts a new document row.
func (s *Postgres) Create(ctx context.Context, doc *models.Document) error {
	details, history, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		doc.ID.String(), doc.Owner.String(), string(doc.Type), string(doc.Category),
		string(doc.Status), doc.FileRef,
		doc.ExpiryDate, doc.ExpiryNotified, doc.ExpiryNotificationDate,
		details, history, doc.Version, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrAlreadyExists
	}
	return nil
}

// FindByID loads one document.
func (s *Postgres) FindByID(ctx context.Context, id domain.DocumentID) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, id.String())
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return doc, err
}

// ListByOwner loads all documents belonging to the owner, newest first.
func (s *Postgres) ListByOwner(ctx context.Context, owner domain.UserID) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE owner_id = $1 ORDER BY created_at DESC`
	return s.queryDocuments(ctx, query, owner.String())
}

// ListExpiring loads non-expired documents whose expiry date is at or before
// the cutoff.
func (s *Postgres) ListExpiring(ctx context.Context, cutoff time.Time) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE status <> 'expired' AND expiry_date IS NOT NULL AND expiry_date <= $1`
	return s.queryDocuments(ctx, query, cutoff)
}

// Update writes a modified document, accepting the write only when the
// version marker matches the stored row. Version conflicts surface as
// sentinel.ErrVersionConflict for the caller to retry with fresh state.
func (s *Postgres) Update(ctx context.Context, doc *models.Document) error {
	details, history, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	query := `
		UPDATE documents
		SET status = $2, file_ref = $3, expiry_date = $4, expiry_notified = $5,
			expiry_notification_date = $6, verification_details = $7, history = $8,
			version = version + 1, updated_at = $9
		WHERE id = $1 AND version = $10
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		doc.ID.String(), string(doc.Status), doc.FileRef,
		doc.ExpiryDate, doc.ExpiryNotified, doc.ExpiryNotificationDate,
		details, history, doc.UpdatedAt, doc.Version,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if n == 0 {
		if _, err := s.FindByID(ctx, doc.ID); errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrVersionConflict
	}
	doc.Version++
	return nil
}

func (s *Postgres) queryDocuments(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()
	var out []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func marshalDocument(doc *models.Document) (details, history []byte, err error) {
	details, err = json.Marshal(doc.VerificationDetails)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal verification details: %w", err)
	}
	history, err = json.Marshal(doc.History)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal history: %w", err)
	}
	return details, history, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		doc                 models.Document
		idStr, ownerStr     string
		docType, category   string
		status              string
		detailsRaw, histRaw []byte
	)
	err := row.Scan(
		&idStr, &ownerStr, &docType, &category, &status, &doc.FileRef,
		&doc.ExpiryDate, &doc.ExpiryNotified, &doc.ExpiryNotificationDate,
		&detailsRaw, &histRaw, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	id, err := domain.ParseDocumentID(idStr)
	if err != nil {
		return nil, fmt.Errorf("scan document id: %w", err)
	}
	owner, err := domain.ParseUserID(ownerStr)
	if err != nil {
		return nil, fmt.Errorf("scan document owner: %w", err)
	}
	doc.ID = id
	doc.Owner = owner
	doc.Type = models.Type(docType)
	doc.Category = models.Category(category)
	doc.Status = models.Status(status)
	if err := json.Unmarshal(detailsRaw, &doc.VerificationDetails); err != nil {
		return nil, fmt.Errorf("unmarshal verification details: %w", err)
	}
	var hist ledger.History
	if err := json.Unmarshal(histRaw, &hist); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	doc.History = hist
	return &doc, nil
}
