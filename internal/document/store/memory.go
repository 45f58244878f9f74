// Package store provides document persistence. The in-memory implementation
// backs unit tests and local development; the postgres implementation is the
// production twin behind the same interface.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/Mutawai/ThiQaX-sub002/internal/document/models"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store. Reads return deep copies so callers
// cannot mutate stored state without going through Update.
type InMemory struct {
	mu   sync.RWMutex
	docs map[domain.DocumentID]*models.Document
}

// NewInMemory returns an empty store.
func NewInMemory() *InMemory {
	return &InMemory{docs: make(map[domain.DocumentID]*models.Document)}
}

// Create stores a new document. Returns sentinel.ErrAlreadyExists when the ID
// is taken.
func (s *InMemory) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.docs[doc.ID] = doc.Clone()
	return nil
}

// FindByID returns a copy of the stored document.
func (s *InMemory) FindByID(_ context.Context, id domain.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return doc.Clone(), nil
}

// ListByOwner returns copies of all documents belonging to the owner.
func (s *InMemory) ListByOwner(_ context.Context, owner domain.UserID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Document
	for _, doc := range s.docs {
		if doc.Owner == owner {
			out = append(out, doc.Clone())
		}
	}
	return out, nil
}

// ListExpiring returns non-expired documents whose expiry date is at or
// before the cutoff. The expiry scanner drives this.
func (s *InMemory) ListExpiring(_ context.Context, cutoff time.Time) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Document
	for _, doc := range s.docs {
		if doc.IsExpired() || doc.ExpiryDate == nil {
			continue
		}
		if !doc.ExpiryDate.After(cutoff) {
			out = append(out, doc.Clone())
		}
	}
	return out, nil
}

// Update persists a modified document under optimistic concurrency: the write
// is accepted only when the document's version matches the stored record, and
// the version is incremented as part of the write. A mismatch returns
// sentinel.ErrVersionConflict and the caller retries with fresh state.
func (s *InMemory) Update(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.docs[doc.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Version != doc.Version {
		return sentinel.ErrVersionConflict
	}
	doc.Version++
	s.docs[doc.ID] = doc.Clone()
	return nil
}
