// Package store provides application persistence. The in-memory
// implementation backs unit tests and local development; the postgres
// implementation is the production twin behind the same interface.
package store

import (
	"context"
	"sync"

	"github.com/Mutawai/ThiQaX-sub002/internal/application/models"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store. Reads return deep copies so callers
// cannot mutate stored state without going through Update.
type InMemory struct {
	mu   sync.RWMutex
	apps map[domain.ApplicationID]*models.Application
}

// NewInMemory returns an empty store.
func NewInMemory() *InMemory {
	return &InMemory{apps: make(map[domain.ApplicationID]*models.Application)}
}

// Create stores a new application. Returns sentinel.ErrAlreadyExists when the
// ID is taken.
func (s *InMemory) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[app.ID]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.apps[app.ID] = app.Clone()
	return nil
}

// FindByID returns a copy of the stored application.
func (s *InMemory) FindByID(_ context.Context, id domain.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return app.Clone(), nil
}

// FindByJobAndApplicant returns the applicant's application against a job, if
// any. Enforces the one-application-per-job rule at creation.
func (s *InMemory) FindByJobAndApplicant(_ context.Context, job domain.JobID, applicant domain.UserID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, app := range s.apps {
		if app.Job == job && app.Applicant == applicant {
			return app.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// ListByJob returns copies of all applications targeting the job.
func (s *InMemory) ListByJob(_ context.Context, job domain.JobID) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Application
	for _, app := range s.apps {
		if app.Job == job {
			out = append(out, app.Clone())
		}
	}
	return out, nil
}

// ListByApplicant returns copies of all applications made by the applicant.
func (s *InMemory) ListByApplicant(_ context.Context, applicant domain.UserID) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Application
	for _, app := range s.apps {
		if app.Applicant == applicant {
			out = append(out, app.Clone())
		}
	}
	return out, nil
}

// Update persists a modified application under optimistic concurrency: the
// write is accepted only when the version marker matches, and the version is
// incremented as part of the write. A mismatch returns
// sentinel.ErrVersionConflict and the caller retries with fresh state.
func (s *InMemory) Update(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.apps[app.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Version != app.Version {
		return sentinel.ErrVersionConflict
	}
	app.Version++
	s.apps[app.ID] = app.Clone()
	return nil
}
