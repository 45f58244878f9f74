// Package store provides job posting persistence with in-memory and postgres
// twins behind the same interface.
package store

import (
	"context"
	"sync"

	"github.com/Mutawai/ThiQaX-sub002/internal/job/models"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store.
type InMemory struct {
	mu   sync.RWMutex
	jobs map[domain.JobID]*models.Job
}

// NewInMemory returns an empty store.
func NewInMemory() *InMemory {
	return &InMemory{jobs: make(map[domain.JobID]*models.Job)}
}

// Create stores a new job. Returns sentinel.ErrAlreadyExists when the ID is
// taken.
func (s *InMemory) Create(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

// FindByID returns a copy of the stored job.
func (s *InMemory) FindByID(_ context.Context, id domain.JobID) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return job.Clone(), nil
}

// ListBySponsor returns copies of all jobs posted by the sponsor.
func (s *InMemory) ListBySponsor(_ context.Context, sponsor domain.UserID) ([]*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Job
	for _, job := range s.jobs {
		if job.Sponsor == sponsor {
			out = append(out, job.Clone())
		}
	}
	return out, nil
}

// Update persists a modified job under optimistic concurrency, incrementing
// the version marker on success.
func (s *InMemory) Update(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.jobs[job.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Version != job.Version {
		return sentinel.ErrVersionConflict
	}
	job.Version++
	s.jobs[job.ID] = job.Clone()
	return nil
}
