package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutawai/ThiQaX-sub002/internal/application/models"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newApp(t *testing.T, job domain.JobID, applicant domain.UserID) *models.Application {
	t.Helper()
	app, err := models.NewApplication(domain.NewApplicationID(), job, applicant, testNow)
	require.NoError(t, err)
	return app
}

func TestFindByJobAndApplicant(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	job := domain.NewJobID()
	applicant := domain.NewUserID()

	app := newApp(t, job, applicant)
	require.NoError(t, s.Create(ctx, app))

	got, err := s.FindByJobAndApplicant(ctx, job, applicant)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)

	_, err = s.FindByJobAndApplicant(ctx, job, domain.NewUserID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = s.FindByJobAndApplicant(ctx, domain.NewJobID(), applicant)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestLists(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	job := domain.NewJobID()
	applicant := domain.NewUserID()

	require.NoError(t, s.Create(ctx, newApp(t, job, applicant)))
	require.NoError(t, s.Create(ctx, newApp(t, job, domain.NewUserID())))
	require.NoError(t, s.Create(ctx, newApp(t, domain.NewJobID(), applicant)))

	byJob, err := s.ListByJob(ctx, job)
	require.NoError(t, err)
	assert.Len(t, byJob, 2)

	byApplicant, err := s.ListByApplicant(ctx, applicant)
	require.NoError(t, err)
	assert.Len(t, byApplicant, 2)
}

func TestReadsAreIsolated(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	app := newApp(t, domain.NewJobID(), domain.NewUserID())
	require.NoError(t, s.Create(ctx, app))

	got, err := s.FindByID(ctx, app.ID)
	require.NoError(t, err)
	got.ApplyTransition(models.StatusUnderReview, "sponsor", "", nil, testNow)

	again, err := s.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, again.Status)
	assert.Len(t, again.StatusHistory, 1)
}

func TestUpdateOptimisticConcurrency(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	app := newApp(t, domain.NewJobID(), domain.NewUserID())
	require.NoError(t, s.Create(ctx, app))

	first, err := s.FindByID(ctx, app.ID)
	require.NoError(t, err)
	second, err := s.FindByID(ctx, app.ID)
	require.NoError(t, err)

	first.ApplyTransition(models.StatusUnderReview, "sponsor", "", nil, testNow)
	require.NoError(t, s.Update(ctx, first))

	second.ApplyTransition(models.StatusWithdrawn, "applicant", "", nil, testNow)
	assert.ErrorIs(t, s.Update(ctx, second), sentinel.ErrVersionConflict)
}
