//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Mutawai/ThiQaX-sub002/internal/job/models"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/sentinel"
	"github.com/Mutawai/ThiQaX-sub002/pkg/testutil/containers"
)

type JobPostgresSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	now   time.Time
}

func TestJobPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(JobPostgresSuite))
}

func (s *JobPostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *JobPostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "jobs"))
}

func (s *JobPostgresSuite) newJob(sponsor domain.UserID, expiresAt *time.Time) *models.Job {
	job, err := models.NewJob(domain.NewJobID(), sponsor, "Site Engineer", expiresAt, s.now)
	s.Require().NoError(err)
	return job
}

func (s *JobPostgresSuite) TestRoundTrip() {
	ctx := context.Background()
	expires := s.now.AddDate(0, 1, 0)
	job := s.newJob(domain.NewUserID(), &expires)

	s.Require().NoError(s.store.Create(ctx, job))
	s.ErrorIs(s.store.Create(ctx, job), sentinel.ErrAlreadyExists)

	got, err := s.store.FindByID(ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(job.ID, got.ID)
	s.Equal(models.StatusDraft, got.Status)
	s.Require().NotNil(got.ExpiresAt)
	s.True(got.ExpiresAt.Equal(expires))

	_, err = s.store.FindByID(ctx, domain.NewJobID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *JobPostgresSuite) TestOptimisticConcurrency() {
	ctx := context.Background()
	job := s.newJob(domain.NewUserID(), nil)
	s.Require().NoError(s.store.Create(ctx, job))

	first, err := s.store.FindByID(ctx, job.ID)
	s.Require().NoError(err)
	second, err := s.store.FindByID(ctx, job.ID)
	s.Require().NoError(err)

	first.ApplyTransition(models.StatusPending, s.now)
	s.Require().NoError(s.store.Update(ctx, first))

	second.ApplyTransition(models.StatusClosed, s.now)
	s.ErrorIs(s.store.Update(ctx, second), sentinel.ErrVersionConflict)
}

func (s *JobPostgresSuite) TestListBySponsor() {
	ctx := context.Background()
	sponsor := domain.NewUserID()

	s.Require().NoError(s.store.Create(ctx, s.newJob(sponsor, nil)))
	s.Require().NoError(s.store.Create(ctx, s.newJob(sponsor, nil)))
	s.Require().NoError(s.store.Create(ctx, s.newJob(domain.NewUserID(), nil)))

	jobs, err := s.store.ListBySponsor(ctx, sponsor)
	s.Require().NoError(err)
	s.Len(jobs, 2)
}
