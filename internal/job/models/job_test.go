package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNewJob(t *testing.T) {
	expires := testNow.AddDate(0, 1, 0)
	job, err := NewJob(domain.NewJobID(), domain.NewUserID(), "Site Engineer", &expires, testNow)
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, job.Status)
	assert.Equal(t, int64(0), job.Version)
	require.NotNil(t, job.ExpiresAt)
	assert.Equal(t, expires, *job.ExpiresAt)
}

func TestNewJobValidation(t *testing.T) {
	_, err := NewJob(domain.JobID{}, domain.NewUserID(), "Role", nil, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewJob(domain.NewJobID(), domain.UserID{}, "Role", nil, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewJob(domain.NewJobID(), domain.NewUserID(), "", nil, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestAcceptsApplications(t *testing.T) {
	job, err := NewJob(domain.NewJobID(), domain.NewUserID(), "Role", nil, testNow)
	require.NoError(t, err)

	assert.False(t, job.AcceptsApplications(testNow), "draft postings accept nothing")

	job.Status = StatusActive
	assert.True(t, job.AcceptsApplications(testNow))

	past := testNow.AddDate(0, 0, -1)
	job.ExpiresAt = &past
	assert.False(t, job.AcceptsApplications(testNow), "expired postings accept nothing")

	future := testNow.AddDate(0, 1, 0)
	job.ExpiresAt = &future
	assert.True(t, job.AcceptsApplications(testNow))

	job.Status = StatusFilled
	assert.False(t, job.AcceptsApplications(testNow))
}

func TestCloneIsDeep(t *testing.T) {
	expires := testNow.AddDate(0, 1, 0)
	job, err := NewJob(domain.NewJobID(), domain.NewUserID(), "Role", &expires, testNow)
	require.NoError(t, err)

	clone := job.Clone()
	clone.Status = StatusActive
	*clone.ExpiresAt = clone.ExpiresAt.AddDate(1, 0, 0)

	assert.Equal(t, StatusDraft, job.Status)
	assert.Equal(t, expires, *job.ExpiresAt)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("active")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, st)

	_, err = ParseStatus("archived")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestJobRuleset(t *testing.T) {
	tests := []struct {
		current   Status
		requested Status
		role      domain.ActorRole
		allowed   bool
	}{
		{StatusDraft, StatusPending, domain.RoleSponsor, true},
		{StatusDraft, StatusClosed, domain.RoleSponsor, true},
		{StatusPending, StatusActive, domain.RoleAdmin, true},
		{StatusPending, StatusRejected, domain.RoleAdmin, true},
		{StatusActive, StatusFilled, domain.RoleSponsor, true},
		{StatusFilled, StatusClosed, domain.RoleSponsor, true},
		{StatusRejected, StatusPending, domain.RoleSponsor, true},
		// Moderation decisions stay with administrators.
		{StatusPending, StatusActive, domain.RoleSponsor, false},
		{StatusPending, StatusRejected, domain.RoleSponsor, false},
		// Adjacency violations bind everyone.
		{StatusClosed, StatusPending, domain.RoleAdmin, false},
		{StatusDraft, StatusActive, domain.RoleAdmin, false},
		{StatusFilled, StatusActive, domain.RoleAdmin, false},
	}
	for _, tt := range tests {
		denial := Ruleset.CanTransition(string(tt.current), string(tt.requested), tt.role)
		if tt.allowed {
			assert.Nil(t, denial, "%s -> %s as %s should be allowed", tt.current, tt.requested, tt.role)
		} else {
			assert.NotNil(t, denial, "%s -> %s as %s should be denied", tt.current, tt.requested, tt.role)
		}
	}
}
