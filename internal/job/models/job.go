// Package models defines the job posting collaborator. Jobs carry their own
// small lifecycle; applications may only be created against an active,
// unexpired job, and accepting an offer marks the job filled.
package models

import (
	"time"

	"github.com/Mutawai/ThiQaX-sub002/internal/lifecycle"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// Status is a job posting's lifecycle state.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusFilled   Status = "filled"
	StatusClosed   Status = "closed"
	StatusRejected Status = "rejected"
)

var validStatuses = map[Status]bool{
	StatusDraft:    true,
	StatusPending:  true,
	StatusActive:   true,
	StatusFilled:   true,
	StatusClosed:   true,
	StatusRejected: true,
}

// ParseStatus constructs a Status from external input.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !validStatuses[st] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown job status %q", s)
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

// Ruleset is the job posting transition policy. Activation and rejection are
// moderation decisions, reachable only by an administrative actor; sponsors
// drive the rest of their posting's lifecycle.
var Ruleset = lifecycle.Ruleset{
	Kind: "job",
	Transitions: map[string][]string{
		string(StatusDraft):    {string(StatusPending), string(StatusClosed)},
		string(StatusPending):  {string(StatusActive), string(StatusRejected), string(StatusClosed)},
		string(StatusActive):   {string(StatusFilled), string(StatusClosed)},
		string(StatusFilled):   {string(StatusClosed)},
		string(StatusRejected): {string(StatusPending), string(StatusClosed)},
	},
	RolePermissions: map[domain.ActorRole][]string{
		domain.RoleSponsor: {
			string(StatusPending),
			string(StatusFilled),
			string(StatusClosed),
		},
	},
}

// Job is the minimal posting record the verification core needs.
type Job struct {
	ID        domain.JobID  `json:"id"`
	Sponsor   domain.UserID `json:"sponsor"`
	Title     string        `json:"title"`
	Status    Status        `json:"status"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewJob creates a draft posting.
func NewJob(id domain.JobID, sponsor domain.UserID, title string, expiresAt *time.Time, now time.Time) (*Job, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "job id is required")
	}
	if sponsor.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "job sponsor is required")
	}
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "job title is required")
	}
	j := &Job{
		ID:        id,
		Sponsor:   sponsor,
		Title:     title,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if expiresAt != nil {
		t := *expiresAt
		j.ExpiresAt = &t
	}
	return j, nil
}

// AcceptsApplications reports whether new applications may target this job:
// the posting must be active and not past its expiry.
func (j *Job) AcceptsApplications(now time.Time) bool {
	if j.Status != StatusActive {
		return false
	}
	if j.ExpiresAt != nil && !j.ExpiresAt.After(now) {
		return false
	}
	return true
}

// ApplyTransition records a guarded status change. The caller must have run
// the guard first.
func (j *Job) ApplyTransition(requested Status, now time.Time) {
	j.Status = requested
	j.UpdatedAt = now
}

// Clone returns a deep copy so store reads cannot alias stored state.
func (j *Job) Clone() *Job {
	out := *j
	if j.ExpiresAt != nil {
		t := *j.ExpiresAt
		out.ExpiresAt = &t
	}
	return &out
}
