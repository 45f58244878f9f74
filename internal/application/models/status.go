package models

import (
	"github.com/Mutawai/ThiQaX-sub002/internal/lifecycle"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// Status is an application's lifecycle state.
type Status string

const (
	StatusSubmitted    Status = "submitted"
	StatusUnderReview  Status = "under-review"
	StatusShortlisted  Status = "shortlisted"
	StatusInterview    Status = "interview"
	StatusOfferPending Status = "offer-pending"
	StatusOffered      Status = "offered"
	StatusAccepted     Status = "accepted"
	StatusRejected     Status = "rejected"
	StatusWithdrawn    Status = "withdrawn"
)

var validStatuses = map[Status]bool{
	StatusSubmitted:    true,
	StatusUnderReview:  true,
	StatusShortlisted:  true,
	StatusInterview:    true,
	StatusOfferPending: true,
	StatusOffered:      true,
	StatusAccepted:     true,
	StatusRejected:     true,
	StatusWithdrawn:    true,
}

// ParseStatus constructs a Status from external input.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !validStatuses[st] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown application status %q", s)
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

// Ruleset is the application transition policy.
//
// The applicant can withdraw at any non-terminal point, including after
// acceptance. Rejected and withdrawn are terminal. The role allowlist is
// independent of the adjacency table; both checks must pass.
var Ruleset = lifecycle.Ruleset{
	Kind: "application",
	Transitions: map[string][]string{
		string(StatusSubmitted):    {string(StatusUnderReview), string(StatusRejected), string(StatusWithdrawn)},
		string(StatusUnderReview):  {string(StatusShortlisted), string(StatusRejected), string(StatusWithdrawn)},
		string(StatusShortlisted):  {string(StatusInterview), string(StatusRejected), string(StatusWithdrawn)},
		string(StatusInterview):    {string(StatusOfferPending), string(StatusRejected), string(StatusWithdrawn)},
		string(StatusOfferPending): {string(StatusOffered), string(StatusRejected), string(StatusWithdrawn)},
		string(StatusOffered):      {string(StatusAccepted), string(StatusRejected), string(StatusWithdrawn)},
		string(StatusAccepted):     {string(StatusWithdrawn)},
	},
	RolePermissions: map[domain.ActorRole][]string{
		domain.RoleJobSeeker: {string(StatusWithdrawn)},
		domain.RoleSponsor: {
			string(StatusUnderReview),
			string(StatusShortlisted),
			string(StatusInterview),
			string(StatusOfferPending),
			string(StatusOffered),
			string(StatusRejected),
		},
		domain.RoleAgent: {
			string(StatusUnderReview),
			string(StatusShortlisted),
			string(StatusRejected),
		},
	},
}
