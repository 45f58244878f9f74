package models

import (
	"github.com/Mutawai/ThiQaX-sub002/internal/lifecycle"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// Status is a document's verification lifecycle state.
// Canonical literals are lower camel case; Parse normalizes at boundaries.
type Status string

const (
	StatusUploaded    Status = "uploaded"
	StatusPending     Status = "pending"
	StatusUnderReview Status = "underReview"
	StatusVerified    Status = "verified"
	StatusRejected    Status = "rejected"
	StatusExpired     Status = "expired"
)

var validStatuses = map[Status]bool{
	StatusUploaded:    true,
	StatusPending:     true,
	StatusUnderReview: true,
	StatusVerified:    true,
	StatusRejected:    true,
	StatusExpired:     true,
}

// ParseStatus constructs a Status from external input.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !validStatuses[st] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown document status %q", s)
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

// Ruleset is the document verification transition policy.
//
// Verification has no strict pipeline: verifiers may set verified or rejected
// directly from either review state. The expired status is reachable only
// through the automatic expiry check, which runs before any guard and is not
// role-gated, so it carries no edge here besides verified -> expired used by
// the scanner path. Rejected documents may be resubmitted by their owner.
var Ruleset = lifecycle.Ruleset{
	Kind: "document",
	Transitions: map[string][]string{
		string(StatusUploaded):    {string(StatusPending)},
		string(StatusPending):     {string(StatusUnderReview), string(StatusVerified), string(StatusRejected)},
		string(StatusUnderReview): {string(StatusVerified), string(StatusRejected)},
		string(StatusVerified):    {string(StatusExpired)},
		string(StatusRejected):    {string(StatusPending)},
	},
	RolePermissions: map[domain.ActorRole][]string{
		domain.RoleJobSeeker: {string(StatusPending)},
		domain.RoleVerifier: {
			string(StatusUnderReview),
			string(StatusVerified),
			string(StatusRejected),
		},
	},
}
