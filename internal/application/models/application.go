package models

import (
	"time"

	"github.com/Mutawai/ThiQaX-sub002/internal/ledger"
	"github.com/Mutawai/ThiQaX-sub002/internal/lifecycle"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// InterviewStatus tracks one scheduled interview.
type InterviewStatus string

const (
	InterviewStatusScheduled InterviewStatus = "scheduled"
	InterviewStatusCompleted InterviewStatus = "completed"
	InterviewStatusCancelled InterviewStatus = "cancelled"
)

// InterviewDetail is one scheduled interview round.
type InterviewDetail struct {
	ScheduledDate time.Time       `json:"scheduledDate"`
	Location      string          `json:"location"`
	Interviewers  []string        `json:"interviewers"`
	Notes         string          `json:"notes,omitempty"`
	Status        InterviewStatus `json:"status"`
}

// FeedbackVisibility scopes who may read a feedback entry.
type FeedbackVisibility string

const (
	FeedbackVisibilityPublic  FeedbackVisibility = "public"
	FeedbackVisibilityPrivate FeedbackVisibility = "private"
)

// Feedback is an append-only comment with a 1-5 rating. It sits outside the
// state machine proper.
type Feedback struct {
	From       string             `json:"from"`
	Comment    string             `json:"comment"`
	Rating     int                `json:"rating"`
	Visibility FeedbackVisibility `json:"visibility"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// Application is the aggregate root for one job-seeker submission.
//
// Invariants:
//   - Status moves only along edges of Ruleset.Transitions.
//   - OfferDetails must exist before status can become offered.
//   - StatusHistory is append-only; an explicit submitted entry is written at
//     creation.
//   - Version is the optimistic concurrency marker.
type Application struct {
	ID        domain.ApplicationID `json:"id"`
	Job       domain.JobID         `json:"job"`
	Applicant domain.UserID        `json:"applicant"`
	Status    Status               `json:"status"`

	StatusHistory    ledger.History    `json:"statusHistory"`
	InterviewDetails []InterviewDetail `json:"interviewDetails,omitempty"`
	OfferDetails     *OfferDetails     `json:"offerDetails,omitempty"`
	Feedback         []Feedback        `json:"feedback,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewApplication creates a submitted application with its first history entry.
func NewApplication(id domain.ApplicationID, job domain.JobID, applicant domain.UserID, now time.Time) (*Application, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "application id is required")
	}
	if job.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "application job is required")
	}
	if applicant.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "application applicant is required")
	}
	a := &Application{
		ID:        id,
		Job:       job,
		Applicant: applicant,
		Status:    StatusSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.StatusHistory = a.StatusHistory.Append(ledger.Entry{
		Status:      string(StatusSubmitted),
		PerformedBy: applicant.String(),
	}, now)
	return a, nil
}

// HasOffer reports whether a non-empty offer sub-record exists.
func (a *Application) HasOffer() bool {
	return a.OfferDetails != nil
}

// CheckPayload enforces the payload requirements for a requested status:
// offered needs a valid offer payload; rejecting an application that carries
// an offer needs a rejection reason.
func (a *Application) CheckPayload(requested Status, offer *OfferPayload, reason string, now time.Time) *lifecycle.Denial {
	switch requested {
	case StatusOffered:
		if d := offer.Validate(now); d != nil {
			return d
		}
	case StatusRejected:
		if a.HasOffer() && reason == "" {
			return lifecycle.Deny(lifecycle.RuleMissingPayload,
				"a rejection reason is required when rejecting an application with an offer")
		}
	}
	return nil
}

// ApplyTransition records a guarded status change, maintaining the nested
// offer sub-record. The caller must have run the guard and payload checks.
func (a *Application) ApplyTransition(requested Status, actor string, notes string, offer *OfferPayload, now time.Time) {
	switch requested {
	case StatusOffered:
		a.OfferDetails = &OfferDetails{
			Salary:     offer.Salary,
			Benefits:   append([]string(nil), offer.Benefits...),
			StartDate:  offer.StartDate,
			ExpiryDate: offer.ExpiryDate,
			Status:     OfferStatusPending,
			OfferDate:  now,
		}
	case StatusAccepted:
		if a.OfferDetails != nil {
			a.OfferDetails.Status = OfferStatusAccepted
			t := now
			a.OfferDetails.AcceptedAt = &t
		}
	case StatusRejected:
		if a.OfferDetails != nil {
			a.OfferDetails.Status = OfferStatusRejected
			t := now
			a.OfferDetails.RejectedAt = &t
			a.OfferDetails.RejectionReason = notes
		}
	}
	a.Status = requested
	a.UpdatedAt = now
	a.StatusHistory = a.StatusHistory.Append(ledger.Entry{
		Status:      string(requested),
		PerformedBy: actor,
		Notes:       notes,
	}, now)
}

// ScheduleInterview appends an interview round. Interviews may only be added
// while the application is shortlisted or interviewing.
func (a *Application) ScheduleInterview(detail InterviewDetail, now time.Time) error {
	if a.Status != StatusShortlisted && a.Status != StatusInterview {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"interviews cannot be scheduled while the application is %s", a.Status)
	}
	if detail.ScheduledDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "interview scheduled date is required")
	}
	if detail.Status == "" {
		detail.Status = InterviewStatusScheduled
	}
	a.InterviewDetails = append(a.InterviewDetails, detail)
	a.UpdatedAt = now
	return nil
}

// AddFeedback appends a feedback entry after validating the rating range.
func (a *Application) AddFeedback(fb Feedback, now time.Time) error {
	if fb.Rating < 1 || fb.Rating > 5 {
		return dErrors.New(dErrors.CodeValidation, "feedback rating must be between 1 and 5")
	}
	if fb.From == "" {
		return dErrors.New(dErrors.CodeValidation, "feedback author is required")
	}
	if fb.Visibility == "" {
		fb.Visibility = FeedbackVisibilityPrivate
	}
	fb.CreatedAt = now
	a.Feedback = append(a.Feedback, fb)
	a.UpdatedAt = now
	return nil
}

// Clone returns a deep copy so store reads cannot alias stored state.
func (a *Application) Clone() *Application {
	out := *a
	out.StatusHistory = append(ledger.History(nil), a.StatusHistory...)
	out.InterviewDetails = cloneInterviews(a.InterviewDetails)
	out.Feedback = append([]Feedback(nil), a.Feedback...)
	if a.OfferDetails != nil {
		offer := *a.OfferDetails
		offer.Benefits = append([]string(nil), a.OfferDetails.Benefits...)
		if a.OfferDetails.AcceptedAt != nil {
			t := *a.OfferDetails.AcceptedAt
			offer.AcceptedAt = &t
		}
		if a.OfferDetails.RejectedAt != nil {
			t := *a.OfferDetails.RejectedAt
			offer.RejectedAt = &t
		}
		out.OfferDetails = &offer
	}
	return &out
}

func cloneInterviews(in []InterviewDetail) []InterviewDetail {
	if in == nil {
		return nil
	}
	out := make([]InterviewDetail, len(in))
	copy(out, in)
	for i := range out {
		out[i].Interviewers = append([]string(nil), in[i].Interviewers...)
	}
	return out
}
