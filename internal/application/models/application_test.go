package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutawai/ThiQaX-sub002/internal/lifecycle"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	app, err := NewApplication(domain.NewApplicationID(), domain.NewJobID(), domain.NewUserID(), testNow)
	require.NoError(t, err)
	return app
}

func validOffer() *OfferPayload {
	return &OfferPayload{
		Salary:     Salary{Amount: 4500, Currency: "USD", Period: "month"},
		Benefits:   []string{"housing", "flights"},
		StartDate:  testNow.AddDate(0, 1, 0),
		ExpiryDate: testNow.AddDate(0, 2, 0),
	}
}

func TestNewApplication(t *testing.T) {
	app := newTestApplication(t)
	assert.Equal(t, StatusSubmitted, app.Status)
	require.Len(t, app.StatusHistory, 1)
	assert.Equal(t, string(StatusSubmitted), app.StatusHistory[0].Status)
	assert.Equal(t, app.Applicant.String(), app.StatusHistory[0].PerformedBy)
}

func TestOfferPayloadValidate(t *testing.T) {
	assert.Nil(t, validOffer().Validate(testNow))

	var nilPayload *OfferPayload
	d := nilPayload.Validate(testNow)
	require.NotNil(t, d)
	assert.Equal(t, lifecycle.RuleMissingPayload, d.Rule)

	noSalary := validOffer()
	noSalary.Salary.Amount = 0
	d = noSalary.Validate(testNow)
	require.NotNil(t, d)
	assert.Equal(t, lifecycle.RuleMissingPayload, d.Rule)

	noDates := validOffer()
	noDates.StartDate = time.Time{}
	d = noDates.Validate(testNow)
	require.NotNil(t, d)
	assert.Equal(t, lifecycle.RuleMissingPayload, d.Rule)

	inverted := validOffer()
	inverted.ExpiryDate = inverted.StartDate.AddDate(0, 0, -1)
	d = inverted.Validate(testNow)
	require.NotNil(t, d)
	assert.Equal(t, lifecycle.RuleInvalidDateOrder, d.Rule)

	stale := validOffer()
	stale.StartDate = testNow.AddDate(0, -2, 0)
	stale.ExpiryDate = testNow.AddDate(0, -1, 0)
	d = stale.Validate(testNow)
	require.NotNil(t, d)
	assert.Equal(t, lifecycle.RuleInvalidDateOrder, d.Rule)
}

func TestCheckPayload(t *testing.T) {
	app := newTestApplication(t)

	// Offered without payload.
	d := app.CheckPayload(StatusOffered, nil, "", testNow)
	require.NotNil(t, d)
	assert.Equal(t, lifecycle.RuleMissingPayload, d.Rule)

	// Rejecting without an offer needs no reason.
	assert.Nil(t, app.CheckPayload(StatusRejected, nil, "", testNow))

	// Rejecting with an offer on record requires a reason.
	app.ApplyTransition(StatusOffered, "sponsor-1", "", validOffer(), testNow)
	d = app.CheckPayload(StatusRejected, nil, "", testNow)
	require.NotNil(t, d)
	assert.Equal(t, lifecycle.RuleMissingPayload, d.Rule)
	assert.Nil(t, app.CheckPayload(StatusRejected, nil, "position withdrawn", testNow))
}

func TestApplyTransitionOfferLifecycle(t *testing.T) {
	app := newTestApplication(t)
	offer := validOffer()

	app.ApplyTransition(StatusOffered, "sponsor-1", "", offer, testNow)
	require.True(t, app.HasOffer())
	assert.Equal(t, OfferStatusPending, app.OfferDetails.Status)
	assert.Equal(t, testNow, app.OfferDetails.OfferDate)
	assert.Equal(t, offer.Salary, app.OfferDetails.Salary)

	accepted := testNow.Add(24 * time.Hour)
	app.ApplyTransition(StatusAccepted, app.Applicant.String(), "", nil, accepted)
	assert.Equal(t, StatusAccepted, app.Status)
	assert.Equal(t, OfferStatusAccepted, app.OfferDetails.Status)
	require.NotNil(t, app.OfferDetails.AcceptedAt)
	assert.Equal(t, accepted, *app.OfferDetails.AcceptedAt)

	require.Len(t, app.StatusHistory, 3)
	assert.Equal(t, string(StatusAccepted), app.StatusHistory[2].Status)
}

func TestApplyTransitionRejectionRecordsReason(t *testing.T) {
	app := newTestApplication(t)
	app.ApplyTransition(StatusOffered, "sponsor-1", "", validOffer(), testNow)
	app.ApplyTransition(StatusRejected, "sponsor-1", "budget cut", nil, testNow.Add(time.Hour))

	assert.Equal(t, OfferStatusRejected, app.OfferDetails.Status)
	assert.Equal(t, "budget cut", app.OfferDetails.RejectionReason)
	require.NotNil(t, app.OfferDetails.RejectedAt)
}

func TestScheduleInterview(t *testing.T) {
	app := newTestApplication(t)
	detail := InterviewDetail{ScheduledDate: testNow.AddDate(0, 0, 3), Location: "video call"}

	err := app.ScheduleInterview(detail, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition), "submitted applications cannot schedule interviews")

	app.Status = StatusShortlisted
	require.NoError(t, app.ScheduleInterview(detail, testNow))
	require.Len(t, app.InterviewDetails, 1)
	assert.Equal(t, InterviewStatusScheduled, app.InterviewDetails[0].Status)

	err = app.ScheduleInterview(InterviewDetail{}, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestAddFeedback(t *testing.T) {
	app := newTestApplication(t)

	err := app.AddFeedback(Feedback{From: "sponsor-1", Rating: 0}, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	err = app.AddFeedback(Feedback{From: "sponsor-1", Rating: 6}, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	err = app.AddFeedback(Feedback{Rating: 3}, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	require.NoError(t, app.AddFeedback(Feedback{From: "sponsor-1", Rating: 4, Comment: "strong candidate"}, testNow))
	require.Len(t, app.Feedback, 1)
	assert.Equal(t, FeedbackVisibilityPrivate, app.Feedback[0].Visibility)
	assert.Equal(t, testNow, app.Feedback[0].CreatedAt)
	// Status is untouched; feedback sits outside the state machine.
	assert.Equal(t, StatusSubmitted, app.Status)
}

func TestApplicationRuleset(t *testing.T) {
	tests := []struct {
		current   Status
		requested Status
		role      domain.ActorRole
		allowed   bool
	}{
		{StatusSubmitted, StatusUnderReview, domain.RoleSponsor, true},
		{StatusSubmitted, StatusUnderReview, domain.RoleAgent, true},
		{StatusUnderReview, StatusShortlisted, domain.RoleSponsor, true},
		{StatusShortlisted, StatusInterview, domain.RoleSponsor, true},
		{StatusInterview, StatusOfferPending, domain.RoleSponsor, true},
		{StatusOfferPending, StatusOffered, domain.RoleSponsor, true},
		{StatusSubmitted, StatusWithdrawn, domain.RoleJobSeeker, true},
		{StatusOffered, StatusWithdrawn, domain.RoleJobSeeker, true},
		{StatusAccepted, StatusWithdrawn, domain.RoleJobSeeker, true},
		{StatusUnderReview, StatusRejected, domain.RoleAgent, true},
		// Role table violations.
		{StatusOfferPending, StatusOffered, domain.RoleAgent, false},
		{StatusInterview, StatusOfferPending, domain.RoleAgent, false},
		{StatusOffered, StatusAccepted, domain.RoleSponsor, false},
		{StatusSubmitted, StatusUnderReview, domain.RoleJobSeeker, false},
		// Adjacency violations.
		{StatusSubmitted, StatusOffered, domain.RoleSponsor, false},
		{StatusRejected, StatusUnderReview, domain.RoleSponsor, false},
		{StatusWithdrawn, StatusSubmitted, domain.RoleAdmin, false},
		{StatusAccepted, StatusRejected, domain.RoleSponsor, false},
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
