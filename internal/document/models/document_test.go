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

func newTestDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := NewDocument(domain.NewDocumentID(), domain.NewUserID(), TypePassport, "s3://bucket/passport.pdf", nil, testNow)
	require.NoError(t, err)
	return doc
}

func TestNewDocument(t *testing.T) {
	owner := domain.NewUserID()
	expiry := testNow.AddDate(1, 0, 0)
	doc, err := NewDocument(domain.NewDocumentID(), owner, TypeUtilityBill, "ref", &expiry, testNow)
	require.NoError(t, err)

	assert.Equal(t, StatusUploaded, doc.Status)
	assert.Equal(t, CategoryOther, doc.Category)
	require.NotNil(t, doc.ExpiryDate)
	assert.Equal(t, expiry, *doc.ExpiryDate)
	assert.Equal(t, int64(0), doc.Version)

	require.Len(t, doc.History, 1)
	assert.Equal(t, string(StatusUploaded), doc.History[0].Status)
	assert.Equal(t, owner.String(), doc.History[0].PerformedBy)
	assert.Equal(t, testNow, doc.History[0].Timestamp)
}

func TestNewDocumentValidation(t *testing.T) {
	_, err := NewDocument(domain.DocumentID{}, domain.NewUserID(), TypePassport, "", nil, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewDocument(domain.NewDocumentID(), domain.UserID{}, TypePassport, "", nil, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewDocument(domain.NewDocumentID(), domain.NewUserID(), Type("fax"), "", nil, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestApplyTransitionVerified(t *testing.T) {
	doc := newTestDocument(t)
	later := testNow.Add(time.Hour)

	doc.ApplyTransition(StatusVerified, "verifier-1", "all checks passed", later)

	assert.Equal(t, StatusVerified, doc.Status)
	assert.Equal(t, "verifier-1", doc.VerificationDetails.VerifiedBy)
	require.NotNil(t, doc.VerificationDetails.VerificationDate)
	assert.Equal(t, later, *doc.VerificationDetails.VerificationDate)
	assert.Equal(t, "all checks passed", doc.VerificationDetails.VerificationNotes)
	assert.Empty(t, doc.VerificationDetails.RejectionReason)

	require.Len(t, doc.History, 2)
	assert.Equal(t, string(StatusVerified), doc.History[1].Status)
}

func TestApplyTransitionRejected(t *testing.T) {
	doc := newTestDocument(t)
	doc.ApplyTransition(StatusRejected, "verifier-1", "photo unreadable", testNow.Add(time.Hour))

	assert.Equal(t, StatusRejected, doc.Status)
	assert.Equal(t, "photo unreadable", doc.VerificationDetails.RejectionReason)
	require.Len(t, doc.History, 2)
	assert.Equal(t, "photo unreadable", doc.History[1].Notes)
}

func TestResubmissionClearsDecision(t *testing.T) {
	doc := newTestDocument(t)
	doc.ApplyTransition(StatusRejected, "verifier-1", "blurred scan", testNow.Add(time.Hour))
	doc.ApplyTransition(StatusPending, doc.Owner.String(), "resubmitted", testNow.Add(2*time.Hour))

	assert.Equal(t, StatusPending, doc.Status)
	assert.Equal(t, VerificationDetails{}, doc.VerificationDetails)
	// History keeps the rejection; the ledger is append-only.
	require.Len(t, doc.History, 3)
	assert.Equal(t, string(StatusRejected), doc.History[1].Status)
}

func TestApplyExpiryIdempotent(t *testing.T) {
	doc := newTestDocument(t)
	doc.ApplyExpiry(testNow.Add(time.Hour))

	assert.Equal(t, StatusExpired, doc.Status)
	require.Len(t, doc.History, 2)
	assert.Equal(t, "system", doc.History[1].PerformedBy)

	doc.ApplyExpiry(testNow.Add(2 * time.Hour))
	assert.Len(t, doc.History, 2, "second collapse must not append")
}

func TestMarkNotifiedIdempotentAndStatusNeutral(t *testing.T) {
	doc := newTestDocument(t)
	statusBefore := doc.Status
	historyBefore := len(doc.History)

	doc.MarkNotified(testNow.Add(time.Hour))
	require.True(t, doc.ExpiryNotified)
	require.NotNil(t, doc.ExpiryNotificationDate)
	first := *doc.ExpiryNotificationDate

	doc.MarkNotified(testNow.Add(5 * time.Hour))
	assert.Equal(t, first, *doc.ExpiryNotificationDate, "repeat notification must not move the date")
	assert.Equal(t, statusBefore, doc.Status)
	assert.Len(t, doc.History, historyBefore)
}

func TestSetAutomatedScores(t *testing.T) {
	doc := newTestDocument(t)
	require.NoError(t, doc.SetAutomatedScores(AutomatedScores{Authenticity: 95, Completeness: 88, Readability: 70}, testNow))
	require.NotNil(t, doc.VerificationDetails.AutomatedScores)
	assert.Equal(t, 95, doc.VerificationDetails.AutomatedScores.Authenticity)

	err := doc.SetAutomatedScores(AutomatedScores{Authenticity: 101}, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	err = doc.SetAutomatedScores(AutomatedScores{Readability: -1}, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCloneIsDeep(t *testing.T) {
	doc := newTestDocument(t)
	expiry := testNow.AddDate(0, 6, 0)
	doc.ExpiryDate = &expiry

	clone := doc.Clone()
	clone.ApplyTransition(StatusPending, "someone", "", testNow.Add(time.Hour))
	*clone.ExpiryDate = clone.ExpiryDate.AddDate(1, 0, 0)

	assert.Equal(t, StatusUploaded, doc.Status)
	assert.Len(t, doc.History, 1)
	assert.Equal(t, expiry, *doc.ExpiryDate)
}

func TestTypeRequirementMapping(t *testing.T) {
	req, ok := TypeUtilityBill.Requirement()
	require.True(t, ok)
	assert.Equal(t, RequirementAddress, req)
	assert.Equal(t, CategoryOther, TypeUtilityBill.Category())

	req, ok = TypePassport.Requirement()
	require.True(t, ok)
	assert.Equal(t, RequirementIdentity, req)

	_, ok = TypeBusinessLicense.Requirement()
	assert.False(t, ok, "business documents satisfy no journey requirement")
	_, ok = TypeOther.Requirement()
	assert.False(t, ok)
}

func TestDocumentRuleset(t *testing.T) {
	tests := []struct {
		current   Status
		requested Status
		role      domain.ActorRole
		allowed   bool
	}{
		{StatusUploaded, StatusPending, domain.RoleJobSeeker, true},
		{StatusPending, StatusUnderReview, domain.RoleVerifier, true},
		{StatusPending, StatusVerified, domain.RoleVerifier, true},
		{StatusUnderReview, StatusVerified, domain.RoleVerifier, true},
		{StatusUnderReview, StatusRejected, domain.RoleVerifier, true},
		{StatusRejected, StatusPending, domain.RoleJobSeeker, true},
		{StatusVerified, StatusExpired, domain.RoleAdmin, true},
		// Role violations.
		{StatusUnderReview, StatusVerified, domain.RoleJobSeeker, false},
		{StatusPending, StatusUnderReview, domain.RoleSponsor, false},
		// Adjacency violations.
		{StatusVerified, StatusPending, domain.RoleAdmin, false},
		{StatusExpired, StatusVerified, domain.RoleAdmin, false},
		{StatusUploaded, StatusVerified, domain.RoleVerifier, false},
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
