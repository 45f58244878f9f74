package models

import (
	"time"

	"github.com/Mutawai/ThiQaX-sub002/internal/ledger"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// AutomatedScores holds optional machine-assessed sub-scores, each 0-100.
type AutomatedScores struct {
	Authenticity int `json:"authenticity"`
	Completeness int `json:"completeness"`
	Readability  int `json:"readability"`
}

// Validate rejects out-of-range sub-scores.
func (a AutomatedScores) Validate() error {
	for _, v := range []int{a.Authenticity, a.Completeness, a.Readability} {
		if v < 0 || v > 100 {
			return dErrors.New(dErrors.CodeValidation, "automated scores must be between 0 and 100")
		}
	}
	return nil
}

// VerificationDetails records the verifier's decision metadata.
type VerificationDetails struct {
	VerifiedBy        string           `json:"verifiedBy,omitempty"`
	VerificationDate  *time.Time       `json:"verificationDate,omitempty"`
	RejectionReason   string           `json:"rejectionReason,omitempty"`
	VerificationNotes string           `json:"verificationNotes,omitempty"`
	AutomatedScores   *AutomatedScores `json:"automatedScoreDetails,omitempty"`
}

// Document is the aggregate root for one uploaded credential.
//
// Invariants:
//   - Status changes only through the verification workflow guard, or the
//     automatic expiry collapse.
//   - History is append-only; the first entry is always "uploaded", created
//     with the document.
//   - A document whose expiry date has passed collapses to expired before any
//     requested transition is evaluated.
//   - Version is the optimistic concurrency marker; stores reject writes whose
//     version does not match the stored record.
type Document struct {
	ID       domain.DocumentID `json:"id"`
	Owner    domain.UserID     `json:"owner"`
	Type     Type              `json:"type"`
	Category Category          `json:"category"`
	Status   Status            `json:"status"`
	FileRef  string            `json:"fileRef,omitempty"`

	ExpiryDate             *time.Time `json:"expiryDate,omitempty"`
	ExpiryNotified         bool       `json:"expiryNotified"`
	ExpiryNotificationDate *time.Time `json:"expiryNotificationDate,omitempty"`

	VerificationDetails VerificationDetails `json:"verificationDetails"`
	History             ledger.History      `json:"history"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewDocument registers an uploaded credential. The category is derived from
// the type and the history starts with the synthesized uploaded entry.
func NewDocument(id domain.DocumentID, owner domain.UserID, docType Type, fileRef string, expiryDate *time.Time, now time.Time) (*Document, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document id is required")
	}
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document owner is required")
	}
	if _, err := ParseType(string(docType)); err != nil {
		return nil, err
	}
	d := &Document{
		ID:        id,
		Owner:     owner,
		Type:      docType,
		Category:  docType.Category(),
		Status:    StatusUploaded,
		FileRef:   fileRef,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if expiryDate != nil {
		t := *expiryDate
		d.ExpiryDate = &t
	}
	d.History = d.History.Append(ledger.Entry{
		Status:      string(StatusUploaded),
		PerformedBy: owner.String(),
	}, now)
	return d, nil
}

// IsExpired reports whether the document has reached its terminal expired
// status.
func (d *Document) IsExpired() bool {
	return d.Status == StatusExpired
}

// ApplyTransition records a guarded status change. Verification details are
// populated for verifier decisions; the ledger gains exactly one entry.
// The caller must have run the guard first.
func (d *Document) ApplyTransition(requested Status, actor string, notes string, now time.Time) {
	d.Status = requested
	d.UpdatedAt = now
	switch requested {
	case StatusVerified:
		d.VerificationDetails.VerifiedBy = actor
		t := now
		d.VerificationDetails.VerificationDate = &t
		d.VerificationDetails.VerificationNotes = notes
		d.VerificationDetails.RejectionReason = ""
	case StatusRejected:
		d.VerificationDetails.VerifiedBy = actor
		d.VerificationDetails.RejectionReason = notes
	case StatusPending:
		// Resubmission clears the previous decision.
		d.VerificationDetails = VerificationDetails{}
	}
	d.History = d.History.Append(ledger.Entry{
		Status:      string(requested),
		PerformedBy: actor,
		Notes:       notes,
	}, now)
}

// ApplyExpiry collapses the document to expired with an automatic ledger
// entry. Idempotent: an already expired document is left untouched.
func (d *Document) ApplyExpiry(now time.Time) {
	if d.IsExpired() {
		return
	}
	d.Status = StatusExpired
	d.UpdatedAt = now
	d.History = d.History.Append(ledger.Entry{
		Status:      string(StatusExpired),
		PerformedBy: "system",
		Notes:       "expiry date passed",
	}, now)
}

// MarkNotified records that an expiry warning was dispatched. Idempotent and
// status-neutral: calling it again changes nothing, and it never touches
// Status or History.
func (d *Document) MarkNotified(now time.Time) {
	if d.ExpiryNotified {
		return
	}
	d.ExpiryNotified = true
	t := now
	d.ExpiryNotificationDate = &t
	d.UpdatedAt = now
}

// SetAutomatedScores attaches machine-assessed sub-scores after validation.
func (d *Document) SetAutomatedScores(scores AutomatedScores, now time.Time) error {
	if err := scores.Validate(); err != nil {
		return err
	}
	s := scores
	d.VerificationDetails.AutomatedScores = &s
	d.UpdatedAt = now
	return nil
}

// Clone returns a deep copy so store reads cannot alias stored state.
func (d *Document) Clone() *Document {
	out := *d
	if d.ExpiryDate != nil {
		t := *d.ExpiryDate
		out.ExpiryDate = &t
	}
	if d.ExpiryNotificationDate != nil {
		t := *d.ExpiryNotificationDate
		out.ExpiryNotificationDate = &t
	}
	if d.VerificationDetails.VerificationDate != nil {
		t := *d.VerificationDetails.VerificationDate
		out.VerificationDetails.VerificationDate = &t
	}
	if d.VerificationDetails.AutomatedScores != nil {
		s := *d.VerificationDetails.AutomatedScores
		out.VerificationDetails.AutomatedScores = &s
	}
	out.History = append(ledger.History(nil), d.History...)
	return &out
}
