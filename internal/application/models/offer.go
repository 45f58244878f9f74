package models

import (
	"time"

	"github.com/Mutawai/ThiQaX-sub002/internal/lifecycle"
)

// OfferStatus tracks the offer sub-record independently of the application
// status.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

// Salary is the offered compensation.
type Salary struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Period   string  `json:"period,omitempty"`
}

// OfferDetails is the nested offer sub-record. It must exist before the
// application can become offered.
type OfferDetails struct {
	Salary          Salary      `json:"salary"`
	Benefits        []string    `json:"benefits,omitempty"`
	StartDate       time.Time   `json:"startDate"`
	ExpiryDate      time.Time   `json:"expiryDate"`
	Status          OfferStatus `json:"status"`
	OfferDate       time.Time   `json:"offerDate"`
	AcceptedAt      *time.Time  `json:"acceptedAt,omitempty"`
	RejectedAt      *time.Time  `json:"rejectedAt,omitempty"`
	RejectionReason string      `json:"rejectionReason,omitempty"`
}

// OfferPayload carries the mandatory offer terms submitted with a request for
// the offered status.
type OfferPayload struct {
	Salary     Salary    `json:"salary"`
	Benefits   []string  `json:"benefits,omitempty"`
	StartDate  time.Time `json:"startDate"`
	ExpiryDate time.Time `json:"expiryDate"`
}

// Validate checks the mandatory offer fields and date ordering against now.
// The expiry date must be strictly after the start date and in the future.
func (p *OfferPayload) Validate(now time.Time) *lifecycle.Denial {
	if p == nil {
		return lifecycle.Deny(lifecycle.RuleMissingPayload, "offer payload is required to extend an offer")
	}
	if p.Salary.Amount <= 0 || p.Salary.Currency == "" {
		return lifecycle.Deny(lifecycle.RuleMissingPayload, "offer salary amount and currency are required")
	}
	if p.StartDate.IsZero() || p.ExpiryDate.IsZero() {
		return lifecycle.Deny(lifecycle.RuleMissingPayload, "offer start and expiry dates are required")
	}
	if !p.ExpiryDate.After(p.StartDate) {
		return lifecycle.Deny(lifecycle.RuleInvalidDateOrder, "offer expiry date must be after the start date")
	}
	if !p.ExpiryDate.After(now) {
		return lifecycle.Deny(lifecycle.RuleInvalidDateOrder, "offer expiry date must be in the future")
	}
	return nil
}
