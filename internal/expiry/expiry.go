// Package expiry classifies the remaining validity time of dated credentials.
//
// The evaluator is a pure classifier: it never mutates documents. Workflows
// call it before evaluating any guarded transition, and the periodic scanner
// calls it to find documents approaching their expiry date.
package expiry

import (
	"time"

	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// Bucket classifies how close a credential is to expiring.
type Bucket string

const (
	BucketExpired  Bucket = "expired"
	BucketCritical Bucket = "critical"
	BucketWarning  Bucket = "warning"
	BucketValid    Bucket = "valid"
	BucketNone     Bucket = "none"
)

// Default notification thresholds, in days.
const (
	DefaultCriticalThreshold = 7
	DefaultWarningThreshold  = 30
)

// Thresholds configure the bucket boundaries. Injectable so tests and
// deployments can vary them.
type Thresholds struct {
	// Critical is the upper bound (inclusive, days) of the critical bucket.
	Critical int
	// Warning is the upper bound (inclusive, days) of the warning bucket.
	Warning int
}

// DefaultThresholds returns the standard 7/30 day boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Critical: DefaultCriticalThreshold, Warning: DefaultWarningThreshold}
}

// Validate rejects threshold orderings that would make buckets unreachable.
func (t Thresholds) Validate() error {
	if t.Critical <= 0 || t.Warning <= 0 {
		return dErrors.New(dErrors.CodeConfiguration, "expiry thresholds must be positive")
	}
	if t.Critical > t.Warning {
		return dErrors.Newf(dErrors.CodeConfiguration,
			"critical threshold (%d) must not exceed warning threshold (%d)", t.Critical, t.Warning)
	}
	return nil
}

// Classification is the evaluator output for one credential.
type Classification struct {
	// DaysRemaining is the calendar-day ceiling until expiry, floored at 0.
	DaysRemaining int    `json:"daysRemaining"`
	Bucket        Bucket `json:"bucket"`
}

// Evaluator classifies expiry dates against configured thresholds.
type Evaluator struct {
	thresholds Thresholds
}

// NewEvaluator validates the thresholds and returns an evaluator.
func NewEvaluator(t Thresholds) (*Evaluator, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{thresholds: t}, nil
}

// Thresholds returns the configured boundaries.
func (e *Evaluator) Thresholds() Thresholds {
	return e.thresholds
}

// Classify buckets an optional expiry date relative to now.
// alreadyExpired marks credentials whose current status is terminal-expired;
// they classify as expired regardless of the date.
func (e *Evaluator) Classify(expiryDate *time.Time, alreadyExpired bool, now time.Time) Classification {
	if alreadyExpired {
		days := 0
		if expiryDate != nil {
			days = daysRemaining(*expiryDate, now)
		}
		return Classification{DaysRemaining: days, Bucket: BucketExpired}
	}
	if expiryDate == nil {
		return Classification{DaysRemaining: 0, Bucket: BucketNone}
	}
	days := daysRemaining(*expiryDate, now)
	switch {
	case days <= 0:
		return Classification{DaysRemaining: 0, Bucket: BucketExpired}
	case days <= e.thresholds.Critical:
		return Classification{DaysRemaining: days, Bucket: BucketCritical}
	case days <= e.thresholds.Warning:
		return Classification{DaysRemaining: days, Bucket: BucketWarning}
	default:
		return Classification{DaysRemaining: days, Bucket: BucketValid}
	}
}

// IsExpiringSoon reports whether the date falls within (0, threshold] days of
// now. Already-expired or absent dates never count as expiring soon.
func (e *Evaluator) IsExpiringSoon(expiryDate *time.Time, threshold int, now time.Time) bool {
	if expiryDate == nil {
		return false
	}
	days := daysRemaining(*expiryDate, now)
	return days > 0 && days <= threshold
}

// IsPast reports whether the expiry date has passed.
func IsPast(expiryDate *time.Time, now time.Time) bool {
	return expiryDate != nil && daysRemaining(*expiryDate, now) <= 0
}

// daysRemaining is the calendar-day ceiling of the interval from now to the
// expiry date. Dates in the past yield zero or negative values; Classify
// floors the published figure at 0.
func daysRemaining(expiryDate, now time.Time) int {
	diff := expiryDate.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
