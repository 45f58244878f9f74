// Package stats derives read-side verification metrics from document
// collections: per-document trust scores, aggregate statistics, and the
// four-requirement verification-journey score.
//
// The calculator is pure and never mutates documents; dashboards call it on
// demand, tolerating staleness.
package stats

import (
	"math"
	"time"

	docmodels "github.com/Mutawai/ThiQaX-sub002/internal/document/models"
	"github.com/Mutawai/ThiQaX-sub002/internal/expiry"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// TrustWeights configure the per-document trust score contributions.
// Injectable so tests and deployments can vary them; the sum is capped at 100
// regardless.
type TrustWeights struct {
	Verified         int
	VerificationDate int
	FutureExpiry     int
	FileRef          int
	KnownCategory    int
}

// DefaultTrustWeights returns the standard 40/20/20/10/10 weighting.
func DefaultTrustWeights() TrustWeights {
	return TrustWeights{
		Verified:         40,
		VerificationDate: 20,
		FutureExpiry:     20,
		FileRef:          10,
		KnownCategory:    10,
	}
}

// JourneyWeights assign points to each verification requirement category.
type JourneyWeights map[docmodels.RequirementCategory]int

// DefaultJourneyWeights returns the standard requirement weighting.
func DefaultJourneyWeights() JourneyWeights {
	return JourneyWeights{
		docmodels.RequirementIdentity:     40,
		docmodels.RequirementAddress:      30,
		docmodels.RequirementEducation:    20,
		docmodels.RequirementProfessional: 10,
	}
}

// DocumentStats aggregates one owner's document collection.
type DocumentStats struct {
	Total        int `json:"total"`
	Uploaded     int `json:"uploaded"`
	Pending      int `json:"pending"`
	UnderReview  int `json:"underReview"`
	Verified     int `json:"verified"`
	Rejected     int `json:"rejected"`
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiringSoon"`
	// CompletionRate is round(100 * verified / total), 0 for an empty set.
	CompletionRate int `json:"completionRate"`
	// TrustScore is round(100 * (verified - expired) / total), floored at 0.
	TrustScore int `json:"trustScore"`
}

// JourneyScore reports requirement-category completion. Completed and Total
// count requirement categories, not documents.
type JourneyScore struct {
	Score     int                                    `json:"score"`
	Completed int                                    `json:"completed"`
	Total     int                                    `json:"total"`
	Satisfied map[docmodels.RequirementCategory]bool `json:"satisfied"`
}

// Calculator computes derived verification metrics.
type Calculator struct {
	trust     TrustWeights
	journey   JourneyWeights
	evaluator *expiry.Evaluator
}

// NewCalculator validates the configuration and returns a calculator.
func NewCalculator(trust TrustWeights, journey JourneyWeights, evaluator *expiry.Evaluator) (*Calculator, error) {
	if evaluator == nil {
		return nil, dErrors.New(dErrors.CodeConfiguration, "stats calculator requires an expiry evaluator")
	}
	if len(journey) == 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "journey weights cannot be empty")
	}
	for cat, w := range journey {
		if w < 0 {
			return nil, dErrors.Newf(dErrors.CodeConfiguration, "journey weight for %s cannot be negative", cat)
		}
	}
	return &Calculator{trust: trust, journey: journey, evaluator: evaluator}, nil
}

// TrustScore scores a single document's verification health, bounded [0, 100].
// A document with no optional fields set scores 0.
func (c *Calculator) TrustScore(doc *docmodels.Document, now time.Time) int {
	score := 0
	if doc.Status == docmodels.StatusVerified {
		score += c.trust.Verified
	}
	if doc.VerificationDetails.VerificationDate != nil {
		score += c.trust.VerificationDate
	}
	if doc.ExpiryDate != nil && doc.ExpiryDate.After(now) {
		score += c.trust.FutureExpiry
	}
	if doc.FileRef != "" {
		score += c.trust.FileRef
	}
	if doc.Category != docmodels.CategoryOther {
		score += c.trust.KnownCategory
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Aggregate computes collection statistics. An empty collection yields zero
// rates, never a division error.
func (c *Calculator) Aggregate(docs []*docmodels.Document, now time.Time) DocumentStats {
	stats := DocumentStats{Total: len(docs)}
	for _, doc := range docs {
		switch doc.Status {
		case docmodels.StatusUploaded:
			stats.Uploaded++
		case docmodels.StatusPending:
			stats.Pending++
		case docmodels.StatusUnderReview:
			stats.UnderReview++
		case docmodels.StatusVerified:
			stats.Verified++
		case docmodels.StatusRejected:
			stats.Rejected++
		case docmodels.StatusExpired:
			stats.Expired++
		}
		if !doc.IsExpired() &&
			c.evaluator.IsExpiringSoon(doc.ExpiryDate, c.evaluator.Thresholds().Warning, now) {
			stats.ExpiringSoon++
		}
	}
	if stats.Total == 0 {
		return stats
	}
	stats.CompletionRate = roundPct(stats.Verified, stats.Total)
	trust := roundPct(stats.Verified-stats.Expired, stats.Total)
	if trust < 0 {
		trust = 0
	}
	stats.TrustScore = trust
	return stats
}

// Journey scores the four-requirement verification journey. A requirement is
// satisfied iff at least one document matching it is verified.
func (c *Calculator) Journey(docs []*docmodels.Document) JourneyScore {
	satisfied := make(map[docmodels.RequirementCategory]bool, len(c.journey))
	for cat := range c.journey {
		satisfied[cat] = false
	}
	for _, doc := range docs {
		if doc.Status != docmodels.StatusVerified {
			continue
		}
		req, ok := doc.Type.Requirement()
		if !ok {
			continue
		}
		if _, tracked := satisfied[req]; tracked {
			satisfied[req] = true
		}
	}
	out := JourneyScore{Total: len(c.journey), Satisfied: satisfied}
	for cat, done := range satisfied {
		if done {
			out.Completed++
			out.Score += c.journey[cat]
		}
	}
	return out
}

func roundPct(num, den int) int {
	return int(math.Round(100 * float64(num) / float64(den)))
}
