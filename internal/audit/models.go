// Package audit emits transition events for operational consumers (SIEM,
// analytics). The per-entity status history ledger remains the source of
// truth; this pipeline is observational.
package audit

import "time"

// EntityKind names the entity family an event belongs to.
type EntityKind string

const (
	KindDocument    EntityKind = "document"
	KindApplication EntityKind = "application"
	KindJob         EntityKind = "job"
)

// Event captures one applied status transition. Keep it transport-agnostic so
// sinks can fan out.
type Event struct {
	Timestamp  time.Time  `json:"timestamp"`
	Kind       EntityKind `json:"kind"`
	EntityID   string     `json:"entityId"`
	Actor      string     `json:"actor,omitempty"`
	FromStatus string     `json:"fromStatus"`
	ToStatus   string     `json:"toStatus"`
	Notes      string     `json:"notes,omitempty"`
	RequestID  string     `json:"requestId,omitempty"`
}
