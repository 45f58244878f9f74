// Package lifecycle implements the shared status-transition guard.
//
// Each entity kind declares a Ruleset: a directed adjacency table plus a
// per-role allowlist of requestable statuses. Both checks are independent and
// both must pass. Payload requirements (offer terms, rejection reasons) are
// entity-specific and evaluated by the owning workflow through PayloadCheck
// hooks; the guard only reports the structured denial.
//
// Rulesets are fixed, compiled-in data, not user-configurable at runtime.
package lifecycle

import (
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// Rule names the guard rule a denial violated. Callers surface these without
// inventing new policy.
type Rule string

const (
	RuleInvalidTransition Rule = "invalid-transition"
	RuleInsufficientRole  Rule = "insufficient-role"
	RuleMissingPayload    Rule = "missing-payload"
	RuleInvalidDateOrder  Rule = "invalid-date-order"
)

// Denial is a structured guard rejection.
type Denial struct {
	Rule   Rule
	Reason string
}

// Deny constructs a denial for the given rule.
func Deny(rule Rule, reason string) *Denial {
	return &Denial{Rule: rule, Reason: reason}
}

// Err converts the denial into the coded domain error the workflow layer
// returns unchanged to its caller.
func (d *Denial) Err() error {
	switch d.Rule {
	case RuleInsufficientRole:
		return dErrors.New(dErrors.CodePermissionDenied, d.Reason)
	case RuleMissingPayload, RuleInvalidDateOrder:
		return dErrors.New(dErrors.CodeValidation, d.Reason)
	default:
		return dErrors.New(dErrors.CodeInvalidTransition, d.Reason)
	}
}

// Ruleset is the declarative transition policy for one entity kind.
type Ruleset struct {
	// Kind names the entity family, used in denial messages.
	Kind string
	// Transitions is the directed adjacency table. A status absent from the
	// map, or mapped to an empty slice, is terminal.
	Transitions map[string][]string
	// RolePermissions lists the statuses each role may request. A role absent
	// from the map may request nothing. Administrative roles bypass this
	// table (but never the adjacency table).
	RolePermissions map[domain.ActorRole][]string
}

// CanTransition applies the adjacency and role checks for a requested status
// change. It returns nil when the transition is permitted, or a structured
// denial naming the violated rule. Payload requirements are checked separately
// by the owning workflow.
func (rs Ruleset) CanTransition(current, requested string, role domain.ActorRole) *Denial {
	if !rs.edgeAllowed(current, requested) {
		return Deny(RuleInvalidTransition,
			rs.Kind+" cannot move from "+current+" to "+requested)
	}
	if !rs.roleAllowed(role, requested) {
		return Deny(RuleInsufficientRole,
			"role "+role.String()+" may not request "+rs.Kind+" status "+requested)
	}
	return nil
}

// IsTerminal reports whether the status has no outgoing transitions.
func (rs Ruleset) IsTerminal(status string) bool {
	return len(rs.Transitions[status]) == 0
}

func (rs Ruleset) edgeAllowed(current, requested string) bool {
	for _, next := range rs.Transitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

func (rs Ruleset) roleAllowed(role domain.ActorRole, requested string) bool {
	if role.IsAdministrative() {
		return true
	}
	for _, status := range rs.RolePermissions[role] {
		if status == requested {
			return true
		}
	}
	return false
}
