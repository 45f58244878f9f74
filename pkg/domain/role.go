package domain

import dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"

// ActorRole identifies who is requesting a lifecycle operation.
// Invariant: the value must be one of the supported roles.
//
// Usage: construct via ParseActorRole at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type ActorRole string

// Supported actor roles.
const (
	RoleJobSeeker ActorRole = "jobSeeker"
	RoleSponsor   ActorRole = "sponsor"
	RoleAgent     ActorRole = "agent"
	RoleVerifier  ActorRole = "verifier"
	RoleAdmin     ActorRole = "admin"
)

// validActorRoles is the single source of truth for valid roles.
var validActorRoles = map[ActorRole]bool{
	RoleJobSeeker: true,
	RoleSponsor:   true,
	RoleAgent:     true,
	RoleVerifier:  true,
	RoleAdmin:     true,
}

// ParseActorRole constructs an ActorRole from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseActorRole(s string) (ActorRole, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := ActorRole(s)
	if !r.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown role %q", s)
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r ActorRole) IsValid() bool {
	return validActorRoles[r]
}

// IsAdministrative reports whether the role bypasses per-role status
// allowlists. Administrative actors are still bound by adjacency tables.
func (r ActorRole) IsAdministrative() bool {
	return r == RoleAdmin
}

// String returns the string representation of the role.
func (r ActorRole) String() string {
	return string(r)
}
