package domain

import "time"

// Role is the organizational role attached to an identity profile.
type Role string

const (
	RoleStudent    Role = "student"
	RoleFaculty    Role = "faculty"
	RoleCorporate  Role = "corporate"
	RoleUnresolved Role = "unresolved"
)

// Concrete reports whether the role is a terminal, user-selected role.
// RoleUnresolved is the placeholder assigned before role selection.
func (r Role) Concrete() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleCorporate:
		return true
	}
	return false
}

// ParseRole validates a role string. Empty and "unresolved" are rejected for
// registration: a profile only ever moves from unresolved to a concrete role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Concrete() {
		return "", ErrValidation("role %q is not a valid selection (want student, faculty, or corporate)", s)
	}
	return r, nil
}

// Identity is the stable reference to a person as issued by the external
// identity provider. The core only reads it, never creates or deletes it.
type Identity struct {
	ID    string
	Email string
}

// IdentityProfile is the locally stored role/contact record keyed by
// identity. Exactly one profile exists per identity ID; the role is
// write-once after the initial selection.
type IdentityProfile struct {
	IdentityID string
	OrgID      string
	Email      string
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
