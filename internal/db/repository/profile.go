package repository

import (
	"context"
	"database/sql"
	"time"

	"rollcall/internal/domain"
)

var _ domain.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo stores identity profiles in SQLite, namespaced by org.
type ProfileRepo struct {
	db    *sql.DB
	orgID string
}

// NewProfileRepo creates a new ProfileRepo scoped to one organization.
func NewProfileRepo(db *sql.DB, orgID string) *ProfileRepo {
	return &ProfileRepo{db: db, orgID: orgID}
}

// Get returns the profile for an identity, or NotFoundError.
func (r *ProfileRepo) Get(ctx context.Context, identityID string) (*domain.IdentityProfile, error) {
	var (
		p                    domain.IdentityProfile
		role                 string
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT identity_id, org_id, email, role, created_at, updated_at
		FROM identity_profiles
		WHERE org_id = ? AND identity_id = ?
	`, r.orgID, identityID).Scan(&p.IdentityID, &p.OrgID, &p.Email, &role, &createdAt, &updatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	p.Role = domain.Role(role)
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return &p, nil
}

// Put upserts a profile: created if absent, email refreshed if present.
// The update is guarded in SQL so a concrete role can never be replaced
// by a different one, even under concurrent writers; a blocked write
// returns ConflictError and leaves the row untouched.
func (r *ProfileRepo) Put(ctx context.Context, p *domain.IdentityProfile) (*domain.IdentityProfile, error) {
	if p.IdentityID == "" {
		return nil, domain.ErrValidation("identity id is required")
	}
	role := p.Role
	if role == "" {
		role = domain.RoleUnresolved
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO identity_profiles (identity_id, org_id, email, role)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (org_id, identity_id) DO UPDATE SET
			email = excluded.email,
			role = excluded.role,
			updated_at = CURRENT_TIMESTAMP
		WHERE identity_profiles.role = 'unresolved'
		   OR identity_profiles.role = excluded.role
	`, p.IdentityID, r.orgID, p.Email, string(role))
	if err != nil {
		return nil, mapDBError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, mapDBError(err)
	}
	if n == 0 {
		existing, err := r.Get(ctx, p.IdentityID)
		if err != nil {
			return nil, err
		}
		return nil, domain.ErrConflict(
			"role for %s is already %s and cannot change", p.IdentityID, existing.Role)
	}

	return r.Get(ctx, p.IdentityID)
}
