package repository

import (
	"context"
	"database/sql"

	"rollcall/internal/domain"
)

var _ domain.AuditRepository = (*AuditRepo)(nil)

// AuditRepo stores the audit trail in SQLite.
type AuditRepo struct {
	db    *sql.DB
	orgID string
}

// NewAuditRepo creates a new AuditRepo scoped to one organization.
func NewAuditRepo(db *sql.DB, orgID string) *AuditRepo {
	return &AuditRepo{db: db, orgID: orgID}
}

// Insert appends one audit entry.
func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	status := e.Status
	if status == "" {
		status = "ALLOWED"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (org_id, identity_id, action, status)
		VALUES (?, ?, ?, ?)
	`, r.orgID, e.IdentityID, e.Action, status)
	if err != nil {
		return mapDBError(err)
	}
	return nil
}

// List returns the most recent audit entries, newest first.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, org_id, identity_id, action, status, created_at
		FROM audit_log
		WHERE org_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, r.orgID, limit)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.OrgID, &e.IdentityID, &e.Action, &e.Status, &e.CreatedAt); err != nil {
			return nil, mapDBError(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err)
	}
	return out, nil
}
