package repository

import (
	"context"
	"database/sql"
	"time"

	"rollcall/internal/domain"
)

var _ domain.AttendanceRepository = (*AttendanceRepo)(nil)

// AttendanceRepo appends and reads the attendance ledger in SQLite.
type AttendanceRepo struct {
	db    *sql.DB
	orgID string
}

// NewAttendanceRepo creates a new AttendanceRepo scoped to one organization.
func NewAttendanceRepo(db *sql.DB, orgID string) *AttendanceRepo {
	return &AttendanceRepo{db: db, orgID: orgID}
}

// Insert durably appends one record. occurred_at is stored as unix
// nanoseconds; seq is assigned by SQLite and returned for tie-breaking.
func (r *AttendanceRepo) Insert(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	if rec == nil || rec.IdentityID == "" {
		return nil, domain.ErrValidation("identity id is required")
	}
	if rec.RecordID == "" {
		rec.RecordID = domain.NewID()
	}

	var evidence sql.NullString
	if rec.EvidenceRef != nil {
		evidence = sql.NullString{String: *rec.EvidenceRef, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (record_id, org_id, identity_id, occurred_at, evidence_ref)
		VALUES (?, ?, ?, ?, ?)
	`, rec.RecordID, r.orgID, rec.IdentityID, rec.OccurredAt.UnixNano(), evidence)
	if err != nil {
		return nil, mapDBError(err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return nil, mapDBError(err)
	}

	stored := *rec
	stored.OrgID = r.orgID
	stored.Seq = seq
	return &stored, nil
}

// ListEnriched returns ledger records joined with identity profiles, newest
// first; records with identical occurred_at keep insertion order. Records
// whose identity has no profile are returned with a nil email, never
// dropped.
func (r *AttendanceRepo) ListEnriched(ctx context.Context, window *domain.TimeWindow) ([]domain.EnrichedRecord, error) {
	query := `
		SELECT a.record_id, a.org_id, a.identity_id, a.occurred_at, a.evidence_ref, a.seq,
		       p.email, p.role
		FROM attendance_records a
		LEFT JOIN identity_profiles p
		  ON p.org_id = a.org_id AND p.identity_id = a.identity_id
		WHERE a.org_id = ?`
	args := []interface{}{r.orgID}

	if window != nil {
		query += ` AND a.occurred_at >= ? AND a.occurred_at < ?`
		args = append(args, window.From.UnixNano(), window.Until.UnixNano())
	}
	query += ` ORDER BY a.occurred_at DESC, a.seq ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []domain.EnrichedRecord
	for rows.Next() {
		var (
			rec         domain.EnrichedRecord
			occurredAt  int64
			evidence    sql.NullString
			email, role sql.NullString
		)
		if err := rows.Scan(
			&rec.RecordID, &rec.OrgID, &rec.IdentityID, &occurredAt, &evidence, &rec.Seq,
			&email, &role,
		); err != nil {
			return nil, mapDBError(err)
		}
		rec.OccurredAt = time.Unix(0, occurredAt).UTC()
		if evidence.Valid {
			v := evidence.String
			rec.EvidenceRef = &v
		}
		if email.Valid {
			v := email.String
			rec.Email = &v
		}
		if role.Valid {
			v := domain.Role(role.String)
			rec.Role = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err)
	}
	return out, nil
}

// CountInWindow returns the number of marks inside [From, Until). Used by
// the daily digest job.
func (r *AttendanceRepo) CountInWindow(ctx context.Context, window domain.TimeWindow) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attendance_records
		WHERE org_id = ? AND occurred_at >= ? AND occurred_at < ?
	`, r.orgID, window.From.UnixNano(), window.Until.UnixNano()).Scan(&n)
	if err != nil {
		return 0, mapDBError(err)
	}
	return n, nil
}
