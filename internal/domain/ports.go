package domain

import (
	"context"
	"time"
)

// ProfileRepository stores identity profiles. Upsert semantics on Put;
// profiles are never deleted.
type ProfileRepository interface {
	Get(ctx context.Context, identityID string) (*IdentityProfile, error)
	Put(ctx context.Context, p *IdentityProfile) (*IdentityProfile, error)
}

// AttendanceRepository appends and reads immutable attendance records.
type AttendanceRepository interface {
	// Insert durably appends one record. The write is atomic: either the
	// stored record is returned, or an error and no partial row exists.
	Insert(ctx context.Context, rec *AttendanceRecord) (*AttendanceRecord, error)

	// ListEnriched returns records joined with identity profiles, ordered by
	// OccurredAt descending with insertion order breaking ties. A non-nil
	// window restricts results to [From, Until).
	ListEnriched(ctx context.Context, window *TimeWindow) ([]EnrichedRecord, error)
}

// TimeWindow is a half-open interval [From, Until).
type TimeWindow struct {
	From  time.Time
	Until time.Time
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.Until)
}

// AuditRepository appends audit trail entries for administrative review.
// Audit writes are best-effort and never block the primary operation.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, limit int) ([]AuditEntry, error)
}

// AuditEntry records who did what, and whether it was allowed.
type AuditEntry struct {
	ID         int64
	OrgID      string
	IdentityID string
	Action     string
	Status     string
	CreatedAt  time.Time
}
