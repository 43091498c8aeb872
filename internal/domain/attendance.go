package domain

import "time"

// AttendanceRecord is an immutable ledger entry marking that an identity was
// present at a point in time. Records are never mutated or deleted.
type AttendanceRecord struct {
	RecordID    string
	OrgID       string
	IdentityID  string
	OccurredAt  time.Time
	EvidenceRef *string // opaque photo reference, stored verbatim

	// Seq is the insertion sequence assigned by the store. It breaks
	// ordering ties between records with identical OccurredAt.
	Seq int64
}

// EnrichedRecord is an attendance record joined with its identity profile.
// Email is nil when the identity has no stored profile; the record itself is
// still returned (the ledger is authoritative).
type EnrichedRecord struct {
	AttendanceRecord
	Email *string
	Role  *Role
}
