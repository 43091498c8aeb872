// Package service implements the attendance ledger business operations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rollcall/internal/domain"
)

// LedgerService records attendance marks. Stateless per request; every call
// appends a new record, with no same-day deduplication.
// Callers wanting one-per-day semantics layer a read-then-write check on top
// and accept the resulting race.
type LedgerService struct {
	records domain.AttendanceRepository
	audit   domain.AuditRepository
	now     func() time.Time
}

// NewLedgerService creates a new LedgerService. now defaults to time.Now.
func NewLedgerService(records domain.AttendanceRepository, audit domain.AuditRepository, now func() time.Time) *LedgerService {
	if now == nil {
		now = time.Now
	}
	return &LedgerService{records: records, audit: audit, now: now}
}

// Mark creates exactly one attendance record for identityID. occurred_at is
// the server-observed clock, never caller-supplied. evidenceRef, when
// present, is stored verbatim and never inspected.
func (s *LedgerService) Mark(ctx context.Context, identityID string, evidenceRef *string) (*domain.AttendanceRecord, error) {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return nil, domain.ErrValidation("identity_id is required")
	}

	rec := &domain.AttendanceRecord{
		RecordID:   domain.NewID(),
		IdentityID: identityID,
		OccurredAt: s.now().UTC(),
	}
	if evidenceRef != nil && *evidenceRef != "" {
		ref := *evidenceRef
		rec.EvidenceRef = &ref
	}

	stored, err := s.records.Insert(ctx, rec)
	if err != nil {
		return nil, err
	}

	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		IdentityID: identityID,
		Action:     fmt.Sprintf("MARK_ATTENDANCE(record=%s)", stored.RecordID),
		Status:     "ALLOWED",
	})

	return stored, nil
}
