package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"rollcall/internal/domain"
)

// AttendanceCounter is the slice of the ledger the digest needs.
// Implemented by repository.AttendanceRepo.
type AttendanceCounter interface {
	CountInWindow(ctx context.Context, window domain.TimeWindow) (int64, error)
}

// DigestScheduler runs a daily summary of the previous day's marks and
// writes it to the audit trail.
type DigestScheduler struct {
	cron    *cron.Cron
	counter AttendanceCounter
	report  *ReportService
	audit   domain.AuditRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewDigestScheduler creates a scheduler. now defaults to time.Now.
func NewDigestScheduler(counter AttendanceCounter, report *ReportService, audit domain.AuditRepository, logger *slog.Logger, now func() time.Time) *DigestScheduler {
	if now == nil {
		now = time.Now
	}
	return &DigestScheduler{
		cron:    cron.New(),
		counter: counter,
		report:  report,
		audit:   audit,
		logger:  logger,
		now:     now,
	}
}

// Start registers the digest at the given cron spec and starts the
// scheduler.
func (s *DigestScheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.Warn("daily digest failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("digest scheduler started", "spec", spec)
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *DigestScheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("digest scheduler stopped")
}

// RunOnce computes yesterday's mark count and records it.
func (s *DigestScheduler) RunOnce(ctx context.Context) error {
	window := s.report.DayWindow(s.now().AddDate(0, 0, -1))

	count, err := s.counter.CountInWindow(ctx, window)
	if err != nil {
		return err
	}

	day := window.From.Format(isoDate)
	s.logger.Info("daily attendance digest", "day", day, "marks", count)
	return s.audit.Insert(ctx, &domain.AuditEntry{
		Action: fmt.Sprintf("DAILY_DIGEST(day=%s, marks=%d)", day, count),
		Status: "ALLOWED",
	})
}
