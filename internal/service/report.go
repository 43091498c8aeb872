package service

import (
	"context"
	"time"

	"rollcall/internal/domain"
)

// isoDate is the wire format for the optional list filter.
const isoDate = "2006-01-02"

// ReportService reads the attendance ledger for reporting. Date filters are
// half-open calendar-day windows in the configured reference time zone.
type ReportService struct {
	records domain.AttendanceRepository
	loc     *time.Location
}

// NewReportService creates a new ReportService. loc defaults to UTC.
func NewReportService(records domain.AttendanceRepository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{records: records, loc: loc}
}

// List returns enriched attendance records, newest first. An empty date
// returns the full ledger; otherwise date must be an ISO calendar date
// (e.g. "2025-08-08") and only records in [D 00:00, D+1 00:00) local to the
// reference zone are returned. An unparseable date fails before any read.
func (s *ReportService) List(ctx context.Context, date string) ([]domain.EnrichedRecord, error) {
	var window *domain.TimeWindow
	if date != "" {
		day, err := time.ParseInLocation(isoDate, date, s.loc)
		if err != nil {
			return nil, domain.ErrValidation("invalid date %q: want YYYY-MM-DD", date)
		}
		window = &domain.TimeWindow{From: day, Until: day.AddDate(0, 0, 1)}
	}

	return s.records.ListEnriched(ctx, window)
}

// DayWindow returns the half-open window for the calendar day containing t
// in the reference zone. Shared with the daily digest job.
func (s *ReportService) DayWindow(t time.Time) domain.TimeWindow {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return domain.TimeWindow{From: start, Until: start.AddDate(0, 0, 1)}
}
