package service

import (
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/domain"
)

func TestReport_List_DateWindow(t *testing.T) {
	f := setup(t)

	_, err := f.ledger.Mark(ctx, "u1", nil)
	require.NoError(t, err)

	onDay, err := f.report.List(ctx, "2025-08-08")
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, "u1", onDay[0].IdentityID)

	nextDay, err := f.report.List(ctx, "2025-08-09")
	require.NoError(t, err)
	assert.Empty(t, nextDay)
}

func TestReport_List_MidnightBoundaryExcluded(t *testing.T) {
	f := setup(t)

	// Exactly midnight of the next day.
	f.clock.t = time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC)
	_, err := f.ledger.Mark(ctx, "u1", nil)
	require.NoError(t, err)

	records, err := f.report.List(ctx, "2025-08-08")
	require.NoError(t, err)
	assert.Empty(t, records, "a record at D+1 00:00 belongs to D+1, not D")

	records, err = f.report.List(ctx, "2025-08-09")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReport_List_InvalidDate(t *testing.T) {
	f := setup(t)

	for _, d := range []string{"08/08/2025", "2025-13-40", "yesterday"} {
		_, err := f.report.List(ctx, d)
		require.Error(t, err, "date %q", d)
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
	}
}

func TestReport_List_AllWhenDateOmitted(t *testing.T) {
	f := setup(t)

	_, err := f.ledger.Mark(ctx, "u1", nil)
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	_, err = f.ledger.Mark(ctx, "u2", nil)
	require.NoError(t, err)

	records, err := f.report.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestReport_List_Enrichment(t *testing.T) {
	f := setup(t)

	_, err := f.profiles.Register(ctx, "u1", "u1@x.com", "student")
	require.NoError(t, err)

	_, err = f.ledger.Mark(ctx, "u1", nil)
	require.NoError(t, err)
	_, err = f.ledger.Mark(ctx, "ghost", nil)
	require.NoError(t, err)

	records, err := f.report.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, r := range records {
		switch r.IdentityID {
		case "u1":
			require.NotNil(t, r.Email)
			assert.Equal(t, "u1@x.com", *r.Email)
		case "ghost":
			assert.Nil(t, r.Email, "missing profile never drops the record")
		}
	}
}

func TestReport_DayWindow_ReferenceZone(t *testing.T) {
	f := setup(t)

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	report := NewReportService(f.records, loc)

	// 2025-08-08T01:00+05:30 is still 2025-08-07 in UTC.
	local := time.Date(2025, 8, 8, 1, 0, 0, 0, loc)
	w := report.DayWindow(local)
	assert.Equal(t, time.Date(2025, 8, 8, 0, 0, 0, 0, loc), w.From)
	assert.True(t, w.Contains(local))
}
