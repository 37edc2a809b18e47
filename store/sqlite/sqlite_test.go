package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/fleet-engine/certification"
	"github.com/warp/fleet-engine/generic"
	"github.com/warp/fleet-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestStore_Pilots(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SavePilot(ctx, sqlite.Pilot{ID: "p1", EmployeeID: "E001", FirstName: "Jane", LastName: "Doe", Rank: "Captain", Active: true}))
	require.NoError(t, s.SavePilot(ctx, sqlite.Pilot{ID: "p2", EmployeeID: "E002", FirstName: "Alex", LastName: "Brown", Rank: "First Officer", Active: true}))

	p, err := s.GetPilot(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Captain Jane Doe", p.DisplayName())
	assert.True(t, p.Active)

	pilots, err := s.ListPilots(ctx)
	require.NoError(t, err)
	require.Len(t, pilots, 2)
	assert.Equal(t, "p2", pilots[0].ID, "ordered by surname")

	_, err = s.GetPilot(ctx, "nobody")
	assert.ErrorIs(t, err, sqlite.ErrPilotNotFound)
	assert.True(t, generic.IsNotFound(err))
}

func TestStore_Certifications(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SavePilot(ctx, sqlite.Pilot{ID: "p1", EmployeeID: "E001", FirstName: "Jane", LastName: "Doe", Rank: "Captain", Active: true}))

	require.NoError(t, s.SaveCertification(ctx, certification.Record{
		ID: "c1", PilotID: "p1", CheckCode: "OPC", CheckDescription: "Operator proficiency check",
		Category: "Simulator Checks", ExpiryDate: date(2026, 11, 2),
	}))
	require.NoError(t, s.SaveCertification(ctx, certification.Record{
		ID: "c2", PilotID: "p1", CheckCode: "ASIC", Category: "ID Cards",
	}))

	t.Run("get joins pilot name and keeps the date", func(t *testing.T) {
		rec, err := s.GetCertification(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "Captain Jane Doe", rec.PilotDisplayName)
		require.NotNil(t, rec.ExpiryDate)
		assert.Equal(t, "2026-11-02", rec.ExpiryDate.Format(generic.DateLayout))
	})

	t.Run("null expiry stays nil", func(t *testing.T) {
		rec, err := s.GetCertification(ctx, "c2")
		require.NoError(t, err)
		assert.Nil(t, rec.ExpiryDate)
		assert.Empty(t, rec.CheckDescription)
	})

	t.Run("update replaces row", func(t *testing.T) {
		require.NoError(t, s.SaveCertification(ctx, certification.Record{
			ID: "c1", PilotID: "p1", CheckCode: "OPC", Category: "Simulator Checks", ExpiryDate: date(2027, 5, 2),
		}))
		rec, err := s.GetCertification(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 2027, rec.ExpiryDate.Year())
	})

	t.Run("lists", func(t *testing.T) {
		all, err := s.ListCertifications(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		mine, err := s.ListCertificationsByPilot(ctx, "p1")
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		none, err := s.ListCertificationsByPilot(ctx, "p9")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("expiring before cutoff skips undated and later", func(t *testing.T) {
		recs, err := s.ListCertificationsExpiringBefore(ctx, generic.NewTimePoint(2027, time.May, 2))
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "c1", recs[0].ID)

		recs, err = s.ListCertificationsExpiringBefore(ctx, generic.NewTimePoint(2027, time.May, 1))
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := s.GetCertification(ctx, "nope")
		assert.ErrorIs(t, err, certification.ErrRecordNotFound)
	})

	t.Run("unknown pilot", func(t *testing.T) {
		err := s.SaveCertification(ctx, certification.Record{ID: "c9", PilotID: "ghost", CheckCode: "X", Category: "ID Cards"})
		assert.ErrorIs(t, err, sqlite.ErrPilotNotFound)
	})
}

func TestStore_Categories(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveCategory(ctx, certification.Category{Code: "Flight Checks", DisplayName: "Flight Checks", GracePeriodDays: 30}))
	require.NoError(t, s.SaveCategory(ctx, certification.Category{Code: "Pilot Medical", DisplayName: "Pilot Medical"}))
	require.NoError(t, s.SaveCategory(ctx, certification.Category{Code: "Flight Checks", DisplayName: "Flight Checks", GracePeriodDays: 45}))

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
	assert.Equal(t, 45, cats.GraceFor("Flight Checks"))
	assert.Equal(t, 0, cats.GraceFor("Pilot Medical"))
}

func TestStore_AlertRuns(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	day := generic.NewTimePoint(2026, time.October, 19)

	done, err := s.IsAlertRunComplete(ctx, day)
	require.NoError(t, err)
	assert.False(t, done)

	started := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveAlertRun(ctx, sqlite.AlertRun{
		ID: "r1", RunDate: day, PeriodCode: "RP12/2026", Status: sqlite.AlertRunRunning,
		StartedAt: &started, CreatedAt: started,
	}))

	done, err = s.IsAlertRunComplete(ctx, day)
	require.NoError(t, err)
	assert.False(t, done)

	completed := started.Add(time.Second)
	require.NoError(t, s.SaveAlertRun(ctx, sqlite.AlertRun{
		ID: "r1", RunDate: day, PeriodCode: "RP12/2026", Status: sqlite.AlertRunCompleted,
		TotalExpiring: 4, Expired: 1, Within14Days: 2,
		StartedAt: &started, CompletedAt: &completed, CreatedAt: started,
	}))

	done, err = s.IsAlertRunComplete(ctx, day)
	require.NoError(t, err)
	assert.True(t, done)

	runs, err := s.ListAlertRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 4, runs[0].TotalExpiring)
	assert.True(t, runs[0].RunDate.Equal(day))
	require.NotNil(t, runs[0].CompletedAt)

	failed, err := s.ListAlertRuns(ctx, sqlite.AlertRunFailed)
	require.NoError(t, err)
	assert.Empty(t, failed)
}

func TestStore_AlertRunRerunReplacesID(t *testing.T) {
	// GIVEN: a completed scan for the day
	ctx := context.Background()
	s := newStore(t)
	day := generic.NewTimePoint(2026, time.October, 19)
	first := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveAlertRun(ctx, sqlite.AlertRun{
		ID: "first", RunDate: day, PeriodCode: "RP12/2026", Status: sqlite.AlertRunCompleted, CreatedAt: first,
	}))

	// WHEN: the day is scanned again under a new ID
	second := first.Add(3 * time.Hour)
	require.NoError(t, s.SaveAlertRun(ctx, sqlite.AlertRun{
		ID: "second", RunDate: day, PeriodCode: "RP12/2026", Status: sqlite.AlertRunCompleted, CreatedAt: second,
	}))

	// THEN: one row, carrying the latest ID
	runs, err := s.ListAlertRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "second", runs[0].ID)
	assert.True(t, runs[0].CreatedAt.Equal(second))
}

func TestStore_CorruptTimestampsAreErrors(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fleet.db")
	s, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer raw.Close()

	_, err = raw.Exec(`INSERT INTO alert_runs (id, run_date, period_code, status, created_at)
		VALUES ('bad', 'not-a-date', 'RP12/2026', 'completed', '2026-10-19T06:00:00Z')`)
	require.NoError(t, err)
	_, err = s.ListAlertRuns(ctx, "")
	assert.ErrorContains(t, err, "alert run bad")

	_, err = raw.Exec(`UPDATE alert_runs SET run_date = '2026-10-19', started_at = 'yesterday' WHERE id = 'bad'`)
	require.NoError(t, err)
	_, err = s.ListAlertRuns(ctx, "")
	assert.ErrorContains(t, err, "started_at")

	_, err = raw.Exec(`INSERT INTO pilots (id, employee_id, first_name, last_name, rank, created_at)
		VALUES ('p1', 'E001', 'Jane', 'Doe', 'Captain', 'sometime')`)
	require.NoError(t, err)
	_, err = s.GetPilot(ctx, "p1")
	assert.ErrorContains(t, err, "created_at")
	_, err = s.ListPilots(ctx)
	assert.ErrorContains(t, err, "created_at")
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SavePilot(ctx, sqlite.Pilot{ID: "p1", EmployeeID: "E1", FirstName: "A", LastName: "B", Rank: "Captain"}))
	require.NoError(t, s.SaveCertification(ctx, certification.Record{ID: "c1", PilotID: "p1", CheckCode: "X", Category: "ID Cards"}))

	require.NoError(t, s.Reset(ctx))

	pilots, err := s.ListPilots(ctx)
	require.NoError(t, err)
	assert.Empty(t, pilots)
}
