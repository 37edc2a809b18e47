package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/fleet-engine/certification"
	certstore "github.com/warp/fleet-engine/certification/store"
	"github.com/warp/fleet-engine/generic"
	"github.com/warp/fleet-engine/roster"
	"github.com/warp/fleet-engine/store/sqlite"
)

var schedulerNow = time.Date(2026, time.October, 19, 6, 0, 0, 0, time.UTC)

func newSeededStore(t *testing.T, scenario string) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, roster.Default(), zap.NewNop())
	require.NoError(t, h.loadSeed(context.Background(), scenarioSeeds[scenario], generic.DateOf(schedulerNow)))
	return store
}

func newTestScheduler(records certification.Store, runs AlertRunStore, logger *zap.Logger) *ExpiryAlertScheduler {
	s := NewExpiryAlertScheduler(records, runs, roster.Default(), logger)
	s.Now = func() time.Time { return schedulerNow }
	return s
}

func TestScheduler_RunNowRecordsOneRunPerDay(t *testing.T) {
	// GIVEN: the demo fleet and a scheduler whose clock is fixed
	store := newSeededStore(t, "fleet-overview")
	core, logs := observer.New(zapcore.InfoLevel)
	s := newTestScheduler(store, store, zap.New(core))

	// WHEN: the check runs twice on the same day
	s.RunNow()
	s.RunNow()

	// THEN: one completed run with the dashboard's counts
	runs, err := store.ListAlertRuns(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, sqlite.AlertRunCompleted, runs[0].Status)
	assert.Equal(t, "RP12/2026", runs[0].PeriodCode)
	assert.Equal(t, 8, runs[0].TotalExpiring)
	assert.Equal(t, 1, runs[0].Expired)
	assert.Equal(t, 3, runs[0].Within14Days)

	// AND: expired and 14-day groups are logged as warnings
	warnings := logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("certifications need attention").All()
	require.Len(t, warnings, 2)
	assert.Equal(t, "expired", warnings[0].ContextMap()["group"])
	assert.Equal(t, "within14Days", warnings[1].ContextMap()["group"])
}

func TestScheduler_AllClearLogsOnce(t *testing.T) {
	store := newSeededStore(t, "all-clear")
	core, logs := observer.New(zapcore.InfoLevel)
	s := newTestScheduler(store, store, zap.New(core))

	run, err := s.Scan(context.Background(), schedulerNow)

	require.NoError(t, err)
	assert.Equal(t, 0, run.TotalExpiring)
	assert.Equal(t, 1, logs.FilterMessage("all certifications current").Len())
}

func TestScheduler_MemoryRecords(t *testing.T) {
	// GIVEN: records held in memory, runs in sqlite
	ctx := context.Background()
	mem := certstore.NewMemory()
	require.NoError(t, mem.SaveCategory(ctx, certification.Category{Code: "Flight Checks", GracePeriodDays: 30}))

	today := generic.DateOf(schedulerNow)
	for i, d := range []int{-5, 3, 45, 200} {
		expiry := today.AddDays(d).Time
		require.NoError(t, mem.SaveCertification(ctx, certification.Record{
			ID: string(rune('a' + i)), PilotID: "p1", CheckCode: "LC", Category: "Flight Checks", ExpiryDate: &expiry,
		}))
	}
	runs, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer runs.Close()

	// WHEN
	run, err := newTestScheduler(mem, runs, zap.NewNop()).Scan(ctx, schedulerNow)

	// THEN: the store without date filtering is grouped in full
	require.NoError(t, err)
	assert.Equal(t, 3, run.TotalExpiring)
	assert.Equal(t, 1, run.Expired)
	assert.Equal(t, 1, run.Within14Days)
}

type brokenRecords struct {
	*certstore.Memory
}

func (brokenRecords) ListCertifications(context.Context) ([]certification.Record, error) {
	return nil, errors.New("disk on fire")
}

func TestScheduler_FailedRunIsRecorded(t *testing.T) {
	runs, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer runs.Close()

	s := newTestScheduler(brokenRecords{certstore.NewMemory()}, runs, zap.NewNop())
	s.RunNow()

	failed, err := runs.ListAlertRuns(context.Background(), sqlite.AlertRunFailed)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Error, "disk on fire")

	done, err := runs.IsAlertRunComplete(context.Background(), generic.DateOf(schedulerNow))
	require.NoError(t, err)
	assert.False(t, done, "a failed day is retried on the next tick")
}

func TestScheduler_StartStop(t *testing.T) {
	store := newSeededStore(t, "fleet-overview")
	s := newTestScheduler(store, store, zap.NewNop())
	s.CheckInterval = time.Hour

	s.Start()
	s.Stop()
	s.Stop() // second stop is a no-op

	// The first check runs before the ticker loop, so Stop waits for it.
	runs, err := store.ListAlertRuns(context.Background(), sqlite.AlertRunCompleted)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestScheduler_Disabled(t *testing.T) {
	store := newSeededStore(t, "fleet-overview")
	s := newTestScheduler(store, store, zap.NewNop())
	s.Enabled = false

	s.Start()
	s.Stop()

	runs, err := store.ListAlertRuns(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, runs)
}
