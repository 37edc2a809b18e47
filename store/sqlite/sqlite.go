/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Persists the plain data the calculation engine consumes: pilots, check-type
  categories (with grace periods) and certification records, plus the
  history of expiry alert runs. The engine itself never touches this package;
  the HTTP layer and the alert scheduler load rows here and hand them over.

INTERFACES IMPLEMENTED:
  certification.Store: Certification records and categories

KEY TABLES:
  pilots:          Crew members
  check_types:     Certification categories and grace periods
  certifications:  One row per pilot check, expiry date nullable
  alert_runs:      Daily expiry scan history

INDEXES:
  - idx_certifications_pilot:  Pilot portal lists
  - idx_certifications_expiry: Expiry scans
  - idx_alert_runs_date:       One completed scan per day

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block each other.

DATES:
  Expiry dates are calendar dates stored as YYYY-MM-DD text and loaded back
  as midnight UTC. Audit timestamps are RFC3339.

USAGE:
  store, err := sqlite.New("./data/fleet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - certification/store.go: Interface definition
  - certification/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/fleet-engine/certification"
	"github.com/warp/fleet-engine/generic"
)

// ErrPilotNotFound is returned for unknown pilot ids.
var ErrPilotNotFound = generic.NewNotFoundError("pilot not found")

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ certification.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pilots (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		rank TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_pilots_employee
		ON pilots(employee_id);

	-- Check-type categories. Grace periods only affect label wording.
	CREATE TABLE IF NOT EXISTS check_types (
		code TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		description TEXT,
		grace_period_days INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS certifications (
		id TEXT PRIMARY KEY,
		pilot_id TEXT NOT NULL REFERENCES pilots(id) ON DELETE CASCADE,
		check_code TEXT NOT NULL,
		check_description TEXT,
		category TEXT NOT NULL,
		expiry_date TEXT,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_certifications_pilot
		ON certifications(pilot_id, check_code);
	CREATE INDEX IF NOT EXISTS idx_certifications_expiry
		ON certifications(expiry_date) WHERE expiry_date IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_certifications_category
		ON certifications(category);

	CREATE TABLE IF NOT EXISTS alert_runs (
		id TEXT PRIMARY KEY,
		run_date TEXT NOT NULL,
		period_code TEXT NOT NULL,
		status TEXT NOT NULL,
		total_expiring INTEGER NOT NULL DEFAULT 0,
		expired INTEGER NOT NULL DEFAULT 0,
		within_14_days INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at TEXT,
		completed_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_alert_runs_date
		ON alert_runs(run_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PILOTS
// =============================================================================

// Pilot is a stored crew member.
type Pilot struct {
	ID         string
	EmployeeID string
	FirstName  string
	LastName   string
	Rank       string // "Captain", "First Officer"
	Active     bool
	CreatedAt  time.Time
}

// DisplayName is the name shown on certification lists, e.g. "Captain Jane Doe".
func (p Pilot) DisplayName() string {
	return strings.TrimSpace(strings.Join([]string{p.Rank, p.FirstName, p.LastName}, " "))
}

// SavePilot inserts or updates a pilot.
func (s *Store) SavePilot(ctx context.Context, p Pilot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO pilots (id, employee_id, first_name, last_name, rank, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			rank = excluded.rank,
			active = excluded.active
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.EmployeeID, p.FirstName, p.LastName, p.Rank, p.Active,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetPilot retrieves a pilot by ID.
func (s *Store) GetPilot(ctx context.Context, id string) (*Pilot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Pilot
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, employee_id, first_name, last_name, rank, active, created_at FROM pilots WHERE id = ?",
		id,
	).Scan(&p.ID, &p.EmployeeID, &p.FirstName, &p.LastName, &p.Rank, &p.Active, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPilotNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("pilot %s: created_at: %w", p.ID, err)
	}
	return &p, nil
}

// ListPilots returns all pilots ordered by surname.
func (s *Store) ListPilots(ctx context.Context) ([]Pilot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, employee_id, first_name, last_name, rank, active, created_at FROM pilots ORDER BY last_name, first_name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pilots []Pilot
	for rows.Next() {
		var p Pilot
		var createdAt string
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.FirstName, &p.LastName, &p.Rank, &p.Active, &createdAt); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("pilot %s: created_at: %w", p.ID, err)
		}
		pilots = append(pilots, p)
	}
	return pilots, rows.Err()
}

// =============================================================================
// CERTIFICATIONS (certification.Store interface)
// =============================================================================

const certificationColumns = `
	c.id, c.pilot_id, TRIM(p.rank || ' ' || p.first_name || ' ' || p.last_name),
	c.check_code, COALESCE(c.check_description, ''), c.category, c.expiry_date
`

// ListCertifications returns every record ordered by pilot then check.
func (s *Store) ListCertifications(ctx context.Context) ([]certification.Record, error) {
	return s.queryCertifications(ctx, `
		SELECT `+certificationColumns+`
		FROM certifications c JOIN pilots p ON p.id = c.pilot_id
		ORDER BY p.last_name, p.first_name, c.check_code
	`)
}

// ListCertificationsByPilot returns one pilot's records.
func (s *Store) ListCertificationsByPilot(ctx context.Context, pilotID string) ([]certification.Record, error) {
	return s.queryCertifications(ctx, `
		SELECT `+certificationColumns+`
		FROM certifications c JOIN pilots p ON p.id = c.pilot_id
		WHERE c.pilot_id = ?
		ORDER BY c.check_code
	`, pilotID)
}

// ListCertificationsExpiringBefore returns dated records expiring on or
// before cutoff. The alert scheduler uses it to avoid loading the whole fleet.
func (s *Store) ListCertificationsExpiringBefore(ctx context.Context, cutoff generic.TimePoint) ([]certification.Record, error) {
	return s.queryCertifications(ctx, `
		SELECT `+certificationColumns+`
		FROM certifications c JOIN pilots p ON p.id = c.pilot_id
		WHERE c.expiry_date IS NOT NULL AND c.expiry_date <= ?
		ORDER BY c.expiry_date, c.check_code
	`, cutoff.String())
}

// GetCertification retrieves a record by ID.
func (s *Store) GetCertification(ctx context.Context, id string) (*certification.Record, error) {
	recs, err := s.queryCertifications(ctx, `
		SELECT `+certificationColumns+`
		FROM certifications c JOIN pilots p ON p.id = c.pilot_id
		WHERE c.id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, certification.ErrRecordNotFound
	}
	return &recs[0], nil
}

// SaveCertification inserts or replaces a record. The pilot must exist.
func (s *Store) SaveCertification(ctx context.Context, rec certification.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO certifications (id, pilot_id, check_code, check_description, category, expiry_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			pilot_id = excluded.pilot_id,
			check_code = excluded.check_code,
			check_description = excluded.check_description,
			category = excluded.category,
			expiry_date = excluded.expiry_date,
			updated_at = excluded.updated_at
	`

	var expiry sql.NullString
	if rec.ExpiryDate != nil {
		expiry = nullString(generic.DateOf(*rec.ExpiryDate).String())
	}

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.PilotID, rec.CheckCode, nullString(rec.CheckDescription), rec.Category, expiry,
		time.Now().UTC().Format(time.RFC3339),
	)
	if isForeignKeyError(err) {
		return fmt.Errorf("certification %s: %w", rec.ID, ErrPilotNotFound)
	}
	return err
}

func (s *Store) queryCertifications(ctx context.Context, query string, args ...any) ([]certification.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []certification.Record
	for rows.Next() {
		var r certification.Record
		var expiry sql.NullString
		if err := rows.Scan(&r.ID, &r.PilotID, &r.PilotDisplayName, &r.CheckCode,
			&r.CheckDescription, &r.Category, &expiry); err != nil {
			return nil, err
		}
		if expiry.Valid {
			d, err := generic.ParseDate(expiry.String)
			if err != nil {
				return nil, fmt.Errorf("certification %s: %w", r.ID, err)
			}
			r.ExpiryDate = &d.Time
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// =============================================================================
// CATEGORIES (check types)
// =============================================================================

// ListCategories returns the category configuration.
func (s *Store) ListCategories(ctx context.Context) (certification.Categories, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT code, display_name, COALESCE(description, ''), grace_period_days FROM check_types ORDER BY code",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := make(certification.Categories)
	for rows.Next() {
		var c certification.Category
		if err := rows.Scan(&c.Code, &c.DisplayName, &c.Description, &c.GracePeriodDays); err != nil {
			return nil, err
		}
		cats[c.Code] = c
	}
	return cats, rows.Err()
}

// SaveCategory inserts or updates a category.
func (s *Store) SaveCategory(ctx context.Context, c certification.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO check_types (code, display_name, description, grace_period_days, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			display_name = excluded.display_name,
			description = excluded.description,
			grace_period_days = excluded.grace_period_days,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		c.Code, c.DisplayName, nullString(c.Description), c.GracePeriodDays,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// =============================================================================
// ALERT RUNS
// =============================================================================

// AlertRun records one daily expiry scan.
type AlertRun struct {
	ID            string
	RunDate       generic.TimePoint
	PeriodCode    string // roster period the scan ran in
	Status        string // running, completed, failed
	TotalExpiring int
	Expired       int
	Within14Days  int
	Error         string
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
}

const (
	AlertRunRunning   = "running"
	AlertRunCompleted = "completed"
	AlertRunFailed    = "failed"
)

// SaveAlertRun inserts a run or replaces the run for the same day, ID included,
// so the latest scan of a day is the one listed.
func (s *Store) SaveAlertRun(ctx context.Context, r AlertRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO alert_runs (id, run_date, period_code, status, total_expiring, expired,
			within_14_days, error, started_at, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_date) DO UPDATE SET
			id = excluded.id,
			period_code = excluded.period_code,
			status = excluded.status,
			total_expiring = excluded.total_expiring,
			expired = excluded.expired,
			within_14_days = excluded.within_14_days,
			error = excluded.error,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			created_at = excluded.created_at
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.RunDate.String(), r.PeriodCode, r.Status,
		r.TotalExpiring, r.Expired, r.Within14Days, nullString(r.Error),
		formatOptional(r.StartedAt), formatOptional(r.CompletedAt),
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// ListAlertRuns returns runs newest first, optionally filtered by status.
func (s *Store) ListAlertRuns(ctx context.Context, status string) ([]AlertRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, run_date, period_code, status, total_expiring, expired, within_14_days,
			error, started_at, completed_at, created_at
		FROM alert_runs
	`
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY run_date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []AlertRun
	for rows.Next() {
		var r AlertRun
		var runDate, createdAt string
		var errText, startedAt, completedAt sql.NullString
		if err := rows.Scan(&r.ID, &runDate, &r.PeriodCode, &r.Status, &r.TotalExpiring,
			&r.Expired, &r.Within14Days, &errText, &startedAt, &completedAt, &createdAt); err != nil {
			return nil, err
		}
		if r.RunDate, err = generic.ParseDate(runDate); err != nil {
			return nil, fmt.Errorf("alert run %s: %w", r.ID, err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("alert run %s: created_at: %w", r.ID, err)
		}
		if r.StartedAt, err = parseOptional(startedAt); err != nil {
			return nil, fmt.Errorf("alert run %s: started_at: %w", r.ID, err)
		}
		if r.CompletedAt, err = parseOptional(completedAt); err != nil {
			return nil, fmt.Errorf("alert run %s: completed_at: %w", r.ID, err)
		}
		r.Error = errText.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// IsAlertRunComplete reports whether the scan for day already completed.
func (s *Store) IsAlertRunComplete(ctx context.Context, day generic.TimePoint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM alert_runs WHERE run_date = ? AND status = ?",
		day.String(), AlertRunCompleted,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"certifications", "pilots", "check_types", "alert_runs"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatOptional(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return nullString(t.UTC().Format(time.RFC3339))
}

func parseOptional(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
