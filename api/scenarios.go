/*
scenarios.go - Demo fleet loaders for testing and demonstrations

PURPOSE:

	Provides pre-built fleets that populate the database with realistic
	pilots and certifications. Expiry dates are relative to "today" (the
	?today= parameter or the server clock), so every scenario lands in the
	same alert windows whenever it is loaded.

AVAILABLE SCENARIOS:

	fleet-overview: Four pilots with checks in every alert window
	grace-period:   Expired checks inside and outside their grace periods
	all-clear:      Nothing due within 90 days
	missing-dates:  Records without an expiry date on file

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create check-type categories from factory.FleetCategoriesJSON
 3. Create pilots
 4. Create certifications, expiry = today + N days

USAGE VIA API:

	POST /api/scenarios/load?today=2026-10-19
	{"scenario_id": "fleet-overview"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add its pilots and checks to 'scenarioSeeds'

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ListExpiring, GetSummary show the loaded fleet
  - factory/presets.go: Category JSON definitions
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/fleet-engine/certification"
	"github.com/warp/fleet-engine/factory"
	"github.com/warp/fleet-engine/generic"
	"github.com/warp/fleet-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "fleet-overview",
		Name:        "Fleet Overview",
		Description: "Four pilots with checks expired, critical, expiring soon, upcoming and current",
	},
	{
		ID:          "grace-period",
		Name:        "Grace Periods",
		Description: "Expired simulator and flight checks inside and outside their 30-day grace",
	},
	{
		ID:          "all-clear",
		Name:        "All Clear",
		Description: "Every check current for more than 90 days",
	},
	{
		ID:          "missing-dates",
		Name:        "Missing Dates",
		Description: "Records with no expiry date on file show as gray",
	},
}

// seedCheck is one certification, expiring Days after today. A nil Days
// means no date on file.
type seedCheck struct {
	Pilot       string
	Code        string
	Description string
	Category    string
	Days        *int
}

type scenarioSeed struct {
	Pilots []sqlite.Pilot
	Checks []seedCheck
}

func days(n int) *int { return &n }

var demoPilots = []sqlite.Pilot{
	{ID: "pilot-001", EmployeeID: "2101", FirstName: "Maria", LastName: "Santos", Rank: "Captain", Active: true},
	{ID: "pilot-002", EmployeeID: "2145", FirstName: "James", LastName: "Whitaker", Rank: "Captain", Active: true},
	{ID: "pilot-003", EmployeeID: "3310", FirstName: "Aiko", LastName: "Tanaka", Rank: "First Officer", Active: true},
	{ID: "pilot-004", EmployeeID: "3387", FirstName: "Liam", LastName: "O'Connor", Rank: "First Officer", Active: true},
}

var scenarioSeeds = map[string]scenarioSeed{
	"fleet-overview": {
		Pilots: demoPilots,
		Checks: []seedCheck{
			{"pilot-001", "MED", "Class 1 medical", "Pilot Medical", days(-3)},
			{"pilot-001", "OPC", "Operator proficiency check", "Simulator Checks", days(40)},
			{"pilot-001", "LC", "Line check", "Flight Checks", days(200)},
			{"pilot-002", "LPC", "Licence proficiency check", "Simulator Checks", days(10)},
			{"pilot-002", "CRM", "Crew resource management", "Ground Courses Refresher", days(25)},
			{"pilot-002", "ASIC", "Airside security card", "ID Cards", days(120)},
			{"pilot-003", "MED", "Class 1 medical", "Pilot Medical", days(14)},
			{"pilot-003", "SEP", "Safety and emergency procedures", "Ground Courses Refresher", days(75)},
			{"pilot-003", "VISA", "Crew visa", "Travel Visa", days(300)},
			{"pilot-004", "LC", "Line check", "Flight Checks", days(0)},
			{"pilot-004", "DG", "Dangerous goods", "Ground Courses Refresher", days(60)},
			{"pilot-004", "OPC", "Operator proficiency check", "Simulator Checks", days(91)},
		},
	},
	"grace-period": {
		Pilots: demoPilots[:2],
		Checks: []seedCheck{
			{"pilot-001", "OPC", "Operator proficiency check", "Simulator Checks", days(-10)},
			{"pilot-001", "LC", "Line check", "Flight Checks", days(-30)},
			{"pilot-001", "MED", "Class 1 medical", "Pilot Medical", days(-1)},
			{"pilot-002", "LPC", "Licence proficiency check", "Simulator Checks", days(-31)},
			{"pilot-002", "CRM", "Crew resource management", "Ground Courses Refresher", days(-45)},
		},
	},
	"all-clear": {
		Pilots: demoPilots[:3],
		Checks: []seedCheck{
			{"pilot-001", "MED", "Class 1 medical", "Pilot Medical", days(180)},
			{"pilot-001", "OPC", "Operator proficiency check", "Simulator Checks", days(150)},
			{"pilot-002", "LPC", "Licence proficiency check", "Simulator Checks", days(95)},
			{"pilot-002", "ASIC", "Airside security card", "ID Cards", days(700)},
			{"pilot-003", "LC", "Line check", "Flight Checks", days(240)},
		},
	},
	"missing-dates": {
		Pilots: demoPilots[2:],
		Checks: []seedCheck{
			{"pilot-003", "MED", "Class 1 medical", "Pilot Medical", nil},
			{"pilot-003", "VISA", "Crew visa", "Travel Visa", nil},
			{"pilot-003", "LC", "Line check", "Flight Checks", days(100)},
			{"pilot-004", "ASIC", "Airside security card", "ID Cards", nil},
			{"pilot-004", "OPC", "Operator proficiency check", "Simulator Checks", days(20)},
		},
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario resets the database and loads a predefined fleet.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}

	seed, ok := scenarioSeeds[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("no scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := h.loadSeed(ctx, seed, generic.DateOf(today)); err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	h.Logger.Info("scenario loaded",
		zap.String("scenario", req.ScenarioID),
		zap.Int("pilots", len(seed.Pilots)),
		zap.Int("certifications", len(seed.Checks)),
	)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadSeed(ctx context.Context, seed scenarioSeed, today generic.TimePoint) error {
	if err := h.seedCategories(ctx); err != nil {
		return err
	}

	for _, p := range seed.Pilots {
		if err := h.Store.SavePilot(ctx, p); err != nil {
			return fmt.Errorf("pilot %s: %w", p.ID, err)
		}
	}

	for _, c := range seed.Checks {
		rec := certification.Record{
			ID:               fmt.Sprintf("cert-%s-%s", strings.TrimPrefix(c.Pilot, "pilot-"), strings.ToLower(c.Code)),
			PilotID:          c.Pilot,
			CheckCode:        c.Code,
			CheckDescription: c.Description,
			Category:         c.Category,
		}
		if c.Days != nil {
			expiry := today.AddDays(*c.Days).Time
			rec.ExpiryDate = &expiry
		}
		if err := h.Store.SaveCertification(ctx, rec); err != nil {
			return fmt.Errorf("certification %s: %w", rec.ID, err)
		}
	}
	return nil
}

// seedCategories stores the fleet's standard check-type categories.
func (h *Handler) seedCategories(ctx context.Context) error {
	categories, err := h.CategoryFactory.ParseCategories(factory.FleetCategoriesJSON)
	if err != nil {
		return err
	}
	for _, c := range categories.List() {
		if err := h.Store.SaveCategory(ctx, c); err != nil {
			return fmt.Errorf("category %s: %w", c.Code, err)
		}
	}
	return nil
}

// SeedCategoriesIfEmpty installs the standard categories on a fresh database.
func (h *Handler) SeedCategoriesIfEmpty(ctx context.Context) error {
	existing, err := h.Store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	h.Logger.Info("seeding default categories")
	return h.seedCategories(ctx)
}

