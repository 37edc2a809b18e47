/*
handlers.go - HTTP API handlers for the fleet roster & certification engine

PURPOSE:
  Exposes the roster calendar and the certification classifier via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  engine packages. The engine does no I/O; handlers load plain records from
  the store and pass them in together with "today".

ENDPOINTS:
  Roster:
    GET    /api/roster/current                  Current roster period
    GET    /api/roster/periods/{code}           Period by code (falls back to current)
    GET    /api/roster/periods/{code}/next      Following period
    GET    /api/roster/periods/{code}/previous  Preceding period
    GET    /api/roster/options                  Selector options around a period
    GET    /api/roster/years/{year}             RP1..RP13 of a roster year
    GET    /api/roster/spanning                 Periods a date range touches

  Pilots:
    GET    /api/pilots                          List pilots
    POST   /api/pilots                          Create pilot
    GET    /api/pilots/{id}                     Pilot details
    GET    /api/pilots/{id}/certifications      Classified, most urgent first

  Certifications:
    POST   /api/certifications                  Create or update a record
    GET    /api/certifications/expiring         Expiry alert groups
    GET    /api/certifications/summary          Fleet compliance summary
    POST   /api/certifications/classify         Classify an ad-hoc expiry date

  Categories:
    GET    /api/categories                      Check-type categories
    POST   /api/categories                      Create/update from JSON

  Alerts:
    GET    /api/alerts/runs                     Expiry scan history
    POST   /api/alerts/run                      Run today's scan now

TODAY:
  Every endpoint accepts ?today=YYYY-MM-DD. It is read once per request and
  passed to every engine call, so a response never mixes two dates.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo fleet loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/fleet-engine/certification"
	"github.com/warp/fleet-engine/factory"
	"github.com/warp/fleet-engine/generic"
	"github.com/warp/fleet-engine/roster"
	"github.com/warp/fleet-engine/store/sqlite"
)

const (
	defaultOptionsAround = 3
	maxOptionsAround     = 26
	maxSpanDays          = 5 * 366
	maxRequestBody       = 1 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           *sqlite.Store
	Calendar        *roster.Calculator
	CategoryFactory *factory.CategoryFactory
	Logger          *zap.Logger

	validate *validator.Validate

	// Track currently loaded scenario
	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler with the given store and calendar.
func NewHandler(store *sqlite.Store, calendar *roster.Calculator, logger *zap.Logger) *Handler {
	return &Handler{
		Store:           store,
		Calendar:        calendar,
		CategoryFactory: factory.NewCategoryFactory(),
		Logger:          logger,
		validate:        validator.New(),
	}
}

// todayFrom reads ?today=YYYY-MM-DD, defaulting to the server's calendar date.
func todayFrom(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("today")
	if raw == "" {
		return generic.Today().Time, nil
	}
	d, err := generic.ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time, nil
}

// loadFleet fetches certifications and categories concurrently. An empty
// pilotID loads the whole fleet.
func (h *Handler) loadFleet(ctx context.Context, pilotID string) ([]certification.Record, certification.Categories, error) {
	var records []certification.Record
	var categories certification.Categories

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if pilotID == "" {
			records, err = h.Store.ListCertifications(ctx)
		} else {
			records, err = h.Store.ListCertificationsByPilot(ctx, pilotID)
		}
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = h.Store.ListCategories(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return records, categories, nil
}

// =============================================================================
// ROSTER HANDLERS
// =============================================================================

// GetCurrentPeriod returns the period containing today.
// GET /api/roster/current
func (h *Handler) GetCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	writeJSON(w, http.StatusOK, RosterPeriodResponse{
		Period: toRosterPeriodDTO(h.Calendar.Current(today)),
	})
}

// GetPeriod returns a period by code. Malformed codes fall back to the
// current period with fallback=true, so bookmarked links never dead-end.
// GET /api/roster/periods/{code}
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	period, fellBack := h.Calendar.FromCodeOrCurrent(periodCodeParam(r), today)
	writeJSON(w, http.StatusOK, RosterPeriodResponse{
		Period:   toRosterPeriodDTO(period),
		Fallback: fellBack,
	})
}

// GetNextPeriod returns the period after {code}.
// GET /api/roster/periods/{code}/next
func (h *Handler) GetNextPeriod(w http.ResponseWriter, r *http.Request) {
	h.stepPeriod(w, r, h.Calendar.Next)
}

// GetPreviousPeriod returns the period before {code}.
// GET /api/roster/periods/{code}/previous
func (h *Handler) GetPreviousPeriod(w http.ResponseWriter, r *http.Request) {
	h.stepPeriod(w, r, h.Calendar.Previous)
}

func (h *Handler) stepPeriod(w http.ResponseWriter, r *http.Request, step func(roster.RosterPeriod, time.Time) roster.RosterPeriod) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	period, err := h.Calendar.FromCode(periodCodeParam(r), today)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid roster period code", err)
		return
	}

	writeJSON(w, http.StatusOK, RosterPeriodResponse{
		Period: toRosterPeriodDTO(step(period, today)),
	})
}

// ListPeriodOptions returns selector options around a period.
// GET /api/roster/options?center=RP1/2026&before=3&after=3
func (h *Handler) ListPeriodOptions(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	q := r.URL.Query()
	before, err := intParam(q, "before", defaultOptionsAround)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid before parameter", err)
		return
	}
	after, err := intParam(q, "after", defaultOptionsAround)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid after parameter", err)
		return
	}
	before = min(before, maxOptionsAround)
	after = min(after, maxOptionsAround)

	center := h.Calendar.Current(today)
	if code := q.Get("center"); code != "" {
		center, err = h.Calendar.FromCode(normalizeCode(code), today)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid center period code", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, PeriodOptionsResponse{
		Center:  toRosterPeriodDTO(center),
		Options: toRosterPeriodDTOs(h.Calendar.OptionsAround(center, before, after, today)),
	})
}

// ListPeriodsInYear returns RP1..RP13 of a roster year.
// GET /api/roster/years/{year}
func (h *Handler) ListPeriodsInYear(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 9999 {
		writeError(w, http.StatusBadRequest, "Invalid year (use YYYY)", err)
		return
	}

	writeJSON(w, http.StatusOK, toRosterPeriodDTOs(h.Calendar.PeriodsInYear(year, today)))
}

// ListSpanningPeriods returns the periods an inclusive date range touches.
// GET /api/roster/spanning?from=2026-01-01&to=2026-01-05
func (h *Handler) ListSpanningPeriods(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	q := r.URL.Query()
	from, err := generic.ParseDate(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := generic.ParseDate(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}
	if generic.DaysBetween(from, to) > maxSpanDays {
		writeError(w, http.StatusBadRequest, "Date range too long", nil)
		return
	}

	periods, err := h.Calendar.Spanning(from, to, today)
	if err != nil {
		h.fail(w, r, "Invalid date range", err)
		return
	}

	writeJSON(w, http.StatusOK, toRosterPeriodDTOs(periods))
}

// periodCodeParam reads {code}, accepting RP1/2026 escaped as RP1%2F2026 or
// written as RP1-2026.
func periodCodeParam(r *http.Request) string {
	code := chi.URLParam(r, "code")
	if unescaped, err := url.PathUnescape(code); err == nil {
		code = unescaped
	}
	return normalizeCode(code)
}

func normalizeCode(code string) string {
	return strings.Replace(strings.ToUpper(strings.TrimSpace(code)), "-", "/", 1)
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// =============================================================================
// PILOT HANDLERS
// =============================================================================

// ListPilots returns all pilots.
func (h *Handler) ListPilots(w http.ResponseWriter, r *http.Request) {
	pilots, err := h.Store.ListPilots(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list pilots", err)
		return
	}

	dtos := make([]PilotDTO, len(pilots))
	for i, p := range pilots {
		dtos[i] = toPilotDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPilot returns a single pilot.
func (h *Handler) GetPilot(w http.ResponseWriter, r *http.Request) {
	pilot, err := h.Store.GetPilot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get pilot", err)
		return
	}
	writeJSON(w, http.StatusOK, toPilotDTO(*pilot))
}

// CreatePilot creates a new pilot.
func (h *Handler) CreatePilot(w http.ResponseWriter, r *http.Request) {
	var req CreatePilotRequest
	if !h.decode(w, r, &req) {
		return
	}

	pilot := sqlite.Pilot{
		ID:         req.ID,
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Rank:       strings.TrimSpace(req.Rank),
		Active:     req.Active == nil || *req.Active,
	}
	if pilot.ID == "" {
		pilot.ID = uuid.NewString()
	}

	if err := h.Store.SavePilot(r.Context(), pilot); err != nil {
		h.fail(w, r, "Failed to create pilot", err)
		return
	}

	h.Logger.Info("pilot saved", zap.String("pilot_id", pilot.ID), zap.String("employee_id", pilot.EmployeeID))
	writeJSON(w, http.StatusCreated, toPilotDTO(pilot))
}

// GetPilotCertifications returns a pilot's certifications, most urgent first.
// GET /api/pilots/{id}/certifications
func (h *Handler) GetPilotCertifications(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	ctx := r.Context()
	pilot, err := h.Store.GetPilot(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get pilot", err)
		return
	}

	records, categories, err := h.loadFleet(ctx, pilot.ID)
	if err != nil {
		h.fail(w, r, "Failed to load certifications", err)
		return
	}

	classifier := certification.NewClassifier(categories)
	sorted := classifier.SortByUrgency(records, today)

	resp := PilotCertificationsResponse{
		Pilot:          toPilotDTO(*pilot),
		Certifications: make([]CertificationDTO, len(sorted)),
	}
	for i, cr := range sorted {
		resp.Certifications[i] = toCertificationDTO(cr.Record, cr.Status)
	}
	if summaries := classifier.PilotSummaries(records, today); len(summaries) == 1 {
		s := toPilotSummaryDTO(summaries[0])
		resp.Summary = &s
	}

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// CERTIFICATION HANDLERS
// =============================================================================

// SaveCertification creates or updates a certification record.
// POST /api/certifications
func (h *Handler) SaveCertification(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	var req SaveCertificationRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	categories, err := h.Store.ListCategories(ctx)
	if err != nil {
		h.fail(w, r, "Failed to load categories", err)
		return
	}
	if _, ok := categories.Get(req.Category); !ok {
		writeError(w, http.StatusBadRequest, "Unknown category",
			fmt.Errorf("%w: %q", certification.ErrCategoryNotFound, req.Category))
		return
	}

	rec := certification.Record{
		ID:               req.ID,
		PilotID:          req.PilotID,
		CheckCode:        strings.TrimSpace(req.CheckCode),
		CheckDescription: strings.TrimSpace(req.CheckDescription),
		Category:         req.Category,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if req.ExpiryDate != "" {
		d, err := generic.ParseDate(req.ExpiryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiry_date (use YYYY-MM-DD)", err)
			return
		}
		rec.ExpiryDate = &d.Time
	}

	if err := h.Store.SaveCertification(ctx, rec); err != nil {
		if errors.Is(err, sqlite.ErrPilotNotFound) {
			writeError(w, http.StatusBadRequest, "Unknown pilot_id", err)
			return
		}
		h.fail(w, r, "Failed to save certification", err)
		return
	}

	saved, err := h.Store.GetCertification(ctx, rec.ID)
	if err != nil {
		h.fail(w, r, "Failed to reload certification", err)
		return
	}

	status := certification.NewClassifier(categories).ClassifyRecord(*saved, today)
	h.Logger.Info("certification saved",
		zap.String("certification_id", saved.ID),
		zap.String("pilot_id", saved.PilotID),
		zap.String("check_code", saved.CheckCode),
		zap.String("status", status.Label),
	)
	writeJSON(w, http.StatusCreated, toCertificationDTO(*saved, status))
}

// ListExpiring returns the expiry alert groups, most critical first.
// GET /api/certifications/expiring?category=Pilot%20Medical
func (h *Handler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	records, categories, err := h.loadFleet(r.Context(), "")
	if err != nil {
		h.fail(w, r, "Failed to load certifications", err)
		return
	}
	if category := r.URL.Query().Get("category"); category != "" {
		records = filterCategory(records, category)
	}

	classifier := certification.NewClassifier(categories)
	groups := classifier.GroupByExpiry(records, today)

	resp := ExpiringResponse{
		Today:         generic.DateOf(today).String(),
		Period:        toRosterPeriodDTO(h.Calendar.Current(today)),
		TotalExpiring: groups.TotalExpiring(),
		AllClear:      groups.AllClear(),
	}
	if g, ok := groups.MostCritical(); ok {
		resp.MostCritical = string(g.ID)
	}
	for _, g := range groups.InOrder() {
		resp.Groups = append(resp.Groups, toExpiryGroupDTO(classifier, g, today))
	}

	writeJSON(w, http.StatusOK, resp)
}

func toExpiryGroupDTO(c *certification.Classifier, g *certification.ExpiryGroup, today time.Time) ExpiryGroupDTO {
	classify := func(recs []certification.Record) []CertificationDTO {
		dtos := make([]CertificationDTO, len(recs))
		for i, rec := range recs {
			dtos[i] = toCertificationDTO(rec, c.ClassifyRecord(rec, today))
		}
		return dtos
	}

	dto := ExpiryGroupDTO{
		ID:             string(g.ID),
		Count:          g.Len(),
		Certifications: classify(g.Certifications),
		ByCategory:     make([]CategoryBucketDTO, 0, len(g.Categories)),
	}
	for _, cat := range g.Categories {
		dto.ByCategory = append(dto.ByCategory, CategoryBucketDTO{
			Category:       cat,
			Certifications: classify(g.ByCategory[cat]),
		})
	}
	return dto
}

func filterCategory(records []certification.Record, category string) []certification.Record {
	var out []certification.Record
	for _, rec := range records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out
}

// GetSummary returns fleet compliance counts plus a per-pilot roll-up.
// GET /api/certifications/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	records, categories, err := h.loadFleet(r.Context(), "")
	if err != nil {
		h.fail(w, r, "Failed to load certifications", err)
		return
	}

	classifier := certification.NewClassifier(categories)
	s := classifier.Summarize(records, today)

	resp := SummaryResponse{
		Today:          generic.DateOf(today).String(),
		Total:          s.Total,
		Current:        s.Current,
		Upcoming:       s.Upcoming,
		ExpiringSoon:   s.ExpiringSoon,
		Critical:       s.Critical,
		Expired:        s.Expired,
		InGrace:        s.InGrace,
		NoDate:         s.NoDate,
		ComplianceRate: s.ComplianceRate,
		Pilots:         []PilotSummaryDTO{},
	}
	for _, ps := range classifier.PilotSummaries(records, today) {
		resp.Pilots = append(resp.Pilots, toPilotSummaryDTO(ps))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ClassifyExpiry classifies an expiry date against the stored categories.
// POST /api/certifications/classify
func (h *Handler) ClassifyExpiry(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	var req ClassifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		d, err := generic.ParseDate(req.ExpiryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiry_date (use YYYY-MM-DD)", err)
			return
		}
		expiry = &d.Time
	}

	categories, err := h.Store.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load categories", err)
		return
	}

	status := certification.NewClassifier(categories).Classify(expiry, req.Category, today)
	writeJSON(w, http.StatusOK, ClassifyResponse{
		Today:           generic.DateOf(today).String(),
		Category:        req.Category,
		GracePeriodDays: categories.GraceFor(req.Category),
		Status:          toStatusDTO(status),
	})
}

// =============================================================================
// CATEGORY HANDLERS
// =============================================================================

// ListCategories returns the check-type categories.
// GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list categories", err)
		return
	}

	dtos := []factory.CategoryJSON{}
	for _, c := range categories.List() {
		dtos = append(dtos, h.CategoryFactory.ToJSON(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCategory creates or updates a category from its JSON definition.
// POST /api/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	category, err := h.CategoryFactory.ParseCategory(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category", err)
		return
	}

	if err := h.Store.SaveCategory(r.Context(), category); err != nil {
		h.fail(w, r, "Failed to save category", err)
		return
	}

	h.Logger.Info("category saved",
		zap.String("code", category.Code),
		zap.Int("grace_period_days", category.GracePeriodDays),
	)
	writeJSON(w, http.StatusCreated, h.CategoryFactory.ToJSON(category))
}

// =============================================================================
// ALERT HANDLERS
// =============================================================================

// ListAlertRuns returns the expiry scan history, newest first.
// GET /api/alerts/runs?status=completed
func (h *Handler) ListAlertRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListAlertRuns(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, "Failed to list alert runs", err)
		return
	}

	dtos := make([]AlertRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toAlertRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TriggerAlertScan runs the expiry scan for today immediately.
// POST /api/alerts/run
func (h *Handler) TriggerAlertScan(w http.ResponseWriter, r *http.Request) {
	today, err := todayFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today parameter (use YYYY-MM-DD)", err)
		return
	}

	scanner := NewExpiryAlertScheduler(h.Store, h.Store, h.Calendar, h.Logger)
	run, err := scanner.Scan(r.Context(), today)
	if err != nil {
		h.fail(w, r, "Alert scan failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toAlertRunDTO(run))
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads and validates a JSON body, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			writeError(w, http.StatusBadRequest, "Validation failed", fields)
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// fail maps an error to its HTTP status. Only 5xx are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message,
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an ErrorResponse. details may be an error, a field map
// or nil.
func writeError(w http.ResponseWriter, status int, message string, details any) {
	resp := ErrorResponse{Error: message}
	switch d := details.(type) {
	case nil:
	case error:
		resp.Details = d.Error()
	default:
		resp.Details = d
	}
	writeJSON(w, status, resp)
}
