/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's types (roster.RosterPeriod, certification.Status, ...) from
  the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Roster:
    RosterPeriodDTO, RosterPeriodResponse, PeriodOptionsResponse

  Certifications:
    StatusDTO, CertificationDTO, SaveCertificationRequest, ClassifyRequest

  Dashboard:
    ExpiryGroupDTO, ExpiringResponse, SummaryResponse, PilotSummaryDTO

  Pilots:
    PilotDTO, CreatePilotRequest, PilotCertificationsResponse

  Alerts:
    AlertRunDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Request types carry go-playground/validator tags. Handlers call
  h.validate.Struct(req) before touching the store.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/category.go: CategoryJSON is served as-is
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/fleet-engine/certification"
	"github.com/warp/fleet-engine/generic"
	"github.com/warp/fleet-engine/roster"
	"github.com/warp/fleet-engine/store/sqlite"
)

// =============================================================================
// ROSTER
// =============================================================================

// RosterPeriodDTO represents a roster period in API responses.
type RosterPeriodDTO struct {
	Code          string `json:"code"`
	DisplayCode   string `json:"display_code"`
	Number        int    `json:"number"`
	Year          int    `json:"year"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DaysRemaining int    `json:"days_remaining"`
	IsPast        bool   `json:"is_past"`
}

// RosterPeriodResponse wraps a single period lookup. Fallback is set when the
// requested code was malformed and the current period was returned instead.
type RosterPeriodResponse struct {
	Period   RosterPeriodDTO `json:"period"`
	Fallback bool            `json:"fallback,omitempty"`
}

// PeriodOptionsResponse feeds the period selector.
type PeriodOptionsResponse struct {
	Center  RosterPeriodDTO   `json:"center"`
	Options []RosterPeriodDTO `json:"options"`
}

// =============================================================================
// CERTIFICATIONS
// =============================================================================

// StatusDTO is a classified certification status.
type StatusDTO struct {
	Label           string `json:"label"`
	Color           string `json:"color"`
	DaysUntilExpiry *int   `json:"days_until_expiry"`
	InGracePeriod   bool   `json:"in_grace_period"`
	Countdown       string `json:"countdown"`
	Severity        int    `json:"severity"`
}

// CertificationDTO represents a certification record with its status.
type CertificationDTO struct {
	ID               string    `json:"id"`
	PilotID          string    `json:"pilot_id"`
	PilotName        string    `json:"pilot_name,omitempty"`
	CheckCode        string    `json:"check_code"`
	CheckDescription string    `json:"check_description,omitempty"`
	Category         string    `json:"category"`
	ExpiryDate       *string   `json:"expiry_date"`
	Status           StatusDTO `json:"status"`
}

// SaveCertificationRequest creates or updates a certification record.
// An empty ID creates a new record.
type SaveCertificationRequest struct {
	ID               string `json:"id" validate:"omitempty,max=64"`
	PilotID          string `json:"pilot_id" validate:"required,max=64"`
	CheckCode        string `json:"check_code" validate:"required,max=32"`
	CheckDescription string `json:"check_description" validate:"max=200"`
	Category         string `json:"category" validate:"required,max=64"`
	ExpiryDate       string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

// ClassifyRequest classifies an expiry date without storing anything.
type ClassifyRequest struct {
	ExpiryDate string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	Category   string `json:"category" validate:"max=64"`
}

// ClassifyResponse is the result of an ad-hoc classification.
type ClassifyResponse struct {
	Today           string    `json:"today"`
	Category        string    `json:"category,omitempty"`
	GracePeriodDays int       `json:"grace_period_days"`
	Status          StatusDTO `json:"status"`
}

// =============================================================================
// DASHBOARD
// =============================================================================

// CategoryBucketDTO is one category inside an expiry group.
type CategoryBucketDTO struct {
	Category       string             `json:"category"`
	Certifications []CertificationDTO `json:"certifications"`
}

// ExpiryGroupDTO is one alert window.
type ExpiryGroupDTO struct {
	ID             string              `json:"id"`
	Count          int                 `json:"count"`
	Certifications []CertificationDTO  `json:"certifications"`
	ByCategory     []CategoryBucketDTO `json:"by_category"`
}

// ExpiringResponse is the expiry dashboard.
type ExpiringResponse struct {
	Today         string           `json:"today"`
	Period        RosterPeriodDTO  `json:"period"`
	Groups        []ExpiryGroupDTO `json:"groups"`
	TotalExpiring int              `json:"total_expiring"`
	AllClear      bool             `json:"all_clear"`
	MostCritical  string           `json:"most_critical,omitempty"`
}

// PilotSummaryDTO is a pilot's worst certification status.
type PilotSummaryDTO struct {
	PilotID        string    `json:"pilot_id"`
	PilotName      string    `json:"pilot_name"`
	Worst          StatusDTO `json:"worst"`
	Certifications int       `json:"certifications"`
	Expired        int       `json:"expired"`
	Attention      int       `json:"attention"`
}

// SummaryResponse is the fleet compliance summary.
type SummaryResponse struct {
	Today          string            `json:"today"`
	Total          int               `json:"total"`
	Current        int               `json:"current"`
	Upcoming       int               `json:"upcoming"`
	ExpiringSoon   int               `json:"expiring_soon"`
	Critical       int               `json:"critical"`
	Expired        int               `json:"expired"`
	InGrace        int               `json:"in_grace"`
	NoDate         int               `json:"no_date"`
	ComplianceRate decimal.Decimal   `json:"compliance_rate"`
	Pilots         []PilotSummaryDTO `json:"pilots"`
}

// =============================================================================
// PILOTS
// =============================================================================

// PilotDTO represents a pilot in API responses.
type PilotDTO struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Rank        string `json:"rank"`
	DisplayName string `json:"display_name"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreatePilotRequest is the request to create a pilot.
type CreatePilotRequest struct {
	ID         string `json:"id" validate:"omitempty,max=64"`
	EmployeeID string `json:"employee_id" validate:"required,max=32"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Rank       string `json:"rank" validate:"required,max=40"`
	Active     *bool  `json:"active"`
}

// PilotCertificationsResponse is a pilot's certifications, most urgent first.
type PilotCertificationsResponse struct {
	Pilot          PilotDTO           `json:"pilot"`
	Summary        *PilotSummaryDTO   `json:"summary,omitempty"`
	Certifications []CertificationDTO `json:"certifications"`
}

// =============================================================================
// ALERTS
// =============================================================================

// AlertRunDTO represents a daily expiry scan.
type AlertRunDTO struct {
	ID            string  `json:"id"`
	RunDate       string  `json:"run_date"`
	PeriodCode    string  `json:"period_code"`
	Status        string  `json:"status"`
	TotalExpiring int     `json:"total_expiring"`
	Expired       int     `json:"expired"`
	Within14Days  int     `json:"within_14_days"`
	Error         string  `json:"error,omitempty"`
	StartedAt     *string `json:"started_at,omitempty"`
	CompletedAt   *string `json:"completed_at,omitempty"`
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toRosterPeriodDTO(p roster.RosterPeriod) RosterPeriodDTO {
	return RosterPeriodDTO{
		Code:          p.Code,
		DisplayCode:   p.DisplayCode(),
		Number:        p.Number,
		Year:          p.Year,
		StartDate:     p.StartDate.String(),
		EndDate:       p.EndDate.String(),
		DaysRemaining: p.DaysRemaining,
		IsPast:        p.IsPast(),
	}
}

func toRosterPeriodDTOs(periods []roster.RosterPeriod) []RosterPeriodDTO {
	dtos := make([]RosterPeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toRosterPeriodDTO(p)
	}
	return dtos
}

func toStatusDTO(s certification.Status) StatusDTO {
	return StatusDTO{
		Label:           s.Label,
		Color:           string(s.Color),
		DaysUntilExpiry: s.DaysUntilExpiry,
		InGracePeriod:   s.InGracePeriod,
		Countdown:       s.Countdown,
		Severity:        s.Severity,
	}
}

func toCertificationDTO(rec certification.Record, status certification.Status) CertificationDTO {
	dto := CertificationDTO{
		ID:               rec.ID,
		PilotID:          rec.PilotID,
		PilotName:        rec.PilotDisplayName,
		CheckCode:        rec.CheckCode,
		CheckDescription: rec.CheckDescription,
		Category:         rec.Category,
		Status:           toStatusDTO(status),
	}
	if rec.ExpiryDate != nil {
		s := generic.DateOf(*rec.ExpiryDate).String()
		dto.ExpiryDate = &s
	}
	return dto
}

func toPilotSummaryDTO(ps certification.PilotSummary) PilotSummaryDTO {
	return PilotSummaryDTO{
		PilotID:        ps.PilotID,
		PilotName:      ps.PilotDisplayName,
		Worst:          toStatusDTO(ps.Worst),
		Certifications: ps.Certifications,
		Expired:        ps.Expired,
		Attention:      ps.Attention,
	}
}

func toPilotDTO(p sqlite.Pilot) PilotDTO {
	dto := PilotDTO{
		ID:          p.ID,
		EmployeeID:  p.EmployeeID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Rank:        p.Rank,
		DisplayName: p.DisplayName(),
		Active:      p.Active,
	}
	if !p.CreatedAt.IsZero() {
		dto.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toAlertRunDTO(r sqlite.AlertRun) AlertRunDTO {
	dto := AlertRunDTO{
		ID:            r.ID,
		RunDate:       r.RunDate.String(),
		PeriodCode:    r.PeriodCode,
		Status:        r.Status,
		TotalExpiring: r.TotalExpiring,
		Expired:       r.Expired,
		Within14Days:  r.Within14Days,
		Error:         r.Error,
	}
	if r.StartedAt != nil {
		s := r.StartedAt.Format(time.RFC3339)
		dto.StartedAt = &s
	}
	if r.CompletedAt != nil {
		s := r.CompletedAt.Format(time.RFC3339)
		dto.CompletedAt = &s
	}
	return dto
}
