/*
Package factory provides JSON to Go conversion for certification reference data.

PURPOSE:
  Converts JSON category definitions (check-type categories and their grace
  periods) into certification.Category values. Fleet admins maintain the
  grace periods as data; the classifier only ever sees the parsed result.

JSON SCHEMA:
  {
    "code": "Pilot Medical",
    "display_name": "Pilot Medical",
    "description": "Class 1 aviation medical",
    "grace_period_days": 0
  }

  A list of categories is a JSON array of the same objects.

KEY FEATURES:
  - Validates code and grace-period range
  - Derives a title-cased display name when none is given
  - Round-trips through ToJSON for the admin API

USAGE:
  f := factory.NewCategoryFactory()
  cats, err := f.ParseCategories(factory.FleetCategoriesJSON)
  classifier := certification.NewClassifier(cats)

SEE ALSO:
  - certification/types.go: Category, Categories
  - api/scenarios.go: demo fleets seeded from these presets
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/warp/fleet-engine/certification"
	"github.com/warp/fleet-engine/generic"
)

// MaxGracePeriodDays bounds grace periods accepted from JSON.
const MaxGracePeriodDays = 365

// ErrInvalidCategory is returned for categories that fail validation.
var ErrInvalidCategory = generic.NewValidationError("invalid certification category")

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CategoryJSON is the JSON representation of a category.
type CategoryJSON struct {
	Code            string `json:"code"`
	DisplayName     string `json:"display_name,omitempty"`
	Description     string `json:"description,omitempty"`
	GracePeriodDays int    `json:"grace_period_days"`
}

// =============================================================================
// FACTORY
// =============================================================================

// CategoryFactory parses category JSON.
type CategoryFactory struct {
	lang language.Tag
}

func NewCategoryFactory() *CategoryFactory {
	return &CategoryFactory{lang: language.English}
}

// ParseCategory parses one category object.
func (f *CategoryFactory) ParseCategory(jsonStr string) (certification.Category, error) {
	var cj CategoryJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return certification.Category{}, fmt.Errorf("failed to parse category JSON: %w", err)
	}
	return f.FromJSON(cj)
}

// ParseCategories parses a JSON array of categories. Duplicate codes are rejected.
func (f *CategoryFactory) ParseCategories(jsonStr string) (certification.Categories, error) {
	var list []CategoryJSON
	if err := json.Unmarshal([]byte(jsonStr), &list); err != nil {
		return nil, fmt.Errorf("failed to parse categories JSON: %w", err)
	}

	cats := make(certification.Categories, len(list))
	for _, cj := range list {
		cat, err := f.FromJSON(cj)
		if err != nil {
			return nil, err
		}
		if _, dup := cats[cat.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %q", ErrInvalidCategory, cat.Code)
		}
		cats[cat.Code] = cat
	}
	return cats, nil
}

// FromJSON validates and converts a CategoryJSON.
func (f *CategoryFactory) FromJSON(cj CategoryJSON) (certification.Category, error) {
	code := strings.TrimSpace(cj.Code)
	if code == "" {
		return certification.Category{}, fmt.Errorf("%w: code is required", ErrInvalidCategory)
	}
	if cj.GracePeriodDays < 0 || cj.GracePeriodDays > MaxGracePeriodDays {
		return certification.Category{}, fmt.Errorf("%w: grace_period_days %d outside 0..%d",
			ErrInvalidCategory, cj.GracePeriodDays, MaxGracePeriodDays)
	}

	display := strings.TrimSpace(cj.DisplayName)
	if display == "" {
		display = f.DisplayName(code)
	}

	return certification.Category{
		Code:            code,
		DisplayName:     display,
		Description:     strings.TrimSpace(cj.Description),
		GracePeriodDays: cj.GracePeriodDays,
	}, nil
}

// ToJSON converts a category back to its JSON form.
func (f *CategoryFactory) ToJSON(cat certification.Category) CategoryJSON {
	return CategoryJSON{
		Code:            cat.Code,
		DisplayName:     cat.DisplayName,
		Description:     cat.Description,
		GracePeriodDays: cat.GracePeriodDays,
	}
}

// DisplayName turns a code like "ground_courses-refresher" into "Ground Courses Refresher".
func (f *CategoryFactory) DisplayName(code string) string {
	words := strings.FieldsFunc(code, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	// Casers carry state, so each call gets its own.
	return cases.Title(f.lang).String(strings.Join(words, " "))
}
