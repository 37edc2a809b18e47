package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/fleet-engine/certification"
	"github.com/warp/fleet-engine/factory"
	"github.com/warp/fleet-engine/generic"
)

func TestParseCategories_FleetPresets(t *testing.T) {
	f := factory.NewCategoryFactory()

	cats, err := f.ParseCategories(factory.FleetCategoriesJSON)
	require.NoError(t, err)

	assert.Len(t, cats, 6)
	assert.Equal(t, 30, cats.GraceFor("Flight Checks"))
	assert.Equal(t, 60, cats.GraceFor("Ground Courses Refresher"))
	assert.Equal(t, 0, cats.GraceFor("Pilot Medical"))
	assert.Equal(t, "Simulator Checks", cats["Simulator Checks"].DisplayName)
}

func TestParseCategory_DerivesDisplayName(t *testing.T) {
	f := factory.NewCategoryFactory()

	cat, err := f.ParseCategory(`{"code": "ground_courses-refresher", "grace_period_days": 14}`)
	require.NoError(t, err)

	assert.Equal(t, "ground_courses-refresher", cat.Code)
	assert.Equal(t, "Ground Courses Refresher", cat.DisplayName)
	assert.Equal(t, 14, cat.GracePeriodDays)
}

func TestParseCategory_Validation(t *testing.T) {
	f := factory.NewCategoryFactory()

	cases := map[string]string{
		"missing code":   `{"grace_period_days": 3}`,
		"blank code":     `{"code": "   "}`,
		"negative grace": `{"code": "x", "grace_period_days": -1}`,
		"huge grace":     `{"code": "x", "grace_period_days": 400}`,
	}

	for name, js := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ParseCategory(js)
			assert.ErrorIs(t, err, factory.ErrInvalidCategory)
			assert.True(t, generic.IsClientError(err))
		})
	}

	_, err := f.ParseCategory(`{not json`)
	assert.Error(t, err)
}

func TestParseCategories_RejectsDuplicates(t *testing.T) {
	f := factory.NewCategoryFactory()

	_, err := f.ParseCategories(`[{"code": "a"}, {"code": " a "}]`)

	assert.ErrorIs(t, err, factory.ErrInvalidCategory)
}

func TestToJSON_RoundTrip(t *testing.T) {
	f := factory.NewCategoryFactory()
	cat := certification.Category{Code: "ID Cards", DisplayName: "ID Cards", Description: "crew id", GracePeriodDays: 5}

	back, err := f.FromJSON(f.ToJSON(cat))
	require.NoError(t, err)
	assert.Equal(t, cat, back)
}
