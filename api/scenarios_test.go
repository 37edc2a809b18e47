package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_EverySeedLoads(t *testing.T) {
	for _, sc := range scenarios {
		t.Run(sc.ID, func(t *testing.T) {
			s := newTestServer(t)

			s.loadScenario(sc.ID)

			seed := scenarioSeeds[sc.ID]
			pilots, err := s.handler.Store.ListPilots(context.Background())
			require.NoError(t, err)
			assert.Len(t, pilots, len(seed.Pilots))

			certs, err := s.handler.Store.ListCertifications(context.Background())
			require.NoError(t, err)
			assert.Len(t, certs, len(seed.Checks))
		})
	}
}

func TestScenarios_ListAndCurrent(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]ScenarioDTO](t, rec), len(scenarios))

	rec = s.do(http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "null", string(trimNewline(rec.Body.Bytes())))

	s.loadScenario("grace-period")

	rec = s.do(http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "grace-period", decodeBody[ScenarioDTO](t, rec).ID)
}

func TestScenarios_ReloadReplacesData(t *testing.T) {
	s := newTestServer(t)
	s.loadScenario("fleet-overview")
	s.loadScenario("missing-dates")

	certs, err := s.handler.Store.ListCertifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, certs, len(scenarioSeeds["missing-dates"].Checks))

	cats, err := s.handler.Store.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 6, "categories are re-seeded after reset")
}

func TestScenarios_UnknownAndReset(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "moon-base"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.loadScenario("all-clear")
	rec = s.do(http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	pilots, err := s.handler.Store.ListPilots(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pilots)

	rec = s.do(http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "null", string(trimNewline(rec.Body.Bytes())))
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
