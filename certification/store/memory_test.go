package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/fleet-engine/certification"
	"github.com/warp/fleet-engine/certification/store"
	"github.com/warp/fleet-engine/generic"
)

func TestMemory_Certifications(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	require.NoError(t, m.SaveCertification(ctx, certification.Record{ID: "c2", PilotID: "p2", CheckCode: "LPC"}))
	require.NoError(t, m.SaveCertification(ctx, certification.Record{ID: "c1", PilotID: "p1", CheckCode: "OPC"}))
	require.NoError(t, m.SaveCertification(ctx, certification.Record{ID: "c3", PilotID: "p1", CheckCode: "MED"}))

	all, err := m.ListCertifications(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c3", "c1", "c2"}, []string{all[0].ID, all[1].ID, all[2].ID})

	p1, err := m.ListCertificationsByPilot(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, p1, 2)

	got, err := m.GetCertification(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "LPC", got.CheckCode)

	_, err = m.GetCertification(ctx, "missing")
	assert.ErrorIs(t, err, certification.ErrRecordNotFound)
	assert.True(t, generic.IsNotFound(err))
}

func TestMemory_CategoriesAreCopied(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.SaveCategory(ctx, certification.Category{Code: "Pilot Medical", GracePeriodDays: 30}))

	cats, err := m.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, cats.GraceFor("Pilot Medical"))

	delete(cats, "Pilot Medical")
	again, err := m.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 1)
}
