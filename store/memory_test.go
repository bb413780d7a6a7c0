package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackhorse/roastery/engine"
	"github.com/blackhorse/roastery/store"
)

func TestMemory_LoadEmptyReturnsDefault(t *testing.T) {
	m := store.NewMemory()

	snap, err := m.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "BlackHorse Roastery", snap.Settings.CompanyName)
	assert.NotNil(t, snap.Warehouse)
}

func TestMemory_SaveThenLoad(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	snap := engine.DefaultSnapshot()
	snap.Warehouse = []engine.WarehouseItem{{
		ID:         "wh-1",
		Name:       "Gayo Arabica",
		StockLevel: engine.NewStockLevel(decimal.NewFromInt(100), decimal.NewFromInt(50000)),
	}}
	require.NoError(t, m.Save(ctx, snap))

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Warehouse, 1)
	assert.True(t, loaded.Warehouse[0].StockKg.Equal(decimal.NewFromInt(100)))
}

func TestMemory_LoadIsACopy(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	snap := engine.DefaultSnapshot()
	snap.Warehouse = []engine.WarehouseItem{{ID: "wh-1", Name: "Gayo Arabica"}}
	require.NoError(t, m.Save(ctx, snap))

	first, err := m.Load(ctx)
	require.NoError(t, err)
	first.Warehouse[0].Name = "changed"

	second, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Gayo Arabica", second.Warehouse[0].Name, "callers must not share slices")
}
