package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackhorse/roastery/engine"
	"github.com/blackhorse/roastery/store/sqlite"
)

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLite_LoadEmptyReturnsDefault(t *testing.T) {
	st := openTestStore(t)

	snap, err := st.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "BlackHorse Roastery", snap.Settings.CompanyName)
	assert.NotNil(t, snap.Ledger)
	assert.NotNil(t, snap.Settings.BankAccounts)
}

func TestSQLite_SaveThenLoadRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	snap := engine.DefaultSnapshot()
	snap.Warehouse = []engine.WarehouseItem{{
		ID:         "wh-1",
		Name:       "Gayo Arabica",
		StockLevel: engine.NewStockLevel(decimal.NewFromFloat(42.5), decimal.NewFromFloat(58823.53)),
		LastUpdate: engine.NewDate(2025, 3, 5),
	}}
	snap.Ledger = []engine.LedgerEntry{{
		ID:        "trx-1",
		Date:      engine.NewDate(2025, 3, 5),
		Credit:    decimal.NewFromInt(5000000),
		AccountID: engine.AccountCash,
	}}
	require.NoError(t, st.Save(ctx, snap))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)

	require.Len(t, loaded.Warehouse, 1)
	assert.True(t, loaded.Warehouse[0].StockKg.Equal(decimal.NewFromFloat(42.5)))
	assert.True(t, loaded.Warehouse[0].UnitCost.Equal(decimal.NewFromFloat(58823.53)))
	assert.Equal(t, "2025-03-05", loaded.Warehouse[0].LastUpdate.String())
	require.Len(t, loaded.Ledger, 1)
	assert.True(t, loaded.Ledger[0].Credit.Equal(decimal.NewFromInt(5000000)))
}

func TestSQLite_SaveReplacesWholesale(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := engine.DefaultSnapshot()
	first.Warehouse = []engine.WarehouseItem{{ID: "wh-1", Name: "Gayo Arabica"}}
	require.NoError(t, st.Save(ctx, first))

	second := engine.DefaultSnapshot()
	second.Warehouse = []engine.WarehouseItem{{ID: "wh-2", Name: "Java Robusta"}}
	require.NoError(t, st.Save(ctx, second))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Warehouse, 1)
	assert.Equal(t, "Java Robusta", loaded.Warehouse[0].Name)
}

func TestSQLite_LoadNormalizesOlderDocuments(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	// A snapshot saved with nil collections must come back normalized.
	var sparse engine.Snapshot
	sparse.Settings.CompanyName = "Old Books"
	require.NoError(t, st.Save(ctx, sparse))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, loaded.Warehouse)
	assert.NotNil(t, loaded.Assets)
	assert.NotNil(t, loaded.Settings.BankAccounts)
}
