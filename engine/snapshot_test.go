package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackhorse/roastery/engine"
)

// =============================================================================
// NORMALIZE & CLONE
// =============================================================================

func TestNormalize_FillsNilCollections(t *testing.T) {
	var s engine.Snapshot
	s.Normalize()

	assert.NotNil(t, s.Warehouse)
	assert.NotNil(t, s.RoastingBatches)
	assert.NotNil(t, s.RoastedInventory)
	assert.NotNil(t, s.StoreInventory)
	assert.NotNil(t, s.SalesInvoices)
	assert.NotNil(t, s.PurchaseInvoices)
	assert.NotNil(t, s.Ledger)
	assert.NotNil(t, s.Assets)
	assert.NotNil(t, s.Settings.BankAccounts)
}

func TestClone_IsIndependent(t *testing.T) {
	s := engine.DefaultSnapshot()
	s.PurchaseInvoices = []engine.PurchaseInvoice{{
		ID:    "pur-1",
		Items: []engine.LineItem{{Name: "Gayo", Qty: dec(10), Price: dec(50000)}},
	}}
	s.Warehouse = []engine.WarehouseItem{{ID: "wh-1", Name: "Gayo"}}

	c := s.Clone()
	c.Warehouse[0].Name = "changed"
	c.PurchaseInvoices[0].Items[0].Name = "changed"
	c.Ledger = append(c.Ledger, engine.LedgerEntry{ID: "trx-1"})

	assert.Equal(t, "Gayo", s.Warehouse[0].Name)
	assert.Equal(t, "Gayo", s.PurchaseInvoices[0].Items[0].Name, "line items are deep-copied")
	assert.Len(t, s.Ledger, 0)
}

// =============================================================================
// NEXT DOCUMENT NUMBERS
// =============================================================================

func TestNextIDs_SalesSequenceContinues(t *testing.T) {
	s := engine.DefaultSnapshot()
	s.SalesInvoices = []engine.SalesInvoice{
		{Number: "INV-003"},
		{Number: "INV-012"},
		{Number: "QUOTE-99"}, // foreign numbering is ignored
		{Number: "INV-bad"},  // unparseable suffix is ignored
	}

	ids := s.NextIDs(testNow)

	assert.Equal(t, "INV-013", ids.SalesInvoice)
	assert.Contains(t, ids.PurchaseInvoice, "FP-")
	assert.Contains(t, ids.RoastingBatch, "RB-")
}

func TestNextIDs_EmptyStartsAtOne(t *testing.T) {
	ids := engine.DefaultSnapshot().NextIDs(testNow)

	assert.Equal(t, "INV-001", ids.SalesInvoice)
}

// =============================================================================
// REFRESH
// =============================================================================

func TestRefresh_SortsNewestFirstAndDerivesBalances(t *testing.T) {
	s := engine.DefaultSnapshot()
	s.Settings.InitialCapital = dec(1000000)
	s.Ledger = []engine.LedgerEntry{
		{ID: "trx-1", Date: day(2025, 3, 1), Debit: dec(100)},
		{ID: "trx-2", Date: day(2025, 3, 5), Credit: dec(40)},
		{ID: "trx-3", Date: day(2025, 3, 3), Debit: dec(10)},
	}
	s.SalesInvoices = []engine.SalesInvoice{
		{ID: "sale-1", Date: day(2025, 3, 1)},
		{ID: "sale-2", Date: day(2025, 3, 9)},
	}

	v := s.Refresh(testNow)

	assert.Equal(t, "trx-2", v.Ledger[0].ID)
	assert.Equal(t, "trx-1", v.Ledger[2].ID)
	assert.Equal(t, "sale-2", v.SalesInvoices[0].ID)

	assertDecEqual(t, dec(1000070), v.AccountBalances[engine.AccountCash])
	assertDecEqual(t, engine.TotalBalance(v.AccountBalances), v.CurrentBalance)

	// The stored snapshot keeps insertion order.
	assert.Equal(t, "trx-1", s.Ledger[0].ID)
}

// =============================================================================
// JSON ROUND TRIP - The persistence wire format
// =============================================================================

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	s := engine.DefaultSnapshot()
	s.Warehouse = []engine.WarehouseItem{{
		ID:         "wh-1",
		Name:       "Gayo Arabica",
		StockLevel: engine.NewStockLevel(dec(42.5), dec(58823.53)),
		LastUpdate: day(2025, 3, 5),
	}}
	s.Ledger = []engine.LedgerEntry{{
		ID: "trx-1", Date: day(2025, 3, 5), Credit: dec(5000000), AccountID: engine.AccountCash,
	}}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var back engine.Snapshot
	require.NoError(t, json.Unmarshal(raw, &back))

	assert.True(t, back.Warehouse[0].StockKg.Equal(dec(42.5)))
	assert.True(t, back.Warehouse[0].UnitCost.Equal(dec(58823.53)))
	assert.Equal(t, day(2025, 3, 5), back.Warehouse[0].LastUpdate)
	assert.True(t, back.Ledger[0].Credit.Equal(dec(5000000)))
}

func TestDate_JSON(t *testing.T) {
	raw, err := json.Marshal(day(2025, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-05"`, string(raw))

	var d engine.Date
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero(), "empty string decodes to the zero date")

	require.NoError(t, json.Unmarshal([]byte(`"2025-03-05"`), &d))
	assert.Equal(t, "2025-03-05", d.String())
}
