/*
snapshot.go - The self-contained business record

PURPOSE:
  A Snapshot holds every stored collection: the three inventories, documents,
  ledger and settings. It is the unit of persistence (whole-document
  load/save) and the unit of atomicity (operations return a complete new
  snapshot or nothing).

  Refresh() derives the read-side values that are never stored: account
  balances, the aggregate current balance, the next document numbers, and
  date-descending views of the document lists.
*/
package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SNAPSHOT
// =============================================================================

type Snapshot struct {
	Warehouse        []WarehouseItem   `json:"warehouse"`
	RoastingBatches  []RoastingBatch   `json:"roastingBatches"`
	RoastedInventory []RoastedItem     `json:"roastedInventory"`
	StoreInventory   []StoreItem       `json:"storeInventory"`
	SalesInvoices    []SalesInvoice    `json:"salesInvoices"`
	PurchaseInvoices []PurchaseInvoice `json:"purchaseInvoices"`
	Ledger           []LedgerEntry     `json:"ledger"`
	Assets           []Asset           `json:"assets"`
	Settings         Settings          `json:"settings"`
}

// DefaultSnapshot is the documented empty state used when nothing has been
// persisted yet.
func DefaultSnapshot() Snapshot {
	s := Snapshot{
		Settings: Settings{
			CompanyName:       "BlackHorse Roastery",
			LowStockThreshold: decimal.NewFromInt(10),
			InitialCapital:    decimal.Zero,
		},
	}
	s.Normalize()
	return s
}

// Normalize fills optional collections left nil by older stored documents.
func (s *Snapshot) Normalize() {
	if s.Warehouse == nil {
		s.Warehouse = []WarehouseItem{}
	}
	if s.RoastingBatches == nil {
		s.RoastingBatches = []RoastingBatch{}
	}
	if s.RoastedInventory == nil {
		s.RoastedInventory = []RoastedItem{}
	}
	if s.StoreInventory == nil {
		s.StoreInventory = []StoreItem{}
	}
	if s.SalesInvoices == nil {
		s.SalesInvoices = []SalesInvoice{}
	}
	if s.PurchaseInvoices == nil {
		s.PurchaseInvoices = []PurchaseInvoice{}
	}
	if s.Ledger == nil {
		s.Ledger = []LedgerEntry{}
	}
	if s.Assets == nil {
		s.Assets = []Asset{}
	}
	if s.Settings.BankAccounts == nil {
		s.Settings.BankAccounts = []BankAccount{}
	}
}

// Clone deep-copies the snapshot, including invoice line items, so document
// operations can work on a throwaway copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Warehouse = append([]WarehouseItem(nil), s.Warehouse...)
	out.RoastingBatches = append([]RoastingBatch(nil), s.RoastingBatches...)
	out.RoastedInventory = append([]RoastedItem(nil), s.RoastedInventory...)
	out.StoreInventory = append([]StoreItem(nil), s.StoreInventory...)
	out.Ledger = append([]LedgerEntry(nil), s.Ledger...)
	out.Assets = append([]Asset(nil), s.Assets...)
	out.Settings.BankAccounts = append([]BankAccount(nil), s.Settings.BankAccounts...)

	out.SalesInvoices = make([]SalesInvoice, len(s.SalesInvoices))
	for i, inv := range s.SalesInvoices {
		inv.Items = append([]LineItem(nil), inv.Items...)
		out.SalesInvoices[i] = inv
	}
	out.PurchaseInvoices = make([]PurchaseInvoice, len(s.PurchaseInvoices))
	for i, inv := range s.PurchaseInvoices {
		inv.Items = append([]LineItem(nil), inv.Items...)
		out.PurchaseInvoices[i] = inv
	}
	return out
}

// =============================================================================
// NEXT DOCUMENT NUMBERS - Derived, never stored
// =============================================================================

type NextIDs struct {
	PurchaseInvoice string `json:"purchaseInvoice"`
	RoastingBatch   string `json:"roastingBatch"`
	SalesInvoice    string `json:"salesInvoice"`
}

// NextIDs derives the next document numbers. Sales invoices continue the
// highest existing INV-### sequence; purchase and roast numbers fall back to
// timestamps, matching the documents already in circulation.
func (s Snapshot) NextIDs(now time.Time) NextIDs {
	return NextIDs{
		PurchaseInvoice: NewID("FP", now),
		RoastingBatch:   NewID("RB", now),
		SalesInvoice:    nextSalesNumber(s.SalesInvoices),
	}
}

func nextSalesNumber(invoices []SalesInvoice) string {
	max := 0
	for _, inv := range invoices {
		if !strings.HasPrefix(inv.Number, "INV-") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(inv.Number, "INV-"))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("INV-%03d", max+1)
}

// =============================================================================
// REFRESHED VIEW - Snapshot plus derived read-side values
// =============================================================================

// View is what read-only collaborators (reports, printing) consume. Document
// lists are sorted newest first; the stored snapshot keeps insertion order.
type View struct {
	Snapshot
	AccountBalances map[string]decimal.Decimal `json:"accountBalances"`
	CurrentBalance  decimal.Decimal            `json:"currentBalance"`
	NextIDs         NextIDs                    `json:"nextIds"`
}

// Refresh computes the derived view. Balances are always a full fold over
// the ledger; nothing here is cached or incremental.
func (s Snapshot) Refresh(now time.Time) View {
	c := s.Clone()
	c.Normalize()

	sort.SliceStable(c.Ledger, func(i, j int) bool {
		return c.Ledger[i].Date.After(c.Ledger[j].Date)
	})
	sort.SliceStable(c.SalesInvoices, func(i, j int) bool {
		return c.SalesInvoices[i].Date.After(c.SalesInvoices[j].Date)
	})
	sort.SliceStable(c.PurchaseInvoices, func(i, j int) bool {
		return c.PurchaseInvoices[i].Date.After(c.PurchaseInvoices[j].Date)
	})
	sort.SliceStable(c.RoastingBatches, func(i, j int) bool {
		return c.RoastingBatches[i].Date.After(c.RoastingBatches[j].Date)
	})

	balances := RecomputeBalances(s.Ledger, s.Settings)
	return View{
		Snapshot:        c,
		AccountBalances: balances,
		CurrentBalance:  TotalBalance(balances),
		NextIDs:         s.NextIDs(now),
	}
}

// =============================================================================
// PERSISTENCE COLLABORATOR
// =============================================================================

// SnapshotStore is the whole-document persistence contract. Load returns the
// default snapshot when nothing exists yet; there are no partial updates.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}
