/*
Package engine provides the core inventory and ledger engine for the roastery.

PURPOSE:
  This package contains the pure state-transition functions that move a
  business snapshot from one consistent state to the next. Purchasing green
  beans, roasting them, blending, transferring to store stock, selling and
  recording assets all funnel through the same contract:

      Apply(snapshot, event, now) -> (snapshot', message) | error

  Every operation is all-or-nothing: it builds a working copy of the touched
  collections and only returns it on total success. The caller's snapshot is
  never mutated.

KEY CONCEPTS IN THIS FILE (types.go):
  - Date: A calendar day (ledger entries, invoices and batches are day-dated)
  - StockLevel: quantity + weighted-average cost pair shared by all inventories
  - LedgerEntry: A debit/credit line in the append-only ledger
  - The business entities: warehouse/roasted/store items, invoices, batches,
    assets, bank accounts, settings

DESIGN PRINCIPLES:
  1. Determinism: every operation takes the as-of time explicitly; there are
     no hidden clock reads inside business logic
  2. Precision: uses decimal.Decimal for all money and quantity math
  3. Explicit errors: typed, user-facing failures; nothing is fatal
  4. Wire compatibility: identifier formats and ledger categories match the
     documents the business already prints

SEE ALSO:
  - stock.go:     weighted-average intake/consume rules
  - inventory.go: purchase/roast/transfer/blend transformers
  - ledger.go:    entry recording and full balance recomputation
  - documents.go: the per-document create/update/delete flows
  - orchestrator.go: the single Apply entry point
*/
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE - Calendar day
// =============================================================================

// Date is a calendar day. All documents in the system are day-dated; times of
// day only matter for id generation, never for business rules.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar day (UTC).
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses an ISO "2006-01-02" day string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

func (d Date) Time() time.Time    { return d.t }
func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) String() string     { return d.t.Format("2006-01-02") }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// AccountCash is the implicit cash account id. Bank accounts use their own
// record ids; everything else in the ledger posts here.
const AccountCash = "cash"

// NewID builds a prefix-timestamp record id ("pur-1712345678901").
// The formats are wire-compatible with the documents the business already has,
// so the prefixes are kept stable.
func NewID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d", prefix, now.UnixMilli())
}

// NewItemID builds an item id carrying a slug of the item name
// ("wh-gayo-arabica-1712345678901").
func NewItemID(prefix, name string, now time.Time) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	return fmt.Sprintf("%s-%s-%d", prefix, slug, now.UnixMilli())
}

// =============================================================================
// LEDGER CATEGORIES - Closed set, Indonesian labels kept for compatibility
// =============================================================================

type LedgerCategory string

const (
	CategoryRawMaterialPurchase LedgerCategory = "Pembelian Bahan Baku"
	CategorySalesRevenue        LedgerCategory = "Pendapatan Penjualan"
	CategoryCOGS                LedgerCategory = "Beban Pokok Penjualan"
	CategoryAssetPurchase       LedgerCategory = "Pembelian Aset"
	CategoryInternalProduction  LedgerCategory = "Produksi Internal"
	CategoryOperatingExpense    LedgerCategory = "Pengeluaran Operasional"
)

// =============================================================================
// PAYMENT STATUS
// =============================================================================

type PaymentStatus string

const (
	StatusDraft   PaymentStatus = "Draft"
	StatusSent    PaymentStatus = "Sent"
	StatusPaid    PaymentStatus = "Paid"
	StatusLunas   PaymentStatus = "Lunas"
	StatusOverdue PaymentStatus = "Overdue"
)

// Settled reports whether the invoice counts as paid. "Lunas" is the legacy
// label for the same state and both appear in existing data.
func (p PaymentStatus) Settled() bool {
	return p == StatusPaid || p == StatusLunas
}

func (p PaymentStatus) Valid() bool {
	switch p {
	case StatusDraft, StatusSent, StatusPaid, StatusLunas, StatusOverdue:
		return true
	}
	return false
}

// =============================================================================
// ASSET CATEGORY
// =============================================================================

type AssetCategory string

const (
	AssetFixed   AssetCategory = "fixed"
	AssetCurrent AssetCategory = "current"
)

// Is compares categories case-insensitively; stored data mixes cases.
func (c AssetCategory) Is(other AssetCategory) bool {
	return strings.EqualFold(string(c), string(other))
}

// =============================================================================
// STOCK LEVEL - Quantity with weighted-average cost (see stock.go for rules)
// =============================================================================

// StockLevel is the quantity/cost/value triple every inventory item carries.
// Invariant: TotalValue == StockKg * UnitCost (within rounding).
type StockLevel struct {
	StockKg    decimal.Decimal `json:"stockKg"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// =============================================================================
// INVENTORY ITEMS
// =============================================================================

// WarehouseItem is a green-bean lot in the warehouse, keyed by bean name.
type WarehouseItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	StockLevel
	LastUpdate Date `json:"lastUpdate"`
}

// RoastedItem is finished roasted output, keyed by "<bean> - <profile>".
type RoastedItem struct {
	ID       string `json:"id"`
	Product  string `json:"product"`
	Category string `json:"category"`
	StockLevel
	SellPrice decimal.Decimal `json:"sellPrice"`
}

// StoreItem is sellable stock in the store, keyed by product name.
type StoreItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	StockLevel
	SellPrice decimal.Decimal `json:"sellPrice"`
}

// CategoryRoastedBeans is the default category for roasted output;
// blends get CategoryBlend.
const (
	CategoryRoastedBeans = "Roasted Beans"
	CategoryBlend        = "Blend"
)

// =============================================================================
// DOCUMENTS
// =============================================================================

// LineItem is one row of a purchase or sales invoice.
type LineItem struct {
	Name  string          `json:"name"`
	Qty   decimal.Decimal `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// Total returns qty * price.
func (li LineItem) Total() decimal.Decimal { return li.Qty.Mul(li.Price) }

// SumLineItems totals an invoice.
func SumLineItems(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.Total())
	}
	return sum
}

type PurchaseInvoice struct {
	ID               string          `json:"id"`
	Number           string          `json:"number"` // "FP-..." on printed documents
	Supplier         string          `json:"supplier"`
	Date             Date            `json:"date"`
	Total            decimal.Decimal `json:"total"`
	Status           string          `json:"status"`
	Items            []LineItem      `json:"items"`
	PaymentAccountID string          `json:"paymentAccountId"` // "cash" or bank account id
}

type SalesInvoice struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"` // "INV-001" sequential
	Customer      string          `json:"customer"`
	Date          Date            `json:"date"`
	DueDate       Date            `json:"dueDate"`
	Total         decimal.Decimal `json:"total"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Items         []LineItem      `json:"items"`
}

type RoastingBatch struct {
	ID           string          `json:"id"`
	BatchID      string          `json:"batchId"` // "RB-..." on the roast log
	Date         Date            `json:"date"`
	GreenBeans   string          `json:"greenBeans"`
	InputKg      decimal.Decimal `json:"inputKg"`
	OutputKg     decimal.Decimal `json:"outputKg"`
	YieldPercent decimal.Decimal `json:"yieldPercent"`
	Profile      string          `json:"profile"`
	UnitCost     decimal.Decimal `json:"unitCost"` // HPP per kg of output
	SellPrice    decimal.Decimal `json:"sellPrice"`
	Status       string          `json:"status"`
}

// =============================================================================
// LEDGER ENTRY
// =============================================================================

// LedgerEntry is one line in the append-only ledger. Exactly one of
// Debit/Credit is normally positive; both may be zero for informational
// entries (internal production).
type LedgerEntry struct {
	ID          string          `json:"id"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"` // document number, not internal id
	Category    LedgerCategory  `json:"category"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	AccountID   string          `json:"accountId"` // "cash" or bank account id
}

// =============================================================================
// ASSETS & BANK ACCOUNTS
// =============================================================================

type Asset struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Category           AssetCategory   `json:"category"`
	AcquiredOn         Date            `json:"acquiredOn"`
	Value              decimal.Decimal `json:"value"` // acquisition value
	AnnualDepreciation decimal.Decimal `json:"annualDepreciation"`

	// BankAccountID tags the synthetic asset created alongside a bank account.
	// Balance-sheet aggregation must skip these to avoid double counting the
	// bank's own tracked balance.
	BankAccountID string `json:"bankAccountId,omitempty"`
}

// Synthetic reports whether this asset mirrors a bank account.
func (a Asset) Synthetic() bool { return a.BankAccountID != "" }

type BankAccount struct {
	ID            string          `json:"id"`
	AccountName   string          `json:"accountName"`
	AccountNumber string          `json:"accountNumber"`
	BankName      string          `json:"bankName"`
	Balance       decimal.Decimal `json:"balance"` // opening balance, seeds folding
}

// =============================================================================
// SETTINGS
// =============================================================================

type Settings struct {
	CompanyName       string          `json:"companyName"`
	CompanyAddress    string          `json:"companyAddress,omitempty"`
	CompanyLogo       string          `json:"companyLogo,omitempty"`
	InvoiceNotes      string          `json:"invoiceNotes,omitempty"`
	LowStockThreshold decimal.Decimal `json:"lowStockThreshold"`
	InitialCapital    decimal.Decimal `json:"initialCapital"`
	BankAccounts      []BankAccount   `json:"bankAccounts"`
}
