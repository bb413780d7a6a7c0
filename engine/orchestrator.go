/*
orchestrator.go - The single entry point

PURPOSE:
  Apply(snapshot, event, now) validates the event, delegates to the document
  flow in documents.go, and returns the complete next snapshot plus a
  human-readable success message - or a typed error and no snapshot. No
  partial application: a failure anywhere discards every in-progress
  mutation because the flows only ever touch working copies.

  Event ordering is caller-determined. The caller issues one event at a
  time, persists the returned snapshot, then issues the next; nothing here
  provides isolation for concurrent callers.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EVENTS - One descriptor per operation
// =============================================================================

// Event is the discriminated input to Apply. Each variant carries validated
// primitive fields; the snapshot travels alongside, never inside.
type Event interface {
	eventName() string
}

type CreatePurchase struct {
	Number           string
	Supplier         string
	Date             Date
	Items            []LineItem
	PaymentAccountID string
}

type UpdatePurchase struct {
	InvoiceID        string
	Number           string
	Supplier         string
	Date             Date
	Items            []LineItem
	PaymentAccountID string
}

type DeletePurchase struct {
	InvoiceID string
}

type CreateRoastingBatch struct {
	BatchID      string
	Date         Date
	GreenBeans   string
	InputKg      decimal.Decimal
	YieldPercent decimal.Decimal
	Profile      string
}

type TransferToStore struct {
	ItemIDs []string
}

type CreateBlend struct {
	Name       string
	TotalQty   decimal.Decimal
	Components []BlendComponent
}

type CreateSale struct {
	Number        string
	Customer      string
	Date          Date
	DueDate       Date
	PaymentStatus PaymentStatus
	Items         []LineItem
}

type CreateAsset struct {
	Name               string
	Category           AssetCategory
	AcquiredOn         Date
	Value              decimal.Decimal
	AnnualDepreciation decimal.Decimal
}

type CreateBankAccount struct {
	AccountName    string
	AccountNumber  string
	BankName       string
	OpeningBalance decimal.Decimal
}

type CreateExpense struct {
	Date        Date
	Description string
	Amount      decimal.Decimal
	AccountID   string
}

type SetManualStock struct {
	Name      string
	Category  string
	StockKg   decimal.Decimal
	UnitCost  decimal.Decimal
	SellPrice decimal.Decimal
}

type UpdateStoreItem struct {
	ItemID    string
	Name      string
	Category  string
	SellPrice decimal.Decimal
}

type DeleteStoreItem struct {
	ItemID string
}

type SaveSettings struct {
	CompanyName       string
	CompanyAddress    string
	CompanyLogo       string
	InvoiceNotes      string
	LowStockThreshold decimal.Decimal
	InitialCapital    decimal.Decimal
}

func (CreatePurchase) eventName() string      { return "create_purchase" }
func (UpdatePurchase) eventName() string      { return "update_purchase" }
func (DeletePurchase) eventName() string      { return "delete_purchase" }
func (CreateRoastingBatch) eventName() string { return "create_roasting_batch" }
func (TransferToStore) eventName() string     { return "transfer_to_store" }
func (CreateBlend) eventName() string         { return "create_blend" }
func (CreateSale) eventName() string          { return "create_sale" }
func (CreateAsset) eventName() string         { return "create_asset" }
func (CreateBankAccount) eventName() string   { return "create_bank_account" }
func (CreateExpense) eventName() string       { return "create_expense" }
func (SetManualStock) eventName() string      { return "set_manual_stock" }
func (UpdateStoreItem) eventName() string     { return "update_store_item" }
func (DeleteStoreItem) eventName() string     { return "delete_store_item" }
func (SaveSettings) eventName() string        { return "save_settings" }

// =============================================================================
// APPLY
// =============================================================================

// Apply runs one event against the snapshot and returns the next snapshot
// with a success message, or an error with the snapshot untouched. The
// caller is responsible for persisting the result and for issuing events
// one at a time.
func Apply(s Snapshot, ev Event, now time.Time) (Snapshot, string, error) {
	switch e := ev.(type) {
	case CreatePurchase:
		return createPurchase(s, e, now)
	case UpdatePurchase:
		return updatePurchase(s, e, now)
	case DeletePurchase:
		return deletePurchase(s, e, now)
	case CreateRoastingBatch:
		return createRoastingBatch(s, e, now)
	case TransferToStore:
		return transferToStore(s, e, now)
	case CreateBlend:
		return createBlend(s, e, now)
	case CreateSale:
		return createSale(s, e, now)
	case CreateAsset:
		return createAsset(s, e, now)
	case CreateBankAccount:
		return createBankAccount(s, e, now)
	case CreateExpense:
		return createExpense(s, e, now)
	case SetManualStock:
		return setManualStock(s, e, now)
	case UpdateStoreItem:
		return updateStoreItem(s, e)
	case DeleteStoreItem:
		return deleteStoreItem(s, e)
	case SaveSettings:
		return saveSettings(s, e)
	default:
		return Snapshot{}, "", invalidf("event", "unknown event type %T", ev)
	}
}
