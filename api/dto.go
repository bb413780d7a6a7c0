/*
dto.go - Data Transfer Objects for API requests

PURPOSE:
  JSON structures for the API boundary. These decouple the engine's event
  types from the wire contract: amounts travel as JSON numbers and dates as
  ISO "2006-01-02" strings, and are converted to decimals/Dates when the
  request is turned into an engine event.

VALIDATION:
  Structural validation (required fields, ranges) is declared with
  go-playground/validator struct tags and run in the handlers before the
  request becomes an event. The engine re-validates business rules; the tags
  only stop obviously malformed payloads at the door.

SEE ALSO:
  - handlers.go: Decodes, validates, and converts these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/blackhorse/roastery/engine"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// LineItemRequest is one invoice row.
type LineItemRequest struct {
	Name  string  `json:"name" validate:"required"`
	Qty   float64 `json:"qty" validate:"gt=0"`
	Price float64 `json:"price" validate:"gte=0"`
}

type PurchaseRequest struct {
	Number           string            `json:"number"`
	Supplier         string            `json:"supplier" validate:"required"`
	Date             string            `json:"date" validate:"required"`
	Items            []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentAccountID string            `json:"payment_account_id"`
}

type RoastRequest struct {
	BatchID      string  `json:"batch_id"`
	Date         string  `json:"date" validate:"required"`
	GreenBeans   string  `json:"green_beans" validate:"required"`
	InputKg      float64 `json:"input_kg" validate:"gt=0"`
	YieldPercent float64 `json:"yield_percent" validate:"gt=0,lte=100"`
	Profile      string  `json:"profile" validate:"required"`
}

type TransferRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1"`
}

type BlendComponentRequest struct {
	RoastedID  string  `json:"roasted_id" validate:"required"`
	Percentage float64 `json:"percentage" validate:"gt=0,lte=100"`
}

type BlendRequest struct {
	Name       string                  `json:"name" validate:"required"`
	TotalQty   float64                 `json:"total_qty" validate:"gt=0"`
	Components []BlendComponentRequest `json:"components" validate:"required,min=1,dive"`
}

type SaleRequest struct {
	Number        string            `json:"number"`
	Customer      string            `json:"customer" validate:"required"`
	Date          string            `json:"date" validate:"required"`
	DueDate       string            `json:"due_date"`
	PaymentStatus string            `json:"payment_status" validate:"required"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type AssetRequest struct {
	Name               string  `json:"name" validate:"required"`
	Category           string  `json:"category" validate:"required,oneof=fixed current"`
	AcquiredOn         string  `json:"acquired_on"`
	Value              float64 `json:"value" validate:"gte=0"`
	AnnualDepreciation float64 `json:"annual_depreciation" validate:"gte=0"`
}

type BankAccountRequest struct {
	AccountName    string  `json:"account_name" validate:"required"`
	AccountNumber  string  `json:"account_number"`
	BankName       string  `json:"bank_name" validate:"required"`
	OpeningBalance float64 `json:"opening_balance" validate:"gte=0"`
}

type ExpenseRequest struct {
	Date        string  `json:"date"`
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	AccountID   string  `json:"account_id"`
}

type ManualStockRequest struct {
	Name      string  `json:"name" validate:"required"`
	Category  string  `json:"category"`
	StockKg   float64 `json:"stock_kg" validate:"gte=0"`
	UnitCost  float64 `json:"unit_cost" validate:"gte=0"`
	SellPrice float64 `json:"sell_price" validate:"gte=0"`
}

type StoreItemRequest struct {
	Name      string  `json:"name" validate:"required"`
	Category  string  `json:"category"`
	SellPrice float64 `json:"sell_price" validate:"gte=0"`
}

type SettingsRequest struct {
	CompanyName       string  `json:"company_name" validate:"required"`
	CompanyAddress    string  `json:"company_address"`
	CompanyLogo       string  `json:"company_logo"`
	InvoiceNotes      string  `json:"invoice_notes"`
	LowStockThreshold float64 `json:"low_stock_threshold" validate:"gte=0"`
	InitialCapital    float64 `json:"initial_capital" validate:"gte=0"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ResultResponse wraps a successful mutation: the message plus the full
// refreshed view the UI renders from.
type ResultResponse struct {
	Message string      `json:"message"`
	Data    engine.View `json:"data"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toLineItems(items []LineItemRequest) []engine.LineItem {
	out := make([]engine.LineItem, len(items))
	for i, li := range items {
		out[i] = engine.LineItem{
			Name:  li.Name,
			Qty:   decimal.NewFromFloat(li.Qty),
			Price: decimal.NewFromFloat(li.Price),
		}
	}
	return out
}

func toBlendComponents(components []BlendComponentRequest) []engine.BlendComponent {
	out := make([]engine.BlendComponent, len(components))
	for i, c := range components {
		out[i] = engine.BlendComponent{
			RoastedID:  c.RoastedID,
			Percentage: decimal.NewFromFloat(c.Percentage),
		}
	}
	return out
}
