/*
documents.go - Document flows

PURPOSE:
  One function per document operation. Each document type is a 3-state
  machine: absent -> committed -> deleted/edited. There is no pending state;
  a create commits atomically in one Apply call.

  Every flow follows the same shape:
    1. validate the event (no mutation yet)
    2. clone the snapshot
    3. run the inventory transformers / ledger appends on the clone
    4. return the clone

  Purchase edit/delete rebuilds the warehouse from the full invoice list
  (see inventory.go); ledger entries are unwound by document number.

KNOWN CARRY-OVERS (kept for compatibility with existing books):
  - Sales revenue and COGS entries always post to the cash account, whatever
    the actual payment method.
  - Asset purchases are modeled as always cash-funded.
  - Bank accounts are double-recorded as a settings entry and a synthetic
    current asset; the asset carries BankAccountID so aggregations can skip it.
*/
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PURCHASES
// =============================================================================

func validatePurchaseItems(items []LineItem) error {
	if len(items) == 0 {
		return invalidf("items", "at least one line item is required")
	}
	for _, li := range items {
		if li.Name == "" {
			return invalidf("items", "line item name is required")
		}
		if !li.Qty.IsPositive() {
			return invalidf("items", "quantity for %q must be positive", li.Name)
		}
		if li.Price.LessThan(decimal.NewFromInt(1)) {
			return invalidf("items", "price for %q must be at least 1", li.Name)
		}
	}
	return nil
}

func createPurchase(s Snapshot, ev CreatePurchase, now time.Time) (Snapshot, string, error) {
	if err := validatePurchaseItems(ev.Items); err != nil {
		return Snapshot{}, "", err
	}
	if ev.Supplier == "" {
		return Snapshot{}, "", invalidf("supplier", "supplier is required")
	}

	next := s.Clone()
	date := ev.Date
	if date.IsZero() {
		date = DateOf(now)
	}
	number := ev.Number
	if number == "" {
		number = NewID("FP", now)
	}
	account := ev.PaymentAccountID
	if account == "" {
		account = AccountCash
	}

	invoice := PurchaseInvoice{
		ID:               NewID("pur", now),
		Number:           number,
		Supplier:         ev.Supplier,
		Date:             date,
		Total:            SumLineItems(ev.Items),
		Status:           "Completed",
		Items:            append([]LineItem(nil), ev.Items...),
		PaymentAccountID: account,
	}

	next.Warehouse = ApplyPurchase(next.Warehouse, invoice.Items, date, now)
	next.PurchaseInvoices = append(next.PurchaseInvoices, invoice)
	next.Ledger = Record(next.Ledger, LedgerEntry{
		ID:          NewID("trx", now),
		Date:        date,
		Description: "Purchase from " + invoice.Supplier,
		Reference:   invoice.Number,
		Category:    CategoryRawMaterialPurchase,
		Credit:      invoice.Total,
		AccountID:   account,
	})
	return next, fmt.Sprintf("Purchase invoice %s created", invoice.Number), nil
}

func updatePurchase(s Snapshot, ev UpdatePurchase, now time.Time) (Snapshot, string, error) {
	if err := validatePurchaseItems(ev.Items); err != nil {
		return Snapshot{}, "", err
	}

	old, found := findPurchaseInvoice(s.PurchaseInvoices, ev.InvoiceID)
	if !found {
		return Snapshot{}, "", &NotFoundError{Kind: "purchase invoice", Key: ev.InvoiceID}
	}

	next := s.Clone()
	account := ev.PaymentAccountID
	if account == "" {
		account = AccountCash
	}
	updated := PurchaseInvoice{
		ID:               ev.InvoiceID,
		Number:           ev.Number,
		Supplier:         ev.Supplier,
		Date:             ev.Date,
		Total:            SumLineItems(ev.Items),
		Status:           "Completed",
		Items:            append([]LineItem(nil), ev.Items...),
		PaymentAccountID: account,
	}
	for i := range next.PurchaseInvoices {
		if next.PurchaseInvoices[i].ID == ev.InvoiceID {
			next.PurchaseInvoices[i] = updated
		}
	}

	// Rebuild, never subtract: the invoice list in stored order is the truth.
	next.Warehouse = RebuildWarehouse(next.PurchaseInvoices, now)

	next.Ledger = RemoveByReference(next.Ledger, old.Number, updated.Number)
	next.Ledger = Record(next.Ledger, LedgerEntry{
		ID:          NewID("trx-upd", now),
		Date:        updated.Date,
		Description: "Purchase from " + updated.Supplier,
		Reference:   updated.Number,
		Category:    CategoryRawMaterialPurchase,
		Credit:      updated.Total,
		AccountID:   account,
	})
	return next, fmt.Sprintf("Purchase invoice %s updated", updated.Number), nil
}

func deletePurchase(s Snapshot, ev DeletePurchase, now time.Time) (Snapshot, string, error) {
	doomed, found := findPurchaseInvoice(s.PurchaseInvoices, ev.InvoiceID)
	if !found {
		return Snapshot{}, "", &NotFoundError{Kind: "purchase invoice", Key: ev.InvoiceID}
	}

	next := s.Clone()
	remaining := make([]PurchaseInvoice, 0, len(next.PurchaseInvoices)-1)
	for _, inv := range next.PurchaseInvoices {
		if inv.ID != ev.InvoiceID {
			remaining = append(remaining, inv)
		}
	}
	next.PurchaseInvoices = remaining
	next.Warehouse = RebuildWarehouse(remaining, now)
	next.Ledger = RemoveByReference(next.Ledger, doomed.Number)
	return next, fmt.Sprintf("Purchase invoice %s deleted", doomed.Number), nil
}

func findPurchaseInvoice(invoices []PurchaseInvoice, id string) (PurchaseInvoice, bool) {
	for _, inv := range invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return PurchaseInvoice{}, false
}

// =============================================================================
// ROASTING
// =============================================================================

func createRoastingBatch(s Snapshot, ev CreateRoastingBatch, now time.Time) (Snapshot, string, error) {
	next := s.Clone()
	date := ev.Date
	if date.IsZero() {
		date = DateOf(now)
	}

	warehouse, roasted, batch, err := ApplyRoast(next.Warehouse, next.RoastedInventory, RoastInput{
		BatchID:      ev.BatchID,
		Date:         date,
		GreenBeans:   ev.GreenBeans,
		InputKg:      ev.InputKg,
		YieldPercent: ev.YieldPercent,
		Profile:      ev.Profile,
	}, now)
	if err != nil {
		return Snapshot{}, "", err
	}

	// No ledger entry: roasting moves cost between inventories, not cash.
	next.Warehouse = warehouse
	next.RoastedInventory = roasted
	next.RoastingBatches = append(next.RoastingBatches, batch)
	return next, fmt.Sprintf("Roasting batch %s processed", batch.BatchID), nil
}

// =============================================================================
// TRANSFER TO STORE
// =============================================================================

func transferToStore(s Snapshot, ev TransferToStore, now time.Time) (Snapshot, string, error) {
	if len(ev.ItemIDs) == 0 {
		return Snapshot{}, "", invalidf("items", "no items selected for transfer")
	}

	next := s.Clone()
	roasted, store, moved := ApplyTransferToStore(next.RoastedInventory, next.StoreInventory, ev.ItemIDs, now)
	next.RoastedInventory = roasted
	next.StoreInventory = store
	return next, fmt.Sprintf("%d item(s) transferred to store", moved), nil
}

// =============================================================================
// BLENDING
// =============================================================================

func createBlend(s Snapshot, ev CreateBlend, now time.Time) (Snapshot, string, error) {
	next := s.Clone()
	roasted, store, err := ApplyBlend(next.RoastedInventory, next.StoreInventory, BlendInput{
		Name:       ev.Name,
		TotalQty:   ev.TotalQty,
		Components: ev.Components,
	}, now)
	if err != nil {
		return Snapshot{}, "", err
	}
	next.RoastedInventory = roasted
	next.StoreInventory = store

	// Zero-value entry: no cash moved, but internal production stays auditable.
	next.Ledger = Record(next.Ledger, LedgerEntry{
		ID:          NewID("trx", now) + "-blend",
		Date:        DateOf(now),
		Description: "Blend production: " + ev.Name,
		Reference:   NewID("BLND", now),
		Category:    CategoryInternalProduction,
		AccountID:   AccountCash,
	})
	return next, fmt.Sprintf("Blend %q created", ev.Name), nil
}

// =============================================================================
// SALES
// =============================================================================

func createSale(s Snapshot, ev CreateSale, now time.Time) (Snapshot, string, error) {
	if len(ev.Items) == 0 {
		return Snapshot{}, "", invalidf("items", "at least one line item is required")
	}
	for _, li := range ev.Items {
		if li.Name == "" {
			return Snapshot{}, "", invalidf("items", "line item name is required")
		}
		if !li.Qty.IsPositive() {
			return Snapshot{}, "", invalidf("items", "quantity for %q must be positive", li.Name)
		}
	}
	if ev.Customer == "" {
		return Snapshot{}, "", invalidf("customer", "customer is required")
	}
	if !ev.PaymentStatus.Valid() {
		return Snapshot{}, "", invalidf("paymentStatus", "unknown payment status %q", string(ev.PaymentStatus))
	}

	next := s.Clone()
	date := ev.Date
	if date.IsZero() {
		date = DateOf(now)
	}
	number := ev.Number
	if number == "" {
		number = nextSalesNumber(next.SalesInvoices)
	}

	invoice := SalesInvoice{
		ID:            NewID("sale", now),
		Number:        number,
		Customer:      ev.Customer,
		Date:          date,
		DueDate:       ev.DueDate,
		Total:         SumLineItems(ev.Items),
		PaymentStatus: ev.PaymentStatus,
		Items:         append([]LineItem(nil), ev.Items...),
	}
	next.SalesInvoices = append(next.SalesInvoices, invoice)

	if ev.PaymentStatus.Settled() {
		// Revenue always posts to cash regardless of how the customer paid.
		// Kept as-is so rebuilt books match the existing ledger.
		next.Ledger = Record(next.Ledger, LedgerEntry{
			ID:          NewID("trx", now) + "-sale",
			Date:        date,
			Description: "Sale to " + invoice.Customer,
			Reference:   invoice.Number,
			Category:    CategorySalesRevenue,
			Debit:       invoice.Total,
			AccountID:   AccountCash,
		})
	}

	totalCOGS := decimal.Zero
	for _, li := range ev.Items {
		si := findStoreItem(next.StoreInventory, li.Name)
		if si < 0 {
			return Snapshot{}, "", &NotFoundError{Kind: "store product", Key: li.Name}
		}
		item := next.StoreInventory[si]
		level, err := item.Consume(li.Qty)
		if err != nil {
			return Snapshot{}, "", &InsufficientStockError{
				Item: item.Name, Available: item.StockKg, Requested: li.Qty,
			}
		}
		next.StoreInventory[si].StockLevel = level
		totalCOGS = totalCOGS.Add(li.Qty.Mul(item.UnitCost))
	}

	if totalCOGS.IsPositive() {
		next.Ledger = Record(next.Ledger, LedgerEntry{
			ID:          NewID("trx", now) + "-cogs",
			Date:        date,
			Description: "Cost of goods sold for " + invoice.Number,
			Reference:   invoice.Number,
			Category:    CategoryCOGS,
			Credit:      totalCOGS,
			AccountID:   AccountCash,
		})
	}
	return next, fmt.Sprintf("Sales invoice %s created", invoice.Number), nil
}

// =============================================================================
// ASSETS
// =============================================================================

func createAsset(s Snapshot, ev CreateAsset, now time.Time) (Snapshot, string, error) {
	if ev.Name == "" {
		return Snapshot{}, "", invalidf("name", "asset name is required")
	}
	if !ev.Category.Is(AssetFixed) && !ev.Category.Is(AssetCurrent) {
		return Snapshot{}, "", invalidf("category", "category must be fixed or current")
	}
	if ev.Value.IsNegative() {
		return Snapshot{}, "", invalidf("value", "acquisition value cannot be negative")
	}

	next := s.Clone()
	date := ev.AcquiredOn
	if date.IsZero() {
		date = DateOf(now)
	}
	asset := Asset{
		ID:                 NewID("asset", now),
		Name:               ev.Name,
		Category:           ev.Category,
		AcquiredOn:         date,
		Value:              ev.Value,
		AnnualDepreciation: ev.AnnualDepreciation,
	}
	next.Assets = append(next.Assets, asset)

	// Asset purchases are modeled as always cash-funded.
	next.Ledger = Record(next.Ledger, LedgerEntry{
		ID:          NewID("trx", now) + "-asset",
		Date:        date,
		Description: "Asset purchase: " + asset.Name,
		Reference:   asset.ID,
		Category:    CategoryAssetPurchase,
		Credit:      asset.Value,
		AccountID:   AccountCash,
	})
	return next, fmt.Sprintf("Asset %q recorded", asset.Name), nil
}

// =============================================================================
// BANK ACCOUNTS
// =============================================================================

func createBankAccount(s Snapshot, ev CreateBankAccount, now time.Time) (Snapshot, string, error) {
	if ev.BankName == "" {
		return Snapshot{}, "", invalidf("bankName", "bank name is required")
	}
	if ev.AccountName == "" {
		return Snapshot{}, "", invalidf("accountName", "account holder name is required")
	}

	next := s.Clone()
	account := BankAccount{
		ID:            NewID("bank", now),
		AccountName:   ev.AccountName,
		AccountNumber: ev.AccountNumber,
		BankName:      ev.BankName,
		Balance:       ev.OpeningBalance,
	}
	next.Settings.BankAccounts = append(next.Settings.BankAccounts, account)

	// The mirrored current asset keeps the balance sheet's asset list
	// complete; BankAccountID lets aggregations skip it so the bank's own
	// tracked balance isn't counted twice.
	next.Assets = append(next.Assets, Asset{
		ID:            NewID("asset-bank", now),
		Name:          fmt.Sprintf("Bank: %s (%s)", account.BankName, account.AccountName),
		Category:      AssetCurrent,
		AcquiredOn:    DateOf(now),
		Value:         account.Balance,
		BankAccountID: account.ID,
	})
	return next, fmt.Sprintf("Bank account %s created", account.BankName), nil
}

// =============================================================================
// MANUAL EXPENSES
// =============================================================================

func createExpense(s Snapshot, ev CreateExpense, now time.Time) (Snapshot, string, error) {
	if ev.Description == "" {
		return Snapshot{}, "", invalidf("description", "description is required")
	}
	if !ev.Amount.IsPositive() {
		return Snapshot{}, "", invalidf("amount", "amount must be positive")
	}

	next := s.Clone()
	date := ev.Date
	if date.IsZero() {
		date = DateOf(now)
	}
	account := ev.AccountID
	if account == "" {
		account = AccountCash
	}
	next.Ledger = Record(next.Ledger, LedgerEntry{
		ID:          NewID("trx-exp", now),
		Date:        date,
		Description: ev.Description,
		Reference:   "Manual",
		Category:    CategoryOperatingExpense,
		Credit:      ev.Amount,
		AccountID:   account,
	})
	return next, "Expense recorded", nil
}

// =============================================================================
// STORE ITEM MAINTENANCE
// =============================================================================

// setManualStock overwrites (not intakes) a store item's stock, cost and
// price - a stock-opname style correction.
func setManualStock(s Snapshot, ev SetManualStock, now time.Time) (Snapshot, string, error) {
	if ev.Name == "" {
		return Snapshot{}, "", invalidf("name", "product name is required")
	}
	if ev.StockKg.IsNegative() || ev.UnitCost.IsNegative() {
		return Snapshot{}, "", invalidf("stock", "stock and cost cannot be negative")
	}

	next := s.Clone()
	level := NewStockLevel(ev.StockKg, ev.UnitCost)
	if i := findStoreItem(next.StoreInventory, ev.Name); i >= 0 {
		next.StoreInventory[i].StockLevel = level
		next.StoreInventory[i].Category = ev.Category
		next.StoreInventory[i].SellPrice = ev.SellPrice
	} else {
		next.StoreInventory = append(next.StoreInventory, StoreItem{
			ID:         NewItemID("si", ev.Name, now),
			Name:       ev.Name,
			Category:   ev.Category,
			StockLevel: level,
			SellPrice:  ev.SellPrice,
		})
	}
	return next, fmt.Sprintf("Stock for %q set manually", ev.Name), nil
}

func updateStoreItem(s Snapshot, ev UpdateStoreItem) (Snapshot, string, error) {
	next := s.Clone()
	i := findStoreItemByID(next.StoreInventory, ev.ItemID)
	if i < 0 {
		return Snapshot{}, "", &NotFoundError{Kind: "store product", Key: ev.ItemID}
	}
	if ev.Name == "" {
		return Snapshot{}, "", invalidf("name", "product name is required")
	}
	next.StoreInventory[i].Name = ev.Name
	next.StoreInventory[i].Category = ev.Category
	next.StoreInventory[i].SellPrice = ev.SellPrice
	return next, fmt.Sprintf("Product %q updated", ev.Name), nil
}

func deleteStoreItem(s Snapshot, ev DeleteStoreItem) (Snapshot, string, error) {
	i := findStoreItemByID(s.StoreInventory, ev.ItemID)
	if i < 0 {
		return Snapshot{}, "", &NotFoundError{Kind: "store product", Key: ev.ItemID}
	}
	if s.StoreInventory[i].StockKg.IsPositive() {
		return Snapshot{}, "", &BusinessRuleError{
			Message: fmt.Sprintf("cannot delete %q while it still has stock", s.StoreInventory[i].Name),
		}
	}

	next := s.Clone()
	name := next.StoreInventory[i].Name
	next.StoreInventory = append(next.StoreInventory[:i], next.StoreInventory[i+1:]...)
	return next, fmt.Sprintf("Product %q deleted", name), nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func saveSettings(s Snapshot, ev SaveSettings) (Snapshot, string, error) {
	if ev.CompanyName == "" {
		return Snapshot{}, "", invalidf("companyName", "company name is required")
	}
	if ev.LowStockThreshold.IsNegative() {
		return Snapshot{}, "", invalidf("lowStockThreshold", "low stock threshold cannot be negative")
	}
	if ev.InitialCapital.IsNegative() {
		return Snapshot{}, "", invalidf("initialCapital", "initial capital cannot be negative")
	}

	// Pure field replacement; bank accounts are managed by their own event.
	next := s.Clone()
	next.Settings.CompanyName = ev.CompanyName
	next.Settings.CompanyAddress = ev.CompanyAddress
	next.Settings.CompanyLogo = ev.CompanyLogo
	next.Settings.InvoiceNotes = ev.InvoiceNotes
	next.Settings.LowStockThreshold = ev.LowStockThreshold
	next.Settings.InitialCapital = ev.InitialCapital
	return next, "Settings saved", nil
}
