/*
inventory.go - Multi-stage inventory transformers

PURPOSE:
  The operations that move coffee between the three inventories:

    purchase  -> warehouse (green beans)
    roast     -> warehouse consumed, roasted inventory produced
    transfer  -> roasted inventory moved wholesale into the store
    blend     -> several roasted items consumed, one store item produced

  Every transformer takes slices by value, works on copies, and returns the
  new slices. Callers (documents.go) stitch the results into the next
  snapshot only when the whole operation succeeded.

EDIT/DELETE SEMANTICS:
  Purchase edits and deletes are realized by REBUILDING the warehouse from
  the full remaining invoice list in stored order, never by incremental
  subtraction. RevertPurchase exists as a clamped fast path and must agree
  with the rebuild; tests cross-check the two.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// PURCHASE INTAKE
// =============================================================================

// ApplyPurchase folds every line item into the warehouse, keyed by bean name.
// Items are created on first intake.
func ApplyPurchase(warehouse []WarehouseItem, items []LineItem, date Date, now time.Time) []WarehouseItem {
	out := append([]WarehouseItem(nil), warehouse...)
	for _, li := range items {
		if i := findWarehouseItem(out, li.Name); i >= 0 {
			out[i].StockLevel = out[i].Intake(li.Qty, li.Price)
			out[i].LastUpdate = date
		} else {
			out = append(out, WarehouseItem{
				ID:         NewItemID("wh", li.Name, now),
				Name:       li.Name,
				StockLevel: NewStockLevel(li.Qty, li.Price),
				LastUpdate: date,
			})
		}
	}
	return out
}

// RebuildWarehouse recomputes the whole warehouse from an invoice list in
// stored order. This is the canonical mechanism behind purchase edit/delete:
// applied twice to the same list it yields identical output.
func RebuildWarehouse(invoices []PurchaseInvoice, now time.Time) []WarehouseItem {
	var warehouse []WarehouseItem
	for _, inv := range invoices {
		warehouse = ApplyPurchase(warehouse, inv.Items, inv.Date, now)
	}
	if warehouse == nil {
		warehouse = []WarehouseItem{}
	}
	return warehouse
}

// RevertPurchase incrementally subtracts an invoice's line items from the
// warehouse, clamped at zero. Optional fast path only; RebuildWarehouse is
// the source of truth.
func RevertPurchase(warehouse []WarehouseItem, items []LineItem) []WarehouseItem {
	out := append([]WarehouseItem(nil), warehouse...)
	for _, li := range items {
		if i := findWarehouseItem(out, li.Name); i >= 0 {
			out[i].StockLevel = out[i].Revert(li.Qty, li.Price)
		}
	}
	return out
}

// =============================================================================
// ROASTING
// =============================================================================

// RoastInput describes one roasting batch.
type RoastInput struct {
	BatchID      string // "RB-..." label; defaulted by the caller when empty
	Date         Date
	GreenBeans   string
	InputKg      decimal.Decimal
	YieldPercent decimal.Decimal
	Profile      string
}

// RoastedProductName is the roasted-inventory key: "<bean> - <profile>".
func RoastedProductName(bean, profile string) string {
	return bean + " - " + profile
}

// ApplyRoast consumes green beans and produces roasted output. Cost is
// conserved: the batch output carries inputKg * beanCost / outputKg per kg,
// fixed at call time from the bean's cost before consumption.
func ApplyRoast(warehouse []WarehouseItem, roasted []RoastedItem, in RoastInput, now time.Time) ([]WarehouseItem, []RoastedItem, RoastingBatch, error) {
	wi := findWarehouseItem(warehouse, in.GreenBeans)
	if wi < 0 {
		return nil, nil, RoastingBatch{}, &NotFoundError{Kind: "green bean", Key: in.GreenBeans}
	}
	if !in.InputKg.IsPositive() {
		return nil, nil, RoastingBatch{}, invalidf("inputKg", "input quantity must be positive")
	}
	if !in.YieldPercent.IsPositive() {
		return nil, nil, RoastingBatch{}, invalidf("yieldPercent", "yield must be positive")
	}

	bean := warehouse[wi]
	if in.InputKg.GreaterThan(bean.StockKg) {
		return nil, nil, RoastingBatch{}, &InsufficientStockError{
			Item: bean.Name, Available: bean.StockKg, Requested: in.InputKg,
		}
	}

	outputKg := in.InputKg.Mul(in.YieldPercent).Div(hundred)
	batchCost := in.InputKg.Mul(bean.UnitCost).Div(outputKg)

	newWarehouse := append([]WarehouseItem(nil), warehouse...)
	level, err := bean.Consume(in.InputKg)
	if err != nil {
		return nil, nil, RoastingBatch{}, err
	}
	newWarehouse[wi].StockLevel = level
	newWarehouse[wi].LastUpdate = in.Date

	product := RoastedProductName(in.GreenBeans, in.Profile)
	newRoasted := append([]RoastedItem(nil), roasted...)
	if ri := findRoastedByProduct(newRoasted, product); ri >= 0 {
		newRoasted[ri].StockLevel = newRoasted[ri].Intake(outputKg, batchCost)
	} else {
		newRoasted = append(newRoasted, RoastedItem{
			ID:         NewItemID("ri", product, now),
			Product:    product,
			Category:   CategoryRoastedBeans,
			StockLevel: NewStockLevel(outputKg, batchCost),
		})
	}

	batchID := in.BatchID
	if batchID == "" {
		batchID = NewID("RB", now)
	}
	batch := RoastingBatch{
		ID:           NewID("rb", now),
		BatchID:      batchID,
		Date:         in.Date,
		GreenBeans:   in.GreenBeans,
		InputKg:      in.InputKg,
		OutputKg:     outputKg,
		YieldPercent: in.YieldPercent,
		Profile:      in.Profile,
		UnitCost:     batchCost,
		Status:       "Completed",
	}
	return newWarehouse, newRoasted, batch, nil
}

// =============================================================================
// TRANSFER TO STORE
// =============================================================================

var sellMarkup = decimal.NewFromFloat(1.5)

// ApplyTransferToStore moves the ENTIRE stock of each referenced roasted item
// into the matching store item (matched by product name). Items already at
// zero stock or not found are skipped silently; the returned count is the
// number actually moved. A newly created store item gets a default sell price
// of 1.5x cost; an existing item keeps its price unless none was set.
func ApplyTransferToStore(roasted []RoastedItem, store []StoreItem, itemIDs []string, now time.Time) ([]RoastedItem, []StoreItem, int) {
	newRoasted := append([]RoastedItem(nil), roasted...)
	newStore := append([]StoreItem(nil), store...)

	moved := 0
	for _, id := range itemIDs {
		ri := findRoastedByID(newRoasted, id)
		if ri < 0 {
			continue
		}
		src := newRoasted[ri]
		if src.Empty() {
			continue
		}

		category := src.Category
		if category == "" {
			category = CategoryRoastedBeans
		}

		if si := findStoreItem(newStore, src.Product); si >= 0 {
			newStore[si].StockLevel = newStore[si].Intake(src.StockKg, src.UnitCost)
			if !newStore[si].SellPrice.IsPositive() {
				newStore[si].SellPrice = src.UnitCost.Mul(sellMarkup)
			}
		} else {
			newStore = append(newStore, StoreItem{
				ID:         NewItemID("si", src.Product, now),
				Name:       src.Product,
				Category:   category,
				StockLevel: NewStockLevel(src.StockKg, src.UnitCost),
				SellPrice:  src.UnitCost.Mul(sellMarkup),
			})
		}

		newRoasted[ri].StockKg = decimal.Zero
		newRoasted[ri].TotalValue = decimal.Zero
		moved++
	}
	return newRoasted, newStore, moved
}

// =============================================================================
// BLENDING
// =============================================================================

// BlendComponent references a roasted item by id with its weight share.
type BlendComponent struct {
	RoastedID  string
	Percentage decimal.Decimal
}

// BlendInput describes one blend production run.
type BlendInput struct {
	Name       string
	TotalQty   decimal.Decimal
	Components []BlendComponent
}

// ApplyBlend consumes the component quantities from roasted inventory and
// produces the blend as a store item under category "Blend". Percentages must
// round to exactly 100. Component consumption follows the cost-basis rule:
// each component's unit cost is unaffected.
func ApplyBlend(roasted []RoastedItem, store []StoreItem, in BlendInput, now time.Time) ([]RoastedItem, []StoreItem, error) {
	if in.Name == "" {
		return nil, nil, invalidf("blendName", "blend name is required")
	}
	if !in.TotalQty.IsPositive() {
		return nil, nil, invalidf("totalQty", "total quantity must be positive")
	}
	if len(in.Components) == 0 {
		return nil, nil, invalidf("components", "at least one component is required")
	}

	totalPct := decimal.Zero
	for _, c := range in.Components {
		totalPct = totalPct.Add(c.Percentage)
	}
	if !totalPct.Round(0).Equal(hundred) {
		return nil, nil, invalidf("components", "percentages must sum to 100, got %s", totalPct)
	}

	newRoasted := append([]RoastedItem(nil), roasted...)
	consumedValue := decimal.Zero
	for _, c := range in.Components {
		ri := findRoastedByID(newRoasted, c.RoastedID)
		if ri < 0 {
			return nil, nil, &NotFoundError{Kind: "blend component", Key: c.RoastedID}
		}
		need := in.TotalQty.Mul(c.Percentage).Div(hundred)
		item := newRoasted[ri]
		level, err := item.Consume(need)
		if err != nil {
			return nil, nil, &InsufficientStockError{
				Item: item.Product, Available: item.StockKg, Requested: need,
			}
		}
		newRoasted[ri].StockLevel = level
		consumedValue = consumedValue.Add(need.Mul(item.UnitCost))
	}

	blendCost := consumedValue.Div(in.TotalQty)

	newStore := append([]StoreItem(nil), store...)
	if si := findStoreItem(newStore, in.Name); si >= 0 {
		newStore[si].StockLevel = newStore[si].Intake(in.TotalQty, blendCost)
		if !newStore[si].SellPrice.IsPositive() {
			newStore[si].SellPrice = blendCost.Mul(sellMarkup)
		}
	} else {
		newStore = append(newStore, StoreItem{
			ID:         NewItemID("si", in.Name, now),
			Name:       in.Name,
			Category:   CategoryBlend,
			StockLevel: NewStockLevel(in.TotalQty, blendCost),
			SellPrice:  blendCost.Mul(sellMarkup),
		})
	}
	return newRoasted, newStore, nil
}

// =============================================================================
// LOOKUPS
// =============================================================================

func findWarehouseItem(items []WarehouseItem, name string) int {
	for i := range items {
		if items[i].Name == name {
			return i
		}
	}
	return -1
}

func findRoastedByProduct(items []RoastedItem, product string) int {
	for i := range items {
		if items[i].Product == product {
			return i
		}
	}
	return -1
}

func findRoastedByID(items []RoastedItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func findStoreItem(items []StoreItem, name string) int {
	for i := range items {
		if items[i].Name == name {
			return i
		}
	}
	return -1
}

func findStoreItemByID(items []StoreItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
