/*
stock.go - Weighted-average cost rules

PURPOSE:
  The one place the quantity/cost/value arithmetic lives. Warehouse, roasted
  and store inventories all follow the same three rules:

  INTAKE (stock increases):
    new stock  = stock + qty
    new value  = value + qty * unitCost
    unit cost  = new value / new stock      (0 when stock hits 0)

  CONSUME (stock decreases):
    fails when qty > stock (strict, no partial fulfillment)
    new stock  = stock - qty
    new value  = new stock * unitCost       (unit cost UNCHANGED)

  REVERT (undoing an intake, e.g. editing a purchase):
    stock and value are floored at 0, never negative, even when rounding
    would produce a small negative

  Consumption recomputing value from the unchanged unit cost rather than
  subtracting consumed value directly is deliberate: the two agree exactly
  because consume never moves the unit cost, and the recompute form keeps the
  TotalValue == StockKg * UnitCost invariant free of drift.
*/
package engine

import "github.com/shopspring/decimal"

// Intake adds qty at unitCost and reweights the average cost.
func (s StockLevel) Intake(qty, unitCost decimal.Decimal) StockLevel {
	newStock := s.StockKg.Add(qty)
	newValue := s.TotalValue.Add(qty.Mul(unitCost))
	newCost := decimal.Zero
	if newStock.IsPositive() {
		newCost = newValue.Div(newStock)
	}
	return StockLevel{StockKg: newStock, UnitCost: newCost, TotalValue: newValue}
}

// Consume removes qty at the current cost basis. The unit cost is unaffected;
// total value is recomputed from the remaining stock.
func (s StockLevel) Consume(qty decimal.Decimal) (StockLevel, error) {
	if qty.GreaterThan(s.StockKg) {
		return s, ErrInsufficientStock
	}
	newStock := s.StockKg.Sub(qty)
	return StockLevel{
		StockKg:    newStock,
		UnitCost:   s.UnitCost,
		TotalValue: newStock.Mul(s.UnitCost),
	}, nil
}

// Revert undoes an earlier intake of qty at unitCost, flooring stock and
// value at zero. Used only by the incremental purchase-reversal fast path;
// the rebuild in inventory.go is the source of truth.
func (s StockLevel) Revert(qty, unitCost decimal.Decimal) StockLevel {
	newStock := s.StockKg.Sub(qty)
	if newStock.IsNegative() {
		newStock = decimal.Zero
	}
	newValue := s.TotalValue.Sub(qty.Mul(unitCost))
	if newValue.IsNegative() {
		newValue = decimal.Zero
	}
	newCost := decimal.Zero
	if newStock.IsPositive() {
		newCost = newValue.Div(newStock)
	}
	return StockLevel{StockKg: newStock, UnitCost: newCost, TotalValue: newValue}
}

// NewStockLevel builds a level for a freshly created item.
func NewStockLevel(qty, unitCost decimal.Decimal) StockLevel {
	return StockLevel{StockKg: qty, UnitCost: unitCost, TotalValue: qty.Mul(unitCost)}
}

// Empty reports whether there is no stock left.
func (s StockLevel) Empty() bool { return !s.StockKg.IsPositive() }
