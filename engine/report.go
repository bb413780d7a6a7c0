/*
report.go - Derived balance sheet

PURPOSE:
  Read-only aggregation over a snapshot: current assets (cash, bank
  balances, receivables, inventory, other current assets), fixed assets at
  book value, and equity as the residual. Nothing here writes back.

  Liabilities are always zero: the system has no accounts payable (an
  explicit non-goal), so retained earnings absorb the whole difference.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DEPRECIATION
// =============================================================================

var (
	hoursPerYear = decimal.NewFromFloat(24 * 365.25)
)

// BookValue derives the asset's value at asOf. Fixed assets with a
// depreciation schedule decline linearly by fractional years held, floored
// at zero; everything else stands at acquisition value.
func (a Asset) BookValue(asOf time.Time) decimal.Decimal {
	if !a.Category.Is(AssetFixed) || !a.AnnualDepreciation.IsPositive() {
		return a.Value
	}
	held := asOf.Sub(a.AcquiredOn.Time())
	if held <= 0 {
		return a.Value
	}
	yearsHeld := decimal.NewFromFloat(held.Hours()).Div(hoursPerYear)
	book := a.Value.Sub(a.AnnualDepreciation.Mul(yearsHeld))
	if book.IsNegative() {
		return decimal.Zero
	}
	return book
}

// =============================================================================
// BALANCE SHEET
// =============================================================================

type BalanceLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type BalanceSheet struct {
	Cash               decimal.Decimal `json:"cash"`
	BankDetails        []BalanceLine   `json:"bankDetails"`
	TotalBank          decimal.Decimal `json:"totalBank"`
	Receivables        decimal.Decimal `json:"receivables"`
	Inventory          decimal.Decimal `json:"inventory"`
	OtherCurrentAssets decimal.Decimal `json:"otherCurrentAssets"`
	TotalCurrentAssets decimal.Decimal `json:"totalCurrentAssets"`

	FixedAssetDetails []BalanceLine   `json:"fixedAssetDetails"`
	TotalFixedAssets  decimal.Decimal `json:"totalFixedAssets"`
	TotalAssets       decimal.Decimal `json:"totalAssets"`

	TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
	InitialCapital            decimal.Decimal `json:"initialCapital"`
	RetainedEarnings          decimal.Decimal `json:"retainedEarnings"`
	TotalEquity               decimal.Decimal `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
}

// ComputeBalanceSheet derives the statement of financial position at asOf.
func (s Snapshot) ComputeBalanceSheet(asOf time.Time) BalanceSheet {
	balances := RecomputeBalances(s.Ledger, s.Settings)

	cash := balances[AccountCash]

	var bankDetails []BalanceLine
	totalBank := decimal.Zero
	for _, acc := range s.Settings.BankAccounts {
		line := BalanceLine{
			Name:   acc.BankName + " (" + acc.AccountName + ")",
			Amount: balances[acc.ID],
		}
		bankDetails = append(bankDetails, line)
		totalBank = totalBank.Add(line.Amount)
	}

	receivables := decimal.Zero
	for _, inv := range s.SalesInvoices {
		if !inv.PaymentStatus.Settled() {
			receivables = receivables.Add(inv.Total)
		}
	}

	inventory := decimal.Zero
	for _, it := range s.Warehouse {
		inventory = inventory.Add(it.TotalValue)
	}
	for _, it := range s.RoastedInventory {
		inventory = inventory.Add(it.TotalValue)
	}
	for _, it := range s.StoreInventory {
		inventory = inventory.Add(it.TotalValue)
	}

	// Synthetic bank assets are excluded: the bank balances above already
	// carry that value.
	otherCurrent := decimal.Zero
	for _, a := range s.Assets {
		if a.Category.Is(AssetCurrent) && !a.Synthetic() {
			otherCurrent = otherCurrent.Add(a.Value)
		}
	}

	totalCurrent := cash.Add(totalBank).Add(receivables).Add(inventory).Add(otherCurrent)

	var fixedDetails []BalanceLine
	totalFixed := decimal.Zero
	for _, a := range s.Assets {
		if !a.Category.Is(AssetFixed) {
			continue
		}
		book := a.BookValue(asOf)
		fixedDetails = append(fixedDetails, BalanceLine{Name: a.Name, Amount: book})
		totalFixed = totalFixed.Add(book)
	}

	totalAssets := totalCurrent.Add(totalFixed)
	liabilities := decimal.Zero
	initialCapital := s.Settings.InitialCapital
	retained := totalAssets.Sub(liabilities).Sub(initialCapital)
	totalEquity := initialCapital.Add(retained)

	return BalanceSheet{
		Cash:               cash,
		BankDetails:        bankDetails,
		TotalBank:          totalBank,
		Receivables:        receivables,
		Inventory:          inventory,
		OtherCurrentAssets: otherCurrent,
		TotalCurrentAssets: totalCurrent,

		FixedAssetDetails: fixedDetails,
		TotalFixedAssets:  totalFixed,
		TotalAssets:       totalAssets,

		TotalLiabilities:          liabilities,
		InitialCapital:            initialCapital,
		RetainedEarnings:          retained,
		TotalEquity:               totalEquity,
		TotalLiabilitiesAndEquity: liabilities.Add(totalEquity),
	}
}
