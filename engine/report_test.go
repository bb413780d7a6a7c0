package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackhorse/roastery/engine"
)

// =============================================================================
// DEPRECIATION
// =============================================================================

func TestAsset_BookValue_LinearDecline(t *testing.T) {
	// GIVEN: a fixed asset of 12,000,000 depreciating 1,200,000/year
	// WHEN: valued exactly two years after acquisition
	// THEN: book value is 9,600,000
	acquired := day(2024, 1, 1)
	asOf := acquired.Time().Add(time.Duration(2*365.25*24) * time.Hour)

	a := engine.Asset{
		Category:           engine.AssetFixed,
		AcquiredOn:         acquired,
		Value:              dec(12000000),
		AnnualDepreciation: dec(1200000),
	}

	assertDecEqual(t, dec(9600000), a.BookValue(asOf))
}

func TestAsset_BookValue_FlooredAtZero(t *testing.T) {
	a := engine.Asset{
		Category:           engine.AssetFixed,
		AcquiredOn:         day(2000, 1, 1),
		Value:              dec(1000000),
		AnnualDepreciation: dec(500000),
	}

	assert.True(t, a.BookValue(testNow).IsZero())
}

func TestAsset_BookValue_CurrentAssetNeverDepreciates(t *testing.T) {
	a := engine.Asset{
		Category:           engine.AssetCurrent,
		AcquiredOn:         day(2000, 1, 1),
		Value:              dec(1000000),
		AnnualDepreciation: dec(500000),
	}

	assertDecEqual(t, dec(1000000), a.BookValue(testNow))
}

func TestAsset_BookValue_NoScheduleStaysAtCost(t *testing.T) {
	a := engine.Asset{
		Category:   engine.AssetFixed,
		AcquiredOn: day(2000, 1, 1),
		Value:      dec(1000000),
	}

	assertDecEqual(t, dec(1000000), a.BookValue(testNow))
}

// =============================================================================
// BALANCE SHEET
// =============================================================================

func reportSnapshot(t *testing.T) engine.Snapshot {
	t.Helper()
	s := engine.DefaultSnapshot()
	s.Settings.InitialCapital = dec(10000000)
	s = apply(t, s, engine.CreateBankAccount{
		AccountName: "BlackHorse Roastery", BankName: "BCA", OpeningBalance: dec(5000000),
	}, 0)
	s = apply(t, s, engine.CreatePurchase{
		Supplier: "PT Sumber Kopi",
		Date:     day(2025, 3, 1),
		Items:    []engine.LineItem{{Name: "Gayo Arabica", Qty: dec(100), Price: dec(50000)}},
	}, 1)
	s = apply(t, s, engine.SetManualStock{
		Name: "Drip Bag", Category: "Merchandise", StockKg: dec(50), UnitCost: dec(5000),
	}, 2)
	s = apply(t, s, engine.CreateSale{
		Customer:      "Kedai Kopi Senja",
		Date:          day(2025, 3, 10),
		PaymentStatus: engine.StatusSent,
		Items:         []engine.LineItem{{Name: "Drip Bag", Qty: dec(10), Price: dec(15000)}},
	}, 3)
	return s
}

func TestComputeBalanceSheet_Composition(t *testing.T) {
	s := engine.DefaultSnapshot()
	s.Settings.InitialCapital = dec(10000000)

	// One bank (5,000,000), one purchase (-5,000,000 cash, +5,000,000 stock),
	// one unsettled sale of an untracked product (receivable 150,000).
	s = apply(t, s, engine.CreateBankAccount{
		AccountName: "BlackHorse Roastery", BankName: "BCA", OpeningBalance: dec(5000000),
	}, 0)
	s = apply(t, s, engine.CreatePurchase{
		Supplier: "PT Sumber Kopi",
		Date:     day(2025, 3, 1),
		Items:    []engine.LineItem{{Name: "Gayo Arabica", Qty: dec(100), Price: dec(50000)}},
	}, 1)
	s = apply(t, s, engine.SetManualStock{
		Name: "Drip Bag", Category: "Merchandise", StockKg: dec(50), UnitCost: dec(5000),
	}, 2)
	s = apply(t, s, engine.CreateSale{
		Customer:      "Kedai Kopi Senja",
		Date:          day(2025, 3, 10),
		PaymentStatus: engine.StatusSent,
		Items:         []engine.LineItem{{Name: "Drip Bag", Qty: dec(10), Price: dec(15000)}},
	}, 3)

	bs := s.ComputeBalanceSheet(testNow)

	// capital 10M, less 5M purchase, less 50,000 COGS for the unsettled sale
	assertDecEqual(t, dec(10000000-5000000-50000), bs.Cash)
	require.Len(t, bs.BankDetails, 1)
	assertDecEqual(t, dec(5000000), bs.TotalBank)
	assertDecEqual(t, dec(150000), bs.Receivables)
	// warehouse 5,000,000 + store drip bags (50-10)*5000
	assertDecEqual(t, dec(5000000+200000), bs.Inventory)
	assert.True(t, bs.TotalLiabilities.IsZero())
}

func TestComputeBalanceSheet_SyntheticBankAssetNotDoubleCounted(t *testing.T) {
	s := engine.DefaultSnapshot()
	s = apply(t, s, engine.CreateBankAccount{
		AccountName: "BlackHorse Roastery", BankName: "BCA", OpeningBalance: dec(5000000),
	}, 0)
	s = apply(t, s, engine.CreateAsset{
		Name: "Deposit", Category: engine.AssetCurrent, Value: dec(2000000),
	}, 1)

	bs := s.ComputeBalanceSheet(testNow)

	assertDecEqual(t, dec(5000000), bs.TotalBank)
	assertDecEqual(t, dec(2000000), bs.OtherCurrentAssets, "only the real current asset counts")
}

func TestComputeBalanceSheet_Identity(t *testing.T) {
	// total assets == liabilities + equity, with liabilities pinned at zero.
	bs := reportSnapshot(t).ComputeBalanceSheet(testNow)

	assertDecEqual(t, bs.TotalAssets, bs.TotalLiabilitiesAndEquity)
	assertDecEqual(t, bs.TotalEquity, bs.InitialCapital.Add(bs.RetainedEarnings))
	assertDecEqual(t, bs.TotalCurrentAssets.Add(bs.TotalFixedAssets), bs.TotalAssets)
}

func TestComputeBalanceSheet_FixedAssetsAtBookValue(t *testing.T) {
	s := engine.DefaultSnapshot()
	s = apply(t, s, engine.CreateAsset{
		Name:               "Probat Roaster",
		Category:           engine.AssetFixed,
		AcquiredOn:         day(2024, 1, 1),
		Value:              dec(12000000),
		AnnualDepreciation: dec(1200000),
	}, 0)

	asOf := day(2024, 1, 1).Time().Add(time.Duration(365.25*24) * time.Hour)
	bs := s.ComputeBalanceSheet(asOf)

	require.Len(t, bs.FixedAssetDetails, 1)
	assertDecEqual(t, dec(10800000), bs.FixedAssetDetails[0].Amount)
	assertDecEqual(t, dec(10800000), bs.TotalFixedAssets)
}
