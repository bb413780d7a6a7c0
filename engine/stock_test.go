package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackhorse/roastery/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func day(year int, month time.Month, d int) engine.Date {
	return engine.NewDate(year, month, d)
}

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

var epsilon = decimal.NewFromFloat(0.0001)

// assertDecEqual checks decimal equality within rounding tolerance.
func assertDecEqual(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	diff := expected.Sub(actual).Abs()
	assert.True(t, diff.LessThan(epsilon),
		"expected %s, got %s (diff %s) %v", expected, actual, diff, msgAndArgs)
}

// assertLevelInvariant checks TotalValue == StockKg * UnitCost.
func assertLevelInvariant(t *testing.T, level engine.StockLevel) {
	t.Helper()
	assertDecEqual(t, level.StockKg.Mul(level.UnitCost), level.TotalValue, "stock level invariant")
}

// =============================================================================
// INTAKE
// =============================================================================

func TestStockLevel_Intake_ReweightsAverageCost(t *testing.T) {
	// GIVEN: 100 kg at 50,000
	// WHEN: 50 kg arrives at 60,000
	// THEN: stock 150 kg, value 8,000,000, cost 53,333.33...

	level := engine.NewStockLevel(dec(100), dec(50000))
	level = level.Intake(dec(50), dec(60000))

	assertDecEqual(t, dec(150), level.StockKg)
	assertDecEqual(t, dec(8000000), level.TotalValue)
	assertDecEqual(t, dec(8000000.0/150.0), level.UnitCost)
	assertLevelInvariant(t, level)
}

func TestStockLevel_Intake_FromEmpty(t *testing.T) {
	level := engine.StockLevel{}.Intake(dec(25), dec(40000))

	assertDecEqual(t, dec(25), level.StockKg)
	assertDecEqual(t, dec(40000), level.UnitCost)
	assertDecEqual(t, dec(1000000), level.TotalValue)
}

// =============================================================================
// CONSUME
// =============================================================================

func TestStockLevel_Consume_KeepsUnitCost(t *testing.T) {
	// The cost-basis policy: consumption never moves the unit cost, and total
	// value is recomputed from remaining stock rather than subtracted.
	level := engine.NewStockLevel(dec(100), dec(50000))

	level, err := level.Consume(dec(30))
	require.NoError(t, err)

	assertDecEqual(t, dec(70), level.StockKg)
	assertDecEqual(t, dec(50000), level.UnitCost)
	assertDecEqual(t, dec(3500000), level.TotalValue)
	assertLevelInvariant(t, level)
}

func TestStockLevel_Consume_ExactlyAll(t *testing.T) {
	level := engine.NewStockLevel(dec(42.5), dec(58823.53))

	level, err := level.Consume(dec(42.5))
	require.NoError(t, err)

	assert.True(t, level.StockKg.IsZero())
	assert.True(t, level.TotalValue.IsZero())
}

func TestStockLevel_Consume_Insufficient_Fails(t *testing.T) {
	level := engine.NewStockLevel(dec(10), dec(50000))

	after, err := level.Consume(dec(10.001))

	assert.ErrorIs(t, err, engine.ErrInsufficientStock)
	assertDecEqual(t, dec(10), after.StockKg, "failed consume must not change the level")
}

// =============================================================================
// REVERT
// =============================================================================

func TestStockLevel_Revert_FloorsAtZero(t *testing.T) {
	// GIVEN: 10 kg worth 500,000
	// WHEN: reverting an intake of 12 kg at 50,000 (over-subtraction)
	// THEN: stock and value clamp to zero instead of going negative
	level := engine.NewStockLevel(dec(10), dec(50000))

	level = level.Revert(dec(12), dec(50000))

	assert.True(t, level.StockKg.IsZero())
	assert.True(t, level.TotalValue.IsZero())
	assert.True(t, level.UnitCost.IsZero())
}

func TestStockLevel_Revert_Partial(t *testing.T) {
	level := engine.NewStockLevel(dec(150), dec(8000000.0/150.0))

	level = level.Revert(dec(50), dec(60000))

	assertDecEqual(t, dec(100), level.StockKg)
	assertDecEqual(t, dec(5000000), level.TotalValue)
	assertDecEqual(t, dec(50000), level.UnitCost)
}
