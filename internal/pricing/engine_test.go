package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestItemTotalWithAddons(t *testing.T) {
	t.Parallel()

	// 100.00 product + 2 x 15.00 add-on = 130.00
	total := ItemTotal(dec("100.00"), []AddonLine{
		{Price: dec("15.00"), Quantity: 2},
	})
	assert.True(t, dec("130.00").Equal(total), "got %s", total)
}

func TestItemTotalNoAddons(t *testing.T) {
	t.Parallel()

	total := ItemTotal(dec("75.25"), nil)
	assert.True(t, dec("75.25").Equal(total), "got %s", total)
}

func TestItemTotalIgnoresNonPositiveQuantities(t *testing.T) {
	t.Parallel()

	total := ItemTotal(dec("10.00"), []AddonLine{
		{Price: dec("5.00"), Quantity: 0},
		{Price: dec("5.00"), Quantity: -3},
		{Price: dec("2.50"), Quantity: 1},
	})
	assert.True(t, dec("12.50").Equal(total), "got %s", total)
}

func TestSubtotal(t *testing.T) {
	t.Parallel()

	subtotal := Subtotal([]decimal.Decimal{dec("50.00"), dec("75.25")})
	assert.True(t, dec("125.25").Equal(subtotal), "got %s", subtotal)

	assert.True(t, Subtotal(nil).IsZero())
}

func TestTotalWithDiscount(t *testing.T) {
	t.Parallel()

	// 130.00 at 10% discount = 117.00
	total := Total(dec("130.00"), dec("10"))
	assert.True(t, dec("117.00").Equal(total), "got %s", total)
}

func TestTotalZeroDiscount(t *testing.T) {
	t.Parallel()

	total := Total(dec("125.25"), decimal.Zero)
	assert.True(t, dec("125.25").Equal(total), "got %s", total)
}

func TestTotalFullDiscount(t *testing.T) {
	t.Parallel()

	total := Total(dec("99.99"), dec("100"))
	assert.True(t, total.IsZero(), "got %s", total)
}

func TestTotalRoundsToCents(t *testing.T) {
	t.Parallel()

	// 100.00 at 33.333% = 66.667 -> 66.67
	total := Total(dec("100.00"), dec("33.333"))
	assert.True(t, dec("66.67").Equal(total), "got %s", total)
}

func TestTotalMatchesFormulaAcrossDiscounts(t *testing.T) {
	t.Parallel()

	subtotal := dec("481.37")
	for d := 0; d <= 100; d += 7 {
		discount := decimal.NewFromInt(int64(d))
		want := subtotal.Mul(dec("100").Sub(discount)).Div(dec("100")).Round(2)
		got := Total(subtotal, discount)
		assert.True(t, want.Equal(got), "discount %d: want %s got %s", d, want, got)
	}
}

func TestValidDiscount(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidDiscount(decimal.Zero))
	assert.True(t, ValidDiscount(dec("100")))
	assert.True(t, ValidDiscount(dec("10.5")))
	assert.False(t, ValidDiscount(dec("-0.01")))
	assert.False(t, ValidDiscount(dec("100.01")))
}
