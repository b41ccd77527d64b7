package pricing

import (
	"github.com/shopspring/decimal"
)

// AddonLine is one add-on selection priced at its snapshot value.
type AddonLine struct {
	Price    decimal.Decimal
	Quantity int
}

var oneHundred = decimal.NewFromInt(100)

// ItemTotal prices a single budget item: the product price snapshot plus the
// sum of every add-on price multiplied by its quantity, rounded to cents.
func ItemTotal(productPrice decimal.Decimal, addons []AddonLine) decimal.Decimal {
	total := productPrice
	for _, line := range addons {
		if line.Quantity <= 0 {
			continue
		}
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}

// Subtotal sums the item totals of a budget.
func Subtotal(itemTotals []decimal.Decimal) decimal.Decimal {
	subtotal := decimal.Zero
	for _, t := range itemTotals {
		subtotal = subtotal.Add(t)
	}
	return subtotal.Round(2)
}

// Total applies the percentage discount to the subtotal and rounds to cents.
// Commission percent deliberately plays no part here.
func Total(subtotal, discountPercent decimal.Decimal) decimal.Decimal {
	factor := oneHundred.Sub(discountPercent).Div(oneHundred)
	return subtotal.Mul(factor).Round(2)
}

// ValidDiscount reports whether the discount percent lies in [0, 100].
func ValidDiscount(discountPercent decimal.Decimal) bool {
	return !discountPercent.IsNegative() && discountPercent.LessThanOrEqual(oneHundred)
}
