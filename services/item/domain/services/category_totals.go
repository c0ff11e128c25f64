package services

import (
	"github.com/shopspring/decimal"

	"github.com/ghuser/expense-tracker/services/item/domain/models"
)

// CategoryTotals is spend per category as two positionally aligned slices:
// Values[i] is the sum of price*quantity over every item in Labels[i].
type CategoryTotals struct {
	Labels []string
	Values []float64
}

// SumByCategory groups items by category in first-seen order and sums each
// item's price*quantity. No sorting, filtering or rounding is applied.
// Sums are accumulated in decimal so long runs of cents do not drift.
// Both slices are non-nil, and empty when items is empty.
func SumByCategory(items []*models.Item) CategoryTotals {
	index := make(map[models.Category]int)
	labels := make([]string, 0)
	sums := make([]decimal.Decimal, 0)

	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		i, seen := index[item.Category]
		if !seen {
			i = len(labels)
			index[item.Category] = i
			labels = append(labels, item.Category.String())
			sums = append(sums, decimal.Zero)
		}
		sums[i] = sums[i].Add(line)
	}

	values := make([]float64, len(sums))
	for i, s := range sums {
		values[i] = s.InexactFloat64()
	}
	return CategoryTotals{Labels: labels, Values: values}
}
