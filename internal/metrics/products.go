package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/brewcap/capsule-metrics/internal/entity"
)

// DefaultRankSize is the top/bottom list length when the caller does not
// ask for one.
const DefaultRankSize = 10

// AnalyzeProducts builds the per-product revenue ranking. Line items with
// no product id cannot be keyed and are skipped here (they still count in
// the summary totals). With fewer than 2*topN products the two lists
// overlap; that is accepted rather than deduplicated.
func (a *Aggregator) AnalyzeProducts(orders []entity.OrderRecord, topN int) *entity.ProductAnalysis {
	if topN <= 0 {
		topN = DefaultRankSize
	}

	byProduct := make(map[string]*entity.ProductAggregate)
	var ids []string // insertion order, for a stable sort

	for _, o := range orders {
		for _, li := range o.LineItems {
			if li.ProductID == "" {
				continue
			}
			agg, ok := byProduct[li.ProductID]
			if !ok {
				agg = &entity.ProductAggregate{
					ProductID:    li.ProductID,
					Title:        li.ProductTitle,
					VariantTitle: li.VariantTitle,
					ProductType:  li.ProductType,
					Vendor:       li.Vendor,
					UnitPrice:    li.ItemUnitPrice(),
				}
				if li.UnitCost != nil {
					agg.UnitCost = li.UnitCost.Amount
				}
				byProduct[li.ProductID] = agg
				ids = append(ids, li.ProductID)
			}

			qty := decimal.NewFromInt(int64(li.Quantity))
			agg.Quantity += li.Quantity
			agg.TotalSales = agg.TotalSales.Add(li.ItemUnitPrice().Mul(qty))
			if li.UnitCost != nil {
				agg.TotalCost = agg.TotalCost.Add(li.UnitCost.Amount.Mul(qty))
			}
			agg.OrderCount++
		}
	}

	ranked := make([]entity.ProductAggregate, 0, len(ids))
	for _, id := range ids {
		ranked = append(ranked, *byProduct[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSales.GreaterThan(ranked[j].TotalSales)
	})

	n := topN
	if n > len(ranked) {
		n = len(ranked)
	}

	most := make([]entity.ProductAggregate, n)
	copy(most, ranked[:n])

	// Bottom n of the descending list, reversed so the least popular
	// product comes first.
	least := make([]entity.ProductAggregate, n)
	for i := 0; i < n; i++ {
		least[i] = ranked[len(ranked)-1-i]
	}

	return &entity.ProductAnalysis{
		MostPopular:  most,
		LeastPopular: least,
	}
}
