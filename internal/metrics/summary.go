package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/brewcap/capsule-metrics/internal/catalog"
	"github.com/brewcap/capsule-metrics/internal/entity"
)

// Aggregator folds order sets into summaries and product rankings. It holds
// no per-call state, so one instance serves concurrent invocations.
type Aggregator struct {
	catalog *catalog.Catalog
}

func New(cat *catalog.Catalog) *Aggregator {
	return &Aggregator{catalog: cat}
}

// Summarize walks the orders once and accumulates the money totals, unit
// and capsule counts, and the derived ratios. All accumulation is full
// precision; rounding is left to the serialization boundary.
func (a *Aggregator) Summarize(orders []entity.OrderRecord, period entity.DateRange) *entity.MetricsSummary {
	s := &entity.MetricsSummary{
		Period:          period,
		OrdersCount:     len(orders),
		CapsuleStrategy: a.catalog.Strategy(),
	}

	for _, o := range orders {
		if s.Currency == "" {
			s.Currency = orderCurrency(o)
		}

		s.TotalSales = s.TotalSales.Add(o.Totals.Current.Amount)
		s.TotalRefunds = s.TotalRefunds.Add(o.Totals.Refunded.Amount)
		s.TotalDiscounts = s.TotalDiscounts.Add(o.Totals.Discounts.Amount)
		s.TotalTax = s.TotalTax.Add(o.Totals.Tax.Amount)
		s.TotalShipping = s.TotalShipping.Add(o.Totals.Shipping.Amount)

		// Gross sales prefer the pre-discount subtotal; older orders
		// without one reconstruct it from the original total plus the
		// discounts taken off it.
		if o.Totals.Subtotal != nil {
			s.GrossSales = s.GrossSales.Add(o.Totals.Subtotal.Amount)
		} else {
			s.GrossSales = s.GrossSales.Add(o.Totals.Original.Amount.Add(o.Totals.Discounts.Amount))
		}

		for _, li := range o.LineItems {
			s.UnitsSold += li.Quantity
			if li.UnitCost != nil {
				cost := li.UnitCost.Amount.Mul(decimal.NewFromInt(int64(li.Quantity)))
				s.TotalCOGS = s.TotalCOGS.Add(cost)
			}
			a.countCapsules(&s.Capsules, li)
		}
	}

	if s.OrdersCount > 0 {
		s.AvgOrderValue = s.TotalSales.Div(decimal.NewFromInt(int64(s.OrdersCount)))
	}
	s.GrossProfit = s.GrossSales.Sub(s.TotalCOGS)
	if !s.GrossSales.IsZero() {
		s.GrossProfitMargin = s.GrossProfit.Div(s.GrossSales).Mul(decimal.NewFromInt(100))
	}

	return s
}

func (a *Aggregator) countCapsules(totals *entity.CapsuleTotals, li entity.LineItemRecord) {
	perUnit, category := a.catalog.Count(li)
	if perUnit == 0 {
		return
	}
	n := perUnit * li.Quantity
	totals.Total += n
	switch category {
	case "Multicapsule":
		totals.Multicapsule += n
	case "European":
		totals.European += n
	case "Tea":
		totals.Tea += n
	}
}

// orderCurrency returns the first currency code the order carries, starting
// with the current total.
func orderCurrency(o entity.OrderRecord) string {
	for _, m := range []entity.Money{
		o.Totals.Current,
		o.Totals.Original,
		o.Totals.Refunded,
		o.Totals.Discounts,
		o.Totals.Tax,
		o.Totals.Shipping,
	} {
		if m.Currency != "" {
			return m.Currency
		}
	}
	if o.Totals.Subtotal != nil && o.Totals.Subtotal.Currency != "" {
		return o.Totals.Subtotal.Currency
	}
	return ""
}
