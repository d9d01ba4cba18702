package entity

import (
	"github.com/shopspring/decimal"
)

// SourceFilter selects orders by their classified origin. The empty value
// means no filtering.
type SourceFilter string

const (
	SourceAll    SourceFilter = ""
	SourceOnline SourceFilter = "online"
	SourcePOS    SourceFilter = "pos"
)

// CapsuleTotals counts capsules sold, in total and per catalog category.
// Categories outside the three named buckets count only toward Total.
type CapsuleTotals struct {
	Total        int
	Multicapsule int
	European     int
	Tea          int
}

// MetricsSummary is the aggregate over one fetched order set. All decimal
// fields carry full precision; rounding happens at the serialization
// boundary only.
type MetricsSummary struct {
	Period  DateRange
	Channel string
	Source  SourceFilter

	// Currency is taken from the first order that carries one; empty when
	// none did. Display layers substitute a fallback label.
	Currency string

	OrdersCount       int
	TotalSales        decimal.Decimal
	GrossSales        decimal.Decimal
	TotalRefunds      decimal.Decimal
	TotalDiscounts    decimal.Decimal
	TotalTax          decimal.Decimal
	TotalShipping     decimal.Decimal
	TotalCOGS         decimal.Decimal
	GrossProfit       decimal.Decimal
	GrossProfitMargin decimal.Decimal // percent of gross sales
	AvgOrderValue     decimal.Decimal
	UnitsSold         int

	Capsules        CapsuleTotals
	CapsuleStrategy string

	// Truncated is set when the fetch hit the page cap and the summary
	// covers a partial order set.
	Truncated bool
}

// ProductAggregate is the per-product fold over line items, keyed by
// product id. Exists only for the duration of one aggregation call.
type ProductAggregate struct {
	ProductID    string
	Title        string
	VariantTitle string
	ProductType  string
	Vendor       string

	Quantity   int
	TotalSales decimal.Decimal
	TotalCost  decimal.Decimal
	// OrderCount counts line-item occurrences, not distinct orders.
	OrderCount int
	UnitPrice  decimal.Decimal
	UnitCost   decimal.Decimal
}

// ProductAnalysis ranks products by revenue. With fewer than twice the
// requested rank size the two lists may overlap.
type ProductAnalysis struct {
	MostPopular  []ProductAggregate
	LeastPopular []ProductAggregate
}
