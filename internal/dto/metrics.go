package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewcap/capsule-metrics/internal/currency"
	"github.com/brewcap/capsule-metrics/internal/entity"
)

// Monetary values are rounded here, at the serialization boundary, and
// nowhere earlier.

// MetricsSummary is the wire form of an aggregated summary.
type MetricsSummary struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Channel string    `json:"channel"`
	Source  string    `json:"source,omitempty"`

	Currency string `json:"currency"`

	OrdersCount       int     `json:"ordersCount"`
	TotalSales        float64 `json:"totalSales"`
	GrossSales        float64 `json:"grossSales"`
	TotalRefunds      float64 `json:"totalRefunds"`
	TotalDiscounts    float64 `json:"totalDiscounts"`
	TotalTax          float64 `json:"totalTax"`
	TotalShipping     float64 `json:"totalShipping"`
	TotalCOGS         float64 `json:"totalCogs"`
	GrossProfit       float64 `json:"grossProfit"`
	GrossProfitMargin float64 `json:"grossProfitMargin"`
	AvgOrderValue     float64 `json:"avgOrderValue"`
	UnitsSold         int     `json:"unitsSold"`

	Capsules        CapsuleTotals `json:"capsules"`
	CapsuleStrategy string        `json:"capsuleStrategy"`

	Truncated bool `json:"truncated"`
}

type CapsuleTotals struct {
	Total        int `json:"total"`
	Multicapsule int `json:"multicapsule"`
	European     int `json:"european"`
	Tea          int `json:"tea"`
}

// ProductAggregate is the wire form of one ranked product.
type ProductAggregate struct {
	ProductID    string  `json:"productId"`
	Title        string  `json:"title"`
	VariantTitle string  `json:"variantTitle,omitempty"`
	ProductType  string  `json:"productType,omitempty"`
	Vendor       string  `json:"vendor,omitempty"`
	Quantity     int     `json:"quantity"`
	TotalSales   float64 `json:"totalSales"`
	TotalCost    float64 `json:"totalCost"`
	OrderCount   int     `json:"orderCount"`
	UnitPrice    float64 `json:"unitPrice"`
	UnitCost     float64 `json:"unitCost"`
}

type ProductAnalysis struct {
	MostPopular  []ProductAggregate `json:"mostPopular"`
	LeastPopular []ProductAggregate `json:"leastPopular"`
}

func ConvertMetricsSummary(s *entity.MetricsSummary) *MetricsSummary {
	if s == nil {
		return nil
	}
	cur := s.Currency
	return &MetricsSummary{
		From:              s.Period.From,
		To:                s.Period.To,
		Channel:           s.Channel,
		Source:            string(s.Source),
		Currency:          currency.Label(cur),
		OrdersCount:       s.OrdersCount,
		TotalSales:        rounded(s.TotalSales, cur),
		GrossSales:        rounded(s.GrossSales, cur),
		TotalRefunds:      rounded(s.TotalRefunds, cur),
		TotalDiscounts:    rounded(s.TotalDiscounts, cur),
		TotalTax:          rounded(s.TotalTax, cur),
		TotalShipping:     rounded(s.TotalShipping, cur),
		TotalCOGS:         rounded(s.TotalCOGS, cur),
		GrossProfit:       rounded(s.GrossProfit, cur),
		GrossProfitMargin: rounded(s.GrossProfitMargin, cur),
		AvgOrderValue:     rounded(s.AvgOrderValue, cur),
		UnitsSold:         s.UnitsSold,
		Capsules: CapsuleTotals{
			Total:        s.Capsules.Total,
			Multicapsule: s.Capsules.Multicapsule,
			European:     s.Capsules.European,
			Tea:          s.Capsules.Tea,
		},
		CapsuleStrategy: s.CapsuleStrategy,
		Truncated:       s.Truncated,
	}
}

func ConvertMetricsSummaries(list []*entity.MetricsSummary) []*MetricsSummary {
	out := make([]*MetricsSummary, len(list))
	for i, s := range list {
		out[i] = ConvertMetricsSummary(s)
	}
	return out
}

func ConvertProductAnalysis(a *entity.ProductAnalysis, cur string) *ProductAnalysis {
	if a == nil {
		return nil
	}
	return &ProductAnalysis{
		MostPopular:  convertAggregates(a.MostPopular, cur),
		LeastPopular: convertAggregates(a.LeastPopular, cur),
	}
}

func convertAggregates(list []entity.ProductAggregate, cur string) []ProductAggregate {
	out := make([]ProductAggregate, len(list))
	for i, p := range list {
		out[i] = ProductAggregate{
			ProductID:    p.ProductID,
			Title:        p.Title,
			VariantTitle: p.VariantTitle,
			ProductType:  p.ProductType,
			Vendor:       p.Vendor,
			Quantity:     p.Quantity,
			TotalSales:   rounded(p.TotalSales, cur),
			TotalCost:    rounded(p.TotalCost, cur),
			OrderCount:   p.OrderCount,
			UnitPrice:    rounded(p.UnitPrice, cur),
			UnitCost:     rounded(p.UnitCost, cur),
		}
	}
	return out
}

func rounded(d decimal.Decimal, cur string) float64 {
	return currency.Round(d, cur).InexactFloat64()
}
