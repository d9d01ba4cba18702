package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money is an amount with its ISO currency code.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// OrderTotals carries the per-order money totals as retrieved from the
// upstream API. Subtotal is a pointer because its absence changes how gross
// sales are derived.
type OrderTotals struct {
	Original  Money
	Current   Money
	Refunded  Money
	Subtotal  *Money
	Discounts Money
	Tax       Money
	Shipping  Money
}

// OrderRecord is a single order as retrieved from the upstream API.
// Immutable once fetched within an aggregation run.
type OrderRecord struct {
	ID              string
	Name            string // display name, e.g. "#1042"
	CreatedAt       time.Time
	FinancialStatus string
	SourceName      string // empty when the upstream did not report one
	Totals          OrderTotals
	LineItems       []LineItemRecord
}

// LineItemRecord is one line of an order.
type LineItemRecord struct {
	Quantity        int
	Title           string
	VariantTitle    string
	SKU             string
	UnitPrice       *Money // original unit price
	DiscountedPrice *Money
	UnitCost        *Money

	ProductID          string // empty when the product was deleted upstream
	ProductTitle       string
	ProductDescription string
	ProductType        string
	Vendor             string
}

// ItemUnitPrice returns the effective per-unit price for popularity ranking:
// the original unit price, falling back to the discounted one.
func (li LineItemRecord) ItemUnitPrice() decimal.Decimal {
	if li.UnitPrice != nil {
		return li.UnitPrice.Amount
	}
	if li.DiscountedPrice != nil {
		return li.DiscountedPrice.Amount
	}
	return decimal.Zero
}
