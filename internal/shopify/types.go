package shopify

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewcap/capsule-metrics/internal/entity"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type ordersResponse struct {
	Data   *ordersData    `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type ordersData struct {
	Orders struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Edges []struct {
			Node orderNode `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

type moneyBag struct {
	ShopMoney struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"shopMoney"`
}

type orderNode struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	CreatedAt              time.Time `json:"createdAt"`
	DisplayFinancialStatus string    `json:"displayFinancialStatus"`
	SourceName             string    `json:"sourceName"`

	OriginalTotalPriceSet   *moneyBag `json:"originalTotalPriceSet"`
	CurrentTotalPriceSet    *moneyBag `json:"currentTotalPriceSet"`
	TotalRefundedSet        *moneyBag `json:"totalRefundedSet"`
	CurrentSubtotalPriceSet *moneyBag `json:"currentSubtotalPriceSet"`
	TotalDiscountsSet       *moneyBag `json:"totalDiscountsSet"`
	TotalTaxSet             *moneyBag `json:"totalTaxSet"`
	TotalShippingPriceSet   *moneyBag `json:"totalShippingPriceSet"`

	LineItems struct {
		Edges []struct {
			Node lineItemNode `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

type lineItemNode struct {
	Quantity                int       `json:"quantity"`
	Title                   string    `json:"title"`
	VariantTitle            string    `json:"variantTitle"`
	Sku                     string    `json:"sku"`
	OriginalUnitPriceSet    *moneyBag `json:"originalUnitPriceSet"`
	DiscountedUnitPriceSet  *moneyBag `json:"discountedUnitPriceSet"`

	Variant *struct {
		InventoryItem struct {
			UnitCost *struct {
				Amount       string `json:"amount"`
				CurrencyCode string `json:"currencyCode"`
			} `json:"unitCost"`
		} `json:"inventoryItem"`
	} `json:"variant"`

	Product *struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		ProductType string `json:"productType"`
		Vendor      string `json:"vendor"`
	} `json:"product"`
}

// parseAmount tolerates the odd malformed amount the same way the upstream
// SDKs do: an unparsable string reads as zero.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (m *moneyBag) toMoney() entity.Money {
	if m == nil {
		return entity.Money{Amount: decimal.Zero}
	}
	return entity.Money{
		Amount:   parseAmount(m.ShopMoney.Amount),
		Currency: m.ShopMoney.CurrencyCode,
	}
}

func (m *moneyBag) toMoneyPtr() *entity.Money {
	if m == nil {
		return nil
	}
	money := m.toMoney()
	return &money
}

func (n orderNode) toEntity() entity.OrderRecord {
	o := entity.OrderRecord{
		ID:              n.ID,
		Name:            n.Name,
		CreatedAt:       n.CreatedAt,
		FinancialStatus: n.DisplayFinancialStatus,
		SourceName:      n.SourceName,
		Totals: entity.OrderTotals{
			Original:  n.OriginalTotalPriceSet.toMoney(),
			Current:   n.CurrentTotalPriceSet.toMoney(),
			Refunded:  n.TotalRefundedSet.toMoney(),
			Subtotal:  n.CurrentSubtotalPriceSet.toMoneyPtr(),
			Discounts: n.TotalDiscountsSet.toMoney(),
			Tax:       n.TotalTaxSet.toMoney(),
			Shipping:  n.TotalShippingPriceSet.toMoney(),
		},
	}
	for _, e := range n.LineItems.Edges {
		o.LineItems = append(o.LineItems, e.Node.toEntity())
	}
	return o
}

func (n lineItemNode) toEntity() entity.LineItemRecord {
	li := entity.LineItemRecord{
		Quantity:        n.Quantity,
		Title:           n.Title,
		VariantTitle:    n.VariantTitle,
		SKU:             n.Sku,
		UnitPrice:       n.OriginalUnitPriceSet.toMoneyPtr(),
		DiscountedPrice: n.DiscountedUnitPriceSet.toMoneyPtr(),
	}
	if n.Variant != nil && n.Variant.InventoryItem.UnitCost != nil {
		li.UnitCost = &entity.Money{
			Amount:   parseAmount(n.Variant.InventoryItem.UnitCost.Amount),
			Currency: n.Variant.InventoryItem.UnitCost.CurrencyCode,
		}
	}
	if n.Product != nil {
		li.ProductID = n.Product.ID
		li.ProductTitle = n.Product.Title
		li.ProductDescription = n.Product.Description
		li.ProductType = n.Product.ProductType
		li.Vendor = n.Product.Vendor
	}
	return li
}
