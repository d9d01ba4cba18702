package shopify

import (
	"fmt"
	"strings"
	"time"

	"github.com/brewcap/capsule-metrics/internal/entity"
)

// BuildQuery turns a date range and channel into the upstream order search
// filter: date bounds, exclude cancelled and test orders, and the channel
// scoping tag when the channel carries one. Clause order only matters for
// log readability.
func BuildQuery(r entity.DateRange, ch entity.ShopChannel) string {
	clauses := []string{
		fmt.Sprintf("created_at:>='%s'", r.From.UTC().Format(time.RFC3339)),
		fmt.Sprintf("created_at:<='%s'", r.To.UTC().Format(time.RFC3339)),
		"-status:cancelled",
		"-test:true",
	}
	if ch.ChannelTag != "" {
		clauses = append(clauses, fmt.Sprintf("tag:'%s'", ch.ChannelTag))
	}
	return strings.Join(clauses, " AND ")
}

// ordersQuery pulls one page of orders with the totals and line-item fields
// the aggregator folds over.
const ordersQuery = `
query FetchOrders($query: String!, $first: Int!, $after: String) {
  orders(first: $first, after: $after, query: $query, sortKey: CREATED_AT) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        name
        createdAt
        displayFinancialStatus
        sourceName
        originalTotalPriceSet { shopMoney { amount currencyCode } }
        currentTotalPriceSet { shopMoney { amount currencyCode } }
        totalRefundedSet { shopMoney { amount currencyCode } }
        currentSubtotalPriceSet { shopMoney { amount currencyCode } }
        totalDiscountsSet { shopMoney { amount currencyCode } }
        totalTaxSet { shopMoney { amount currencyCode } }
        totalShippingPriceSet { shopMoney { amount currencyCode } }
        lineItems(first: 50) {
          edges {
            node {
              quantity
              title
              variantTitle
              sku
              originalUnitPriceSet { shopMoney { amount currencyCode } }
              discountedUnitPriceSet { shopMoney { amount currencyCode } }
              variant {
                inventoryItem {
                  unitCost { amount currencyCode }
                }
              }
              product {
                id
                title
                description
                productType
                vendor
              }
            }
          }
        }
      }
    }
  }
}`
