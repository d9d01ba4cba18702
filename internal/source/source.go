package source

import (
	"strings"

	"github.com/brewcap/capsule-metrics/internal/entity"
)

// Source names reported by point-of-sale hardware. Everything else,
// including orders with no source name at all, is treated as online: the
// inclusive default keeps ambiguous orders out of the POS bucket.
var posSources = map[string]struct{}{
	"pos":           {},
	"shopify_pos":   {},
	"point of sale": {},
}

// Classify labels an order as online or point-of-sale by its source name,
// matched case-insensitively.
func Classify(o entity.OrderRecord) entity.SourceFilter {
	if _, ok := posSources[strings.ToLower(strings.TrimSpace(o.SourceName))]; ok {
		return entity.SourcePOS
	}
	return entity.SourceOnline
}

// Filter returns the orders matching f. SourceAll returns the input
// unchanged.
func Filter(orders []entity.OrderRecord, f entity.SourceFilter) []entity.OrderRecord {
	if f == entity.SourceAll {
		return orders
	}
	out := make([]entity.OrderRecord, 0, len(orders))
	for _, o := range orders {
		if Classify(o) == f {
			out = append(out, o)
		}
	}
	return out
}
