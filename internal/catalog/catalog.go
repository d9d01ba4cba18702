package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "embed"

	"github.com/brewcap/capsule-metrics/internal/entity"
)

// Two capsule-counting strategies exist historically and they diverge for
// some SKUs: the catalog lookup and the naming-convention inference. The
// integrator picks one via config; summaries echo the strategy used so the
// numbers are never silently mixed.
const (
	StrategyCatalog = "catalog"
	StrategyPattern = "pattern"
)

// CategoryUnknown is reported for SKUs absent from the reference table.
const CategoryUnknown = "Unknown"

//go:embed capsules.json
var capsulesJSON []byte

// Entry is one row of the SKU reference table. Loaded once at startup,
// read-only for the process lifetime.
type Entry struct {
	SKU      string `json:"sku"`
	Capsules int    `json:"capsules"`
	Category string `json:"category"`
}

type Config struct {
	Strategy string `mapstructure:"strategy"`
}

// Catalog resolves SKUs to capsule counts and categories. Lookup is
// case-insensitive exact match.
type Catalog struct {
	bySKU    map[string]Entry
	strategy string
}

// New loads the bundled reference table.
func New(c *Config) (*Catalog, error) {
	var entries []Entry
	if err := json.Unmarshal(capsulesJSON, &entries); err != nil {
		return nil, fmt.Errorf("cannot parse bundled capsule catalog: %w", err)
	}
	return NewFromEntries(entries, c.Strategy)
}

// NewFromEntries builds a catalog from explicit rows, for tests.
func NewFromEntries(entries []Entry, strategy string) (*Catalog, error) {
	switch strategy {
	case "":
		strategy = StrategyCatalog
	case StrategyCatalog, StrategyPattern:
	default:
		return nil, fmt.Errorf("unknown capsule counting strategy %q", strategy)
	}
	bySKU := make(map[string]Entry, len(entries))
	for _, e := range entries {
		bySKU[strings.ToLower(e.SKU)] = e
	}
	return &Catalog{bySKU: bySKU, strategy: strategy}, nil
}

func (c *Catalog) Strategy() string {
	return c.strategy
}

// Lookup returns the catalog entry for sku, matching case-insensitively.
func (c *Catalog) Lookup(sku string) (Entry, bool) {
	e, ok := c.bySKU[strings.ToLower(sku)]
	return e, ok
}

// Count returns the capsule count per unit and the category for a line
// item, according to the configured strategy. Unmatched items count zero
// capsules in category Unknown.
func (c *Catalog) Count(li entity.LineItemRecord) (int, string) {
	if c.strategy == StrategyPattern {
		return inferFromNaming(li)
	}
	e, ok := c.Lookup(li.SKU)
	if !ok {
		return 0, CategoryUnknown
	}
	return e.Capsules, e.Category
}

var (
	// e.g. "CAP-RISTRETTO-10", "ESP-COL-30"
	skuCountPattern = regexp.MustCompile(`-(\d+)$`)
	// e.g. "Lungo 10 Capsules", "Variety Pack (30 caps)"
	titleCountPattern = regexp.MustCompile(`(?i)(\d+)\s*caps`)
)

// inferFromNaming derives the capsule count from the SKU or title naming
// convention and the category from the product type. Kept for parity with
// the historical counter; known to disagree with the catalog for bundle
// SKUs that do not follow the convention.
func inferFromNaming(li entity.LineItemRecord) (int, string) {
	category := li.ProductType
	if category == "" {
		category = CategoryUnknown
	}
	if m := skuCountPattern.FindStringSubmatch(li.SKU); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n, category
		}
	}
	for _, title := range []string{li.Title, li.ProductTitle} {
		if m := titleCountPattern.FindStringSubmatch(title); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n, category
			}
		}
	}
	return 0, category
}
