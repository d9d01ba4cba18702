package reports

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewcap/capsule-metrics/internal/archive"
	"github.com/brewcap/capsule-metrics/internal/catalog"
	"github.com/brewcap/capsule-metrics/internal/dates"
	"github.com/brewcap/capsule-metrics/internal/metrics"
	"github.com/brewcap/capsule-metrics/internal/report"
	"github.com/brewcap/capsule-metrics/internal/shopify"
	"github.com/brewcap/capsule-metrics/internal/shops"
)

// upstreamHandler serves a canned single order set for any query.
func upstreamHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"data": {
				"orders": {
					"pageInfo": {"hasNextPage": false, "endCursor": ""},
					"edges": [{
						"node": {
							"id": "o1",
							"name": "#1001",
							"createdAt": "2025-03-12T10:00:00Z",
							"sourceName": "web",
							"currentTotalPriceSet": {"shopMoney": {"amount": "100.555", "currencyCode": "EUR"}},
							"currentSubtotalPriceSet": {"shopMoney": {"amount": "100.555", "currencyCode": "EUR"}},
							"lineItems": {"edges": [{
								"node": {
									"quantity": 2,
									"sku": "CAP-RISTRETTO-10",
									"originalUnitPriceSet": {"shopMoney": {"amount": "7.90", "currencyCode": "EUR"}},
									"product": {"id": "p1", "title": "Ristretto", "productType": "European"}
								}
							}]}
						}
					}, {
						"node": {
							"id": "o2",
							"name": "#1002",
							"createdAt": "2025-03-12T11:00:00Z",
							"sourceName": "pos",
							"currentTotalPriceSet": {"shopMoney": {"amount": "50.004", "currencyCode": "EUR"}},
							"currentSubtotalPriceSet": {"shopMoney": {"amount": "50.004", "currencyCode": "EUR"}},
							"lineItems": {"edges": []}
						}
					}]
				}
			}
		}`)
	}
}

func newTestAPI(t *testing.T, upstream http.Handler, archiveDir string) http.Handler {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	registry := shops.New(&shops.Config{
		Default: "storefront",
		Channels: []shops.ChannelConfig{
			{ID: "storefront", ShopHost: srv.URL, Token: "tok"},
			{ID: "broken", ShopHost: srv.URL},
		},
	})

	cat, err := catalog.NewFromEntries([]catalog.Entry{
		{SKU: "CAP-RISTRETTO-10", Capsules: 10, Category: "European"},
	}, catalog.StrategyCatalog)
	require.NoError(t, err)

	svc := report.New(&report.Config{SweepDelay: time.Millisecond}, registry, metrics.New(cat), &shopify.Config{})

	arch, err := archive.New(&archive.Config{Dir: archiveDir})
	require.NoError(t, err)

	// fixed clock: 2025-03-12
	cal := dates.NewCalendarAt(func() time.Time {
		return time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	})

	return New(svc, registry, arch, cal).Routes()
}

func doGet(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListChannels(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/channels")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"channels":["storefront","broken"]}`, rec.Body.String())
}

func TestGetSummary(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/reports/summary?date=2025-03-12")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, "storefront", got["channel"])
	assert.Equal(t, "EUR", got["currency"])
	assert.EqualValues(t, 2, got["ordersCount"])
	assert.Equal(t, 150.56, got["totalSales"]) // 100.555 + 50.004 rounded once
	assert.EqualValues(t, 2, got["unitsSold"])
	assert.Equal(t, false, got["truncated"])

	caps, ok := got["capsules"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 20, caps["total"])
	assert.EqualValues(t, 20, caps["european"])
}

func TestGetSummarySourceFilter(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/reports/summary?date=2025-03-12&source=pos")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 1, got["ordersCount"])
	assert.Equal(t, 50.0, got["totalSales"])
	assert.Equal(t, "pos", got["source"])
}

func TestGetSummaryDefaultsToToday(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/reports/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.EqualValues(t, 2, got["ordersCount"])
}

func TestGetSummaryBadDate(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/reports/summary?date=12-03-2025")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummaryReversedRange(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/reports/summary?start=2025-03-10&end=2025-03-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummaryUnknownPeriod(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/reports/summary?period=fortnight")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummaryUnknownSource(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/reports/summary?source=kiosk")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummaryChannelWithoutToken(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/reports/summary?date=2025-03-12&channel=broken")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetSummaryUpstreamFailure(t *testing.T) {
	h := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}), "")

	rec := doGet(t, h, "/reports/summary?date=2025-03-12")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetSummaryGraphQLErrors(t *testing.T) {
	h := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors": [{"message": "Throttled"}]}`)
	}), "")

	rec := doGet(t, h, "/reports/summary?date=2025-03-12")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetProducts(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/reports/products?date=2025-03-12&top=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		MostPopular []struct {
			ProductID  string  `json:"productId"`
			Quantity   int     `json:"quantity"`
			TotalSales float64 `json:"totalSales"`
		} `json:"mostPopular"`
		LeastPopular []json.RawMessage `json:"leastPopular"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	require.Len(t, got.MostPopular, 1)
	assert.Equal(t, "p1", got.MostPopular[0].ProductID)
	assert.Equal(t, 2, got.MostPopular[0].Quantity)
	assert.Equal(t, 15.8, got.MostPopular[0].TotalSales)
	assert.Len(t, got.LeastPopular, 1)
}

func TestGetProductsBadTop(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	for _, v := range []string{"0", "-1", "many"} {
		rec := doGet(t, h, "/reports/products?date=2025-03-12&top="+v)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "top=%s", v)
	}
}

func TestGetDailyBreakdown(t *testing.T) {
	h := newTestAPI(t, upstreamHandler(t), "")
	rec := doGet(t, h, "/reports/daily?start=2025-03-11&end=2025-03-13")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Days []struct {
			From        time.Time `json:"from"`
			OrdersCount int       `json:"ordersCount"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	require.Len(t, got.Days, 3)
	assert.Equal(t, 0, got.Days[0].OrdersCount) // canned orders sit on the 12th
	assert.Equal(t, 2, got.Days[1].OrdersCount)
	assert.Equal(t, 0, got.Days[2].OrdersCount)
}

func TestGetSummaryArchives(t *testing.T) {
	dir := t.TempDir()
	h := newTestAPI(t, upstreamHandler(t), dir)

	rec := doGet(t, h, "/reports/summary?date=2025-03-12&archive=true")
	require.Equal(t, http.StatusOK, rec.Code)

	files, err := filepath.Glob(filepath.Join(dir, "summary", "storefront-2025-03-12-*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var archived map[string]any
	require.NoError(t, json.Unmarshal(raw, &archived))
	assert.Equal(t, 150.56, archived["totalSales"])
}

func TestGetSummaryNoArchiveWithoutFlag(t *testing.T) {
	dir := t.TempDir()
	h := newTestAPI(t, upstreamHandler(t), dir)

	rec := doGet(t, h, "/reports/summary?date=2025-03-12")
	require.Equal(t, http.StatusOK, rec.Code)

	files, err := filepath.Glob(filepath.Join(dir, "summary", "*.json"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
