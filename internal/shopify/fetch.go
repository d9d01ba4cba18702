package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/brewcap/capsule-metrics/internal/entity"
	cerr "github.com/brewcap/capsule-metrics/internal/errors"
)

// FetchOrders drives cursor pagination until the upstream reports no next
// page or the page cap is reached. The cursor dependency makes the loop
// inherently sequential. Returns the accumulated orders and whether the cap
// cut pagination short; any transport or protocol error aborts the whole
// fetch.
//
// Orders are re-filtered against r on the way in: the upstream filter is
// string-based and can leak boundary timestamps.
func (c *Client) FetchOrders(ctx context.Context, r entity.DateRange, query string) ([]entity.OrderRecord, bool, error) {
	var orders []entity.OrderRecord
	var cursor *string

	for page := 0; page < c.c.maxPages(); page++ {
		body := graphQLRequest{
			Query: ordersQuery,
			Variables: map[string]any{
				"query": query,
				"first": c.c.pageSize(),
				"after": cursor,
			},
		}

		resp, err := c.cli.R().SetContext(ctx).SetBody(body).Post("/graphql.json")
		if err != nil {
			return nil, false, fmt.Errorf("orders request for channel %q: %w", c.channel.ID, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, false, &cerr.TransportError{Channel: c.channel.ID, Status: resp.StatusCode()}
		}

		var or ordersResponse
		if err := json.Unmarshal(resp.Body(), &or); err != nil {
			return nil, false, fmt.Errorf("cannot decode orders response for channel %q: %w", c.channel.ID, err)
		}
		if len(or.Errors) > 0 {
			msgs := make([]string, len(or.Errors))
			for i, e := range or.Errors {
				msgs[i] = e.Message
			}
			return nil, false, &cerr.ProtocolError{Channel: c.channel.ID, Messages: msgs}
		}
		if or.Data == nil {
			return nil, false, &cerr.ProtocolError{Channel: c.channel.ID, Messages: []string{"response carried no data"}}
		}

		for _, edge := range or.Data.Orders.Edges {
			o := edge.Node.toEntity()
			if r.Contains(o.CreatedAt) {
				orders = append(orders, o)
			}
		}

		pi := or.Data.Orders.PageInfo
		if !pi.HasNextPage {
			return orders, false, nil
		}
		next := pi.EndCursor
		cursor = &next
	}

	slog.Default().Warn("page cap reached before pagination completed, returning partial set",
		slog.String("channel", c.channel.ID),
		slog.Int("pages", c.c.maxPages()),
		slog.Int("orders", len(orders)))
	return orders, true, nil
}
