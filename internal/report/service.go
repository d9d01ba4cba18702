package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/brewcap/capsule-metrics/internal/dates"
	"github.com/brewcap/capsule-metrics/internal/dependency"
	"github.com/brewcap/capsule-metrics/internal/entity"
	"github.com/brewcap/capsule-metrics/internal/metrics"
	"github.com/brewcap/capsule-metrics/internal/shopify"
	"github.com/brewcap/capsule-metrics/internal/shops"
	"github.com/brewcap/capsule-metrics/internal/source"
)

// defaultSweepDelay paces successive per-day requests in historical sweeps
// so we do not trip the upstream rate limit. A courtesy, not a correctness
// requirement.
const defaultSweepDelay = 50 * time.Millisecond

type Config struct {
	SweepDelay time.Duration `mapstructure:"sweep_delay"`
}

// Service runs the fetch-and-aggregate pipeline: resolve channel, build
// query, page through orders, classify, aggregate. Each invocation builds
// its own order set and aggregates independently, so invocations may run
// concurrently with no locking.
type Service struct {
	registry *shops.Registry
	agg      *metrics.Aggregator
	limiter  *rate.Limiter

	// newSource is swapped out in tests.
	newSource func(entity.ShopChannel) (dependency.OrderSource, error)
}

func New(c *Config, registry *shops.Registry, agg *metrics.Aggregator, upstream *shopify.Config) *Service {
	delay := c.SweepDelay
	if delay == 0 {
		delay = defaultSweepDelay
	}
	return &Service{
		registry: registry,
		agg:      agg,
		limiter:  rate.NewLimiter(rate.Every(delay), 1),
		newSource: func(ch entity.ShopChannel) (dependency.OrderSource, error) {
			return shopify.NewClient(upstream, ch)
		},
	}
}

// Run produces the summary and product ranking for one channel and range.
// Errors propagate uncaught; the reporting layer maps them to transport
// responses.
func (s *Service) Run(ctx context.Context, channelID string, r entity.DateRange, filter entity.SourceFilter, topN int) (*entity.MetricsSummary, *entity.ProductAnalysis, error) {
	ch := s.registry.Resolve(channelID)

	src, err := s.newSource(ch)
	if err != nil {
		return nil, nil, err
	}

	orders, truncated, err := src.FetchOrders(ctx, r, shopify.BuildQuery(r, ch))
	if err != nil {
		return nil, nil, fmt.Errorf("fetch for channel %q: %w", ch.ID, err)
	}
	orders = source.Filter(orders, filter)

	summary := s.agg.Summarize(orders, r)
	summary.Channel = ch.ID
	summary.Source = filter
	summary.Truncated = truncated

	analysis := s.agg.AnalyzeProducts(orders, topN)

	slog.Default().Info("report computed",
		slog.String("channel", ch.ID),
		slog.Int("orders", summary.OrdersCount),
		slog.Bool("truncated", truncated))

	return summary, analysis, nil
}

// DailyBreakdown runs one summary per calendar day of the range, in
// ascending order, pacing requests through the sweep limiter.
func (s *Service) DailyBreakdown(ctx context.Context, channelID string, r entity.DateRange, filter entity.SourceFilter) ([]*entity.MetricsSummary, error) {
	days := dates.Days(r)
	out := make([]*entity.MetricsSummary, 0, len(days))
	for i, day := range days {
		if i > 0 {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		dayRange, err := dates.SingleDay(day.Format("2006-01-02"))
		if err != nil {
			return nil, err
		}
		summary, _, err := s.Run(ctx, channelID, dayRange, filter, metrics.DefaultRankSize)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

// Sweep runs the pipeline for every configured channel concurrently. The
// invocations share nothing mutable; results are keyed by channel id.
func (s *Service) Sweep(ctx context.Context, r entity.DateRange, filter entity.SourceFilter) (map[string]*entity.MetricsSummary, error) {
	var mu sync.Mutex
	out := make(map[string]*entity.MetricsSummary)

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range s.registry.ChannelIDs() {
		id := id
		g.Go(func() error {
			summary, _, err := s.Run(gctx, id, r, filter, metrics.DefaultRankSize)
			if err != nil {
				return fmt.Errorf("channel %q: %w", id, err)
			}
			mu.Lock()
			out[id] = summary
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
