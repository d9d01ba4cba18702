package app

import (
	"context"
	"fmt"

	"github.com/brewcap/capsule-metrics/config"
	httpapi "github.com/brewcap/capsule-metrics/internal/api/http"
	"github.com/brewcap/capsule-metrics/internal/archive"
	"github.com/brewcap/capsule-metrics/internal/apisrv/reports"
	"github.com/brewcap/capsule-metrics/internal/catalog"
	"github.com/brewcap/capsule-metrics/internal/dates"
	"github.com/brewcap/capsule-metrics/internal/metrics"
	"github.com/brewcap/capsule-metrics/internal/report"
	"github.com/brewcap/capsule-metrics/internal/shops"
)

// App assembles the pipeline: registry, catalog, aggregator, report
// service, archiver and the http surface.
type App struct {
	c  *config.Config
	hs *httpapi.Server
}

func New(c *config.Config) *App {
	return &App{c: c}
}

// Start builds every component and brings the http server up.
func (a *App) Start(ctx context.Context) error {
	svc, registry, archiver, err := BuildPipeline(a.c)
	if err != nil {
		return err
	}

	reportsServer := reports.New(svc, registry, archiver, dates.NewCalendar())

	a.hs = httpapi.New(&a.c.HTTP)
	if err := a.hs.Start(ctx, reportsServer); err != nil {
		return fmt.Errorf("cannot start http server: %w", err)
	}
	return nil
}

// Stop shuts the http server down.
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		_ = a.hs.Stop(ctx)
	}
}

// Done reports http server exit.
func (a *App) Done() <-chan struct{} {
	if a.hs == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return a.hs.Done()
}

// BuildPipeline wires the aggregation pipeline without the http surface;
// the one-shot CLI reuses it.
func BuildPipeline(c *config.Config) (*report.Service, *shops.Registry, *archive.Archiver, error) {
	registry := shops.New(&c.Shops)

	cat, err := catalog.New(&c.Catalog)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot load capsule catalog: %w", err)
	}

	archiver, err := archive.New(&c.Archive)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot init report archive: %w", err)
	}

	svc := report.New(&c.Report, registry, metrics.New(cat), &c.Upstream)
	return svc, registry, archiver, nil
}
