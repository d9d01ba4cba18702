package dependency

import (
	"context"
	"time"

	"github.com/brewcap/capsule-metrics/internal/entity"
)

//go:generate mockery --with-expecter --case underscore --all --output=./mocks
type (
	// OrderSource yields the full matching order set for a channel, paging
	// internally. The bool result reports whether the page cap truncated
	// the set.
	OrderSource interface {
		FetchOrders(ctx context.Context, r entity.DateRange, query string) ([]entity.OrderRecord, bool, error)
	}

	// ReportStore persists a serialized report for historical record-keeping.
	ReportStore interface {
		Store(ctx context.Context, kind, channel string, day time.Time, report any) (string, error)
	}
)
