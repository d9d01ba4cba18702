package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/brewcap/capsule-metrics/app"
	"github.com/brewcap/capsule-metrics/config"
	"github.com/brewcap/capsule-metrics/internal/dates"
	"github.com/brewcap/capsule-metrics/internal/dto"
	"github.com/brewcap/capsule-metrics/internal/entity"
	"github.com/brewcap/capsule-metrics/internal/metrics"
	"github.com/brewcap/capsule-metrics/log"
)

var (
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Run one aggregation and print the result as JSON",
		RunE:  runReport,
	}

	flagChannel  string
	flagDate     string
	flagStart    string
	flagEnd      string
	flagPeriod   string
	flagSource   string
	flagTop      int
	flagProducts bool
	flagDaily    bool
	flagAll      bool
	flagArchive  bool
)

func init() {
	reportCmd.Flags().StringVar(&flagChannel, "channel", "", "channel id (default channel when omitted)")
	reportCmd.Flags().StringVar(&flagDate, "date", "", "single day, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&flagStart, "start", "", "range start, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&flagEnd, "end", "", "range end, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&flagPeriod, "period", "", "today, yesterday, past-calendar-month, past-calendar-month-to-date or a month count")
	reportCmd.Flags().StringVar(&flagSource, "source", "", "filter by order source: online or pos")
	reportCmd.Flags().IntVar(&flagTop, "top", metrics.DefaultRankSize, "rank list size for --products")
	reportCmd.Flags().BoolVar(&flagProducts, "products", false, "print the product popularity ranking instead of the summary")
	reportCmd.Flags().BoolVar(&flagDaily, "daily", false, "print one summary per calendar day of the range")
	reportCmd.Flags().BoolVar(&flagAll, "all-channels", false, "sweep every configured channel")
	reportCmd.Flags().BoolVar(&flagArchive, "archive", false, "also write the report to the archive directory")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	slog.SetDefault(log.New(&cfg.Logger))

	svc, _, archiver, err := app.BuildPipeline(cfg)
	if err != nil {
		return err
	}

	rng, err := resolveRange()
	if err != nil {
		return err
	}
	filter, err := resolveSource()
	if err != nil {
		return err
	}

	ctx := context.Background()

	switch {
	case flagAll:
		summaries, err := svc.Sweep(ctx, rng, filter)
		if err != nil {
			return err
		}
		byChannel := make(map[string]*dto.MetricsSummary, len(summaries))
		for id, s := range summaries {
			byChannel[id] = dto.ConvertMetricsSummary(s)
		}
		return printJSON(byChannel)

	case flagDaily:
		summaries, err := svc.DailyBreakdown(ctx, flagChannel, rng, filter)
		if err != nil {
			return err
		}
		return printJSON(dto.ConvertMetricsSummaries(summaries))

	default:
		summary, analysis, err := svc.Run(ctx, flagChannel, rng, filter, flagTop)
		if err != nil {
			return err
		}
		var out any = dto.ConvertMetricsSummary(summary)
		kind := "summary"
		if flagProducts {
			out = dto.ConvertProductAnalysis(analysis, summary.Currency)
			kind = "products"
		}
		if flagArchive && archiver.Enabled() {
			path, err := archiver.Store(ctx, kind, summary.Channel, rng.From, out)
			if err != nil {
				return err
			}
			slog.Default().Info("report archived", slog.String("path", path))
		}
		return printJSON(out)
	}
}

func resolveRange() (entity.DateRange, error) {
	cal := dates.NewCalendar()
	switch {
	case flagDate != "":
		return dates.SingleDay(flagDate)
	case flagStart != "" || flagEnd != "":
		return dates.Explicit(flagStart, flagEnd)
	}
	switch flagPeriod {
	case "", "today":
		return cal.Today(), nil
	case "yesterday":
		return cal.Yesterday(), nil
	case "past-calendar-month":
		return cal.PastCalendarMonth(), nil
	case "past-calendar-month-to-date":
		return cal.PastCalendarMonthToDate(), nil
	default:
		if n, err := strconv.Atoi(flagPeriod); err == nil && n > 0 {
			return cal.PastMonths(n), nil
		}
		return entity.DateRange{}, fmt.Errorf("unknown period %q", flagPeriod)
	}
}

func resolveSource() (entity.SourceFilter, error) {
	switch flagSource {
	case "":
		return entity.SourceAll, nil
	case "online":
		return entity.SourceOnline, nil
	case "pos":
		return entity.SourcePOS, nil
	default:
		return entity.SourceAll, fmt.Errorf("unknown source %q, want online or pos", flagSource)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
