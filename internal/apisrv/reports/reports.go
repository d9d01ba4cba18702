package reports

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/brewcap/capsule-metrics/internal/archive"
	"github.com/brewcap/capsule-metrics/internal/dates"
	"github.com/brewcap/capsule-metrics/internal/dto"
	"github.com/brewcap/capsule-metrics/internal/entity"
	"github.com/brewcap/capsule-metrics/internal/metrics"
	"github.com/brewcap/capsule-metrics/internal/report"
	"github.com/brewcap/capsule-metrics/internal/shops"
)

// Server exposes the aggregation pipeline over HTTP. It owns no state of
// its own; every request builds its own order set downstream.
type Server struct {
	svc      *report.Service
	registry *shops.Registry
	archiver *archive.Archiver
	calendar *dates.Calendar
}

func New(svc *report.Service, registry *shops.Registry, archiver *archive.Archiver, calendar *dates.Calendar) *Server {
	return &Server{
		svc:      svc,
		registry: registry,
		archiver: archiver,
		calendar: calendar,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.healthz)
	r.Get("/channels", s.listChannels)
	r.Get("/reports/summary", s.getSummary)
	r.Get("/reports/products", s.getProducts)
	r.Get("/reports/daily", s.getDailyBreakdown)
	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) listChannels(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"channels": s.registry.ChannelIDs()})
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := s.rangeFromRequest(r)
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}
	filter, err := sourceFromRequest(r)
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}
	channel := r.URL.Query().Get("channel")

	summary, _, err := s.svc.Run(r.Context(), channel, rng, filter, metrics.DefaultRankSize)
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}

	resp := dto.ConvertMetricsSummary(summary)
	s.archiveReport(r, "summary", summary.Channel, rng, resp)
	render.JSON(w, r, resp)
}

func (s *Server) getProducts(w http.ResponseWriter, r *http.Request) {
	rng, err := s.rangeFromRequest(r)
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}
	filter, err := sourceFromRequest(r)
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}
	channel := r.URL.Query().Get("channel")

	topN := metrics.DefaultRankSize
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			render.Render(w, r, badRequest("top must be a positive integer"))
			return
		}
		topN = n
	}

	summary, analysis, err := s.svc.Run(r.Context(), channel, rng, filter, topN)
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}

	resp := dto.ConvertProductAnalysis(analysis, summary.Currency)
	s.archiveReport(r, "products", summary.Channel, rng, resp)
	render.JSON(w, r, resp)
}

func (s *Server) getDailyBreakdown(w http.ResponseWriter, r *http.Request) {
	rng, err := s.rangeFromRequest(r)
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}
	filter, err := sourceFromRequest(r)
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}
	channel := r.URL.Query().Get("channel")

	summaries, err := s.svc.DailyBreakdown(r.Context(), channel, rng, filter)
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}

	render.JSON(w, r, map[string]any{"days": dto.ConvertMetricsSummaries(summaries)})
}

// rangeFromRequest resolves the date range from the query string: a named
// period, a single date, or an explicit start/end pair. Defaults to today.
func (s *Server) rangeFromRequest(r *http.Request) (entity.DateRange, error) {
	q := r.URL.Query()

	if day := q.Get("date"); day != "" {
		return dates.SingleDay(day)
	}
	if start, end := q.Get("start"), q.Get("end"); start != "" || end != "" {
		return dates.Explicit(start, end)
	}

	switch period := q.Get("period"); period {
	case "", "today":
		return s.calendar.Today(), nil
	case "yesterday":
		return s.calendar.Yesterday(), nil
	case "past-calendar-month":
		return s.calendar.PastCalendarMonth(), nil
	case "past-calendar-month-to-date":
		return s.calendar.PastCalendarMonthToDate(), nil
	default:
		if n, err := strconv.Atoi(period); err == nil && n > 0 {
			// bare number of months, e.g. period=3
			return s.calendar.PastMonths(n), nil
		}
		return entity.DateRange{}, errUnknownPeriod(period)
	}
}

func sourceFromRequest(r *http.Request) (entity.SourceFilter, error) {
	switch v := r.URL.Query().Get("source"); v {
	case "":
		return entity.SourceAll, nil
	case "online":
		return entity.SourceOnline, nil
	case "pos":
		return entity.SourcePOS, nil
	default:
		return entity.SourceAll, &badParamError{param: "source", value: v, want: "online or pos"}
	}
}

// archiveReport persists the response when archiving is configured and the
// caller asked for it. Failures are logged by the archiver path and do not
// fail the request.
func (s *Server) archiveReport(r *http.Request, kind, channel string, rng entity.DateRange, payload any) {
	if s.archiver == nil || !s.archiver.Enabled() {
		return
	}
	if r.URL.Query().Get("archive") != "true" {
		return
	}
	_, _ = s.archiver.Store(r.Context(), kind, channel, rng.From, payload)
}
