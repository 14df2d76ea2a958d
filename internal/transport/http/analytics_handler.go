package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"feiralens/internal/analytics"
	apierrors "feiralens/internal/errors"
	"feiralens/pkg/contracts/domain"
)

const (
	defaultTopCategories    = 5
	defaultTopSubcategories = 10
)

// AnalyticsHandler serves KPI, rollup, trend and insight queries over the
// current sale collection.
type AnalyticsHandler struct {
	service *analytics.Service
	logger  *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *analytics.Service, logger *slog.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With(slog.String("component", "analytics_handler")),
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/kpis", h.GetKPIs)
	r.Get("/items", h.GetItems)
	r.Get("/categories", h.GetCategories)
	r.Get("/subcategories", h.GetSubcategories)
	r.Get("/trend", h.GetTrend)
	r.Get("/daily", h.GetDaily)
	r.Get("/insights", h.GetInsights)

	r.Get("/filter", h.GetFilter)
	r.Put("/filter", h.PutFilter)

	return r
}

// GetKPIs handles GET /api/analytics/kpis
func (h *AnalyticsHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.KPIs())
}

// GetItems handles GET /api/analytics/items
func (h *AnalyticsHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.ItemRollup())
}

// GetCategories handles GET /api/analytics/categories?limit=N
func (h *AnalyticsHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, defaultTopCategories)
	if err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	render.JSON(w, r, h.service.TopCategories(limit))
}

// GetSubcategories handles GET /api/analytics/subcategories?limit=N
func (h *AnalyticsHandler) GetSubcategories(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, defaultTopSubcategories)
	if err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	render.JSON(w, r, h.service.TopSubcategories(limit))
}

// GetTrend handles GET /api/analytics/trend?group=week|month
func (h *AnalyticsHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	grouping := domain.TrendGrouping(r.URL.Query().Get("group"))
	switch grouping {
	case "":
		grouping = domain.TrendWeekly
	case domain.TrendWeekly, domain.TrendMonthly:
	default:
		render.Render(w, r, apierrors.NewWithDetails(http.StatusBadRequest,
			"INVALID_REQUEST", "Invalid trend grouping", string(grouping)))
		return
	}
	render.JSON(w, r, h.service.Trend(grouping))
}

// GetDaily handles GET /api/analytics/daily
func (h *AnalyticsHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.DailySeries())
}

// GetInsights handles GET /api/analytics/insights
func (h *AnalyticsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Insights())
}

// GetFilter handles GET /api/analytics/filter
func (h *AnalyticsHandler) GetFilter(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Filter())
}

// FilterRequest wraps the analysis filter for binding.
type FilterRequest struct {
	domain.AnalysisFilter
}

// Bind implements render.Binder
func (req *FilterRequest) Bind(r *http.Request) error {
	return validate.Struct(req.AnalysisFilter)
}

// PutFilter handles PUT /api/analytics/filter
func (h *AnalyticsHandler) PutFilter(w http.ResponseWriter, r *http.Request) {
	req := &FilterRequest{}
	if err := render.Bind(r, req); err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.service.SetFilter(req.AnalysisFilter)
	h.logger.InfoContext(r.Context(), "analysis filter updated",
		slog.Int("categories", len(req.Categories)),
		slog.Int("items", len(req.Items)))

	render.JSON(w, r, h.service.Filter())
}

func limitParam(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return limit, nil
}
