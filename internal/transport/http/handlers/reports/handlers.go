package reportshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"salon/internal/domain/auth"
	"salon/internal/domain/reports"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
	"salon/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/monthly", h.handleMonthly)
		r.Get("/revenue-by-job-title", h.handleRevenueByJobTitle)
		r.Get("/top-services", h.handleTopServices)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	dashboard, err := h.Service.Dashboard(r.Context(), time.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build dashboard", reqID)
		return
	}
	api.Success(w, dashboard, reqID)
}

func (h *Handler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	totals, err := h.Service.Monthly(r.Context(), time.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build monthly totals", reqID)
		return
	}
	api.Success(w, totals, reqID)
}

func (h *Handler) handleRevenueByJobTitle(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	from, to, ok := reportRange(w, r, reqID)
	if !ok {
		return
	}
	rows, err := h.Service.RevenueByJobTitle(r.Context(), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build revenue report", reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleTopServices(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	from, to, ok := reportRange(w, r, reqID)
	if !ok {
		return
	}
	rows, err := h.Service.TopServices(r.Context(), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build service report", reqID)
		return
	}
	api.Success(w, rows, reqID)
}

// reportRange parses from/to, defaulting to the trailing 30 days.
func reportRange(w http.ResponseWriter, r *http.Request, reqID string) (time.Time, time.Time, bool) {
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "invalid from date", reqID)
		return time.Time{}, time.Time{}, false
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "invalid to date", reqID)
		return time.Time{}, time.Time{}, false
	}
	if from.IsZero() {
		from = time.Now().AddDate(0, 0, -30)
	}
	if to.IsZero() {
		to = time.Now().AddDate(0, 0, 1)
	}
	return from, to, true
}
