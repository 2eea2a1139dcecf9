package schedulehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"salon/internal/domain/audit"
	"salon/internal/domain/schedule"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
	"salon/internal/transport/http/shared"
)

type Handler struct {
	Service *schedule.Service
	Audit   *audit.Service
}

func NewHandler(service *schedule.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, after any) {
	user, _ := middleware.GetUser(r.Context())
	err := h.Audit.Record(r.Context(), user.UserID, action, "schedule_event", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, after)
	if err != nil {
		slog.Warn("audit record failed", "action", action, "error", err)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/schedule", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/availability", h.handleAvailability)
		r.Get("/events", h.handleListEvents)
		r.Post("/events", h.handleCreateEvent)
		r.Put("/events/{eventID}", h.handleUpdateEvent)
		r.Post("/events/{eventID}/cancel", h.handleCancelEvent)
	})
}

func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	date, err := shared.ParseDate(r.URL.Query().Get("date"))
	if err != nil || date.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date query parameter is required (YYYY-MM-DD)", reqID)
		return
	}
	jobTitle := r.URL.Query().Get("jobTitle")
	if jobTitle == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_job_title", "jobTitle query parameter is required", reqID)
		return
	}
	duration, err := strconv.Atoi(r.URL.Query().Get("duration"))
	if err != nil || duration <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_duration", "duration must be a positive number of minutes", reqID)
		return
	}

	result, err := h.Service.Availability(r.Context(), time.Now(), date, jobTitle, duration)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "availability_failed", "failed to compute availability", reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "invalid from date", reqID)
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "invalid to date", reqID)
		return
	}
	if from.IsZero() {
		from = time.Now().AddDate(0, -1, 0)
	}
	if to.IsZero() {
		to = time.Now().AddDate(0, 1, 0)
	}

	events, err := h.Service.ListEvents(r.Context(), from, to, r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list events", reqID)
		return
	}
	api.Success(w, events, reqID)
}

type eventRequest struct {
	EmployeeID string    `json:"employeeId"`
	ClientID   string    `json:"clientId"`
	ServiceID  string    `json:"serviceId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	IsAllDay   bool      `json:"isAllDay"`
	Notes      string    `json:"notes"`
}

func (req eventRequest) toEvent() schedule.Event {
	return schedule.Event{
		EmployeeID: req.EmployeeID,
		ClientID:   req.ClientID,
		ServiceID:  req.ServiceID,
		Start:      req.Start,
		End:        req.End,
		Status:     req.Status,
		IsAllDay:   req.IsAllDay,
		Notes:      req.Notes,
	}
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload eventRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	id, err := h.Service.CreateEvent(r.Context(), payload.toEvent())
	if err != nil {
		writeBookingError(w, err, reqID)
		return
	}
	h.recordAudit(r, "schedule.event.create", id, payload)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload eventRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	ev := payload.toEvent()
	ev.ID = chi.URLParam(r, "eventID")

	if err := h.Service.UpdateEvent(r.Context(), ev); err != nil {
		writeBookingError(w, err, reqID)
		return
	}
	h.recordAudit(r, "schedule.event.update", ev.ID, payload)
	api.Success(w, map[string]string{"id": ev.ID}, reqID)
}

func (h *Handler) handleCancelEvent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "eventID")

	if err := h.Service.CancelEvent(r.Context(), id); err != nil {
		if errors.Is(err, schedule.ErrEventNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "event not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "cancel_failed", "failed to cancel event", reqID)
		return
	}
	h.recordAudit(r, "schedule.event.cancel", id, nil)
	api.Success(w, map[string]string{"id": id, "status": schedule.StatusCanceled}, reqID)
}

// writeBookingError maps service failures onto statuses: overlap conflicts are
// 409, outside-hours rejections 422, unknown references 404.
func writeBookingError(w http.ResponseWriter, err error, reqID string) {
	var bookingErr *schedule.BookingError
	switch {
	case errors.As(err, &bookingErr):
		status := http.StatusConflict
		code := "booking_conflict"
		if bookingErr.Check.Conflict == schedule.ConflictOutsideHours {
			status = http.StatusUnprocessableEntity
			code = "outside_working_hours"
		}
		api.Fail(w, status, code, bookingErr.Check.Reason, reqID)
	case errors.Is(err, schedule.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, schedule.ErrEventNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "event not found", reqID)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_event", err.Error(), reqID)
	}
}
