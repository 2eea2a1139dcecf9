package expenseshandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"salon/internal/domain/audit"
	"salon/internal/domain/expenses"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
	"salon/internal/transport/http/shared"
)

type Handler struct {
	Store *expenses.Store
	Audit *audit.Service
}

func NewHandler(store *expenses.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, after any) {
	user, _ := middleware.GetUser(r.Context())
	err := h.Audit.Record(r.Context(), user.UserID, action, "expense", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, after)
	if err != nil {
		slog.Warn("audit record failed", "action", action, "error", err)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Put("/{expenseID}", h.handleUpdate)
		r.Delete("/{expenseID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
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
		to = time.Now().AddDate(0, 0, 1)
	}

	list, err := h.Store.List(r.Context(), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list expenses", reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload expenses.Expense
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if msg := validateExpense(payload); msg != "" {
		api.Fail(w, http.StatusBadRequest, "invalid_expense", msg, reqID)
		return
	}

	id, err := h.Store.Create(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create expense", reqID)
		return
	}
	h.recordAudit(r, "expense.create", id, payload)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload expenses.Expense
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if msg := validateExpense(payload); msg != "" {
		api.Fail(w, http.StatusBadRequest, "invalid_expense", msg, reqID)
		return
	}
	payload.ID = chi.URLParam(r, "expenseID")

	if err := h.Store.Update(r.Context(), payload); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update expense", reqID)
		return
	}
	h.recordAudit(r, "expense.update", payload.ID, payload)
	api.Success(w, map[string]string{"id": payload.ID}, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "expenseID")

	if err := h.Store.Delete(r.Context(), id); err != nil {
		api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to delete expense", reqID)
		return
	}
	h.recordAudit(r, "expense.delete", id, nil)
	api.Success(w, map[string]string{"id": id}, reqID)
}

func validateExpense(e expenses.Expense) string {
	if strings.TrimSpace(e.Description) == "" {
		return "expense description is required"
	}
	if e.Amount <= 0 {
		return "expense amount must be positive"
	}
	if e.IncurredOn.IsZero() {
		return "expense date is required"
	}
	return ""
}
