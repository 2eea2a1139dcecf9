package clientshandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"salon/internal/domain/audit"
	"salon/internal/domain/clients"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
	"salon/internal/transport/http/shared"
)

type Handler struct {
	Store *clients.Store
	Audit *audit.Service
}

func NewHandler(store *clients.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	err := h.Audit.Record(r.Context(), user.UserID, action, "client", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after)
	if err != nil {
		slog.Warn("audit record failed", "action", action, "error", err)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{clientID}", h.handleGet)
		r.Put("/{clientID}", h.handleUpdate)
		r.Delete("/{clientID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	page := shared.ParsePagination(r, 50, 200)
	result, err := h.Store.List(r.Context(), r.URL.Query().Get("search"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list clients", reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	client, err := h.Store.Get(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "client not found", reqID)
		return
	}
	api.Success(w, client, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload clients.Client
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_client", "client name is required", reqID)
		return
	}

	id, err := h.Store.Create(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create client", reqID)
		return
	}
	h.recordAudit(r, "client.create", id, nil, payload)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload clients.Client
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_client", "client name is required", reqID)
		return
	}
	payload.ID = chi.URLParam(r, "clientID")

	if err := h.Store.Update(r.Context(), payload); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update client", reqID)
		return
	}
	h.recordAudit(r, "client.update", payload.ID, nil, payload)
	api.Success(w, map[string]string{"id": payload.ID}, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "clientID")

	before, _ := h.Store.Get(r.Context(), id)
	if err := h.Store.Delete(r.Context(), id); err != nil {
		api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to delete client", reqID)
		return
	}
	h.recordAudit(r, "client.delete", id, before, nil)
	api.Success(w, map[string]string{"id": id}, reqID)
}
