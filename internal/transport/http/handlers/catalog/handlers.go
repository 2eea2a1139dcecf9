package cataloghandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"salon/internal/domain/audit"
	"salon/internal/domain/auth"
	"salon/internal/domain/catalog"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
	"salon/internal/transport/http/shared"
)

type Handler struct {
	Store *catalog.Store
	Audit *audit.Service
}

func NewHandler(store *catalog.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) recordAudit(r *http.Request, action, entityType, entityID string, after any) {
	user, _ := middleware.GetUser(r.Context())
	err := h.Audit.Record(r.Context(), user.UserID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, after)
	if err != nil {
		slog.Warn("audit record failed", "action", action, "error", err)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/services", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleListServices)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", h.handleCreateService)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Put("/{serviceID}", h.handleUpdateService)
	})
	r.Route("/products", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleListProducts)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/", h.handleCreateProduct)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Put("/{productID}", h.handleUpdateProduct)
	})
}

func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	activeOnly := r.URL.Query().Get("all") != "true"
	services, err := h.Store.ListServices(r.Context(), activeOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list services", reqID)
		return
	}
	api.Success(w, services, reqID)
}

func (h *Handler) handleCreateService(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload catalog.Service
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if msg := validateService(payload); msg != "" {
		api.Fail(w, http.StatusBadRequest, "invalid_service", msg, reqID)
		return
	}

	id, err := h.Store.CreateService(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create service", reqID)
		return
	}
	h.recordAudit(r, "catalog.service.create", "service", id, payload)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload catalog.Service
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if msg := validateService(payload); msg != "" {
		api.Fail(w, http.StatusBadRequest, "invalid_service", msg, reqID)
		return
	}
	payload.ID = chi.URLParam(r, "serviceID")

	if err := h.Store.UpdateService(r.Context(), payload); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update service", reqID)
		return
	}
	h.recordAudit(r, "catalog.service.update", "service", payload.ID, payload)
	api.Success(w, map[string]string{"id": payload.ID}, reqID)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	activeOnly := r.URL.Query().Get("all") != "true"
	products, err := h.Store.ListProducts(r.Context(), activeOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list products", reqID)
		return
	}
	api.Success(w, products, reqID)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_product", "product name is required", reqID)
		return
	}

	id, err := h.Store.CreateProduct(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create product", reqID)
		return
	}
	h.recordAudit(r, "catalog.product.create", "product", id, payload)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_product", "product name is required", reqID)
		return
	}
	payload.ID = chi.URLParam(r, "productID")

	if err := h.Store.UpdateProduct(r.Context(), payload); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update product", reqID)
		return
	}
	h.recordAudit(r, "catalog.product.update", "product", payload.ID, payload)
	api.Success(w, map[string]string{"id": payload.ID}, reqID)
}

func validateService(sv catalog.Service) string {
	if strings.TrimSpace(sv.Name) == "" {
		return "service name is required"
	}
	if strings.TrimSpace(sv.JobTitle) == "" {
		return "service job title is required"
	}
	if sv.DurationMinutes <= 0 {
		return "service duration must be positive"
	}
	return ""
}
