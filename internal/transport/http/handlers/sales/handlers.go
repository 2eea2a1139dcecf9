package saleshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"salon/internal/domain/audit"
	"salon/internal/domain/catalog"
	"salon/internal/domain/sales"
	"salon/internal/platform/pdf"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
	"salon/internal/transport/http/shared"
)

type Handler struct {
	Service     *sales.Service
	SalonName   string
	Audit       *audit.Service
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service *sales.Service, salonName string, auditSvc *audit.Service, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, SalonName: salonName, Audit: auditSvc, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{saleID}", h.handleGet)
		r.Get("/{saleID}/receipt", h.handleReceipt)
	})
}

type createSaleRequest struct {
	sales.Sale
	CustomerEmail string `json:"customerEmail"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	var payload createSaleRequest
	if err := json.Unmarshal(body, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	// A retried POST must not decrement stock or start a checkout twice, so
	// clients may replay the request under an Idempotency-Key header.
	user, _ := middleware.GetUser(r.Context())
	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash(body)
	if idempotencyKey != "" {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, "sales.create", idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", reqID)
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "error", err)
		}
		if found {
			api.Success(w, stored, reqID)
			return
		}
	}

	sale, err := h.Service.CreateSale(r.Context(), payload.Sale, payload.CustomerEmail)
	if err != nil {
		if errors.Is(err, catalog.ErrInsufficientStock) {
			api.Fail(w, http.StatusConflict, "insufficient_stock", err.Error(), reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_sale", err.Error(), reqID)
		return
	}

	if idempotencyKey != "" {
		response, err := json.Marshal(sale)
		if err == nil {
			err = h.Idempotency.Save(r.Context(), user.UserID, "sales.create", idempotencyKey, requestHash, response)
		}
		if err != nil {
			slog.Warn("idempotency save failed", "error", err)
		}
	}
	h.recordAudit(r, "sale.create", sale.ID, sale)
	api.Created(w, sale, reqID)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, after any) {
	user, _ := middleware.GetUser(r.Context())
	err := h.Audit.Record(r.Context(), user.UserID, action, "sale", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, after)
	if err != nil {
		slog.Warn("audit record failed", "action", action, "error", err)
	}
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

	page := shared.ParsePagination(r, 50, 200)
	result, err := h.Service.ListSales(r.Context(), from, to, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list sales", reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	sale, err := h.Service.GetSale(r.Context(), chi.URLParam(r, "saleID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "sale not found", reqID)
		return
	}
	api.Success(w, sale, reqID)
}

func (h *Handler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	sale, err := h.Service.GetSale(r.Context(), chi.URLParam(r, "saleID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "sale not found", reqID)
		return
	}

	doc, err := pdf.Receipt(h.SalonName, sale)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "receipt_failed", "failed to render receipt", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", sale.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
