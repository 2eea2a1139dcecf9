package streamhandler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"salon/internal/stream"
	"salon/internal/transport/http/api"
	"salon/internal/transport/http/middleware"
)

const heartbeatInterval = 25 * time.Second

type Handler struct {
	Broker *stream.Broker
}

func NewHandler(broker *stream.Broker) *Handler {
	return &Handler{Broker: broker}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireUser).Get("/stream", h.handleStream)
}

// handleStream holds the connection open and emits a "schedule" event every
// time the schedule changes. Consecutive changes may coalesce into one event;
// subscribers re-fetch on each event rather than diffing payloads.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Fail(w, http.StatusInternalServerError, "stream_unsupported", "streaming is not supported", middleware.GetRequestID(r.Context()))
		return
	}

	changes, cancel := h.Broker.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-changes:
			fmt.Fprint(w, "event: schedule\ndata: changed\n\n")
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
