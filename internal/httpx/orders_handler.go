package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/bookstore-orders/internal/auth"
	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type OrdersHandler struct {
	Service *orders.Service
	Auth    *auth.Verifier
	Log     *slog.Logger
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(auth.Middleware(h.Auth, h.unauthorized))
		r.Post("/", h.createOrder)
		r.Get("/", h.listOwn)
		r.Get("/admin/all", h.listAll)
		r.Get("/{id}", h.getOrder)
		r.Get("/{id}/history", h.history)
		r.Patch("/{id}/status", h.setStatus)
		r.Patch("/{id}/cancel", h.cancelOrder)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, ErrorResp{Error: errCode, Message: msg})
}

func (h *OrdersHandler) log() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func (h *OrdersHandler) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	h.log().DebugContext(r.Context(), "rejected request", "error", err)
	writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
}

// writeServiceError maps order errors to status codes. Unexpected errors are
// logged and reported without detail.
func (h *OrdersHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *orders.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Code, err.Error())
	case errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, "invalid_transition", err.Error())
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, orders.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, orders.ErrConflict), errors.Is(err, orders.ErrIdempotencyInFlight):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		h.log().ErrorContext(r.Context(), "order request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func identity(r *http.Request) orders.Identity {
	who, _ := auth.FromContext(r.Context())
	return who
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, replayed, err := h.Service.Create(ctx, identity(r), req.input(), r.Header.Get("Idempotency-Key"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if replayed {
		w.Header().Set("Idempotent-Replay", "true")
		writeJSON(w, http.StatusOK, o)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) listOwn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Service.ListOwn(ctx, identity(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	out, err := h.Service.ListAll(ctx, identity(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Service.Get(ctx, identity(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) history(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Service.OrderHistory(ctx, identity(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.SetStatus(ctx, identity(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.Cancel(ctx, identity(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
