package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-shop/meridian/internal/platform/httpx"
	"github.com/meridian-shop/meridian/internal/shared"
	"github.com/meridian-shop/meridian/internal/stockledger"
)

// MetricsPort counts order mutations and stock rejections. Nil disables it.
type MetricsPort interface {
	RecordOrder(operation, outcome string)
	RecordStockRejection()
}

type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics MetricsPort
}

func NewHandler(logger *slog.Logger, service *Service, metrics MetricsPort) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// Create handles checkout. The Idempotency-Key header, when present,
// deduplicates double submissions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input CreateOrderInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}

	order, err := h.service.Create(r.Context(), input, r.Header.Get("Idempotency-Key"))
	if err != nil {
		h.recordOrder("create", err)
		h.respondError(w, r, err)
		return
	}
	h.recordOrder("create", nil)
	httpx.JSON(w, http.StatusCreated, envelope{Success: true, Data: order})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 100
	}
	filters := ListFilters{
		Product: q.Get("product"),
		City:    q.Get("city"),
		Status:  q.Get("status"),
		Search:  q.Get("search"),
		Page:    page,
		Limit:   limit,
	}

	list, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	p := shared.NewPagination(page, limit, total)
	httpx.JSON(w, http.StatusOK, listEnvelope{
		Success: true,
		Count:   len(list),
		Total:   total,
		Page:    p.Page,
		Pages:   p.TotalPages,
		Data:    list,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, envelope{Success: true, Data: order})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	var input UpdateOrderInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}

	order, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.recordOrder("update", err)
		h.respondError(w, r, err)
		return
	}
	h.recordOrder("update", nil)
	httpx.JSON(w, http.StatusOK, envelope{Success: true, Data: order})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.recordOrder("delete", err)
		h.respondError(w, r, err)
		return
	}
	h.recordOrder("delete", nil)
	httpx.JSON(w, http.StatusOK, messageEnvelope{Success: true, Message: "Order deleted successfully"})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, envelope{Success: true, Data: stats})
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var insufficient *stockledger.InsufficientStockError
	if errors.As(err, &insufficient) {
		if h.metrics != nil {
			h.metrics.RecordStockRejection()
		}
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", insufficient.Error())
		return
	}
	h.logger.Error("orders request failed", "error", err, "path", r.URL.Path)
	httpx.RespondError(w, err)
}

func (h *Handler) recordOrder(operation string, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	h.metrics.RecordOrder(operation, outcome)
}

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type listEnvelope struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	Data    any  `json:"data"`
}

type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
