package catalog

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-shop/meridian/internal/platform/httpx"
	"github.com/meridian-shop/meridian/internal/shared"
)

// ImageStore abstracts product image persistence.
type ImageStore interface {
	Save(file multipart.File, filename string) (string, error)
	Remove(ref string) error
}

type Handler struct {
	logger  *slog.Logger
	service *Service
	images  ImageStore
}

func NewHandler(logger *slog.Logger, service *Service, images ImageStore) *Handler {
	return &Handler{logger: logger, service: service, images: images}
}

const maxUploadBytes = 8 << 20

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
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Search:   q.Get("search"),
		Page:     page,
		Limit:    limit,
	}

	products, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	p := shared.NewPagination(page, limit, total)
	httpx.JSON(w, http.StatusOK, listEnvelope{
		Success: true,
		Count:   len(products),
		Total:   total,
		Page:    p.Page,
		Pages:   p.TotalPages,
		Data:    products,
	})
}

// ListPublic serves the storefront catalog without authentication.
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListPublic(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listEnvelope{Success: true, Count: len(products), Data: products})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, envelope{Success: true, Data: product})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, image, ok := h.parseForm(w, r, true)
	if !ok {
		return
	}

	product, err := h.service.Create(r.Context(), form, image)
	if err != nil {
		// The product row was not written; drop the stored file.
		if image != "" {
			h.removeImage(image)
		}
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, envelope{Success: true, Data: product})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	form, image, ok := h.parseForm(w, r, false)
	if !ok {
		return
	}

	product, replaced, err := h.service.Update(r.Context(), id, form, image)
	if err != nil {
		if image != "" {
			h.removeImage(image)
		}
		h.respondError(w, r, err)
		return
	}
	if replaced != "" {
		h.removeImage(replaced)
	}
	httpx.JSON(w, http.StatusOK, envelope{Success: true, Data: product})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	image, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if image != "" {
		h.removeImage(image)
	}
	httpx.JSON(w, http.StatusOK, messageEnvelope{Success: true, Message: "Product deleted successfully"})
}

// parseForm reads the multipart payload and stores the uploaded image, when
// any. requireImage is enforced by the service for create; here it only
// controls whether a missing file is tolerated silently.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request, requireImage bool) (ProductForm, string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid multipart payload")
		return ProductForm{}, "", false
	}

	price, _ := strconv.ParseFloat(r.PostFormValue("price"), 64)
	originalPrice, _ := strconv.ParseFloat(r.PostFormValue("originalPrice"), 64)
	stock, _ := strconv.Atoi(r.PostFormValue("stock"))

	form := ProductForm{
		Name:          r.PostFormValue("name"),
		Category:      r.PostFormValue("category"),
		Price:         price,
		OriginalPrice: originalPrice,
		Stock:         stock,
		Status:        r.PostFormValue("status"),
		Description:   r.PostFormValue("description"),
		AdLink:        r.PostFormValue("adLink"),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if requireImage {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "product image is required")
			return ProductForm{}, "", false
		}
		return form, "", true
	}
	defer file.Close()

	ref, err := h.images.Save(file, header.Filename)
	if err != nil {
		h.logger.Error("store product image", "error", err)
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return ProductForm{}, "", false
	}
	return form, ref, true
}

func (h *Handler) removeImage(ref string) {
	if err := h.images.Remove(ref); err != nil {
		h.logger.Warn("remove product image", "error", err, "ref", ref)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("catalog request failed", "error", err, "path", r.URL.Path)
	httpx.RespondError(w, err)
}

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type listEnvelope struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Total   int  `json:"total,omitempty"`
	Page    int  `json:"page,omitempty"`
	Pages   int  `json:"pages,omitempty"`
	Data    any  `json:"data"`
}

type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
