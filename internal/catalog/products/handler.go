package products

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kasira/kasira/internal/platform/httpx"
)

// Handler wires product endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers product routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/next-sku", h.nextSKU)
	r.Get("/archived/list", h.listArchived)
	r.Post("/", h.create)
	r.Post("/regenerate-sku", h.regenerateSKUs)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.archive)
	r.Post("/{id}/restore", h.restore)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Daftar produk berhasil diambil.", result)
}

func (h *Handler) listArchived(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListArchived(r.Context())
	if err != nil {
		h.logger.Error("list archived products", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Daftar produk terarsip berhasil diambil.", result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Detail produk berhasil diambil.", product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form CreateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Data produk tidak valid.")
		return
	}

	product, err := h.service.Create(r.Context(), form)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Produk baru berhasil ditambahkan.", product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form UpdateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Data produk tidak valid.")
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Produk berhasil diperbarui.", product)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Archive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Produk berhasil dihapus.", product)
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Restore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Produk berhasil dipulihkan.", product)
}

func (h *Handler) nextSKU(w http.ResponseWriter, r *http.Request) {
	sku, err := h.service.NextSKU(r.Context())
	if err != nil {
		h.logger.Error("next sku", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "SKU berikutnya berhasil dibuat.", map[string]string{"sku": sku})
}

func (h *Handler) regenerateSKUs(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.RegenerateSKUs(r.Context())
	if err != nil {
		h.logger.Error("regenerate skus", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	message := fmt.Sprintf("%d produk berhasil diperbarui dengan SKU baru.", count)
	httpx.OK(w, http.StatusOK, message, map[string]int{"updated": count})
}
