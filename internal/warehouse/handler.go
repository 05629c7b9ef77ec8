package warehouse

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kasira/kasira/internal/platform/httpx"
)

// Handler wires warehouse ledger endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers warehouse routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/archived/list", h.listArchived)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.archive)
	r.Post("/{id}/restore", h.restore)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list warehouse entries", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Data gudang berhasil diambil.", result)
}

func (h *Handler) listArchived(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListArchived(r.Context())
	if err != nil {
		h.logger.Error("list archived warehouse entries", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Data gudang arsip berhasil diambil.", result)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form CreateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Nama produk, tipe, dan jumlah wajib diisi.")
		return
	}

	entry, err := h.service.Create(r.Context(), form)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	message := fmt.Sprintf("Barang %s berhasil dicatat.", entry.Type)
	httpx.OK(w, http.StatusCreated, message, entry)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form UpdateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Data gudang tidak valid.")
		return
	}

	entry, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Data gudang berhasil diperbarui.", entry)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Archive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Data gudang berhasil dipindahkan ke arsip.", entry)
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Restore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Data gudang berhasil dikembalikan dari arsip.", entry)
}
