package transactions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kasira/kasira/internal/platform/httpx"
)

// Handler wires sale endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers sale routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/archived/list", h.listArchived)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.archive)
	r.Post("/{id}/restore", h.restore)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		h.logger.Error("list transactions", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Riwayat transaksi berhasil diambil.", result)
}

func (h *Handler) listArchived(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListArchived(r.Context())
	if err != nil {
		h.logger.Error("list archived transactions", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Daftar transaksi arsip berhasil diambil.", result)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form CheckoutForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Item keranjang kosong atau tidak valid.")
		return
	}

	transaction, err := h.service.Create(r.Context(), form)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Transaksi berhasil disimpan.", transaction)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Detail transaksi berhasil diambil.", transaction)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.service.Archive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Transaksi berhasil dihapus dan dipindahkan ke arsip.", transaction)
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.service.Restore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Transaksi berhasil dikembalikan dari arsip dan stok telah dikembalikan.", transaction)
}
