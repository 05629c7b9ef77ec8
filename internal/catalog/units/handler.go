package units

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kasira/kasira/internal/platform/httpx"
)

// Handler wires unit endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers unit routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list units", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Daftar satuan berhasil diambil.", result)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form CreateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Nama satuan wajib diisi.")
		return
	}

	unit, err := h.service.Create(r.Context(), form)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Satuan baru berhasil ditambahkan.", unit)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Satuan berhasil dihapus.", nil)
}
