package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kasira/kasira/internal/platform/httpx"
)

// Handler wires the sales report endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the report route on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.report)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Build(r.Context())
	if err != nil {
		h.logger.Error("sales report", slog.Any("error", err))
		httpx.Error(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Laporan penjualan berhasil diambil.", report)
}
