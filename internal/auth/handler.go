package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kasira/kasira/internal/platform/httpx"
	"github.com/kasira/kasira/internal/shared"
	"github.com/kasira/kasira/internal/shared/apperr"
	"github.com/kasira/kasira/internal/validate"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *TokenManager
	validator *validate.Validator
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *TokenManager, validator *validate.Validator) *Handler {
	return &Handler{logger: logger, service: service, tokens: tokens, validator: validator}
}

// MountRoutes registers auth routes on the provided router. Login is public;
// /me sits behind the bearer gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.With(RequireAuth(h.tokens)).Get("/me", h.handleMe)
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Kata sandi"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Email dan kata sandi wajib diisi.")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			h.logger.Error("login failed", slog.Any("error", err))
		}
		httpx.Error(w, err)
		return
	}

	httpx.OK(w, http.StatusOK, "Login berhasil.", result)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Token tidak valid")
		return
	}

	user, err := h.service.Me(r.Context(), identity.UserID)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.OK(w, http.StatusOK, "Data pengguna berhasil diambil.", user)
}
