package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/frahmantamala/product-catalog/internal"
	"github.com/frahmantamala/product-catalog/internal/transport"
	"github.com/frahmantamala/product-catalog/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.Default()),
		Service:     svc,
	}
}

// Login handles POST /api/auth: credential exchange for a signed token. The
// token is returned both in the body and in the x-auth-token response header.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err, "email", dto.Email)

		var vErr ValidationError
		switch {
		case errors.As(err, &vErr):
			h.WriteError(w, http.StatusBadRequest, vErr.Error())
		case errors.Is(err, ErrInvalidCredentials):
			h.HandleServiceError(w, internal.ErrInvalidCredentials)
		default:
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.Logger.Info("user authenticated", "email", dto.Email)

	w.Header().Set(transport.AuthTokenHeader, token)
	h.WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}
