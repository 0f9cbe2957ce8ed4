package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/product-catalog/internal"
	"github.com/frahmantamala/product-catalog/internal/audit"
	"github.com/frahmantamala/product-catalog/internal/auth"
	"github.com/frahmantamala/product-catalog/internal/pagination"
	"github.com/frahmantamala/product-catalog/internal/transport"
	"github.com/frahmantamala/product-catalog/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateUserDTO) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, params pagination.Params) ([]map[string]interface{}, error)
	Delete(ctx context.Context, id string) (*User, error)
}

type AuditReporter interface {
	Report(ctx context.Context, principal auth.Principal, method audit.Method, data string) bool
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Audit   AuditReporter
}

func NewHandler(service ServiceAPI, reporter AuditReporter) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.Default()),
		Service:     service,
		Audit:       reporter,
	}
}

// Create handles POST /api/users. Registration is an authorized operation,
// not a public signup.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			h.HandleServiceError(w, internal.NewValidationError(fmt.Sprintf("User already registered: %s", dto.Email), internal.ErrCodeUserExists))
			return
		}
		h.Logger.Error("Create: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	if !h.reportAudit(r, audit.MethodPost, created) {
		h.HandleServiceError(w, internal.ErrAuditUnavailable)
		return
	}

	h.WriteJSON(w, http.StatusOK, created)
}

// Get handles GET /api/users. With userId or email it is a singular lookup
// (a miss is 400, matching the original API); otherwise a paged listing.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	switch {
	case query.Get("userId") != "":
		h.getOne(w, r, func(ctx context.Context) (*User, error) {
			return h.Service.GetByID(ctx, query.Get("userId"))
		}, fmt.Sprintf("User with ID %s was not found", query.Get("userId")))
	case query.Get("email") != "":
		h.getOne(w, r, func(ctx context.Context) (*User, error) {
			return h.Service.GetByEmail(ctx, query.Get("email"))
		}, fmt.Sprintf("User with email %s was not found", query.Get("email")))
	default:
		h.list(w, r)
	}
}

// Me handles GET /api/users/me: the authenticated user's own record. Only a
// valid token is required, no operation grant.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	u, err := h.Service.GetByID(r.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.WriteError(w, http.StatusBadRequest, fmt.Sprintf("User with ID %s was not found", principal.UserID))
			return
		}
		h.Logger.Error("Me: service error", "error", err, "user_id", principal.UserID)
		h.HandleServiceError(w, err)
		return
	}

	if !h.reportAudit(r, audit.MethodGet, u) {
		h.HandleServiceError(w, internal.ErrAuditUnavailable)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// getOne answers a singular lookup. The miss message names the lookup key the
// caller used, ID or email, so it is formatted at the call site.
func (h *Handler) getOne(w http.ResponseWriter, r *http.Request, load func(context.Context) (*User, error), missMessage string) {
	u, err := load(r.Context())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.WriteError(w, http.StatusBadRequest, missMessage)
			return
		}
		h.Logger.Error("Get: service error", "error", err, "miss", missMessage)
		h.HandleServiceError(w, err)
		return
	}

	if !h.reportAudit(r, audit.MethodGet, u) {
		h.HandleServiceError(w, internal.ErrAuditUnavailable)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)

	results, err := h.Service.List(r.Context(), params)
	if err != nil {
		h.Logger.Error("List: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	if !h.reportAudit(r, audit.MethodGet, results) {
		h.HandleServiceError(w, internal.ErrAuditUnavailable)
		return
	}

	h.WriteJSON(w, http.StatusOK, pagination.BuildPage(r, params, len(results), results))
}

// Delete handles DELETE /api/users?userId=. A missing target is 404.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("userId")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, ErrMissingID.Error())
		return
	}

	deleted, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.HandleServiceError(w, internal.NewNotFoundError("Not found", internal.ErrCodeUserNotFound))
			return
		}
		h.Logger.Error("Delete: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	if !h.reportAudit(r, audit.MethodDelete, deleted) {
		h.HandleServiceError(w, internal.ErrAuditUnavailable)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "Success"})
}

func (h *Handler) reportAudit(r *http.Request, method audit.Method, payload interface{}) bool {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return true
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.Logger.Error("audit payload marshal failed", "error", err)
		data = []byte("{}")
	}

	return h.Audit.Report(r.Context(), principal, method, string(data))
}
