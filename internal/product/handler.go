package product

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
	Create(ctx context.Context, dto UpsertProductDTO) (*Product, error)
	Update(ctx context.Context, id string, dto UpsertProductDTO) (*Product, error)
	Patch(ctx context.Context, id string, fields map[string]interface{}) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context, params pagination.Params) ([]map[string]interface{}, error)
	Delete(ctx context.Context, id string) (*Product, error)
}

// AuditReporter is the sink contract the handler enforces the 424 policy
// against.
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

// Create handles POST /api/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto UpsertProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
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

// Update handles PUT /api/products: full replace with validation. A missing
// target is 404.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpsertProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := productIDFromRequest(r, dto.ProductID)
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, ErrMissingID.Error())
		return
	}

	updated, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			h.HandleServiceError(w, internal.NewNotFoundError(fmt.Sprintf("Product with id %s not found", id), internal.ErrCodeProductNotFound))
			return
		}
		h.Logger.Error("Update: service error", "error", err, "product_id", id)
		h.HandleServiceError(w, err)
		return
	}

	if !h.reportAudit(r, audit.MethodPut, updated) {
		h.HandleServiceError(w, internal.ErrAuditUnavailable)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// Patch handles PATCH /api/products: lenient merge of the submitted keys.
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bodyID, _ := fields["productId"].(string)
	id := productIDFromRequest(r, bodyID)
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, ErrMissingID.Error())
		return
	}

	patched, err := h.Service.Patch(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			h.HandleServiceError(w, internal.NewNotFoundError(fmt.Sprintf("Product with id %s not found", id), internal.ErrCodeProductNotFound))
			return
		}
		h.Logger.Error("Patch: service error", "error", err, "product_id", id)
		h.HandleServiceError(w, err)
		return
	}

	if !h.reportAudit(r, audit.MethodPatch, patched) {
		h.HandleServiceError(w, internal.ErrAuditUnavailable)
		return
	}

	h.WriteJSON(w, http.StatusOK, patched)
}

// Get handles GET /api/products. With productId or sku it is a singular
// lookup (a miss is 400, matching the original API); otherwise it is a paged
// listing.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	switch {
	case query.Get("productId") != "":
		h.getOne(w, r, func(ctx context.Context) (*Product, error) {
			return h.Service.GetByID(ctx, query.Get("productId"))
		}, query.Get("productId"))
	case query.Get("sku") != "":
		h.getOne(w, r, func(ctx context.Context) (*Product, error) {
			return h.Service.GetBySKU(ctx, query.Get("sku"))
		}, query.Get("sku"))
	default:
		h.list(w, r)
	}
}

func (h *Handler) getOne(w http.ResponseWriter, r *http.Request, load func(context.Context) (*Product, error), key string) {
	p, err := load(r.Context())
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			h.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Product with ID %s was not found", key))
			return
		}
		h.Logger.Error("Get: service error", "error", err, "key", key)
		h.HandleServiceError(w, err)
		return
	}

	if !h.reportAudit(r, audit.MethodGet, p) {
		h.HandleServiceError(w, internal.ErrAuditUnavailable)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)

	// category is accepted as a shorthand for filterByField=category
	if category := r.URL.Query().Get("category"); category != "" && params.FilterByField == "" {
		params.FilterByField = "category"
		params.FilterValue = category
	}

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

// Delete handles DELETE /api/products?productId=. A missing target is 404.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("productId")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, ErrMissingID.Error())
		return
	}

	deleted, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			h.HandleServiceError(w, internal.NewNotFoundError("Not found", internal.ErrCodeProductNotFound))
			return
		}
		h.Logger.Error("Delete: service error", "error", err, "product_id", id)
		h.HandleServiceError(w, err)
		return
	}

	if !h.reportAudit(r, audit.MethodDelete, deleted) {
		h.HandleServiceError(w, internal.ErrAuditUnavailable)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "Success"})
}

// reportAudit runs the best-effort audit step. A false return means the
// underlying operation already succeeded but could not be audited; callers
// must then answer 424 instead of the success status.
func (h *Handler) reportAudit(r *http.Request, method audit.Method, payload interface{}) bool {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		// unauthenticated paths are never audited
		return true
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.Logger.Error("audit payload marshal failed", "error", err)
		data = []byte("{}")
	}

	return h.Audit.Report(r.Context(), principal, method, string(data))
}

// productIDFromRequest takes the target id from the query string first, then
// from the request body.
func productIDFromRequest(r *http.Request, bodyID string) string {
	if id := r.URL.Query().Get("productId"); id != "" {
		return id
	}
	return bodyID
}
