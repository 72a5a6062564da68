package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/SKuytov/SVP/internal/auth"
	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/supplier"
	"github.com/SKuytov/SVP/pkg/logger"
)

// SupplierService is the supplier registry use case layer
type SupplierService interface {
	List(ctx context.Context, filter contracts.SupplierFilter) ([]contracts.SupplierView, error)
	Get(ctx context.Context, id int64) (*contracts.SupplierDetail, error)
	Create(ctx context.Context, actor contracts.Identity, in supplier.CreateInput) (int64, error)
	Update(ctx context.Context, actor contracts.Identity, id int64, upd *contracts.SupplierUpdate) error
	Delete(ctx context.Context, actor contracts.Identity, id int64) error
}

var _ SupplierService = (*supplier.Service)(nil)

// SupplierHandler handles supplier registry endpoints
// ⭐ SSOT: 공급사 API 핸들러는 이 구조체에서만
type SupplierHandler struct {
	service SupplierService
	logger  *logger.Logger
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(service SupplierService, log *logger.Logger) *SupplierHandler {
	return &SupplierHandler{service: service, logger: log}
}

// List returns suppliers matching the query filters
// GET /api/suppliers?search=&risk_category=A&status=Active&compliance_min=80&audit_overdue=true&sort=name&order=asc&limit=50&offset=0
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := SupplierFilterFromQuery(r)
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	suppliers, err := h.service.List(r.Context(), filter)
	if err != nil {
		HandleError(w, h.logger, err, "Failed to retrieve suppliers")
		return
	}
	if suppliers == nil {
		suppliers = []contracts.SupplierView{}
	}
	RespondJSON(w, http.StatusOK, suppliers, "")
}

// SupplierFilterFromQuery compiles the list query string into a typed filter
func SupplierFilterFromQuery(r *http.Request) (contracts.SupplierFilter, error) {
	q := r.URL.Query()
	f := contracts.NewSupplierFilter().
		WithSearch(q.Get("search")).
		WithStatus(q.Get("status")).
		WithAuditOverdue(q.Get("audit_overdue") == "true")

	if c := q.Get("risk_category"); c != "" && c != "all" {
		if _, err := contracts.ParseRiskCategory(c); err != nil {
			return f, err
		}
	}
	f = f.WithRiskCategory(q.Get("risk_category"))

	if s := q.Get("compliance_min"); s != "" {
		min, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return f, invalidParam("compliance_min", s)
		}
		f = f.WithComplianceMin(min)
	}

	if s := q.Get("sort"); s != "" {
		f = f.WithSort(s, contracts.ParseSortOrder(q.Get("order")))
	} else if q.Get("order") != "" {
		f = f.WithSort(f.SortBy, contracts.ParseSortOrder(q.Get("order")))
	}

	limit, err := queryInt(r, "limit", contracts.DefaultSupplierLimit)
	if err != nil {
		return f, err
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		return f, err
	}
	return f.WithPage(limit, offset), nil
}

// Get returns the supplier detail page
// GET /api/suppliers/{id}
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := supplierID(r)
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleError(w, h.logger.WithField("supplier_id", id), err, "Failed to retrieve supplier")
		return
	}
	RespondJSON(w, http.StatusOK, detail, "")
}

// Create registers a new supplier
// POST /api/suppliers
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.FromContext(r.Context())
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	var in supplier.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		RespondError(w, http.StatusBadRequest, msgInvalidJSON, nil)
		return
	}

	id, err := h.service.Create(r.Context(), actor, in)
	if err != nil {
		HandleError(w, h.logger, err, "Failed to create supplier")
		return
	}
	RespondJSON(w, http.StatusCreated, map[string]int64{"id": id}, "Supplier created successfully")
}

// Update applies a partial supplier update
// PUT /api/suppliers/{id}
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.FromContext(r.Context())
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}
	id, err := supplierID(r)
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	var upd contracts.SupplierUpdate
	if err := decodeJSON(r, &upd); err != nil {
		RespondError(w, http.StatusBadRequest, msgInvalidJSON, nil)
		return
	}

	if err := h.service.Update(r.Context(), actor, id, &upd); err != nil {
		HandleError(w, h.logger.WithField("supplier_id", id), err, "Failed to update supplier")
		return
	}
	RespondJSON(w, http.StatusOK, nil, "Supplier updated successfully")
}

// Delete deactivates a supplier (status Terminated)
// DELETE /api/suppliers/{id}
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.FromContext(r.Context())
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}
	id, err := supplierID(r)
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		HandleError(w, h.logger.WithField("supplier_id", id), err, "Failed to deactivate supplier")
		return
	}
	RespondJSON(w, http.StatusOK, nil, "Supplier deactivated successfully")
}

func supplierID(r *http.Request) (int64, error) {
	s := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidParam("id", s)
	}
	return id, nil
}
