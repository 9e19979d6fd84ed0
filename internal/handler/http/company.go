package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/service"
	apperrors "github.com/SFitz911/Carrier-Broker-Saas/pkg/errors"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/httputil"
)

// CompanyHandler handles HTTP requests for company directory endpoints.
type CompanyHandler struct {
	service *service.CompanyService
	logger  *slog.Logger
}

// NewCompanyHandler creates a new company HTTP handler.
func NewCompanyHandler(svc *service.CompanyService, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: svc,
		logger:  logger,
	}
}

type searchResponse struct {
	Data  []*domain.Company `json:"data"`
	Total int               `json:"total"`
	Count int               `json:"count"`
}

// GetCompany handles GET /api/v1/companies/{id}. It returns the full profile:
// the company record plus statistics over its published reviews.
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("company id is required"), h.logger)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: profile})
}

// SearchCompanies handles GET /api/v1/companies
func (h *CompanyHandler) SearchCompanies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	entityType := domain.EntityType(r.URL.Query().Get("entity_type"))

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	companies, total, err := h.service.SearchCompanies(r.Context(), query, entityType, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if companies == nil {
		companies = []*domain.Company{}
	}
	httputil.WriteJSON(w, http.StatusOK, searchResponse{
		Data:  companies,
		Total: total,
		Count: len(companies),
	})
}
