package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"travel-booking/internal/dto/request"
	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

type LeadHandler struct {
	service usecase.LeadService
	log     *zap.Logger
}

func NewLeadHandler(service usecase.LeadService, log *zap.Logger) *LeadHandler {
	return &LeadHandler{
		service: service,
		log:     log.With(zap.String("handler", "lead")),
	}
}

// CreateLead handles POST /api/leads
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req request.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	lead, err := h.service.CreateLead(r.Context(), &req)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "validation failed") || strings.Contains(errMsg, "invalid") {
			utils.ResponseBadRequest(w, errMsg, nil)
			return
		}
		h.log.Error("Failed to create lead", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseCreated(w, "success", lead)
}

// GetLeads handles GET /api/admin/leads
func (h *LeadHandler) GetLeads(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	leads, err := h.service.GetLeads(r.Context(), req)
	if err != nil {
		h.log.Error("Failed to get leads", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", leads)
}
