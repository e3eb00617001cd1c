package usecase

import (
	"context"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"
	"travel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LeadService interface {
	CreateLead(ctx context.Context, req *request.CreateLeadRequest) (*response.LeadResponse, error)
	GetLeads(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.LeadResponse], error)
}

type leadService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewLeadService(repo *repository.Repository, log *zap.Logger) LeadService {
	return &leadService{
		repo: repo,
		log:  log.With(zap.String("service", "lead")),
	}
}

func (s *leadService) CreateLead(ctx context.Context, req *request.CreateLeadRequest) (*response.LeadResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create lead validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	phone, err := entity.NormalizePhone(req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("invalid phone number: %w", err)
	}

	lead := &entity.Lead{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: phone,
		ProductLine: req.ProductLine,
	}
	if req.Message != "" {
		msg := req.Message
		lead.Message = &msg
	}

	if err := s.repo.Lead.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	s.log.Info("Lead captured",
		zap.String("lead_id", lead.ID.String()),
		zap.String("product_line", lead.ProductLine),
	)

	resp := response.LeadToResponse(lead)
	return &resp, nil
}

func (s *leadService) GetLeads(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.LeadResponse], error) {
	leads, err := s.repo.Lead.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get leads: %w", err)
	}

	total, err := s.repo.Lead.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	leadResponses := make([]response.LeadResponse, len(leads))
	for i, lead := range leads {
		leadResponses[i] = response.LeadToResponse(lead)
	}

	return response.NewPaginatedResponse(leadResponses, req.Page, req.PerPage, total), nil
}
