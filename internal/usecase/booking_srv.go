package usecase

import (
	"context"
	"fmt"

	"travel-booking/internal/client"
	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	GetBookingByReference(ctx context.Context, reference string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, email string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Admin endpoints
	GetTransaction(ctx context.Context, reference string) (*response.TransactionResponse, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

type bookingService struct {
	repo     *repository.Repository
	provider client.ProviderClient
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, provider client.ProviderClient, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		provider: provider,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) GetBookingByReference(ctx context.Context, reference string) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", reference)
	}

	passengers, err := s.repo.Passenger.FindByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to load passengers for booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return nil, fmt.Errorf("get booking passengers: %w", err)
	}

	resp := response.BookingToResponse(booking, passengers)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, email string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if email == "" {
		return nil, fmt.Errorf("invalid request: email is required")
	}

	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByContactEmail(ctx, email, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("contact_email", email),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByContactEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		passengers, err := s.repo.Passenger.FindByBookingID(ctx, booking.ID)
		if err != nil {
			s.log.Error("Failed to load passengers for booking",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
			return nil, fmt.Errorf("get booking passengers: %w", err)
		}
		bookingResponses[i] = response.BookingToResponse(booking, passengers)
	}

	s.log.Info("User bookings retrieved",
		zap.String("contact_email", email),
		zap.Int("count", len(bookings)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

// ==================== ADMIN METHODS ====================

func (s *bookingService) GetTransaction(ctx context.Context, reference string) (*response.TransactionResponse, error) {
	txn, err := s.repo.Transaction.FindByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if txn == nil {
		return nil, fmt.Errorf("transaction %s not found", reference)
	}

	resp := response.TransactionToResponse(txn)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s not found", bookingID)
	}

	if booking.Status == entity.BookingStatusCancelled {
		return fmt.Errorf("booking status is %s, cannot cancel", booking.Status)
	}

	// Cancel upstream first; the local projection only changes once the
	// provider confirms.
	if err := s.provider.CancelOrder(ctx, booking.UpstreamOrderID); err != nil {
		s.log.Error("Failed to cancel upstream order",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("upstream_order_id", booking.UpstreamOrderID),
		)
		return fmt.Errorf("cancel upstream order %s: %w", booking.UpstreamOrderID, err)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("upstream_order_id", booking.UpstreamOrderID),
	)

	return nil
}
