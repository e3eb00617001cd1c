package usecase

import (
	"context"
	"fmt"
	"time"

	"travel-booking/internal/client"
	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"
	"travel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutService interface {
	InitiateCheckout(ctx context.Context, req *request.CheckoutRequest) (*response.CheckoutResponse, error)
}

type checkoutService struct {
	repo     *repository.Repository
	provider client.ProviderClient
	gateway  client.GatewayClient
	config   *utils.Config
	log      *zap.Logger
}

func NewCheckoutService(repo *repository.Repository, provider client.ProviderClient, gateway client.GatewayClient, config *utils.Config, log *zap.Logger) CheckoutService {
	return &checkoutService{
		repo:     repo,
		provider: provider,
		gateway:  gateway,
		config:   config,
		log:      log.With(zap.String("service", "checkout")),
	}
}

func (s *checkoutService) InitiateCheckout(ctx context.Context, req *request.CheckoutRequest) (*response.CheckoutResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Checkout validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// Build the immutable snapshot; it is what the reconciliation
	// engine books from once the gateway calls back.
	snapshot := buildSnapshot(req)
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid passenger data: %w", err)
	}

	// Quote the offer fresh; its amount is what the customer pays.
	offer, err := s.provider.GetOffer(ctx, req.OfferID)
	if err != nil {
		if client.IsOfferExpired(err) {
			return nil, fmt.Errorf("offer %s not found or expired", req.OfferID)
		}
		s.log.Error("Offer fetch failed at checkout",
			zap.Error(err),
			zap.String("offer_id", req.OfferID),
		)
		return nil, fmt.Errorf("provider unavailable: %w", err)
	}

	now := time.Now()
	txn := &entity.Transaction{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference: utils.GenerateTransactionRef(),
		Amount:    offer.Amount,
		Currency:  offer.Currency,
		Status:    entity.TransactionStatusInitiated,
		Snapshot:  *snapshot,
	}

	if err := s.repo.Transaction.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	callbackURL := s.config.App.BaseURL + "/api/payment/callback"
	session, err := s.gateway.InitiateSession(ctx, &client.SessionRequest{
		Reference:     txn.Reference,
		Amount:        txn.Amount,
		Currency:      txn.Currency,
		CustomerEmail: snapshot.ContactEmail,
		CustomerPhone: snapshot.ContactPhone,
		SuccessURL:    callbackURL,
		FailURL:       callbackURL,
		CancelURL:     callbackURL,
		IPNURL:        callbackURL,
	})
	if err != nil {
		s.log.Error("Gateway session initiation failed",
			zap.Error(err),
			zap.String("reference", txn.Reference),
		)
		reason := entity.FailureReasonGatewayUnavail
		if _, updateErr := s.repo.Transaction.UpdateStatus(ctx, txn.Reference, entity.TransactionStatusFailed, &reason); updateErr != nil {
			s.log.Error("Failed to mark transaction failed after gateway error",
				zap.Error(updateErr),
				zap.String("reference", txn.Reference),
			)
		}
		return nil, fmt.Errorf("payment gateway unavailable: %w", err)
	}

	if err := s.repo.Transaction.RecordInitiation(ctx, txn.Reference, session.Raw); err != nil {
		// Audit write only; the session exists, carry on.
		s.log.Error("Failed to record gateway initiation response",
			zap.Error(err),
			zap.String("reference", txn.Reference),
		)
	}

	s.log.Info("Checkout initiated",
		zap.String("reference", txn.Reference),
		zap.String("offer_id", offer.ID),
		zap.String("amount", txn.Amount.StringFixed(2)),
		zap.String("currency", txn.Currency),
		zap.Int("passengers", len(snapshot.Passengers)),
	)

	return &response.CheckoutResponse{
		TransactionRef: txn.Reference,
		PaymentURL:     session.GatewayPageURL,
		Amount:         txn.Amount.StringFixed(2),
		Currency:       txn.Currency,
	}, nil
}

func buildSnapshot(req *request.CheckoutRequest) *entity.CheckoutSnapshot {
	passengers := make([]entity.PassengerDetails, len(req.Passengers))
	for i, p := range req.Passengers {
		passengers[i] = entity.PassengerDetails{
			Title:          p.Title,
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			DateOfBirth:    p.DateOfBirth,
			PhoneNumber:    p.PhoneNumber,
			Email:          p.Email,
			DocumentNumber: p.DocumentNumber,
		}
	}

	return &entity.CheckoutSnapshot{
		OfferID:      req.OfferID,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Passengers:   passengers,
	}
}
