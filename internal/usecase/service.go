package usecase

import (
	"travel-booking/internal/client"
	"travel-booking/internal/data/repository"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Checkout  CheckoutService
	Reconcile ReconcileService
	Booking   BookingService
	Lead      LeadService
}

// NewService wires the usecases. Clients and mailer come in as
// parameters so tests can substitute them.
func NewService(
	repo *repository.Repository,
	provider client.ProviderClient,
	gateway client.GatewayClient,
	mailer Mailer,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Checkout:  NewCheckoutService(repo, provider, gateway, config, log),
		Reconcile: NewReconcileService(repo, provider, mailer, log),
		Booking:   NewBookingService(repo, provider, log),
		Lead:      NewLeadService(repo, log),
	}
}
