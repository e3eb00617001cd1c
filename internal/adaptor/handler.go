package adaptor

import (
	"travel-booking/internal/client"
	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Checkout *CheckoutHandler
	Callback *CallbackHandler
	Booking  *BookingHandler
	Lead     *LeadHandler
}

func NewHandler(service *usecase.Service, gateway client.GatewayClient, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Checkout: NewCheckoutHandler(service.Checkout, log),
		Callback: NewCallbackHandler(service.Reconcile, gateway, config, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Lead:     NewLeadHandler(service.Lead, log),
	}
}
