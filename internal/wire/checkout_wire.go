package wire

import (
	"travel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCheckout(r chi.Router, checkoutHandler *adaptor.CheckoutHandler) {
	// POST /api/checkout - Initiate a payment session for an offer
	r.Post("/api/checkout", checkoutHandler.InitiateCheckout)
}
