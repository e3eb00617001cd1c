package wire

import (
	"travel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCallback(r chi.Router, callbackHandler *adaptor.CallbackHandler) {
	// The gateway calls back over whichever transport it was built
	// with: browser redirect (GET), form POST, or JSON IPN. Same
	// endpoint handles all three.
	r.Get("/api/payment/callback", callbackHandler.HandleCallback)
	r.Post("/api/payment/callback", callbackHandler.HandleCallback)
}
