package wire

import (
	"travel-booking/internal/adaptor"
	"travel-booking/pkg/middleware"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/bookings/{reference} - Booking detail by reference
	r.Get("/api/bookings/{reference}", bookingHandler.GetBookingByReference)

	// GET /api/user/bookings - Booking history for a contact email
	r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

	// ==================== ADMIN ROUTES ====================
	// GET /api/admin/transactions/{reference} - Payment attempt audit view
	r.Route("/api/admin/transactions", func(r chi.Router) {
		r.Use(middleware.APIKey(config.Admin.APIKey, log))
		r.Get("/{reference}", bookingHandler.GetTransaction)
	})

	// PUT /api/admin/bookings/{id}/cancel - Cancel a confirmed booking
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.APIKey(config.Admin.APIKey, log))
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)
	})
}
