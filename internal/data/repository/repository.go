package repository

import (
	"travel-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Transaction TransactionRepository
	Booking     BookingRepository
	Passenger   PassengerRepository
	Lead        LeadRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Transaction: NewTransactionRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		Passenger:   NewPassengerRepository(db, log),
		Lead:        NewLeadRepository(db, log),
	}
}
