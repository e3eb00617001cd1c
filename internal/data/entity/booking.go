package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is the denormalized local projection of a confirmed upstream
// order. Created exactly once per completed transaction, by the
// reconciliation engine only.
type Booking struct {
	BaseNoDelete
	TransactionID    uuid.UUID       `db:"transaction_id"`
	UpstreamOrderID  string          `db:"upstream_order_id"`
	BookingReference string          `db:"booking_reference"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	Status           BookingStatus   `db:"status"`
	ContactEmail     string          `db:"contact_email"`
}
