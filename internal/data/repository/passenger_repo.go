package repository

import (
	"context"
	"fmt"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PassengerRepository interface {
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error)
}

type passengerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPassengerRepository(db database.PgxIface, log *zap.Logger) PassengerRepository {
	return &passengerRepository{
		db:  db,
		log: log.With(zap.String("repository", "passenger")),
	}
}

func (r *passengerRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error) {
	query := `
		SELECT id, booking_id, title, first_name, last_name, date_of_birth, phone_number, email, document_number, created_at
		FROM passengers
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find passengers by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find passengers by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var passengers []*entity.Passenger
	for rows.Next() {
		var p entity.Passenger
		err := rows.Scan(
			&p.ID,
			&p.BookingID,
			&p.Title,
			&p.FirstName,
			&p.LastName,
			&p.DateOfBirth,
			&p.PhoneNumber,
			&p.Email,
			&p.DocumentNumber,
			&p.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan passenger row", zap.Error(err))
			return nil, fmt.Errorf("scan passenger row: %w", err)
		}
		passengers = append(passengers, &p)
	}

	return passengers, nil
}
