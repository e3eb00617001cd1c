package entity

import "github.com/google/uuid"

type Passenger struct {
	BaseSimple
	BookingID      uuid.UUID `db:"booking_id"`
	Title          string    `db:"title"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	DateOfBirth    string    `db:"date_of_birth"`
	PhoneNumber    string    `db:"phone_number"`
	Email          *string   `db:"email"`
	DocumentNumber *string   `db:"document_number"`
}
