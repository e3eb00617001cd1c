package response

import (
	"time"

	"travel-booking/internal/data/entity"
)

type PassengerResponse struct {
	Title          string `json:"title,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    string `json:"date_of_birth"`
	PhoneNumber    string `json:"phone_number"`
	Email          string `json:"email,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
}

type BookingResponse struct {
	ID               string               `json:"id"`
	BookingReference string               `json:"booking_reference"`
	UpstreamOrderID  string               `json:"upstream_order_id"`
	Amount           string               `json:"amount"`
	Currency         string               `json:"currency"`
	Status           entity.BookingStatus `json:"status"`
	ContactEmail     string               `json:"contact_email"`
	Passengers       []PassengerResponse  `json:"passengers,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// TransactionResponse is the admin audit view of a payment attempt.
type TransactionResponse struct {
	Reference          string                   `json:"reference"`
	Amount             string                   `json:"amount"`
	Currency           string                   `json:"currency"`
	Status             entity.TransactionStatus `json:"status"`
	FailureReason      entity.FailureReason     `json:"failure_reason,omitempty"`
	UpstreamOrderID    string                   `json:"upstream_order_id,omitempty"`
	OfferID            string                   `json:"offer_id"`
	CallbackReceivedAt *time.Time               `json:"callback_received_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// Helper converters

func PassengerToResponse(p *entity.Passenger) PassengerResponse {
	resp := PassengerResponse{
		Title:       p.Title,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: p.DateOfBirth,
		PhoneNumber: p.PhoneNumber,
	}
	if p.Email != nil {
		resp.Email = *p.Email
	}
	if p.DocumentNumber != nil {
		resp.DocumentNumber = *p.DocumentNumber
	}
	return resp
}

func BookingToResponse(booking *entity.Booking, passengers []*entity.Passenger) BookingResponse {
	passengerResponses := make([]PassengerResponse, len(passengers))
	for i, p := range passengers {
		passengerResponses[i] = PassengerToResponse(p)
	}

	return BookingResponse{
		ID:               booking.ID.String(),
		BookingReference: booking.BookingReference,
		UpstreamOrderID:  booking.UpstreamOrderID,
		Amount:           booking.Amount.StringFixed(2),
		Currency:         booking.Currency,
		Status:           booking.Status,
		ContactEmail:     booking.ContactEmail,
		Passengers:       passengerResponses,
		CreatedAt:        booking.CreatedAt,
	}
}

func TransactionToResponse(txn *entity.Transaction) TransactionResponse {
	resp := TransactionResponse{
		Reference:          txn.Reference,
		Amount:             txn.Amount.StringFixed(2),
		Currency:           txn.Currency,
		Status:             txn.Status,
		OfferID:            txn.Snapshot.OfferID,
		CallbackReceivedAt: txn.CallbackReceivedAt,
		CreatedAt:          txn.CreatedAt,
		UpdatedAt:          txn.UpdatedAt,
	}
	if txn.FailureReason != nil {
		resp.FailureReason = *txn.FailureReason
	}
	if txn.UpstreamOrderID != nil {
		resp.UpstreamOrderID = *txn.UpstreamOrderID
	}
	return resp
}
