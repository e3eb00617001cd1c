package entity

import (
	"fmt"
	"strings"
	"time"
)

// MaxDocumentNumberLength is the provider's hard limit for identity
// document identifiers, anything longer is rejected upstream.
const MaxDocumentNumberLength = 20

// CheckoutSnapshot is the immutable payload captured at checkout
// initiation, stored as jsonb on the transaction row.
type CheckoutSnapshot struct {
	OfferID      string             `json:"offer_id"`
	ContactEmail string             `json:"contact_email"`
	ContactPhone string             `json:"contact_phone"`
	Passengers   []PassengerDetails `json:"passengers"`
}

type PassengerDetails struct {
	Title          string `json:"title"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    string `json:"date_of_birth"` // YYYY-MM-DD
	PhoneNumber    string `json:"phone_number"`
	Email          string `json:"email,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
}

// NormalizePhone strips formatting characters and ensures a leading +,
// the shape the upstream provider requires. Returns an error when the
// remainder is not plausible E.164.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, phone)

	cleaned = strings.TrimPrefix(cleaned, "00")
	cleaned = strings.TrimPrefix(cleaned, "+")

	if cleaned == "" {
		return "", fmt.Errorf("phone number is empty")
	}

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("phone number contains non-digit characters")
		}
	}

	if len(cleaned) < 6 || len(cleaned) > 15 {
		return "", fmt.Errorf("phone number must be 6-15 digits, got %d", len(cleaned))
	}

	return "+" + cleaned, nil
}

// Validate enforces the upstream field constraints and normalizes the
// phone number in place. Called both at checkout initiation and again
// during reconciliation before the order is submitted.
func (p *PassengerDetails) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return fmt.Errorf("first name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("last name is required")
	}

	if p.DateOfBirth == "" {
		return fmt.Errorf("date of birth is required")
	}
	if _, err := time.Parse("2006-01-02", p.DateOfBirth); err != nil {
		return fmt.Errorf("invalid date of birth %q: %w", p.DateOfBirth, err)
	}

	phone, err := NormalizePhone(p.PhoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number %q: %w", p.PhoneNumber, err)
	}
	p.PhoneNumber = phone

	if len(p.DocumentNumber) > MaxDocumentNumberLength {
		return fmt.Errorf("document number exceeds %d characters", MaxDocumentNumberLength)
	}

	return nil
}

// Validate checks the whole snapshot before it is sent upstream.
func (s *CheckoutSnapshot) Validate() error {
	if s.OfferID == "" {
		return fmt.Errorf("offer ID is required")
	}
	if len(s.Passengers) == 0 {
		return fmt.Errorf("at least one passenger is required")
	}

	for i := range s.Passengers {
		if err := s.Passengers[i].Validate(); err != nil {
			return fmt.Errorf("passenger %d: %w", i+1, err)
		}
	}

	return nil
}
