package request

type CheckoutPassenger struct {
	Title          string `json:"title" validate:"omitempty,oneof=mr mrs ms miss"`
	FirstName      string `json:"first_name" validate:"required,min=1,max=64"`
	LastName       string `json:"last_name" validate:"required,min=1,max=64"`
	DateOfBirth    string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	PhoneNumber    string `json:"phone_number" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	DocumentNumber string `json:"document_number" validate:"omitempty,max=20"`
}

type CheckoutRequest struct {
	OfferID      string              `json:"offer_id" validate:"required"`
	ContactEmail string              `json:"contact_email" validate:"required,email"`
	ContactPhone string              `json:"contact_phone" validate:"required"`
	Passengers   []CheckoutPassenger `json:"passengers" validate:"required,min=1,max=9,dive"`
}
