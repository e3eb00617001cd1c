package response

import (
	"time"

	"travel-booking/internal/data/entity"
)

type LeadResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	ProductLine string    `json:"product_line"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func LeadToResponse(lead *entity.Lead) LeadResponse {
	resp := LeadResponse{
		ID:          lead.ID.String(),
		FullName:    lead.FullName,
		Email:       lead.Email,
		PhoneNumber: lead.PhoneNumber,
		ProductLine: lead.ProductLine,
		CreatedAt:   lead.CreatedAt,
	}
	if lead.Message != nil {
		resp.Message = *lead.Message
	}
	return resp
}
