package request

type CreateLeadRequest struct {
	FullName    string `json:"full_name" validate:"required,min=2,max=128"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	ProductLine string `json:"product_line" validate:"required,oneof=flight hotel visa holiday umrah"`
	Message     string `json:"message" validate:"omitempty,max=2000"`
}
