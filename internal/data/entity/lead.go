package entity

type Lead struct {
	BaseSimple
	FullName    string  `db:"full_name"`
	Email       string  `db:"email"`
	PhoneNumber string  `db:"phone_number"`
	ProductLine string  `db:"product_line"`
	Message     *string `db:"message"`
}
