package response

// CheckoutResponse is returned from checkout initiation; the client
// redirects the customer to PaymentURL to complete payment.
type CheckoutResponse struct {
	TransactionRef string `json:"transaction_ref"`
	PaymentURL     string `json:"payment_url"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
}
