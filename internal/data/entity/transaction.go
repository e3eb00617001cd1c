package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusInitiated      TransactionStatus = "initiated"
	TransactionStatusGatewaySuccess TransactionStatus = "gateway_success"
	TransactionStatusOfferExpired   TransactionStatus = "upstream_offer_expired"
	TransactionStatusOrderFailed    TransactionStatus = "upstream_order_failed"
	TransactionStatusComplete       TransactionStatus = "complete_success"
	TransactionStatusFailed         TransactionStatus = "failed"
	TransactionStatusCancelled      TransactionStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from this
// status. gateway_success is the only intermediate state past initiated.
func (s TransactionStatus) Terminal() bool {
	switch s {
	case TransactionStatusOfferExpired,
		TransactionStatusOrderFailed,
		TransactionStatusComplete,
		TransactionStatusFailed,
		TransactionStatusCancelled:
		return true
	}
	return false
}

type FailureReason string

const (
	FailureReasonGatewayDeclined    FailureReason = "gateway_declined"
	FailureReasonAmountMismatch     FailureReason = "amount_mismatch"
	FailureReasonUpstreamUnavail    FailureReason = "upstream_unavailable"
	FailureReasonGatewayUnavail     FailureReason = "gateway_unavailable"
	FailureReasonInvalidPassenger   FailureReason = "invalid_passenger_data"
	FailureReasonUpstreamOrderError FailureReason = "upstream_order_failed"
	FailureReasonOfferExpired       FailureReason = "offer_expired"
)

// Transaction is the local record of one payment attempt. Rows are
// never deleted, they are the audit trail for every gateway interaction.
type Transaction struct {
	BaseNoDelete
	Reference string            `db:"reference"`
	Amount    decimal.Decimal   `db:"amount"`
	Currency  string            `db:"currency"`
	Status    TransactionStatus `db:"status"`

	// Snapshot is the only source of truth for what to book, the
	// original checkout request is not re-sent on callback.
	Snapshot CheckoutSnapshot `db:"checkout_snapshot"`

	// Raw gateway payloads kept for audit and idempotency checks.
	GatewayInitResponse    json.RawMessage `db:"gateway_init_response"`
	GatewayCallbackPayload json.RawMessage `db:"gateway_callback_payload"`

	FailureReason      *FailureReason `db:"failure_reason"`
	UpstreamOrderID    *string        `db:"upstream_order_id"`
	CallbackReceivedAt *time.Time     `db:"callback_received_at"`
}
