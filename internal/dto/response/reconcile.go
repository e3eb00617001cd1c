package response

import "travel-booking/internal/data/entity"

// ReconcileOutcome classifies what the webhook layer should tell the
// customer. OfferExpired is deliberately distinct from Failed: money
// has moved but no booking exists, which needs its own messaging and a
// refund workflow.
type ReconcileOutcome string

const (
	OutcomeSuccess      ReconcileOutcome = "success"
	OutcomeOfferExpired ReconcileOutcome = "offer_expired"
	OutcomeCancelled    ReconcileOutcome = "cancelled"
	OutcomeFailed       ReconcileOutcome = "failed"
	OutcomeNotFound     ReconcileOutcome = "not_found"
)

// ReconcileResult is the single output of the reconciliation engine.
type ReconcileResult struct {
	Outcome          ReconcileOutcome         `json:"outcome"`
	Status           entity.TransactionStatus `json:"status,omitempty"`
	TransactionRef   string                   `json:"transaction_ref,omitempty"`
	BookingID        string                   `json:"booking_id,omitempty"`
	BookingReference string                   `json:"booking_reference,omitempty"`
	UpstreamOrderID  string                   `json:"upstream_order_id,omitempty"`
	FailureReason    entity.FailureReason     `json:"failure_reason,omitempty"`
}
