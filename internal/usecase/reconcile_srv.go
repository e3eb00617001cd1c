package usecase

import (
	"context"
	"fmt"
	"time"

	"travel-booking/internal/client"
	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// amountTolerance is the largest difference between the callback amount
// and the stored transaction amount we accept as rounding noise.
var amountTolerance = decimal.RequireFromString("0.01")

// Mailer sends the post-booking confirmation. Failures are logged and
// swallowed, a confirmed upstream order is never rolled back over email.
type Mailer interface {
	Send(to, subject, body string) error
}

// ReconcileService turns a gateway callback into a consistent booking
// outcome. It is the only writer of transaction status transitions past
// initiated and the only creator of booking projections.
type ReconcileService interface {
	Reconcile(ctx context.Context, cb *request.GatewayCallback) (*response.ReconcileResult, error)
}

type reconcileService struct {
	repo     *repository.Repository
	provider client.ProviderClient
	mailer   Mailer
	log      *zap.Logger
}

func NewReconcileService(repo *repository.Repository, provider client.ProviderClient, mailer Mailer, log *zap.Logger) ReconcileService {
	return &reconcileService{
		repo:     repo,
		provider: provider,
		mailer:   mailer,
		log:      log.With(zap.String("service", "reconcile")),
	}
}

func (s *reconcileService) Reconcile(ctx context.Context, cb *request.GatewayCallback) (*response.ReconcileResult, error) {
	txn, err := s.repo.Transaction.FindByReference(ctx, cb.TransactionRef)
	if err != nil {
		return nil, fmt.Errorf("load transaction %s: %w", cb.TransactionRef, err)
	}

	if txn == nil {
		s.log.Warn("Callback for unknown transaction reference",
			zap.String("reference", cb.TransactionRef),
		)
		return &response.ReconcileResult{
			Outcome:        response.OutcomeNotFound,
			TransactionRef: cb.TransactionRef,
		}, nil
	}

	// Duplicate callback after completion: replay the recorded result,
	// no writes, no provider calls.
	if txn.Status == entity.TransactionStatusComplete {
		s.log.Info("Duplicate callback for completed transaction",
			zap.String("reference", txn.Reference),
		)
		return s.replayResult(ctx, txn)
	}

	// Audit first: the raw payload and receipt time are recorded no
	// matter what the callback says.
	if err := s.repo.Transaction.RecordCallback(ctx, txn.Reference, cb.RawPayload(), time.Now()); err != nil {
		return nil, fmt.Errorf("record callback for %s: %w", txn.Reference, err)
	}

	// Gateway-level outcome short-circuits: no money moved.
	switch cb.Status {
	case request.GatewayStatusCancelled:
		applied, err := s.repo.Transaction.UpdateStatus(ctx, txn.Reference, entity.TransactionStatusCancelled, nil)
		if err != nil {
			return nil, err
		}
		if !applied {
			return s.settledResult(ctx, txn.Reference)
		}
		s.log.Info("Payment cancelled at gateway", zap.String("reference", txn.Reference))
		return &response.ReconcileResult{
			Outcome:        response.OutcomeCancelled,
			Status:         entity.TransactionStatusCancelled,
			TransactionRef: txn.Reference,
		}, nil

	case request.GatewayStatusFailed:
		return s.fail(ctx, txn, entity.FailureReasonGatewayDeclined)
	}

	// The gateway says success: before anything else, the callback
	// amount must match what we quoted at checkout.
	if mismatch, why := s.amountMismatch(txn, cb); mismatch {
		s.log.Warn("Callback amount mismatch",
			zap.String("reference", txn.Reference),
			zap.String("expected", txn.Amount.StringFixed(2)),
			zap.String("callback_amount", cb.Amount),
			zap.String("detail", why),
		)
		return s.fail(ctx, txn, entity.FailureReasonAmountMismatch)
	}

	claimed, err := s.repo.Transaction.MarkGatewaySuccess(ctx, txn.Reference)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Someone else moved the transaction past initiated. Re-read:
		// if they finished, hand back their result; if they only got
		// as far as gateway_success (crashed attempt), resume from here.
		current, err := s.repo.Transaction.FindByReference(ctx, txn.Reference)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, fmt.Errorf("transaction %s disappeared during reconciliation", txn.Reference)
		}
		if current.Status == entity.TransactionStatusComplete {
			return s.replayResult(ctx, current)
		}
		if current.Status.Terminal() {
			return s.resultFromTransaction(current), nil
		}
		txn = current
	}

	// Re-validate the offer. Upstream quotes expire in minutes and the
	// customer may have sat on the payment page longer than that.
	offer, err := s.provider.GetOffer(ctx, txn.Snapshot.OfferID)
	if err != nil {
		if client.IsOfferExpired(err) {
			return s.expire(ctx, txn)
		}
		s.log.Error("Offer re-fetch failed",
			zap.Error(err),
			zap.String("reference", txn.Reference),
			zap.String("offer_id", txn.Snapshot.OfferID),
		)
		return s.failWithStatus(ctx, txn, entity.TransactionStatusFailed, entity.FailureReasonUpstreamUnavail)
	}

	// The provider rejects malformed traveler data outright, so check
	// before committing to order creation.
	snapshot := txn.Snapshot
	if err := snapshot.Validate(); err != nil {
		s.log.Warn("Passenger data failed upstream constraints",
			zap.Error(err),
			zap.String("reference", txn.Reference),
		)
		return s.fail(ctx, txn, entity.FailureReasonInvalidPassenger)
	}

	// Order creation uses the freshly re-fetched amount and currency,
	// never the possibly stale checkout quote.
	order, err := s.provider.CreateOrder(ctx, buildOrderRequest(offer, &snapshot))
	if err != nil {
		if client.IsOfferExpired(err) {
			return s.expire(ctx, txn)
		}
		s.log.Error("Upstream order creation failed",
			zap.Error(err),
			zap.String("reference", txn.Reference),
			zap.String("offer_id", offer.ID),
		)
		return s.failWithStatus(ctx, txn, entity.TransactionStatusOrderFailed, entity.FailureReasonUpstreamOrderError)
	}

	now := time.Now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TransactionID:    txn.ID,
		UpstreamOrderID:  order.ID,
		BookingReference: order.BookingReference,
		Amount:           order.Amount,
		Currency:         order.Currency,
		Status:           entity.BookingStatusConfirmed,
		ContactEmail:     snapshot.ContactEmail,
	}

	passengers := buildPassengerRows(booking.ID, snapshot.Passengers, now)

	won, err := s.repo.Transaction.Complete(ctx, txn.Reference, order.ID, booking, passengers)
	if err != nil {
		// The upstream order exists but we could not record it. Surface
		// loudly: this is the one state that needs manual follow-up.
		s.log.Error("Upstream order created but completion not persisted",
			zap.Error(err),
			zap.String("reference", txn.Reference),
			zap.String("upstream_order_id", order.ID),
		)
		return nil, fmt.Errorf("persist completion for %s: %w", txn.Reference, err)
	}

	if !won {
		// A concurrent callback beat us to completion. Its booking is
		// authoritative; ours was never inserted.
		s.log.Warn("Lost completion race to concurrent callback",
			zap.String("reference", txn.Reference),
			zap.String("discarded_order_id", order.ID),
		)
		current, err := s.repo.Transaction.FindByReference(ctx, txn.Reference)
		if err != nil {
			return nil, err
		}
		return s.replayResult(ctx, current)
	}

	s.log.Info("Reconciliation complete",
		zap.String("reference", txn.Reference),
		zap.String("upstream_order_id", order.ID),
		zap.String("booking_reference", order.BookingReference),
		zap.String("amount", order.Amount.StringFixed(2)),
		zap.String("currency", order.Currency),
	)

	s.sendConfirmation(snapshot.ContactEmail, txn.Reference, order.BookingReference)

	return &response.ReconcileResult{
		Outcome:          response.OutcomeSuccess,
		Status:           entity.TransactionStatusComplete,
		TransactionRef:   txn.Reference,
		BookingID:        booking.ID.String(),
		BookingReference: order.BookingReference,
		UpstreamOrderID:  order.ID,
	}, nil
}

// amountMismatch compares the callback amount against the stored quote
// with the fixed tolerance. Missing amounts are accepted (some gateways
// omit them on redirects); malformed ones are not.
func (s *reconcileService) amountMismatch(txn *entity.Transaction, cb *request.GatewayCallback) (bool, string) {
	if cb.Currency != "" && cb.Currency != txn.Currency {
		return true, "currency differs"
	}

	if cb.Amount == "" {
		return false, ""
	}

	amount, err := decimal.NewFromString(cb.Amount)
	if err != nil {
		return true, "unparsable amount"
	}

	if amount.Sub(txn.Amount).Abs().GreaterThan(amountTolerance) {
		return true, "amount outside tolerance"
	}

	return false, ""
}

func (s *reconcileService) fail(ctx context.Context, txn *entity.Transaction, reason entity.FailureReason) (*response.ReconcileResult, error) {
	return s.failWithStatus(ctx, txn, entity.TransactionStatusFailed, reason)
}

func (s *reconcileService) failWithStatus(ctx context.Context, txn *entity.Transaction, status entity.TransactionStatus, reason entity.FailureReason) (*response.ReconcileResult, error) {
	applied, err := s.repo.Transaction.UpdateStatus(ctx, txn.Reference, status, &reason)
	if err != nil {
		return nil, err
	}
	if !applied {
		return s.settledResult(ctx, txn.Reference)
	}

	return &response.ReconcileResult{
		Outcome:        response.OutcomeFailed,
		Status:         status,
		TransactionRef: txn.Reference,
		FailureReason:  reason,
	}, nil
}

// expire marks the distinguished payment-captured-but-no-booking state.
func (s *reconcileService) expire(ctx context.Context, txn *entity.Transaction) (*response.ReconcileResult, error) {
	reason := entity.FailureReasonOfferExpired
	applied, err := s.repo.Transaction.UpdateStatus(ctx, txn.Reference, entity.TransactionStatusOfferExpired, &reason)
	if err != nil {
		return nil, err
	}
	if !applied {
		return s.settledResult(ctx, txn.Reference)
	}

	s.log.Warn("Offer expired after payment capture",
		zap.String("reference", txn.Reference),
		zap.String("offer_id", txn.Snapshot.OfferID),
	)

	return &response.ReconcileResult{
		Outcome:        response.OutcomeOfferExpired,
		Status:         entity.TransactionStatusOfferExpired,
		TransactionRef: txn.Reference,
		FailureReason:  reason,
	}, nil
}

// settledResult handles a status write refused by the store guard: the
// transaction completed under us, so the recorded outcome wins and this
// callback only replays it.
func (s *reconcileService) settledResult(ctx context.Context, reference string) (*response.ReconcileResult, error) {
	s.log.Warn("Status write refused, transaction settled concurrently",
		zap.String("reference", reference),
	)

	current, err := s.repo.Transaction.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("transaction %s disappeared during reconciliation", reference)
	}
	if current.Status == entity.TransactionStatusComplete {
		return s.replayResult(ctx, current)
	}
	return s.resultFromTransaction(current), nil
}

// replayResult rebuilds the success result of an already-completed
// transaction from its booking projection.
func (s *reconcileService) replayResult(ctx context.Context, txn *entity.Transaction) (*response.ReconcileResult, error) {
	result := &response.ReconcileResult{
		Outcome:        response.OutcomeSuccess,
		Status:         entity.TransactionStatusComplete,
		TransactionRef: txn.Reference,
	}
	if txn.UpstreamOrderID != nil {
		result.UpstreamOrderID = *txn.UpstreamOrderID
	}

	booking, err := s.repo.Booking.FindByTransactionID(ctx, txn.ID)
	if err != nil {
		return nil, err
	}
	if booking != nil {
		result.BookingID = booking.ID.String()
		result.BookingReference = booking.BookingReference
	}

	return result, nil
}

// resultFromTransaction maps a recorded terminal status back onto an
// outcome, for callbacks that lost the race to another callback.
func (s *reconcileService) resultFromTransaction(txn *entity.Transaction) *response.ReconcileResult {
	result := &response.ReconcileResult{
		Status:         txn.Status,
		TransactionRef: txn.Reference,
	}
	if txn.FailureReason != nil {
		result.FailureReason = *txn.FailureReason
	}

	switch txn.Status {
	case entity.TransactionStatusOfferExpired:
		result.Outcome = response.OutcomeOfferExpired
	case entity.TransactionStatusCancelled:
		result.Outcome = response.OutcomeCancelled
	default:
		result.Outcome = response.OutcomeFailed
	}

	return result
}

func (s *reconcileService) sendConfirmation(email, reference, bookingRef string) {
	if s.mailer == nil || email == "" {
		return
	}

	subject := fmt.Sprintf("Booking confirmed: %s", bookingRef)
	body := fmt.Sprintf(
		"Your booking is confirmed.\n\nBooking reference: %s\nPayment reference: %s\n",
		bookingRef, reference,
	)

	if err := s.mailer.Send(email, subject, body); err != nil {
		s.log.Warn("Confirmation email failed",
			zap.Error(err),
			zap.String("reference", reference),
		)
	}
}

func buildOrderRequest(offer *client.Offer, snapshot *entity.CheckoutSnapshot) *client.OrderRequest {
	passengers := make([]client.OrderPassenger, len(snapshot.Passengers))
	for i, p := range snapshot.Passengers {
		passengers[i] = client.OrderPassenger{
			Title:          p.Title,
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			DateOfBirth:    p.DateOfBirth,
			PhoneNumber:    p.PhoneNumber,
			Email:          p.Email,
			DocumentNumber: p.DocumentNumber,
		}
	}

	return &client.OrderRequest{
		OfferID:      offer.ID,
		Amount:       offer.Amount,
		Currency:     offer.Currency,
		Passengers:   passengers,
		ContactEmail: snapshot.ContactEmail,
		ContactPhone: snapshot.ContactPhone,
	}
}

func buildPassengerRows(bookingID uuid.UUID, details []entity.PassengerDetails, now time.Time) []*entity.Passenger {
	rows := make([]*entity.Passenger, len(details))
	for i, p := range details {
		row := &entity.Passenger{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID:   bookingID,
			Title:       p.Title,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			DateOfBirth: p.DateOfBirth,
			PhoneNumber: p.PhoneNumber,
		}
		if p.Email != "" {
			email := p.Email
			row.Email = &email
		}
		if p.DocumentNumber != "" {
			doc := p.DocumentNumber
			row.DocumentNumber = &doc
		}
		rows[i] = row
	}
	return rows
}
