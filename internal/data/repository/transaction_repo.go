package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	FindByReference(ctx context.Context, reference string) (*entity.Transaction, error)
	RecordInitiation(ctx context.Context, reference string, response json.RawMessage) error
	RecordCallback(ctx context.Context, reference string, payload json.RawMessage, receivedAt time.Time) error

	// UpdateStatus writes a failure/expiry/cancel transition as a
	// conditional update that never overwrites complete_success.
	// Returns false when the guard trips (the transaction completed
	// concurrently); callers must re-read and replay the recorded
	// result instead of reporting their own.
	UpdateStatus(ctx context.Context, reference string, status entity.TransactionStatus, reason *entity.FailureReason) (bool, error)

	// MarkGatewaySuccess transitions initiated -> gateway_success as an
	// atomic conditional update. Returns false when the transaction had
	// already left the initiated state.
	MarkGatewaySuccess(ctx context.Context, reference string) (bool, error)

	// Complete performs the compare-and-set into complete_success and,
	// in the same database transaction, inserts the booking projection
	// and its passengers. Returns false without writing anything when
	// the transaction is already complete, which is how a duplicate
	// callback is told the work happened on the other path.
	Complete(ctx context.Context, reference string, orderID string, booking *entity.Booking, passengers []*entity.Passenger) (bool, error)
}

type transactionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactionRepository(db database.PgxIface, log *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction")),
	}
}

const transactionColumns = `
	id, reference, amount, currency, status, checkout_snapshot,
	gateway_init_response, gateway_callback_payload, failure_reason,
	upstream_order_id, callback_received_at, created_at, updated_at
`

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	snapshot, err := json.Marshal(txn.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal checkout snapshot: %w", err)
	}

	query := `
		INSERT INTO transactions (id, reference, amount, currency, status, checkout_snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Exec(ctx, query,
		txn.ID,
		txn.Reference,
		txn.Amount,
		txn.Currency,
		txn.Status,
		snapshot,
		txn.CreatedAt,
		txn.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create transaction",
			zap.Error(err),
			zap.String("reference", txn.Reference),
		)
		return fmt.Errorf("create transaction %s: %w", txn.Reference, err)
	}

	return nil
}

func (r *transactionRepository) FindByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE reference = $1
	`

	var (
		txn      entity.Transaction
		snapshot []byte
		reason   *string
	)

	err := r.db.QueryRow(ctx, query, reference).Scan(
		&txn.ID,
		&txn.Reference,
		&txn.Amount,
		&txn.Currency,
		&txn.Status,
		&snapshot,
		&txn.GatewayInitResponse,
		&txn.GatewayCallbackPayload,
		&reason,
		&txn.UpstreamOrderID,
		&txn.CallbackReceivedAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find transaction by reference",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return nil, fmt.Errorf("find transaction by reference %s: %w", reference, err)
	}

	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &txn.Snapshot); err != nil {
			return nil, fmt.Errorf("unmarshal checkout snapshot for %s: %w", reference, err)
		}
	}

	if reason != nil {
		fr := entity.FailureReason(*reason)
		txn.FailureReason = &fr
	}

	return &txn, nil
}

func (r *transactionRepository) RecordInitiation(ctx context.Context, reference string, response json.RawMessage) error {
	query := `
		UPDATE transactions
		SET gateway_init_response = $2, updated_at = NOW()
		WHERE reference = $1
	`

	result, err := r.db.Exec(ctx, query, reference, []byte(response))
	if err != nil {
		r.log.Error("Failed to record gateway initiation response",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return fmt.Errorf("record initiation for %s: %w", reference, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s not found", reference)
	}

	return nil
}

func (r *transactionRepository) RecordCallback(ctx context.Context, reference string, payload json.RawMessage, receivedAt time.Time) error {
	query := `
		UPDATE transactions
		SET gateway_callback_payload = $2, callback_received_at = $3, updated_at = NOW()
		WHERE reference = $1
	`

	result, err := r.db.Exec(ctx, query, reference, []byte(payload), receivedAt)
	if err != nil {
		r.log.Error("Failed to record callback payload",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return fmt.Errorf("record callback for %s: %w", reference, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s not found", reference)
	}

	return nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, reference string, status entity.TransactionStatus, reason *entity.FailureReason) (bool, error) {
	// Guard: complete_success is final. A failure-leg callback that read
	// the row before a concurrent success callback committed must not
	// regress the status and orphan the booking projection.
	query := `
		UPDATE transactions
		SET status = $2, failure_reason = $3, updated_at = NOW()
		WHERE reference = $1 AND status <> $4
	`

	var reasonStr *string
	if reason != nil {
		s := string(*reason)
		reasonStr = &s
	}

	result, err := r.db.Exec(ctx, query, reference, status, reasonStr, entity.TransactionStatusComplete)
	if err != nil {
		r.log.Error("Failed to update transaction status",
			zap.Error(err),
			zap.String("reference", reference),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update transaction %s status to %s: %w", reference, string(status), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *transactionRepository) MarkGatewaySuccess(ctx context.Context, reference string) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $2, updated_at = NOW()
		WHERE reference = $1 AND status = $3
	`

	result, err := r.db.Exec(ctx, query, reference,
		entity.TransactionStatusGatewaySuccess,
		entity.TransactionStatusInitiated,
	)
	if err != nil {
		r.log.Error("Failed to mark gateway success",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return false, fmt.Errorf("mark gateway success for %s: %w", reference, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *transactionRepository) Complete(ctx context.Context, reference string, orderID string, booking *entity.Booking, passengers []*entity.Passenger) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin complete transaction for %s: %w", reference, err)
	}
	defer tx.Rollback(ctx)

	// Guard: only one caller ever wins this update. A gateway retry
	// racing the redirect loses here and must not insert a second
	// booking projection.
	casQuery := `
		UPDATE transactions
		SET status = $2, upstream_order_id = $3, failure_reason = NULL, updated_at = NOW()
		WHERE reference = $1 AND status <> $2
	`

	result, err := tx.Exec(ctx, casQuery, reference, entity.TransactionStatusComplete, orderID)
	if err != nil {
		r.log.Error("Failed to compare-and-set complete_success",
			zap.Error(err),
			zap.String("reference", reference),
			zap.String("upstream_order_id", orderID),
		)
		return false, fmt.Errorf("complete transaction %s: %w", reference, err)
	}

	if result.RowsAffected() == 0 {
		// Already complete_success, nothing to write.
		return false, nil
	}

	bookingQuery := `
		INSERT INTO bookings (id, transaction_id, upstream_order_id, booking_reference, amount, currency, status, contact_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.Exec(ctx, bookingQuery,
		booking.ID,
		booking.TransactionID,
		booking.UpstreamOrderID,
		booking.BookingReference,
		booking.Amount,
		booking.Currency,
		booking.Status,
		booking.ContactEmail,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert booking projection",
			zap.Error(err),
			zap.String("reference", reference),
			zap.String("upstream_order_id", orderID),
		)
		return false, fmt.Errorf("insert booking for transaction %s: %w", reference, err)
	}

	passengerQuery := `
		INSERT INTO passengers (id, booking_id, title, first_name, last_name, date_of_birth, phone_number, email, document_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, p := range passengers {
		_, err = tx.Exec(ctx, passengerQuery,
			p.ID,
			p.BookingID,
			p.Title,
			p.FirstName,
			p.LastName,
			p.DateOfBirth,
			p.PhoneNumber,
			p.Email,
			p.DocumentNumber,
			p.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to insert passenger",
				zap.Error(err),
				zap.String("booking_id", p.BookingID.String()),
			)
			return false, fmt.Errorf("insert passenger for booking %s: %w", p.BookingID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit complete transaction for %s: %w", reference, err)
	}

	return true, nil
}
