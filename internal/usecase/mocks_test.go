package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"travel-booking/internal/client"
	"travel-booking/internal/data/entity"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the transaction, booking and
// passenger repositories, with the same conditional-update semantics
// the SQL layer provides.
type fakeStore struct {
	mu         sync.Mutex
	txns       map[string]*entity.Transaction
	bookings   map[uuid.UUID]*entity.Booking
	passengers map[uuid.UUID][]*entity.Passenger

	completeCalls int
	completeErr   error

	// beforeComplete runs once just before Complete takes the lock, so
	// tests can interleave a racing caller.
	beforeComplete func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		txns:       make(map[string]*entity.Transaction),
		bookings:   make(map[uuid.UUID]*entity.Booking),
		passengers: make(map[uuid.UUID][]*entity.Passenger),
	}
}

func (f *fakeStore) Create(ctx context.Context, txn *entity.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *txn
	f.txns[txn.Reference] = &cp
	return nil
}

func (f *fakeStore) FindByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.txns[reference]
	if !ok {
		return nil, nil
	}
	cp := *txn
	return &cp, nil
}

func (f *fakeStore) RecordInitiation(ctx context.Context, reference string, response json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txns[reference].GatewayInitResponse = response
	return nil
}

func (f *fakeStore) RecordCallback(ctx context.Context, reference string, payload json.RawMessage, receivedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn := f.txns[reference]
	txn.GatewayCallbackPayload = payload
	txn.CallbackReceivedAt = &receivedAt
	return nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, reference string, status entity.TransactionStatus, reason *entity.FailureReason) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn := f.txns[reference]
	if txn.Status == entity.TransactionStatusComplete {
		return false, nil
	}
	txn.Status = status
	txn.FailureReason = reason
	return true, nil
}

func (f *fakeStore) MarkGatewaySuccess(ctx context.Context, reference string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn := f.txns[reference]
	if txn.Status != entity.TransactionStatusInitiated {
		return false, nil
	}
	txn.Status = entity.TransactionStatusGatewaySuccess
	return true, nil
}

func (f *fakeStore) Complete(ctx context.Context, reference string, orderID string, booking *entity.Booking, passengers []*entity.Passenger) (bool, error) {
	if f.beforeComplete != nil {
		hook := f.beforeComplete
		f.beforeComplete = nil
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	if f.completeErr != nil {
		return false, f.completeErr
	}

	txn := f.txns[reference]
	if txn.Status == entity.TransactionStatusComplete {
		return false, nil
	}

	txn.Status = entity.TransactionStatusComplete
	txn.UpstreamOrderID = &orderID
	txn.FailureReason = nil

	cp := *booking
	f.bookings[booking.TransactionID] = &cp
	f.passengers[booking.ID] = passengers

	return true, nil
}

// BookingRepository methods

func (f *fakeStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByTransactionID(ctx context.Context, transactionID uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[transactionID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) FindByContactEmail(ctx context.Context, email string, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.ContactEmail == email {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) CountByContactEmail(ctx context.Context, email string) (int64, error) {
	bookings, _ := f.FindByContactEmail(ctx, email, 0, 0)
	return int64(len(bookings)), nil
}

func (f *fakeStore) bookingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookings)
}

// bookingRepoAdapter exposes the fakeStore through the booking
// repository interface (UpdateStatus differs in signature from the
// transaction repository's).
type bookingRepoAdapter struct {
	*fakeStore
}

func (a bookingRepoAdapter) FindByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, b := range a.bookings {
		if b.BookingReference == reference {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (a bookingRepoAdapter) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, b := range a.bookings {
		if b.ID == bookingID {
			b.Status = status
		}
	}
	return nil
}

type passengerRepoAdapter struct {
	*fakeStore
}

func (a passengerRepoAdapter) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.passengers[bookingID], nil
}

// staleReadStore serves one stale transaction snapshot before
// delegating, modelling a callback that read the row just before a
// concurrent callback committed.
type staleReadStore struct {
	*fakeStore
	stale  *entity.Transaction
	served bool
}

func (s *staleReadStore) FindByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	if !s.served {
		s.served = true
		cp := *s.stale
		return &cp, nil
	}
	return s.fakeStore.FindByReference(ctx, reference)
}

// fakeProvider scripts the upstream provider's answers and counts calls.
type fakeProvider struct {
	mu sync.Mutex

	offer    *client.Offer
	offerErr error

	// onGetOffer runs once at the start of GetOffer, so tests can
	// interleave a racing caller while the offer re-fetch is in flight.
	onGetOffer func()

	order    *client.Order
	orderErr error

	cancelErr error

	getOfferCalls    int
	createOrderCalls int
	cancelCalls      int
}

func (f *fakeProvider) GetOffer(ctx context.Context, offerID string) (*client.Offer, error) {
	if f.onGetOffer != nil {
		hook := f.onGetOffer
		f.onGetOffer = nil
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.getOfferCalls++
	if f.offerErr != nil {
		return nil, f.offerErr
	}
	return f.offer, nil
}

func (f *fakeProvider) CreateOrder(ctx context.Context, req *client.OrderRequest) (*client.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createOrderCalls++
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.order, nil
}

func (f *fakeProvider) GetOrder(ctx context.Context, orderID string) (*client.Order, error) {
	return f.order, nil
}

func (f *fakeProvider) CancelOrder(ctx context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	return f.cancelErr
}

// fakeGateway only needs to satisfy checkout initiation.
type fakeGateway struct {
	session    *client.Session
	sessionErr error
	validSig   bool
}

func (f *fakeGateway) InitiateSession(ctx context.Context, req *client.SessionRequest) (*client.Session, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeGateway) VerifySignature(fields map[string]string) bool {
	return f.validSig
}

type fakeLeadRepo struct {
	mu    sync.Mutex
	leads []*entity.Lead
	err   error
}

func (f *fakeLeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *lead
	f.leads = append(f.leads, &cp)
	return nil
}

func (f *fakeLeadRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offset >= len(f.leads) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.leads) {
		end = len(f.leads)
	}
	return f.leads[offset:end], nil
}

func (f *fakeLeadRepo) CountAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.leads)), nil
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}
