package usecase

import (
	"context"
	"testing"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBookingFixture(t *testing.T) (*fakeStore, *fakeProvider, BookingService) {
	t.Helper()

	store := newFakeStore()
	provider := &fakeProvider{}

	repo := &repository.Repository{
		Transaction: store,
		Booking:     bookingRepoAdapter{store},
		Passenger:   passengerRepoAdapter{store},
	}

	service := NewBookingService(repo, provider, zap.NewNop())
	return store, provider, service
}

func seedBooking(t *testing.T, store *fakeStore, status entity.BookingStatus) *entity.Booking {
	t.Helper()

	now := time.Now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TransactionID:    uuid.New(),
		UpstreamOrderID:  "ord_789",
		BookingReference: "PNR456",
		Amount:           decimal.RequireFromString("150.00"),
		Currency:         "GBP",
		Status:           status,
		ContactEmail:     "jane@example.com",
	}
	store.bookings[booking.TransactionID] = booking
	store.passengers[booking.ID] = []*entity.Passenger{
		{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			BookingID:  booking.ID,
			FirstName:  "Jane",
			LastName:   "Doe",
		},
	}
	return booking
}

func TestGetBookingByReference(t *testing.T) {
	store, _, service := newBookingFixture(t)
	seedBooking(t, store, entity.BookingStatusConfirmed)

	resp, err := service.GetBookingByReference(context.Background(), "PNR456")

	require.NoError(t, err)
	assert.Equal(t, "PNR456", resp.BookingReference)
	assert.Equal(t, "150.00", resp.Amount)
	assert.Len(t, resp.Passengers, 1)
	assert.Equal(t, "Jane", resp.Passengers[0].FirstName)
}

func TestGetBookingByReference_NotFound(t *testing.T) {
	_, _, service := newBookingFixture(t)

	_, err := service.GetBookingByReference(context.Background(), "PNR999")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetUserBookings(t *testing.T) {
	store, _, service := newBookingFixture(t)
	seedBooking(t, store, entity.BookingStatusConfirmed)

	resp, err := service.GetUserBookings(context.Background(), "jane@example.com", &request.PaginatedRequest{Page: 1, PerPage: 10})

	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, int64(1), resp.Pagination.Total)
	assert.Equal(t, "PNR456", resp.Data[0].BookingReference)
}

func TestGetUserBookings_RequiresEmail(t *testing.T) {
	_, _, service := newBookingFixture(t)

	_, err := service.GetUserBookings(context.Background(), "", &request.PaginatedRequest{Page: 1, PerPage: 10})

	require.Error(t, err)
}

func TestCancelBooking(t *testing.T) {
	store, provider, service := newBookingFixture(t)
	booking := seedBooking(t, store, entity.BookingStatusConfirmed)

	err := service.CancelBooking(context.Background(), booking.ID.String())

	require.NoError(t, err)
	assert.Equal(t, 1, provider.cancelCalls)

	updated, _ := store.FindByID(context.Background(), booking.ID)
	assert.Equal(t, entity.BookingStatusCancelled, updated.Status)
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	store, provider, service := newBookingFixture(t)
	booking := seedBooking(t, store, entity.BookingStatusCancelled)

	err := service.CancelBooking(context.Background(), booking.ID.String())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cancel")
	assert.Zero(t, provider.cancelCalls)
}

func TestCancelBooking_UpstreamFailureKeepsLocalState(t *testing.T) {
	store, provider, service := newBookingFixture(t)
	booking := seedBooking(t, store, entity.BookingStatusConfirmed)
	provider.cancelErr = assert.AnError

	err := service.CancelBooking(context.Background(), booking.ID.String())

	require.Error(t, err)

	// Provider said no: the projection must still read confirmed.
	updated, _ := store.FindByID(context.Background(), booking.ID)
	assert.Equal(t, entity.BookingStatusConfirmed, updated.Status)
}

func TestCancelBooking_InvalidID(t *testing.T) {
	_, _, service := newBookingFixture(t)

	err := service.CancelBooking(context.Background(), "not-a-uuid")
	require.Error(t, err)
}

func TestGetTransaction(t *testing.T) {
	store, _, service := newBookingFixture(t)
	seedTransaction(t, store, entity.TransactionStatusComplete)

	resp, err := service.GetTransaction(context.Background(), testReference)

	require.NoError(t, err)
	assert.Equal(t, testReference, resp.Reference)
	assert.Equal(t, entity.TransactionStatusComplete, resp.Status)
}

func TestGetTransaction_NotFound(t *testing.T) {
	_, _, service := newBookingFixture(t)

	_, err := service.GetTransaction(context.Background(), "TRVUNKNOWN")
	require.Error(t, err)
}
