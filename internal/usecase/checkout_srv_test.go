package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"travel-booking/internal/client"
	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/request"
	"travel-booking/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCheckoutFixture(t *testing.T) (*fakeStore, *fakeProvider, *fakeGateway, CheckoutService) {
	t.Helper()

	store := newFakeStore()
	provider := &fakeProvider{
		offer: &client.Offer{
			ID:       testOfferID,
			Amount:   decimal.RequireFromString("150.00"),
			Currency: "GBP",
		},
	}
	gateway := &fakeGateway{
		session: &client.Session{
			SessionKey:     "sess_123",
			GatewayPageURL: "https://gateway.example.com/pay/sess_123",
			Raw:            json.RawMessage(`{"session_key":"sess_123"}`),
		},
	}

	repo := &repository.Repository{
		Transaction: store,
		Booking:     bookingRepoAdapter{store},
		Passenger:   passengerRepoAdapter{store},
	}

	config := &utils.Config{}
	config.App.BaseURL = "https://travel.example.com"

	service := NewCheckoutService(repo, provider, gateway, config, zap.NewNop())
	return store, provider, gateway, service
}

func validCheckoutRequest() *request.CheckoutRequest {
	return &request.CheckoutRequest{
		OfferID:      testOfferID,
		ContactEmail: "jane@example.com",
		ContactPhone: "+447700900123",
		Passengers: []request.CheckoutPassenger{
			{
				Title:       "ms",
				FirstName:   "Jane",
				LastName:    "Doe",
				DateOfBirth: "1990-04-12",
				PhoneNumber: "+44 7700 900123",
				Email:       "jane@example.com",
			},
		},
	}
}

func TestInitiateCheckout_Success(t *testing.T) {
	store, _, _, service := newCheckoutFixture(t)

	resp, err := service.InitiateCheckout(context.Background(), validCheckoutRequest())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.TransactionRef, "TRV"))
	assert.Equal(t, "https://gateway.example.com/pay/sess_123", resp.PaymentURL)
	assert.Equal(t, "150.00", resp.Amount)
	assert.Equal(t, "GBP", resp.Currency)

	txn, err := store.FindByReference(context.Background(), resp.TransactionRef)
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, entity.TransactionStatusInitiated, txn.Status)
	assert.Equal(t, testOfferID, txn.Snapshot.OfferID)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("150.00")))
	assert.NotEmpty(t, txn.GatewayInitResponse)
}

func TestInitiateCheckout_ValidationFailure(t *testing.T) {
	store, provider, _, service := newCheckoutFixture(t)

	req := validCheckoutRequest()
	req.ContactEmail = "not-an-email"

	_, err := service.InitiateCheckout(context.Background(), req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Zero(t, provider.getOfferCalls)
	assert.Empty(t, store.txns)
}

func TestInitiateCheckout_NoPassengers(t *testing.T) {
	_, _, _, service := newCheckoutFixture(t)

	req := validCheckoutRequest()
	req.Passengers = nil

	_, err := service.InitiateCheckout(context.Background(), req)
	require.Error(t, err)
}

func TestInitiateCheckout_OfferExpired(t *testing.T) {
	store, provider, _, service := newCheckoutFixture(t)
	provider.offerErr = client.ErrNotFound

	_, err := service.InitiateCheckout(context.Background(), validCheckoutRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found or expired")
	assert.Empty(t, store.txns)
}

func TestInitiateCheckout_ProviderUnavailable(t *testing.T) {
	store, provider, _, service := newCheckoutFixture(t)
	provider.offerErr = &client.UpstreamError{StatusCode: 502, Message: "bad gateway"}

	_, err := service.InitiateCheckout(context.Background(), validCheckoutRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider unavailable")
	assert.Empty(t, store.txns)
}

func TestInitiateCheckout_GatewayDownMarksTransactionFailed(t *testing.T) {
	store, _, gateway, service := newCheckoutFixture(t)
	gateway.sessionErr = errors.New("connection refused")

	_, err := service.InitiateCheckout(context.Background(), validCheckoutRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment gateway unavailable")

	// The transaction row stays as the audit record of the attempt.
	require.Len(t, store.txns, 1)
	for _, txn := range store.txns {
		assert.Equal(t, entity.TransactionStatusFailed, txn.Status)
		require.NotNil(t, txn.FailureReason)
		assert.Equal(t, entity.FailureReasonGatewayUnavail, *txn.FailureReason)
	}
}

func TestInitiateCheckout_AmountComesFromFreshOffer(t *testing.T) {
	store, provider, _, service := newCheckoutFixture(t)
	provider.offer.Amount = decimal.RequireFromString("87.50")

	resp, err := service.InitiateCheckout(context.Background(), validCheckoutRequest())

	require.NoError(t, err)
	assert.Equal(t, "87.50", resp.Amount)

	txn, _ := store.FindByReference(context.Background(), resp.TransactionRef)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("87.50")))
}
