package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"travel-booking/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) ProviderClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewProviderClient(utils.ProviderConfig{
		BaseURL:             server.URL,
		APIKey:              "test-key",
		ReadTimeoutSeconds:  5,
		OrderTimeoutSeconds: 5,
	}, zap.NewNop())
}

func TestGetOffer_Success(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/offers/off_1", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "off_1",
			"amount":   "150.00",
			"currency": "GBP",
		})
	})

	offer, err := provider.GetOffer(context.Background(), "off_1")

	require.NoError(t, err)
	assert.Equal(t, "off_1", offer.ID)
	assert.True(t, offer.Amount.Equal(decimal.RequireFromString("150.00")))
	assert.Equal(t, "GBP", offer.Currency)
}

func TestGetOffer_NotFound(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := provider.GetOffer(context.Background(), "off_gone")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsOfferExpired(err))
}

func TestGetOffer_ServerError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"code":"maintenance","message":"down for maintenance"}}`))
	})

	_, err := provider.GetOffer(context.Background(), "off_1")

	require.Error(t, err)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
	assert.Equal(t, "maintenance", ue.Code)
	assert.False(t, IsOfferExpired(err))
}

func TestCreateOrder_Success(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "off_1", req.OfferID)
		assert.Len(t, req.Passengers, 1)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":                "ord_9",
			"booking_reference": "PNR123",
			"offer_id":          "off_1",
			"amount":            "150.00",
			"currency":          "GBP",
			"status":            "confirmed",
		})
	})

	order, err := provider.CreateOrder(context.Background(), &OrderRequest{
		OfferID:  "off_1",
		Amount:   decimal.RequireFromString("150.00"),
		Currency: "GBP",
		Passengers: []OrderPassenger{
			{FirstName: "Jane", LastName: "Doe", DateOfBirth: "1990-04-12", PhoneNumber: "+447700900123"},
		},
		ContactEmail: "jane@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "ord_9", order.ID)
	assert.Equal(t, "PNR123", order.BookingReference)
}

func TestCreateOrder_OfferExpiredCode(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"code":"offer_expired","message":"the offer has lapsed"}}`))
	})

	_, err := provider.CreateOrder(context.Background(), &OrderRequest{OfferID: "off_1"})

	require.Error(t, err)
	assert.True(t, IsOfferExpired(err))
}

func TestCancelOrder(t *testing.T) {
	var called bool
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/orders/ord_9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	err := provider.CancelOrder(context.Background(), "ord_9")

	require.NoError(t, err)
	assert.True(t, called)
}

func TestIsOfferExpired_Classification(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		expired bool
	}{
		{"not found sentinel", ErrNotFound, true},
		{"offer_expired code", &UpstreamError{StatusCode: 422, Code: "offer_expired"}, true},
		{"offer_no_longer_available code", &UpstreamError{StatusCode: 410, Code: "offer_no_longer_available"}, true},
		{"quote_expired code", &UpstreamError{StatusCode: 422, Code: "quote_expired"}, true},
		{"unrelated upstream error", &UpstreamError{StatusCode: 500, Code: "internal"}, false},
		{"plain error", assert.AnError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, IsOfferExpired(tt.err))
		})
	}
}
