package request

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackFromValues(t *testing.T) {
	cb, err := CallbackFromValues(url.Values{
		"tran_id":  {"TRV123"},
		"val_id":   {"VAL9"},
		"status":   {"VALID"},
		"amount":   {"150.00"},
		"currency": {"GBP"},
		"bank_ref": {"B-778"},
	})

	require.NoError(t, err)
	assert.Equal(t, "TRV123", cb.TransactionRef)
	assert.Equal(t, "VAL9", cb.ValidationID)
	assert.Equal(t, GatewayStatusSuccess, cb.Status)
	assert.Equal(t, "150.00", cb.Amount)
	assert.Equal(t, "GBP", cb.Currency)

	// Every received pair survives for signature checks and audit.
	assert.Equal(t, "B-778", cb.Fields["bank_ref"])
}

func TestCallbackFromValues_MissingReference(t *testing.T) {
	_, err := CallbackFromValues(url.Values{"status": {"VALID"}})
	require.Error(t, err)
}

func TestCallbackFromJSON(t *testing.T) {
	cb, err := CallbackFromJSON([]byte(`{"tran_id":"TRV123","status":"VALID","amount":150.00,"currency":"GBP"}`))

	require.NoError(t, err)
	assert.Equal(t, "TRV123", cb.TransactionRef)
	assert.Equal(t, GatewayStatusSuccess, cb.Status)
	assert.Equal(t, "150", cb.Amount)
}

func TestCallbackFromJSON_Malformed(t *testing.T) {
	_, err := CallbackFromJSON([]byte(`not json`))
	require.Error(t, err)
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want GatewayStatus
	}{
		{"VALID", GatewayStatusSuccess},
		{"VALIDATED", GatewayStatusSuccess},
		{"success", GatewayStatusSuccess},
		{"Completed", GatewayStatusSuccess},
		{" valid ", GatewayStatusSuccess},
		{"CANCELLED", GatewayStatusCancelled},
		{"canceled", GatewayStatusCancelled},
		{"CANCEL", GatewayStatusCancelled},
		{"FAILED", GatewayStatusFailed},
		{"DECLINED", GatewayStatusFailed},
		{"", GatewayStatusFailed},
		{"SOMETHING_NEW", GatewayStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeStatus(tt.raw))
		})
	}
}

func TestRawPayloadRoundTrips(t *testing.T) {
	cb, err := CallbackFromValues(url.Values{
		"tran_id": {"TRV123"},
		"status":  {"VALID"},
	})
	require.NoError(t, err)

	raw := cb.RawPayload()
	assert.JSONEq(t, `{"tran_id":"TRV123","status":"VALID"}`, string(raw))
}
