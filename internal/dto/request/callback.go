package request

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// GatewayStatus is the normalized gateway outcome from the callback.
type GatewayStatus string

const (
	GatewayStatusSuccess   GatewayStatus = "success"
	GatewayStatusFailed    GatewayStatus = "failed"
	GatewayStatusCancelled GatewayStatus = "cancelled"
)

// GatewayCallback is the parsed redirect/IPN payload. Fields holds
// every key-value pair as received, for signature verification and the
// audit snapshot; the typed fields are what reconciliation branches on.
type GatewayCallback struct {
	TransactionRef string
	ValidationID   string
	Status         GatewayStatus
	Amount         string
	Currency       string

	Fields map[string]string
}

// RawPayload renders the callback for the transaction's audit column.
func (c *GatewayCallback) RawPayload() json.RawMessage {
	raw, err := json.Marshal(c.Fields)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}

// CallbackFromValues builds a GatewayCallback from query or form
// values, the two transports gateways use.
func CallbackFromValues(values url.Values) (*GatewayCallback, error) {
	fields := make(map[string]string, len(values))
	for k := range values {
		fields[k] = values.Get(k)
	}
	return callbackFromFields(fields)
}

// CallbackFromJSON builds a GatewayCallback from a JSON IPN body.
func CallbackFromJSON(body []byte) (*GatewayCallback, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode callback body: %w", err)
	}

	fields := make(map[string]string, len(payload))
	for k, v := range payload {
		fields[k] = fmt.Sprintf("%v", v)
	}
	return callbackFromFields(fields)
}

func callbackFromFields(fields map[string]string) (*GatewayCallback, error) {
	ref := fields["tran_id"]
	if ref == "" {
		return nil, fmt.Errorf("callback missing transaction reference")
	}

	return &GatewayCallback{
		TransactionRef: ref,
		ValidationID:   fields["val_id"],
		Status:         normalizeStatus(fields["status"]),
		Amount:         fields["amount"],
		Currency:       fields["currency"],
		Fields:         fields,
	}, nil
}

// normalizeStatus maps the gateway's status vocabulary onto ours.
// Unknown values read as failed, never as success.
func normalizeStatus(raw string) GatewayStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "VALID", "VALIDATED", "SUCCESS", "COMPLETED":
		return GatewayStatusSuccess
	case "CANCELLED", "CANCELED", "CANCEL":
		return GatewayStatusCancelled
	default:
		return GatewayStatusFailed
	}
}
