package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"travel-booking/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SessionRequest carries what the hosted payment page needs. The
// callback URLs all point at the same ingestion endpoint, the gateway
// reports the outcome in the payload.
type SessionRequest struct {
	Reference     string
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
	CustomerPhone string
	SuccessURL    string
	FailURL       string
	CancelURL     string
	IPNURL        string
}

// Session is the gateway's initiation response.
type Session struct {
	SessionKey     string `json:"session_key"`
	GatewayPageURL string `json:"redirect_url"`

	// Raw is the full response body, persisted on the transaction for audit.
	Raw json.RawMessage `json:"-"`
}

type GatewayClient interface {
	InitiateSession(ctx context.Context, req *SessionRequest) (*Session, error)
	VerifySignature(fields map[string]string) bool
}

type gatewayClient struct {
	baseURL       string
	storeID       string
	storePassword string
	httpClient    *http.Client
	log           *zap.Logger
}

func NewGatewayClient(config utils.GatewayConfig, log *zap.Logger) GatewayClient {
	return &gatewayClient{
		baseURL:       config.BaseURL,
		storeID:       config.StoreID,
		storePassword: config.StorePassword,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		log: log.With(zap.String("client", "gateway")),
	}
}

func (c *gatewayClient) InitiateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	form := url.Values{}
	form.Set("store_id", c.storeID)
	form.Set("store_password", c.storePassword)
	form.Set("tran_id", req.Reference)
	form.Set("amount", req.Amount.StringFixed(2))
	form.Set("currency", req.Currency)
	form.Set("customer_email", req.CustomerEmail)
	form.Set("customer_phone", req.CustomerPhone)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("ipn_url", req.IPNURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("Gateway session request failed",
			zap.Error(err),
			zap.String("reference", req.Reference),
		)
		return nil, fmt.Errorf("initiate gateway session for %s: %w", req.Reference, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway session response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("Gateway rejected session initiation",
			zap.String("reference", req.Reference),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    "gateway session initiation failed",
			Body:       string(raw),
		}
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode gateway session response: %w", err)
	}

	if session.GatewayPageURL == "" {
		return nil, fmt.Errorf("gateway session response missing redirect URL")
	}

	session.Raw = raw

	c.log.Info("Gateway session initiated",
		zap.String("reference", req.Reference),
		zap.String("session_key", session.SessionKey),
	)

	return &session, nil
}

// VerifySignature checks the HMAC-SHA256 signature the gateway attaches
// to callbacks: hex(HMAC(store_password, "k1=v1&k2=v2&...")) over all
// fields except the signature itself, keys sorted.
func (c *gatewayClient) VerifySignature(fields map[string]string) bool {
	provided, ok := fields["signature"]
	if !ok || provided == "" {
		return false
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	mac := hmac.New(sha256.New, []byte(c.storePassword))
	mac.Write([]byte(strings.Join(pairs, "&")))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(provided)))
}
