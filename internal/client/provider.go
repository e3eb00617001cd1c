package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"travel-booking/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Offer is a time-limited provider quote for a specific itinerary.
type Offer struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type OrderPassenger struct {
	Title          string `json:"title,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    string `json:"date_of_birth"`
	PhoneNumber    string `json:"phone_number"`
	Email          string `json:"email,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
}

type OrderRequest struct {
	OfferID      string           `json:"offer_id"`
	Amount       decimal.Decimal  `json:"amount"`
	Currency     string           `json:"currency"`
	Passengers   []OrderPassenger `json:"passengers"`
	ContactEmail string           `json:"contact_email"`
	ContactPhone string           `json:"contact_phone"`
}

type Order struct {
	ID               string          `json:"id"`
	BookingReference string          `json:"booking_reference"`
	OfferID          string          `json:"offer_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
}

type ProviderClient interface {
	GetOffer(ctx context.Context, offerID string) (*Offer, error)
	CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	CancelOrder(ctx context.Context, orderID string) error
}

type providerClient struct {
	baseURL string
	apiKey  string
	// Order creation can take on the order of minutes upstream while
	// reads come back in seconds, so the two get separate clients.
	readClient  *http.Client
	orderClient *http.Client
	log         *zap.Logger
}

func NewProviderClient(config utils.ProviderConfig, log *zap.Logger) ProviderClient {
	return &providerClient{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		readClient: &http.Client{
			Timeout: time.Duration(config.ReadTimeoutSeconds) * time.Second,
		},
		orderClient: &http.Client{
			Timeout: time.Duration(config.OrderTimeoutSeconds) * time.Second,
		},
		log: log.With(zap.String("client", "provider")),
	}
}

func (c *providerClient) GetOffer(ctx context.Context, offerID string) (*Offer, error) {
	var offer Offer
	if err := c.do(ctx, c.readClient, http.MethodGet, "/offers/"+offerID, nil, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

func (c *providerClient) CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, c.orderClient, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}

	c.log.Info("Upstream order created",
		zap.String("order_id", order.ID),
		zap.String("booking_reference", order.BookingReference),
	)

	return &order, nil
}

func (c *providerClient) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.do(ctx, c.readClient, http.MethodGet, "/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *providerClient) CancelOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, c.readClient, http.MethodDelete, "/orders/"+orderID, nil, nil)
}

// providerErrorBody is the provider's error envelope.
type providerErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *providerClient) do(ctx context.Context, httpClient *http.Client, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		c.log.Error("Provider request failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("path", path),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response body for %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody providerErrorBody
		_ = json.Unmarshal(raw, &errBody)

		ue := &UpstreamError{
			StatusCode: resp.StatusCode,
			Code:       errBody.Error.Code,
			Message:    errBody.Error.Message,
			Body:       string(raw),
		}

		c.log.Warn("Provider returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", ue.Code),
		)

		return ue
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}

	return nil
}
