package client

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for upstream 404s: unknown offer/order ids
// and, crucially, offers that have already expired out of the
// provider's cache.
var ErrNotFound = errors.New("upstream resource not found")

// UpstreamError carries the provider's non-2xx response so callers can
// branch on classification instead of raw status codes.
type UpstreamError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("upstream error %d: %s", e.StatusCode, e.Message)
}

// offerExpiredCodes are the provider error codes meaning the quoted
// offer lapsed between re-fetch and order creation.
var offerExpiredCodes = map[string]bool{
	"offer_expired":             true,
	"offer_no_longer_available": true,
	"quote_expired":             true,
}

// IsOfferExpired reports whether err means the offer/quote is gone
// upstream. Covers both the 404 on re-fetch and the coded rejection on
// order creation.
func IsOfferExpired(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		return offerExpiredCodes[ue.Code]
	}

	return false
}
