package adaptor

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"travel-booking/internal/client"
	"travel-booking/internal/dto/request"
	"travel-booking/internal/dto/response"
	"travel-booking/internal/usecase"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

// CallbackHandler is the webhook/callback ingestion layer: it adapts
// the gateway's transport (GET redirect, form POST, or JSON IPN) into
// the reconcile call and maps the result to either a browser redirect
// or a JSON answer.
type CallbackHandler struct {
	service usecase.ReconcileService
	gateway client.GatewayClient
	config  *utils.Config
	log     *zap.Logger
}

func NewCallbackHandler(service usecase.ReconcileService, gateway client.GatewayClient, config *utils.Config, log *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		service: service,
		gateway: gateway,
		config:  config,
		log:     log.With(zap.String("handler", "callback")),
	}
}

// HandleCallback handles GET and POST /api/payment/callback
func (h *CallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	cb, isIPN, err := h.parseCallback(r)
	if err != nil {
		h.log.Warn("Unparsable gateway callback",
			zap.Error(err),
			zap.String("method", r.Method),
		)
		h.respond(w, r, isIPN, &response.ReconcileResult{Outcome: response.OutcomeNotFound})
		return
	}

	if h.config.Gateway.VerifySignature && !h.gateway.VerifySignature(cb.Fields) {
		h.log.Warn("Callback signature verification failed",
			zap.String("reference", cb.TransactionRef),
		)
		if isIPN {
			utils.ResponseForbidden(w, "Invalid signature")
			return
		}
		h.redirect(w, r, "/payment/failed", url.Values{"ref": {cb.TransactionRef}})
		return
	}

	result, err := h.service.Reconcile(r.Context(), cb)
	if err != nil {
		h.log.Error("Reconciliation failed",
			zap.Error(err),
			zap.String("reference", cb.TransactionRef),
		)
		if isIPN {
			utils.ResponseInternalError(w, "Internal server error")
			return
		}
		h.redirect(w, r, "/payment/failed", url.Values{"ref": {cb.TransactionRef}})
		return
	}

	h.respond(w, r, isIPN, result)
}

// parseCallback extracts the payload from whichever transport the
// gateway used. The second return flags server-to-server notifications,
// which get JSON instead of a redirect.
func (h *CallbackHandler) parseCallback(r *http.Request) (*request.GatewayCallback, bool, error) {
	if r.Method == http.MethodGet {
		isIPN := r.URL.Query().Get("format") == "json"
		cb, err := request.CallbackFromValues(r.URL.Query())
		return cb, isIPN, err
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			return nil, true, err
		}
		cb, err := request.CallbackFromJSON(body)
		return cb, true, err
	}

	if err := r.ParseForm(); err != nil {
		return nil, false, err
	}
	isIPN := r.PostForm.Get("format") == "json"
	cb, err := request.CallbackFromValues(r.PostForm)
	return cb, isIPN, err
}

func (h *CallbackHandler) respond(w http.ResponseWriter, r *http.Request, isIPN bool, result *response.ReconcileResult) {
	if isIPN {
		utils.ResponseSuccess(w, "processed", result)
		return
	}

	// Browser-facing: distinct frontend routes per outcome so the
	// customer sees the right message without another API call.
	params := url.Values{}
	if result.TransactionRef != "" {
		params.Set("ref", result.TransactionRef)
	}

	switch result.Outcome {
	case response.OutcomeSuccess:
		params.Set("booking_ref", result.BookingReference)
		h.redirect(w, r, "/payment/success", params)
	case response.OutcomeOfferExpired:
		h.redirect(w, r, "/payment/offer-expired", params)
	case response.OutcomeCancelled:
		h.redirect(w, r, "/payment/cancelled", params)
	default:
		h.redirect(w, r, "/payment/failed", params)
	}
}

func (h *CallbackHandler) redirect(w http.ResponseWriter, r *http.Request, path string, params url.Values) {
	target := h.config.Frontend.BaseURL + path
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusFound)
}
