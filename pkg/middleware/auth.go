package middleware

import (
	"crypto/subtle"
	"net/http"

	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

// APIKey middleware guards the internal admin surface. There are no
// end-user accounts in this service; operator tooling authenticates
// with a shared key in the X-API-Key header.
func APIKey(key string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				logger.Error("Admin API key not configured, rejecting request",
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin API disabled")
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				utils.ResponseUnauthorized(w, "Missing API key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				logger.Warn("Invalid admin API key",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				utils.ResponseUnauthorized(w, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
