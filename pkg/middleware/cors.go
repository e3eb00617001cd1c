package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS middleware for browser clients (checkout pages run on the
// frontend origin, the gateway redirect lands here directly).
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
