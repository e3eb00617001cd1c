// internal/wire/wire.go
package wire

import (
	"net/http"

	"travel-booking/internal/adaptor"
	"travel-booking/internal/client"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/usecase"
	"travel-booking/pkg/middleware"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	// External collaborators
	provider := client.NewProviderClient(config.Provider, logger)
	gateway := client.NewGatewayClient(config.Gateway, logger)
	mailer := utils.NewMailer(config.Email)

	// Initialize services and handlers
	service := usecase.NewService(repo, provider, gateway, mailer, config, logger)
	handler := adaptor.NewHandler(service, gateway, config, logger)

	// Setup router
	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the chi router
func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireCheckout(r, handler.Checkout)
	wireCallback(r, handler.Callback)
	wireBooking(r, handler.Booking, config, logger)
	wireLead(r, handler.Lead, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
