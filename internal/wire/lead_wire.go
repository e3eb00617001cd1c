package wire

import (
	"travel-booking/internal/adaptor"
	"travel-booking/pkg/middleware"
	"travel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireLead(
	r chi.Router,
	leadHandler *adaptor.LeadHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// POST /api/leads - Capture a sales lead (public)
	r.Post("/api/leads", leadHandler.CreateLead)

	// GET /api/admin/leads - List captured leads (admin)
	r.Route("/api/admin/leads", func(r chi.Router) {
		r.Use(middleware.APIKey(config.Admin.APIKey, log))
		r.Get("/", leadHandler.GetLeads)
	})
}
