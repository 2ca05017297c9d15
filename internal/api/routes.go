package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router and all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/targets", func(r chi.Router) {
			r.Get("/", h.ListTargets)
			r.Post("/", h.CreateTarget)
			r.Get("/export", h.ExportTargets)
			r.Get("/{id}", h.GetTarget)
			r.Delete("/{id}", h.DeleteTarget)
			r.Patch("/{id}/status", h.UpdateTargetStatus)
			r.Patch("/{id}/dnc", h.SetTargetDnc)
			r.Get("/{id}/contacts", h.ListContacts)
			r.Post("/{id}/contacts", h.AddContact)
			r.Get("/{id}/events", h.ListEvents)
			r.Get("/{id}/followups", h.ListTargetFollowUps)
		})

		r.Patch("/contacts/{id}/dnc", h.SetContactDnc)

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", h.ListDrafts)
			r.Post("/", h.CreateDraft)
			r.Get("/{id}", h.GetDraft)
			r.Post("/{id}/approve", h.ApproveDraft)
			r.Post("/{id}/queue", h.QueueDraft)
			r.Post("/{id}/send", h.SendDraft)
		})

		r.Patch("/events/{id}/outcome", h.RecordOutcome)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.ListLeads)
			r.Post("/generate", h.GenerateLeads)
			r.Get("/{id}", h.GetLead)
			r.Post("/{id}/accept", h.AcceptLead)
			r.Post("/{id}/reject", h.RejectLead)
		})

		r.Route("/dnc", func(r chi.Router) {
			r.Get("/", h.ListDnc)
			r.Post("/", h.AddDnc)
			r.Delete("/{value}", h.RemoveDnc)
		})

		r.Route("/followups", func(r chi.Router) {
			r.Get("/due", h.ListDueFollowUps)
			r.Post("/", h.CreateFollowUp)
			r.Post("/{id}/done", h.MarkFollowUpDone)
		})

		r.Route("/import", func(r chi.Router) {
			r.Post("/municipalities", h.ImportMunicipalities)
			r.Post("/contacts", h.ImportContacts)
		})

		r.Get("/templates", h.ListTemplates)
		r.Get("/quota", h.GetQuota)
	})

	return r
}
