// Package api exposes the outreach CRM over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/outreach-crm/internal/config"
	"github.com/ignite/outreach-crm/internal/importer"
	"github.com/ignite/outreach-crm/internal/message"
	"github.com/ignite/outreach-crm/internal/service/compliance"
	"github.com/ignite/outreach-crm/internal/service/followup"
	"github.com/ignite/outreach-crm/internal/service/leads"
	"github.com/ignite/outreach-crm/internal/service/outreach"
	"github.com/ignite/outreach-crm/internal/service/targets"
)

// Server is the HTTP API server.
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// Services bundles everything the handlers need.
type Services struct {
	Targets    *targets.Service
	Outreach   *outreach.Service
	Leads      *leads.Service
	FollowUps  *followup.Service
	Compliance *compliance.Service
	Importer   *importer.Service
	Templates  message.Collection
	Quota      QuotaReader
}

// QuotaReader reports the state of the daily send budget, for the health and
// quota endpoints. Satisfied by *ratelimit.Limiter.
type QuotaReader interface {
	UsedToday(ctx context.Context) (int, error)
	Remaining(ctx context.Context) (int, error)
	Limit() int
}

// NewServer creates an API server.
func NewServer(cfg config.ServerConfig, svcs Services) *Server {
	handlers := NewHandlers(svcs)
	return &Server{
		config:  cfg,
		handler: SetupRoutes(handlers),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
		// CSV imports can be large; everything else is small JSON.
		ReadTimeout:       2 * time.Minute,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
