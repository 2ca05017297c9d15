package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/ignite/outreach-crm/internal/api"
	"github.com/ignite/outreach-crm/internal/config"
	"github.com/ignite/outreach-crm/internal/dispatch"
	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/importer"
	"github.com/ignite/outreach-crm/internal/message"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
	"github.com/ignite/outreach-crm/internal/repository/postgres"
	"github.com/ignite/outreach-crm/internal/service/compliance"
	"github.com/ignite/outreach-crm/internal/service/followup"
	"github.com/ignite/outreach-crm/internal/service/leads"
	"github.com/ignite/outreach-crm/internal/service/outreach"
	"github.com/ignite/outreach-crm/internal/service/ratelimit"
	"github.com/ignite/outreach-crm/internal/service/targets"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("database url is required (config database.url or DATABASE_URL)")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	limiter, err := ratelimit.NewFromURL(cfg.Redis.URL, cfg.Outreach.DailySendLimit)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer limiter.Close()

	complianceSvc := compliance.NewService(postgres.NewDncRepo(db))
	targetSvc := targets.NewService(postgres.NewTargetRepo(db))
	leadSvc := leads.NewService(postgres.NewLeadRepo(db), cfg.Outreach.Keywords())
	followUpSvc := followup.NewService(postgres.NewFollowUpRepo(db), cfg.Outreach.FollowUpDays)
	importSvc := importer.NewService(postgres.NewImportRepo(db))

	dispatchers := map[domain.Channel]dispatch.Dispatcher{
		domain.ChannelLinkedIn: dispatch.NewManualDispatcher(),
		domain.ChannelPhone:    dispatch.NewManualDispatcher(),
	}
	if !cfg.Outreach.PreviewMode {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		ses, err := dispatch.NewSESDispatcher(ctx, cfg.SES)
		cancel()
		if err != nil {
			log.Fatalf("init ses dispatcher: %v", err)
		}
		dispatchers[domain.ChannelEmail] = ses
	}

	templates := message.NewDirCollection(cfg.Outreach.TemplateDir)
	outreachSvc := outreach.NewService(outreach.Options{
		Repo:        postgres.NewDraftRepo(db),
		Checker:     complianceSvc,
		Limiter:     limiter,
		Templates:   templates,
		Dispatchers: dispatchers,
		PreviewMode: cfg.Outreach.PreviewMode,
	})

	server := api.NewServer(cfg.Server, api.Services{
		Targets:    targetSvc,
		Outreach:   outreachSvc,
		Leads:      leadSvc,
		FollowUps:  followUpSvc,
		Compliance: complianceSvc,
		Importer:   importSvc,
		Templates:  templates,
		Quota:      limiter,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	go func() {
		logger.Info("server listening",
			"addr", addr,
			"preview_mode", cfg.Outreach.PreviewMode,
			"daily_send_limit", cfg.Outreach.DailySendLimit)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err.Error())
	}
}
