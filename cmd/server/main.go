// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unclebandit/phishsim-backend/internal/config"
	"github.com/unclebandit/phishsim-backend/internal/controller"
	"github.com/unclebandit/phishsim-backend/internal/db"
	"github.com/unclebandit/phishsim-backend/internal/handler"
	"github.com/unclebandit/phishsim-backend/internal/logger"
	"github.com/unclebandit/phishsim-backend/internal/metrics"
	"github.com/unclebandit/phishsim-backend/internal/queue"
	"github.com/unclebandit/phishsim-backend/internal/repository"
	"github.com/unclebandit/phishsim-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", true)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogJSON)

	if err := cfg.ValidateDB(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer conn.Close()
	log.Info().Msg("connected to database")

	var q queue.Queue
	if cfg.AMQPURL != "" {
		amqpQueue, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to AMQP broker")
		}
		defer amqpQueue.Close()
		q = amqpQueue
		log.Info().Msg("connected to AMQP broker")
	} else {
		log.Warn().Msg("AMQP_URL not set, interaction events stay in-process")
		q = queue.NewInMemoryQueue()
	}

	campaignRepo := &repository.CampaignRepository{DB: conn}
	templateRepo := &repository.TemplateRepository{DB: conn}
	consentRepo := &repository.ConsentRepository{DB: conn}
	interactionRepo := &repository.InteractionRepository{DB: conn}

	interactionService := &service.InteractionService{
		Repo:  interactionRepo,
		Queue: q,
		Log:   logger.WithComponent(log, "interactions"),
	}
	consentService := &service.ConsentService{
		Repo: consentRepo,
		Log:  logger.WithComponent(log, "consents"),
	}

	landingHandler := &handler.LandingHandler{Interactions: interactionService}
	campaignController := &controller.CampaignController{
		Campaigns:    campaignRepo,
		Interactions: interactionService,
	}
	templateController := &controller.TemplateController{Templates: templateRepo}
	consentController := &controller.ConsentController{Consents: consentService}

	r := chi.NewRouter()
	r.Use(metrics.Instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Landing and submission surface
	r.Get("/l/{simID}", landingHandler.Landing)
	r.Post("/submit", landingHandler.Submit)

	// Admin surface
	r.Route("/admin", func(r chi.Router) {
		r.Use(controller.AdminAuth(cfg.AdminToken))

		r.Post("/campaigns", campaignController.CreateCampaign)
		r.Get("/campaigns", campaignController.ListCampaigns)
		r.Get("/campaigns/{id}", campaignController.GetCampaign)
		r.Get("/report", campaignController.Report)

		r.Post("/templates", templateController.CreateTemplate)
		r.Get("/templates", templateController.ListTemplates)
		r.Delete("/templates/{id}", templateController.DeleteTemplate)

		r.Post("/consents/{recipientID}/optin", consentController.OptIn)
		r.Post("/consents/{recipientID}/optout", consentController.OptOut)
		r.Get("/consents/{recipientID}", consentController.Status)
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server shutdown complete")
}
