// cmd/dispatcher/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/unclebandit/phishsim-backend/internal/config"
	"github.com/unclebandit/phishsim-backend/internal/db"
	"github.com/unclebandit/phishsim-backend/internal/delivery"
	"github.com/unclebandit/phishsim-backend/internal/logger"
	"github.com/unclebandit/phishsim-backend/internal/model"
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

	// Missing delivery target or base URL is fatal: the dispatcher cannot
	// build links or deliver anything without them.
	if err := cfg.ValidateDispatcher(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer conn.Close()

	var channel delivery.Channel
	if cfg.ChatGatewayURL != "" {
		channel = delivery.NewGatewayChannel(cfg.ChatGatewayURL)
	} else {
		log.Warn().Msg("CHAT_GATEWAY_URL not set, using mock delivery channel")
		channel = &delivery.MockChannel{
			FailureRate: 0.1,
			Log:         logger.WithComponent(log, "mock-channel"),
		}
	}

	dispatcher := &service.DispatchService{
		Campaigns:     &repository.CampaignRepository{DB: conn},
		Templates:     &repository.TemplateRepository{DB: conn},
		Consents:      &repository.ConsentRepository{DB: conn},
		Channel:       channel,
		BaseURL:       cfg.WebBaseURL,
		DefaultTarget: cfg.DefaultChannelID,
		SendTimeout:   cfg.SendTimeout,
		Log:           logger.WithComponent(log, "dispatcher"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.DispatchInterval)
	defer ticker.Stop()

	log.Info().Dur("interval", cfg.DispatchInterval).Msg("dispatcher running")
	runTick(ctx, dispatcher, log)

	for {
		select {
		case <-ticker.C:
			runTick(ctx, dispatcher, log)
		case <-stop:
			log.Info().Msg("dispatcher shutting down")
			return
		}
	}
}

func runTick(ctx context.Context, dispatcher *service.DispatchService, log zerolog.Logger) {
	result, err := dispatcher.Tick(ctx)
	if err != nil {
		log.Error().Err(err).Msg("tick failed")
		return
	}
	if result != nil && result.Status == model.StatusSent && result.Succeeded < result.Attempted {
		log.Warn().
			Int("campaign_id", result.CampaignID).
			Int("attempted", result.Attempted).
			Int("succeeded", result.Succeeded).
			Msg("campaign sent with recipient-level failures")
	}
}
