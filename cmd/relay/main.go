package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	appconfig "github.com/wolfman30/medreminder/internal/config"
	httpmiddleware "github.com/wolfman30/medreminder/internal/http/middleware"
	"github.com/wolfman30/medreminder/internal/messaging"
	"github.com/wolfman30/medreminder/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	srv := &http.Server{
		Addr:         ":" + cfg.RelayPort,
		Handler:      newRelayRouter(cfg, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("relay listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("relay server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("relay forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("relay stopped")
}

func newRelayRouter(cfg *appconfig.Config, logger *logging.Logger) http.Handler {
	sender := messaging.NewTwilioWhatsAppSender(
		cfg.TwilioAccountSID,
		cfg.TwilioAuthToken,
		cfg.TwilioWhatsAppFrom,
		cfg.TwilioContentSID,
		logger,
	)
	if cfg.TwilioBaseURL != "" {
		sender.WithBaseURL(cfg.TwilioBaseURL)
	}
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioContentSID == "" {
		logger.Warn("relay started without complete twilio credentials; sends will fail")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(httpmiddleware.RequestLogger(logger))
	messaging.NewRelayHandler(sender, logger).RegisterRoutes(r)
	return r
}
