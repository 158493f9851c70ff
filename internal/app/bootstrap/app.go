package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/medreminder/internal/api/router"
	"github.com/wolfman30/medreminder/internal/audit"
	appconfig "github.com/wolfman30/medreminder/internal/config"
	"github.com/wolfman30/medreminder/internal/delivery"
	"github.com/wolfman30/medreminder/internal/druginfo"
	httpmiddleware "github.com/wolfman30/medreminder/internal/http/middleware"
	"github.com/wolfman30/medreminder/internal/messaging"
	"github.com/wolfman30/medreminder/internal/observability/metrics"
	"github.com/wolfman30/medreminder/internal/prefill"
	"github.com/wolfman30/medreminder/internal/prescriptions"
	"github.com/wolfman30/medreminder/internal/reminders"
	"github.com/wolfman30/medreminder/pkg/logging"
)

// App is the assembled API process.
type App struct {
	Handler    http.Handler
	Store      *reminders.Store
	Dispatcher *delivery.Dispatcher
	Permission *delivery.PermissionGate

	closers []func()
}

// Options overrides process-level dependencies, mainly for tests.
type Options struct {
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Clock      delivery.Clock
}

// BuildApp wires every component from configuration. Optional backends
// (relay or Twilio, Redis, Postgres, Gemini) are skipped with a log line when
// not configured.
func BuildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, opts Options) *App {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	app := &App{}

	m := metrics.NewReminderMetrics(opts.Registerer)
	store := reminders.NewStore()
	app.Store = store

	gate := delivery.NewPermissionGate(cfg.AlertsPermissionDefault)
	granted := gate.Request()
	logger.Info("local alert permission requested", "granted", granted)
	app.Permission = gate

	hub := delivery.NewAlertsHub(logger)
	triggers := delivery.NewTriggerScheduler(opts.Clock, gate, hub, logger).WithMetrics(m)

	var messenger delivery.Messenger
	sender, provider, reason := messaging.BuildSender(messaging.ProviderConfig{
		RelayURL:           cfg.RelayURL,
		TwilioAccountSID:   cfg.TwilioAccountSID,
		TwilioAuthToken:    cfg.TwilioAuthToken,
		TwilioWhatsAppFrom: cfg.TwilioWhatsAppFrom,
		TwilioContentSID:   cfg.TwilioContentSID,
		TwilioBaseURL:      cfg.TwilioBaseURL,
	}, logger)
	if sender != nil {
		messenger = sender
		logger.Info("outbound messaging enabled", "provider", provider)
	} else {
		logger.Warn("outbound messaging disabled", "reason", reason)
	}

	dispatcher := delivery.NewDispatcher(triggers, messenger, store, logger).
		WithMetrics(m).
		WithSendTimeout(cfg.OutboundTimeout)
	if pool := ConnectPostgresPool(ctx, cfg.DatabaseURL, logger); pool != nil {
		dispatcher.WithOutcomes(audit.NewStore(pool))
		app.closers = append(app.closers, pool.Close)
		logger.Info("delivery audit enabled")
	}
	app.Dispatcher = dispatcher

	drugs := druginfo.NewClient(cfg.DrugInfoBaseURL, logger).WithMetrics(m)
	if rdb := BuildRedisClient(ctx, cfg, logger, true); rdb != nil {
		drugs.WithCache(druginfo.NewRedisCache(rdb, cfg.DrugInfoCacheTTL))
		app.closers = append(app.closers, func() { _ = rdb.Close() })
		logger.Info("drug info cache enabled", "ttl", cfg.DrugInfoCacheTTL.String())
	}

	var scanner prescriptions.Scanner
	if cfg.GeminiAPIKey != "" {
		recognizer, err := prefill.NewGeminiRecognizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Warn("label scanning disabled", "error", err)
		} else {
			scanner = prefill.NewScanner(recognizer)
			app.closers = append(app.closers, func() { _ = recognizer.Close() })
		}
	} else {
		logger.Info("label scanning disabled", "reason", "GEMINI_API_KEY missing")
	}

	service := prescriptions.NewService(store, dispatcher, logger).WithMetrics(m)
	app.Handler = router.New(&router.Config{
		Logger:             logger,
		Prescriptions:      prescriptions.NewHandler(service, scanner, logger).WithScanLimit(httpmiddleware.RateLimit(httpmiddleware.NewRateLimiter(cfg.ScanRateLimit, cfg.ScanRateBurst))),
		Reminders:          reminders.NewHandler(store, nil, logger),
		DrugInfo:           druginfo.NewHandler(drugs),
		Alerts:             delivery.NewHandler(hub, gate),
		MetricsHandler:     promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	return app
}

// Shutdown stops triggers, waits up to timeout for in-flight outbound
// messages and releases backends.
func (a *App) Shutdown(timeout time.Duration) {
	a.Dispatcher.Stop()
	done := make(chan struct{})
	go func() {
		a.Dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
