package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DavidJ001/patient-request-form/cmd/mainconfig"
	"github.com/DavidJ001/patient-request-form/internal/api/router"
	"github.com/DavidJ001/patient-request-form/internal/app/bootstrap"
	"github.com/DavidJ001/patient-request-form/internal/clinic"
	appconfig "github.com/DavidJ001/patient-request-form/internal/config"
	"github.com/DavidJ001/patient-request-form/internal/http/handlers"
	httpmiddleware "github.com/DavidJ001/patient-request-form/internal/http/middleware"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting appointment request API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	registry, metricsHandler := setupMetrics()
	svc, err := bootstrap.BuildBooking(ctx, cfg, awsCfg, nil, registry, logger)
	if err != nil {
		logger.Error("failed to build booking pipeline", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	limiter := httpmiddleware.NewRateLimiter(cfg.SubmitRatePerSec, cfg.SubmitBurst)
	stopSweep := sweepLimiter(limiter, 5*time.Minute)
	defer stopSweep()

	srv := newServer(cfg, svc, limiter, metricsHandler, logger)

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "recipient", svc.Recipient)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics() (*prometheus.Registry, http.Handler) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func newServer(cfg *appconfig.Config, svc *bootstrap.Booking, limiter *httpmiddleware.RateLimiter, metricsHandler http.Handler, logger *logging.Logger) *http.Server {
	r := router.New(&router.Config{
		Logger:             logger,
		AppointmentEmail:   handlers.NewAppointmentEmailHandler(svc.Submission, logger),
		ReferralUpload:     handlers.NewReferralUploadHandler(svc.Uploads, logger),
		ClinicHandler:      clinic.NewHandler(svc.Profile, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SubmitLimiter:      limiter,
	})

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// sweepLimiter evicts idle rate limit buckets until the returned stop
// function is called.
func sweepLimiter(limiter *httpmiddleware.RateLimiter, every time.Duration) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Sweep(10 * time.Minute)
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
