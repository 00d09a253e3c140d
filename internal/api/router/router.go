package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DavidJ001/patient-request-form/internal/clinic"
	"github.com/DavidJ001/patient-request-form/internal/http/handlers"
	httpmiddleware "github.com/DavidJ001/patient-request-form/internal/http/middleware"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	AppointmentEmail   *handlers.AppointmentEmailHandler
	ReferralUpload     *handlers.ReferralUploadHandler
	ClinicHandler      *clinic.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	// SubmitLimiter throttles the submission routes per client IP.
	SubmitLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handlers.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.ClinicHandler != nil {
		r.Get("/clinic", cfg.ClinicHandler.GetProfile)
	}

	r.Group(func(submit chi.Router) {
		if cfg.SubmitLimiter != nil {
			submit.Use(httpmiddleware.RateLimit(cfg.SubmitLimiter))
		}
		if cfg.AppointmentEmail != nil {
			submit.Post("/functions/v1/send-appointment-email", cfg.AppointmentEmail.SendAppointmentEmail)
			submit.Post("/appointments", cfg.AppointmentEmail.SendAppointmentEmail)
		}
		if cfg.ReferralUpload != nil {
			submit.Post("/appointments/referrals", cfg.ReferralUpload.Upload)
		}
	})

	return r
}
