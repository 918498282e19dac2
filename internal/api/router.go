package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/medibot/clinic-assistant/internal/auth"
)

type RouterConfig struct {
	Issuer      *auth.Issuer
	Revoked     auth.RevocationStore
	DoctorCreds auth.DoctorCredentials
	Assistant   MessageHandler
	Bookings    AppointmentLister

	UserinfoURL    string
	UserinfoClient *http.Client
	FeedWindowDays int

	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	userinfoClient := cfg.UserinfoClient
	if userinfoClient == nil {
		userinfoClient = http.DefaultClient
	}

	// Login endpoints
	r.Post("/google-login", googleLoginHandler(cfg.Issuer, cfg.UserinfoURL, userinfoClient))
	r.Post("/doctor-login", doctorLoginHandler(cfg.Issuer, cfg.DoctorCreds))

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Issuer, cfg.Revoked))

		r.With(auth.RequireRole(auth.RolePatient)).
			Post("/appointment", appointmentHandler(cfg.Assistant))
		r.With(auth.RequireRole(auth.RoleDoctor)).
			Get("/upcoming-appointments", upcomingAppointmentsHandler(cfg.Bookings, cfg.FeedWindowDays))
		r.Post("/logout", logoutHandler(cfg.Revoked))
	})

	return r
}
