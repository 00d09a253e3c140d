package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("EMAIL_PROVIDER", "")
	t.Setenv("DATE_LAYOUT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("SUBMISSION_GUARD_TTL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.EmailProvider != "auto" {
		t.Fatalf("expected auto email provider, got %s", cfg.EmailProvider)
	}
	if cfg.DateLayout != "1/2/2006" {
		t.Fatalf("expected default date layout, got %s", cfg.DateLayout)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors origin, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SubmissionGuardTTL != time.Minute {
		t.Fatalf("expected default guard ttl, got %s", cfg.SubmissionGuardTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("EMAIL_PROVIDER", " SES ")
	t.Setenv("APPOINTMENTS_INBOX", "desk@clinic.test")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("SUBMISSION_GUARD_TTL", "90s")
	t.Setenv("SUBMIT_RATE_PER_SEC", "0.5")
	t.Setenv("SUBMIT_BURST", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, ,https://b.test")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.EmailProvider != "ses" {
		t.Fatalf("expected normalized provider, got %q", cfg.EmailProvider)
	}
	if cfg.AppointmentsInbox != "desk@clinic.test" {
		t.Fatalf("expected inbox override, got %s", cfg.AppointmentsInbox)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if cfg.SubmissionGuardTTL != 90*time.Second {
		t.Fatalf("expected guard ttl override, got %s", cfg.SubmissionGuardTTL)
	}
	if cfg.SubmitRatePerSec != 0.5 || cfg.SubmitBurst != 3 {
		t.Fatalf("expected rate overrides, got %v/%d", cfg.SubmitRatePerSec, cfg.SubmitBurst)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.test" {
		t.Fatalf("expected two cors origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SUBMIT_BURST", "many")
	t.Setenv("SUBMISSION_GUARD_TTL", "soon")
	cfg := Load()
	if cfg.SubmitBurst != 5 {
		t.Fatalf("expected default burst, got %d", cfg.SubmitBurst)
	}
	if cfg.SubmissionGuardTTL != time.Minute {
		t.Fatalf("expected default ttl, got %s", cfg.SubmissionGuardTTL)
	}
}

func TestResolveEmailProvider(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "explicit", cfg: Config{EmailProvider: "ses"}, want: "ses"},
		{name: "auto sendgrid", cfg: Config{EmailProvider: "auto", SendGridAPIKey: "k", SendGridFromEmail: "a@b.test"}, want: "sendgrid"},
		{name: "auto sendgrid needs sender", cfg: Config{EmailProvider: "auto", SendGridAPIKey: "k"}, want: "stub"},
		{name: "auto ses", cfg: Config{EmailProvider: "auto", SESFromEmail: "a@b.test"}, want: "ses"},
		{name: "unknown falls back", cfg: Config{EmailProvider: "pigeon"}, want: "stub"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.ResolveEmailProvider(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
