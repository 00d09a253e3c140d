package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// EmailProvider selects the outbound sender: sendgrid, ses, stub or auto.
	EmailProvider     string
	AppointmentsInbox string
	SubjectPrefix     string
	DateLayout        string
	ClinicProfilePath string

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	SESFromEmail string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	ReferralBucket      string

	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool
	SubmissionGuardTTL time.Duration

	SubmitRatePerSec   float64
	SubmitBurst        int
	CORSAllowedOrigins []string

	// BookingEndpoint is where the terminal form posts submissions.
	BookingEndpoint string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		AppointmentsInbox: getEnv("APPOINTMENTS_INBOX", ""),
		SubjectPrefix:     getEnv("SUBJECT_PREFIX", "New Appointment Request"),
		DateLayout:        getEnv("DATE_LAYOUT", "1/2/2006"),
		ClinicProfilePath: getEnv("CLINIC_PROFILE_PATH", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Premier Family Clinics"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		ReferralBucket:      getEnv("REFERRAL_BUCKET", ""),

		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		SubmissionGuardTTL: getEnvAsDuration("SUBMISSION_GUARD_TTL", time.Minute),

		SubmitRatePerSec:   getEnvAsFloat("SUBMIT_RATE_PER_SEC", 1),
		SubmitBurst:        getEnvAsInt("SUBMIT_BURST", 5),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		BookingEndpoint: getEnv("BOOKING_ENDPOINT", ""),
	}
}

// ResolveEmailProvider turns "auto" into a concrete provider based on which
// credentials are present.
func (c *Config) ResolveEmailProvider() string {
	switch c.EmailProvider {
	case "sendgrid", "ses", "stub":
		return c.EmailProvider
	}
	if c.SendGridAPIKey != "" && c.SendGridFromEmail != "" {
		return "sendgrid"
	}
	if c.SESFromEmail != "" {
		return "ses"
	}
	return "stub"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
