package bootstrap

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/DavidJ001/patient-request-form/internal/clinic"
	appconfig "github.com/DavidJ001/patient-request-form/internal/config"
	"github.com/DavidJ001/patient-request-form/internal/notify"
	"github.com/DavidJ001/patient-request-form/internal/observability/metrics"
	"github.com/DavidJ001/patient-request-form/internal/submission"
	"github.com/DavidJ001/patient-request-form/internal/uploads"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

// Booking is the wired appointment request pipeline shared by the API server
// and the Lambda entrypoint.
type Booking struct {
	Profile    clinic.Profile
	Recipient  string
	Metrics    *metrics.BookingMetrics
	Submission *submission.Service
	Uploads    *uploads.Service
	// Close releases the Redis connection when one was opened.
	Close func() error
}

// BuildBooking wires profile, sender, guard and upload storage from cfg.
// sender may be nil, in which case one is chosen by BuildEmailSender.
func BuildBooking(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, sender notify.EmailSender, reg prometheus.Registerer, logger *logging.Logger) (*Booking, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	profile, err := clinic.LoadProfile(cfg.ClinicProfilePath)
	if err != nil {
		return nil, err
	}
	recipient := profile.AppointmentsInbox
	if inbox := strings.TrimSpace(cfg.AppointmentsInbox); inbox != "" {
		recipient = inbox
	}

	m := metrics.NewBookingMetrics(reg)
	if sender == nil {
		sender = BuildEmailSender(cfg, awsCfg, profile.Name, logger)
	}

	var guard submission.Guard = submission.NewMemoryGuard()
	closeFn := func() error { return nil }
	if redisClient := BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		guard = submission.NewRedisGuard(redisClient, cfg.SubmissionGuardTTL)
		closeFn = redisClient.Close
		logger.Info("submission guard backed by redis", "addr", cfg.RedisAddr)
	}

	svc := submission.NewService(sender, submission.Config{
		Recipient: recipient,
		Formatter: notify.Formatter{
			SubjectPrefix: cfg.SubjectPrefix,
			DateLayout:    cfg.DateLayout,
			ClinicName:    profile.Name,
			Location:      profile.Location(),
		},
		Guard:   guard,
		Metrics: m,
		Now:     time.Now,
	}, logger)

	var store *uploads.Service
	if bucket := strings.TrimSpace(cfg.ReferralBucket); bucket != "" {
		store = uploads.NewService(s3.NewFromConfig(awsCfg), bucket, m, logger)
		logger.Info("referral uploads enabled", "bucket", bucket)
	} else {
		store = uploads.NewService(nil, "", m, logger)
	}

	return &Booking{
		Profile:    profile,
		Recipient:  recipient,
		Metrics:    m,
		Submission: svc,
		Uploads:    store,
		Close:      closeFn,
	}, nil
}
