package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/DavidJ001/patient-request-form/internal/config"
	"github.com/DavidJ001/patient-request-form/internal/notify"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

func TestBuildRedisClientDisabled(t *testing.T) {
	if client := BuildRedisClient(context.Background(), &appconfig.Config{}, nil, true); client != nil {
		t.Fatalf("expected nil client when REDIS_ADDR is empty")
	}
}

func TestBuildRedisClientVerifies(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: addr}, logging.Discard(), true)
	require.NotNil(t, client)
	defer client.Close()

	mr.Close()
	unreachable := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: addr}, logging.Discard(), true)
	assert.Nil(t, unreachable)
}

func TestBuildEmailSender(t *testing.T) {
	awsCfg := aws.Config{Region: "us-east-1"}
	cases := []struct {
		name string
		cfg  appconfig.Config
		want any
	}{
		{name: "sendgrid", cfg: appconfig.Config{EmailProvider: "sendgrid", SendGridAPIKey: "SG.x", SendGridFromEmail: "noreply@clinic.test"}, want: &notify.SendGridSender{}},
		{name: "sendgrid without key", cfg: appconfig.Config{EmailProvider: "sendgrid"}, want: &notify.StubEmailSender{}},
		{name: "ses", cfg: appconfig.Config{EmailProvider: "ses", SESFromEmail: "noreply@clinic.test"}, want: &notify.SESSender{}},
		{name: "ses without sender", cfg: appconfig.Config{EmailProvider: "ses"}, want: &notify.StubEmailSender{}},
		{name: "auto", cfg: appconfig.Config{EmailProvider: "auto"}, want: &notify.StubEmailSender{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender := BuildEmailSender(&tc.cfg, awsCfg, "Premier Family Clinics", logging.Discard())
			assert.IsType(t, tc.want, sender)
		})
	}
}

func TestBuildBookingRequiresConfig(t *testing.T) {
	_, err := BuildBooking(context.Background(), nil, aws.Config{}, nil, prometheus.NewRegistry(), nil)
	assert.Error(t, err)
}

func TestBuildBookingDefaults(t *testing.T) {
	cfg := &appconfig.Config{EmailProvider: "stub", DateLayout: "1/2/2006"}
	b, err := BuildBooking(context.Background(), cfg, aws.Config{Region: "us-east-1"}, nil, prometheus.NewRegistry(), logging.Discard())
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, "appointments@premierfamilyclinics.co.ke", b.Recipient)
	assert.NotNil(t, b.Submission)
	assert.False(t, b.Uploads.Enabled())
}

func TestBuildBookingOverrides(t *testing.T) {
	mr := miniredis.RunT(t)
	profilePath := filepath.Join(t.TempDir(), "clinic.yaml")
	require.NoError(t, os.WriteFile(profilePath, []byte("name: Westlands Clinic\nappointments_inbox: desk@westlands.test\n"), 0o600))

	cfg := &appconfig.Config{
		EmailProvider:     "stub",
		ClinicProfilePath: profilePath,
		AppointmentsInbox: "override@westlands.test",
		ReferralBucket:    "referrals",
		RedisAddr:         mr.Addr(),
	}
	b, err := BuildBooking(context.Background(), cfg, aws.Config{Region: "us-east-1"}, nil, prometheus.NewRegistry(), logging.Discard())
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, "Westlands Clinic", b.Profile.Name)
	assert.Equal(t, "override@westlands.test", b.Recipient)
	assert.True(t, b.Uploads.Enabled())
}

func TestBuildBookingBadProfile(t *testing.T) {
	cfg := &appconfig.Config{ClinicProfilePath: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := BuildBooking(context.Background(), cfg, aws.Config{}, nil, prometheus.NewRegistry(), logging.Discard())
	assert.Error(t, err)
}
