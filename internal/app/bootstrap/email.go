package bootstrap

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/DavidJ001/patient-request-form/internal/config"
	"github.com/DavidJ001/patient-request-form/internal/notify"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

// BuildEmailSender picks the outbound provider. Misconfigured providers fall
// back to the stub sender with a warning so local runs still work.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, fromName string, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SendGridFromName != "" {
		fromName = cfg.SendGridFromName
	}

	provider := cfg.ResolveEmailProvider()
	switch provider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  fromName,
		}, logger); sender != nil {
			logger.Info("email provider configured", "provider", provider)
			return sender
		}
		logger.Warn("SENDGRID_API_KEY missing, falling back to stub email sender")
	case "ses":
		if cfg.SESFromEmail != "" {
			logger.Info("email provider configured", "provider", provider, "region", awsCfg.Region)
			return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.SESFromEmail,
				FromName:  fromName,
			}, logger)
		}
		logger.Warn("SES_FROM_EMAIL missing, falling back to stub email sender")
	}

	if cfg.Env == "production" {
		logger.Warn("stub email sender active in production; appointment requests will not be delivered")
	}
	return notify.NewStubEmailSender(logger)
}
