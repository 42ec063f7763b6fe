// internal/workers/application/send-notification/config.go
package sendnotification

import (
	"time"

	"livest/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SMSSenderID  string
	AWSRegion    string
	Timeout      time.Duration
}

// LoadConfig combines the notification switches with the AWS channel settings.
// A channel is enabled only when both sections enable it.
func LoadConfig(cfg *config.Config) *Config {
	aws := cfg.Integrations.AWS

	fromEmail := cfg.Notifications.Email.FromEmail
	if fromEmail == "" {
		fromEmail = aws.SES.FromEmail
	}

	timeout := config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Config{
		EmailEnabled: cfg.Notifications.Email.Enabled && aws.SES.Enabled,
		SMSEnabled:   cfg.Notifications.SMS.Enabled && aws.SNS.Enabled,
		FromEmail:    fromEmail,
		SMSSenderID:  aws.SNS.DefaultSMSSenderID,
		AWSRegion:    aws.Region,
		Timeout:      timeout,
	}
}
