// internal/workers/application/send-notification/templates.go
package sendnotification

import (
	"fmt"
	"strings"

	"livest/internal/models"
)

var templates = map[models.NotificationType]models.NotificationTemplate{
	models.NotificationApplicationSubmitted: {
		Type:    models.NotificationApplicationSubmitted,
		Subject: "New application for {{propertyName}}",
		Body:    "Hello, {{tenantName}} has applied to rent {{propertyName}}. Review application {{applicationId}} in your dashboard.",
	},
	models.NotificationApplicationApproved: {
		Type:    models.NotificationApplicationApproved,
		Subject: "Your application for {{propertyName}} was approved",
		Body:    "Good news! Your application {{applicationId}} for {{propertyName}} was approved. Your lease {{leaseId}} is ready in your dashboard.",
		SMS:     "Livest: your application for {{propertyName}} was approved.",
	},
	models.NotificationApplicationDenied: {
		Type:    models.NotificationApplicationDenied,
		Subject: "Update on your application for {{propertyName}}",
		Body:    "Your application {{applicationId}} for {{propertyName}} was not accepted.",
		SMS:     "Livest: your application for {{propertyName}} was not accepted.",
	},
}

// notificationFor maps an application status to the notification it
// triggers and who receives it.
func notificationFor(status models.ApplicationStatus) (models.NotificationType, string, bool) {
	switch status {
	case models.ApplicationStatusPending:
		return models.NotificationApplicationSubmitted, RecipientTypeManager, true
	case models.ApplicationStatusApproved:
		return models.NotificationApplicationApproved, RecipientTypeTenant, true
	case models.ApplicationStatusDenied:
		return models.NotificationApplicationDenied, RecipientTypeTenant, true
	default:
		return "", "", false
	}
}

// renderTemplate replaces {{key}} placeholders and drops the ones without a value.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
