// internal/models/notification.go
package models

type NotificationType string

const (
	NotificationApplicationSubmitted NotificationType = "application_submitted"
	NotificationApplicationApproved  NotificationType = "application_approved"
	NotificationApplicationDenied    NotificationType = "application_denied"
)

type Notification struct {
	RecipientID   string                 `json:"recipientId"`
	RecipientType string                 `json:"recipientType"` // "tenant" or "manager"
	Type          NotificationType       `json:"type"`
	Channel       string                 `json:"channel"` // "email", "sms"
	Status        string                 `json:"status"`  // "sent", "failed", "disabled"
	Payload       map[string]interface{} `json:"payload,omitempty"`
}

type NotificationTemplate struct {
	Type    NotificationType `json:"type"`
	Subject string           `json:"subject"`
	Body    string           `json:"body"`
	SMS     string           `json:"sms"`
}
