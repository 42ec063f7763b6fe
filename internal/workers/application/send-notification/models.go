// internal/workers/application/send-notification/models.go
package sendnotification

// Input is the variable set published with the application-submitted and
// application-decided messages. Contact fields are optional; missing ones are
// read from users.
type Input struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
	PropertyID    string `json:"propertyId,omitempty"`
	PropertyName  string `json:"propertyName,omitempty"`
	TenantID      string `json:"tenantId,omitempty"`
	TenantName    string `json:"tenantName,omitempty"`
	TenantEmail   string `json:"tenantEmail,omitempty"`
	TenantPhone   string `json:"tenantPhone,omitempty"`
	ManagerID     string `json:"managerId,omitempty"`
	ManagerEmail  string `json:"managerEmail,omitempty"`
	ManagerPhone  string `json:"managerPhone,omitempty"`
	LeaseID       string `json:"leaseId,omitempty"`
}

type Output struct {
	NotificationID   string `json:"notificationId"`
	NotificationType string `json:"notificationType"`
	RecipientID      string `json:"recipientId"`
	RecipientType    string `json:"recipientType"`
	Status           string `json:"status"` // "sent", "failed", "disabled"
	SentAt           string `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Recipient types
const (
	RecipientTypeTenant  = "tenant"
	RecipientTypeManager = "manager"
)
