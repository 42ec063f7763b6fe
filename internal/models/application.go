// internal/models/application.go
package models

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "Pending"
	ApplicationStatusApproved ApplicationStatus = "Approved"
	ApplicationStatusDenied   ApplicationStatus = "Denied"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusDenied:
		return true
	}
	return false
}

type Application struct {
	ID              string            `json:"id" db:"id"`
	ApplicationDate time.Time         `json:"applicationDate" db:"application_date"`
	Status          ApplicationStatus `json:"status" db:"status"`
	PropertyID      string            `json:"propertyId" db:"property_id"`
	TenantID        string            `json:"tenantId" db:"tenant_id"`
	Name            string            `json:"name" db:"name"`
	Email           string            `json:"email" db:"email"`
	PhoneNumber     string            `json:"phoneNumber" db:"phone_number"`
	Message         *string           `json:"message,omitempty" db:"message"`
	LeaseID         *string           `json:"leaseId" db:"lease_id"`
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time         `json:"updatedAt" db:"updated_at"`

	Property *Property `json:"property,omitempty" db:"-"`
	Tenant   *User     `json:"tenant,omitempty" db:"-"`
	Manager  *User     `json:"manager,omitempty" db:"-"`
	Lease    *Lease    `json:"lease" db:"-"`
}
