// internal/models/user.go
package models

import "time"

type UserRole string

const (
	UserRoleTenant  UserRole = "Tenant"
	UserRoleManager UserRole = "Manager"
)

type User struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
	Image       *string   `json:"image,omitempty" db:"image"`
	Role        UserRole  `json:"role" db:"role"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
