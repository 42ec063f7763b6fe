// internal/models/lease.go
package models

import "time"

type Lease struct {
	ID         string    `json:"id" db:"id"`
	StartDate  time.Time `json:"startDate" db:"start_date"`
	EndDate    time.Time `json:"endDate" db:"end_date"`
	Rent       float64   `json:"rent" db:"rent"`
	Deposit    float64   `json:"deposit" db:"deposit"`
	PropertyID string    `json:"propertyId" db:"property_id"`
	TenantID   string    `json:"tenantId" db:"tenant_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	NextPaymentDate *time.Time `json:"nextPaymentDate,omitempty" db:"-"`
	Property        *Property  `json:"property,omitempty" db:"-"`
	Tenant          *User      `json:"tenant,omitempty" db:"-"`
}

// NextPaymentAfter returns the first monthly anniversary of start strictly after now.
func NextPaymentAfter(start, now time.Time) time.Time {
	next := start
	for months := 1; !next.After(now); months++ {
		next = start.AddDate(0, months, 0)
	}
	return next
}

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "Pending"
	PaymentStatusPaid          PaymentStatus = "Paid"
	PaymentStatusPartiallyPaid PaymentStatus = "PartiallyPaid"
	PaymentStatusOverdue       PaymentStatus = "Overdue"
)

type Payment struct {
	ID            string        `json:"id" db:"id"`
	LeaseID       string        `json:"leaseId" db:"lease_id"`
	AmountDue     float64       `json:"amountDue" db:"amount_due"`
	AmountPaid    float64       `json:"amountPaid" db:"amount_paid"`
	DueDate       time.Time     `json:"dueDate" db:"due_date"`
	PaymentDate   *time.Time    `json:"paymentDate,omitempty" db:"payment_date"`
	PaymentStatus PaymentStatus `json:"paymentStatus" db:"payment_status"`
}
