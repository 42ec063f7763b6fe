package queries

import (
	"context"

	"livest/internal/models"

	"github.com/jmoiron/sqlx"
)

const ApplicationFrom = `SELECT a.id, a.application_date, a.status, a.property_id, a.tenant_id,
	a.name, a.email, a.phone_number, a.message, a.lease_id, a.created_at, a.updated_at
FROM applications a`

// GetApplication loads the bare application row; sql.ErrNoRows when missing.
func GetApplication(ctx context.Context, q sqlx.QueryerContext, id string) (*models.Application, error) {
	var a models.Application
	if err := sqlx.GetContext(ctx, q, &a, ApplicationFrom+"\nWHERE a.id = $1", id); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadApplication loads the application with its property (location and
// manager included), its tenant and its lease when one was created.
func LoadApplication(ctx context.Context, q sqlx.QueryerContext, id string) (*models.Application, error) {
	a, err := GetApplication(ctx, q, id)
	if err != nil {
		return nil, err
	}

	if a.Property, err = GetProperty(ctx, q, a.PropertyID); err != nil {
		return nil, err
	}
	a.Manager = a.Property.Manager

	if a.Tenant, err = GetUser(ctx, q, a.TenantID); err != nil {
		return nil, err
	}

	if a.LeaseID != nil {
		if a.Lease, err = GetLease(ctx, q, *a.LeaseID); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func SelectApplications(ctx context.Context, q sqlx.QueryerContext, clause string, args ...interface{}) ([]*models.Application, error) {
	var rows []*models.Application
	if err := sqlx.SelectContext(ctx, q, &rows, ApplicationFrom+"\n"+clause, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
