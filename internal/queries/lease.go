package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"livest/internal/models"

	"github.com/jmoiron/sqlx"
)

const LeaseFrom = `SELECT le.id, le.start_date, le.end_date, le.rent, le.deposit,
	le.property_id, le.tenant_id, le.created_at
FROM leases le`

func GetLease(ctx context.Context, q sqlx.QueryerContext, id string) (*models.Lease, error) {
	var l models.Lease
	if err := sqlx.GetContext(ctx, q, &l, LeaseFrom+"\nWHERE le.id = $1", id); err != nil {
		return nil, err
	}
	return &l, nil
}

// LatestLease returns the most recent lease of tenant on property, or nil.
func LatestLease(ctx context.Context, q sqlx.QueryerContext, tenantID, propertyID string) (*models.Lease, error) {
	var l models.Lease
	err := sqlx.GetContext(ctx, q, &l,
		LeaseFrom+"\nWHERE le.tenant_id = $1 AND le.property_id = $2\nORDER BY le.start_date DESC\nLIMIT 1",
		tenantID, propertyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func SelectLeases(ctx context.Context, q sqlx.QueryerContext, clause string, args ...interface{}) ([]*models.Lease, error) {
	var rows []*models.Lease
	if err := sqlx.SelectContext(ctx, q, &rows, LeaseFrom+"\n"+clause, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// LeaseStartDates returns the start dates of every lease on a property, oldest first.
func LeaseStartDates(ctx context.Context, q sqlx.QueryerContext, propertyID string) ([]time.Time, error) {
	var starts []time.Time
	if err := sqlx.SelectContext(ctx, q, &starts,
		`SELECT start_date FROM leases WHERE property_id = $1 ORDER BY start_date`, propertyID); err != nil {
		return nil, err
	}
	return starts, nil
}
