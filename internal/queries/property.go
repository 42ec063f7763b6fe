// Package queries holds the reads shared by several API operations.
package queries

import (
	"context"

	"livest/internal/models"

	"github.com/jmoiron/sqlx"
)

// PropertyFrom selects a property joined to its location with the stored
// geography point decoded into longitude and latitude. Callers append
// WHERE/ORDER BY clauses; the property is aliased p and the location l.
const PropertyFrom = `SELECT p.id, p.name, p.description, p.price_per_month, p.security_deposit,
	p.application_fee, p.photo_urls, p.amenities, p.highlights, p.is_pets_allowed,
	p.is_parking_included, p.beds, p.baths, p.square_feet, p.property_type,
	p.location_id, p.manager_id, p.created_at,
	l.address AS location_address, l.city AS location_city, l.state AS location_state,
	l.country AS location_country, l.postal_code AS location_postal_code,
	ST_X(l.coordinates::geometry) AS location_longitude,
	ST_Y(l.coordinates::geometry) AS location_latitude
FROM properties p
JOIN locations l ON l.id = p.location_id`

// PropertyRow is one row of PropertyFrom.
type PropertyRow struct {
	models.Property
	LocationAddress    string  `db:"location_address"`
	LocationCity       string  `db:"location_city"`
	LocationState      string  `db:"location_state"`
	LocationCountry    string  `db:"location_country"`
	LocationPostalCode string  `db:"location_postal_code"`
	LocationLongitude  float64 `db:"location_longitude"`
	LocationLatitude   float64 `db:"location_latitude"`
}

func (r *PropertyRow) ToModel() *models.Property {
	p := r.Property
	p.Location = &models.Location{
		ID:         r.LocationID,
		Address:    r.LocationAddress,
		City:       r.LocationCity,
		State:      r.LocationState,
		Country:    r.LocationCountry,
		PostalCode: r.LocationPostalCode,
		Coordinates: &models.Coordinates{
			Longitude: r.LocationLongitude,
			Latitude:  r.LocationLatitude,
		},
	}
	return &p
}

// SelectProperties runs PropertyFrom followed by clause.
func SelectProperties(ctx context.Context, q sqlx.QueryerContext, clause string, args ...interface{}) ([]*models.Property, error) {
	query := PropertyFrom
	if clause != "" {
		query += "\n" + clause
	}

	var rows []PropertyRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]*models.Property, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToModel())
	}
	return out, nil
}

// GetProperty loads one property with its location and manager.
// A missing property yields sql.ErrNoRows.
func GetProperty(ctx context.Context, q sqlx.QueryerContext, id string) (*models.Property, error) {
	var row PropertyRow
	if err := sqlx.GetContext(ctx, q, &row, PropertyFrom+"\nWHERE p.id = $1", id); err != nil {
		return nil, err
	}
	p := row.ToModel()

	manager, err := GetUser(ctx, q, p.ManagerID)
	if err != nil {
		return nil, err
	}
	p.Manager = manager
	return p, nil
}

// PropertyExists reports whether a property with id exists.
func PropertyExists(ctx context.Context, q sqlx.QueryerContext, id string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, `SELECT EXISTS(SELECT 1 FROM properties WHERE id = $1)`, id)
	return exists, err
}
