// Package querytest builds go-sqlmock expectations for the shared reads in
// package queries.
package querytest

import (
	"database/sql/driver"
	"time"

	"livest/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

var (
	PropertyColumns = []string{
		"id", "name", "description", "price_per_month", "security_deposit",
		"application_fee", "photo_urls", "amenities", "highlights", "is_pets_allowed",
		"is_parking_included", "beds", "baths", "square_feet", "property_type",
		"location_id", "manager_id", "created_at",
		"location_address", "location_city", "location_state", "location_country",
		"location_postal_code", "location_longitude", "location_latitude",
	}
	UserColumns        = []string{"id", "name", "email", "phone_number", "image", "role", "created_at"}
	LeaseColumns       = []string{"id", "start_date", "end_date", "rent", "deposit", "property_id", "tenant_id", "created_at"}
	ApplicationColumns = []string{
		"id", "application_date", "status", "property_id", "tenant_id",
		"name", "email", "phone_number", "message", "lease_id", "created_at", "updated_at",
	}
)

func textArray(values []string) driver.Value {
	v, _ := pq.StringArray(values).Value()
	return v
}

// PropertyRows renders properties as PropertyFrom rows. Properties without a
// location get an empty one at (0,0).
func PropertyRows(props ...*models.Property) *sqlmock.Rows {
	rows := sqlmock.NewRows(PropertyColumns)
	for _, p := range props {
		loc := p.Location
		if loc == nil {
			loc = &models.Location{}
		}
		coords := loc.Coordinates
		if coords == nil {
			coords = &models.Coordinates{}
		}
		rows.AddRow(
			p.ID, p.Name, p.Description, p.PricePerMonth, p.SecurityDeposit,
			p.ApplicationFee, textArray(p.PhotoURLs), textArray(p.Amenities), textArray(p.Highlights), p.IsPetsAllowed,
			p.IsParkingIncluded, p.Beds, p.Baths, p.SquareFeet, string(p.PropertyType),
			p.LocationID, p.ManagerID, p.CreatedAt,
			loc.Address, loc.City, loc.State, loc.Country,
			loc.PostalCode, coords.Longitude, coords.Latitude,
		)
	}
	return rows
}

func UserRows(users ...*models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows(UserColumns)
	for _, u := range users {
		var image driver.Value
		if u.Image != nil {
			image = *u.Image
		}
		rows.AddRow(u.ID, u.Name, u.Email, u.PhoneNumber, image, string(u.Role), u.CreatedAt)
	}
	return rows
}

func LeaseRows(leases ...*models.Lease) *sqlmock.Rows {
	rows := sqlmock.NewRows(LeaseColumns)
	for _, l := range leases {
		rows.AddRow(l.ID, l.StartDate, l.EndDate, l.Rent, l.Deposit, l.PropertyID, l.TenantID, l.CreatedAt)
	}
	return rows
}

func ApplicationRows(apps ...*models.Application) *sqlmock.Rows {
	rows := sqlmock.NewRows(ApplicationColumns)
	for _, a := range apps {
		var message, leaseID driver.Value
		if a.Message != nil {
			message = *a.Message
		}
		if a.LeaseID != nil {
			leaseID = *a.LeaseID
		}
		rows.AddRow(
			a.ID, a.ApplicationDate, string(a.Status), a.PropertyID, a.TenantID,
			a.Name, a.Email, a.PhoneNumber, message, leaseID, a.CreatedAt, a.UpdatedAt,
		)
	}
	return rows
}

// ExpectUser expects one GetUser call.
func ExpectUser(mock sqlmock.Sqlmock, u *models.User) {
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(u.ID).
		WillReturnRows(UserRows(u))
}

// ExpectProperty expects one GetProperty call: the joined row, then the manager.
func ExpectProperty(mock sqlmock.Sqlmock, p *models.Property, manager *models.User) {
	mock.ExpectQuery(`JOIN locations l ON l.id = p.location_id WHERE p.id = \$1`).
		WithArgs(p.ID).
		WillReturnRows(PropertyRows(p))
	ExpectUser(mock, manager)
}

// ExpectApplication expects one GetApplication call.
func ExpectApplication(mock sqlmock.Sqlmock, a *models.Application) {
	mock.ExpectQuery(`FROM applications a WHERE a.id = \$1`).
		WithArgs(a.ID).
		WillReturnRows(ApplicationRows(a))
}

// ExpectLoadedApplication expects one LoadApplication call. lease may be nil
// when a.LeaseID is nil.
func ExpectLoadedApplication(mock sqlmock.Sqlmock, a *models.Application, p *models.Property, manager, tenant *models.User, lease *models.Lease) {
	ExpectApplication(mock, a)
	ExpectProperty(mock, p, manager)
	ExpectUser(mock, tenant)
	if a.LeaseID != nil {
		mock.ExpectQuery(`FROM leases le WHERE le.id = \$1`).
			WithArgs(*a.LeaseID).
			WillReturnRows(LeaseRows(lease))
	}
}

func LeaseStartRows(starts ...time.Time) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"start_date"})
	for _, s := range starts {
		rows.AddRow(s)
	}
	return rows
}
