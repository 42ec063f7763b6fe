// internal/models/property.go
package models

import (
	"time"

	"github.com/lib/pq"
)

type PropertyType string

const (
	PropertyTypeRooms     PropertyType = "Rooms"
	PropertyTypeTinyhouse PropertyType = "Tinyhouse"
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeVilla     PropertyType = "Villa"
	PropertyTypeTownhouse PropertyType = "Townhouse"
	PropertyTypeCottage   PropertyType = "Cottage"
)

// PropertyTypes lists every accepted property type.
var PropertyTypes = []PropertyType{
	PropertyTypeRooms,
	PropertyTypeTinyhouse,
	PropertyTypeApartment,
	PropertyTypeVilla,
	PropertyTypeTownhouse,
	PropertyTypeCottage,
}

func (t PropertyType) Valid() bool {
	for _, pt := range PropertyTypes {
		if pt == t {
			return true
		}
	}
	return false
}

type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type Location struct {
	ID          string       `json:"id" db:"id"`
	Address     string       `json:"address" db:"address"`
	City        string       `json:"city" db:"city"`
	State       string       `json:"state" db:"state"`
	Country     string       `json:"country" db:"country"`
	PostalCode  string       `json:"postalCode" db:"postal_code"`
	Coordinates *Coordinates `json:"coordinates,omitempty" db:"-"`
}

type Property struct {
	ID                string         `json:"id" db:"id"`
	Name              string         `json:"name" db:"name"`
	Description       string         `json:"description" db:"description"`
	PricePerMonth     float64        `json:"pricePerMonth" db:"price_per_month"`
	SecurityDeposit   float64        `json:"securityDeposit" db:"security_deposit"`
	ApplicationFee    float64        `json:"applicationFee" db:"application_fee"`
	PhotoURLs         pq.StringArray `json:"photoUrls" db:"photo_urls"`
	Amenities         pq.StringArray `json:"amenities" db:"amenities"`
	Highlights        pq.StringArray `json:"highlights" db:"highlights"`
	IsPetsAllowed     bool           `json:"isPetsAllowed" db:"is_pets_allowed"`
	IsParkingIncluded bool           `json:"isParkingIncluded" db:"is_parking_included"`
	Beds              int            `json:"beds" db:"beds"`
	Baths             float64        `json:"baths" db:"baths"`
	SquareFeet        int            `json:"squareFeet" db:"square_feet"`
	PropertyType      PropertyType   `json:"propertyType" db:"property_type"`
	LocationID        string         `json:"locationId" db:"location_id"`
	ManagerID         string         `json:"managerId" db:"manager_id"`
	CreatedAt         time.Time      `json:"createdAt" db:"created_at"`

	Location *Location `json:"location,omitempty" db:"-"`
	Manager  *User     `json:"manager,omitempty" db:"-"`
}

// PropertyStats carries the dashboard counters of a manager's property.
type PropertyStats struct {
	Applications int `json:"applications" db:"application_count"`
	Leases       int `json:"leases" db:"lease_count"`
	FavoritedBy  int `json:"favoritedBy" db:"favorite_count"`
}
