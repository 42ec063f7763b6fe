// Package search maps properties onto the Elasticsearch properties index.
package search

import (
	"time"

	"livest/internal/models"
)

// Mapping is the index body created on startup when the index is missing.
const Mapping = `{
	"mappings": {
		"properties": {
			"id":              {"type": "keyword"},
			"name":            {"type": "text"},
			"description":     {"type": "text"},
			"pricePerMonth":   {"type": "double"},
			"securityDeposit": {"type": "double"},
			"applicationFee":  {"type": "double"},
			"beds":            {"type": "integer"},
			"baths":           {"type": "double"},
			"squareFeet":      {"type": "integer"},
			"propertyType":    {"type": "keyword"},
			"amenities":       {"type": "keyword"},
			"highlights":      {"type": "keyword"},
			"managerId":       {"type": "keyword"},
			"locationId":      {"type": "keyword"},
			"geo":             {"type": "geo_point"},
			"leaseStartDates": {"type": "date"}
		}
	}
}`

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Document is a property as stored in the index: the API shape plus the
// point and lease start dates the filters run against.
type Document struct {
	models.Property
	Geo             GeoPoint    `json:"geo"`
	LeaseStartDates []time.Time `json:"leaseStartDates"`
}

func NewDocument(p *models.Property, leaseStarts []time.Time) Document {
	doc := Document{Property: *p, LeaseStartDates: leaseStarts}
	doc.Manager = nil
	if p.Location != nil && p.Location.Coordinates != nil {
		doc.Geo = GeoPoint{Lat: p.Location.Coordinates.Latitude, Lon: p.Location.Coordinates.Longitude}
	}
	if doc.LeaseStartDates == nil {
		doc.LeaseStartDates = []time.Time{}
	}
	return doc
}

func (d Document) ToProperty() *models.Property {
	p := d.Property
	return &p
}
