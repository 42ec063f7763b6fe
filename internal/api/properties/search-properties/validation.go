package searchproperties

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "livest/internal/common/errors"
	"livest/internal/models"
)

// anyValue disables the propertyType, amenities and availableFrom filters.
const anyValue = "any"

// ParseFilters reads the search query string. Empty parameters are treated
// as absent; malformed ones are INVALID_INPUT instead of being dropped.
func ParseFilters(values url.Values) (Filters, error) {
	var f Filters
	var err error

	numeric := []struct {
		name string
		dest **float64
	}{
		{"priceMin", &f.PriceMin},
		{"priceMax", &f.PriceMax},
		{"beds", &f.Beds},
		{"baths", &f.Baths},
		{"squareFeetMin", &f.SquareFeetMin},
		{"squareFeetMax", &f.SquareFeetMax},
	}
	for _, n := range numeric {
		if *n.dest, err = parseNumber(values, n.name); err != nil {
			return Filters{}, err
		}
	}

	if raw := strings.TrimSpace(values.Get("propertyType")); raw != "" && raw != anyValue {
		pt := models.PropertyType(raw)
		if !pt.Valid() {
			return Filters{}, apperrors.NewInvalidInputError("propertyType must be one of Rooms, Tinyhouse, Apartment, Villa, Townhouse, Cottage")
		}
		f.PropertyType = &pt
	}

	if raw := strings.TrimSpace(values.Get("amenities")); raw != "" && raw != anyValue {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				f.Amenities = append(f.Amenities, a)
			}
		}
	}

	if raw := strings.TrimSpace(values.Get("availableFrom")); raw != "" && raw != anyValue {
		date, err := parseDate(raw)
		if err != nil {
			return Filters{}, apperrors.NewInvalidInputError("availableFrom must be a date (YYYY-MM-DD or RFC 3339)")
		}
		f.AvailableFrom = &date
	}

	lat, err := parseNumber(values, "latitude")
	if err != nil {
		return Filters{}, err
	}
	lng, err := parseNumber(values, "longitude")
	if err != nil {
		return Filters{}, err
	}
	switch {
	case lat == nil && lng == nil:
	case lat == nil || lng == nil:
		return Filters{}, apperrors.NewInvalidInputError("latitude and longitude must be provided together")
	case *lat < -90 || *lat > 90:
		return Filters{}, apperrors.NewInvalidInputError("latitude must be between -90 and 90")
	case *lng < -180 || *lng > 180:
		return Filters{}, apperrors.NewInvalidInputError("longitude must be between -180 and 180")
	default:
		f.Point = &models.Coordinates{Longitude: *lng, Latitude: *lat}
	}

	return f, nil
}

func parseNumber(values url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, apperrors.NewInvalidInputError(name + " must be a number")
	}
	return &v, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
