package geocoding

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"livest/internal/common/config"
	apperrors "livest/internal/common/errors"
	httpclient "livest/internal/common/http"
)

// Address is the structured form sent to the geocoder.
type Address struct {
	Street     string
	City       string
	Country    string
	PostalCode string
}

// Point is a WGS84 coordinate.
type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Geocoder resolves a postal address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, addr Address) (Point, error)
}

// Nominatim queries an OpenStreetMap Nominatim instance.
type Nominatim struct {
	client  *httpclient.Client
	baseURL string
}

func NewNominatim(cfg config.GeocodingConfig) *Nominatim {
	return &Nominatim{
		client:  httpclient.NewClient(config.GetDuration(cfg.Timeout), cfg.UserAgent),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the first match. An address with no match resolves to (0,0).
func (n *Nominatim) Geocode(ctx context.Context, addr Address) (Point, error) {
	q := url.Values{}
	q.Set("street", addr.Street)
	q.Set("city", addr.City)
	q.Set("country", addr.Country)
	q.Set("postalcode", addr.PostalCode)
	q.Set("format", "json")
	q.Set("limit", "1")

	var results []nominatimResult
	if err := n.client.GetJSON(ctx, n.baseURL+"/search?"+q.Encode(), &results); err != nil {
		return Point{}, apperrors.NewGeocodingFailedError(addr.Street, err)
	}
	if len(results) == 0 || results[0].Lat == "" || results[0].Lon == "" {
		return Point{}, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, apperrors.NewGeocodingFailedError(addr.Street, fmt.Errorf("bad lat %q: %w", results[0].Lat, err))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, apperrors.NewGeocodingFailedError(addr.Street, fmt.Errorf("bad lon %q: %w", results[0].Lon, err))
	}
	return Point{Longitude: lon, Latitude: lat}, nil
}
