package searchproperties

import (
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// binder hands out positional parameters in the order predicates are rendered.
type binder struct {
	args []interface{}
}

func (b *binder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Predicate renders one boolean SQL expression, binding its values through b.
type Predicate func(b *binder) string

// Filter yields the predicate for one search criterion when it is present.
type Filter func(f Filters) (Predicate, bool)

func compare(column, op string, value *float64) (Predicate, bool) {
	if value == nil {
		return nil, false
	}
	v := *value
	return func(b *binder) string { return column + " " + op + " " + b.bind(v) }, true
}

func PriceMin(f Filters) (Predicate, bool) { return compare("p.price_per_month", ">=", f.PriceMin) }
func PriceMax(f Filters) (Predicate, bool) { return compare("p.price_per_month", "<=", f.PriceMax) }
func Beds(f Filters) (Predicate, bool)     { return compare("p.beds", "=", f.Beds) }
func Baths(f Filters) (Predicate, bool)    { return compare("p.baths", "=", f.Baths) }

func SquareFeetMin(f Filters) (Predicate, bool) {
	return compare("p.square_feet", ">=", f.SquareFeetMin)
}

func SquareFeetMax(f Filters) (Predicate, bool) {
	return compare("p.square_feet", "<=", f.SquareFeetMax)
}

func PropertyType(f Filters) (Predicate, bool) {
	if f.PropertyType == nil {
		return nil, false
	}
	pt := string(*f.PropertyType)
	return func(b *binder) string { return "p.property_type = " + b.bind(pt) }, true
}

// Amenities matches properties whose amenity set contains every requested one.
func Amenities(f Filters) (Predicate, bool) {
	if len(f.Amenities) == 0 {
		return nil, false
	}
	wanted := pq.StringArray(f.Amenities)
	return func(b *binder) string { return "p.amenities @> " + b.bind(wanted) + "::text[]" }, true
}

// AvailableFrom matches properties with a lease starting on or before the date.
func AvailableFrom(f Filters) (Predicate, bool) {
	if f.AvailableFrom == nil {
		return nil, false
	}
	date := *f.AvailableFrom
	return func(b *binder) string {
		return "EXISTS (SELECT 1 FROM leases le WHERE le.property_id = p.id AND le.start_date <= " + b.bind(date) + ")"
	}, true
}

// Near keeps properties within radius meters of the query point, measured
// on the geography type.
func Near(radius float64) Filter {
	return func(f Filters) (Predicate, bool) {
		if f.Point == nil {
			return nil, false
		}
		pt := *f.Point
		return func(b *binder) string {
			return "ST_DWithin(l.coordinates, ST_SetSRID(ST_MakePoint(" + b.bind(pt.Longitude) + ", " + b.bind(pt.Latitude) +
				"), 4326)::geography, " + b.bind(radius) + ")"
		}, true
	}
}

// AllFilters returns every search filter in rendering order.
func AllFilters(radius float64) []Filter {
	return []Filter{
		PriceMin, PriceMax, Beds, Baths, SquareFeetMin, SquareFeetMax,
		PropertyType, Amenities, AvailableFrom, Near(radius),
	}
}

// And folds the present predicates of filters into one conjunction. It
// reports false when no filter applies.
func And(f Filters, filters []Filter) (Predicate, bool) {
	var parts []Predicate
	for _, filter := range filters {
		if p, ok := filter(f); ok {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil, false
	}
	return func(b *binder) string {
		rendered := make([]string, len(parts))
		for i, p := range parts {
			rendered[i] = p(b)
		}
		return strings.Join(rendered, " AND ")
	}, true
}

// Render turns p into SQL text with $1..$n placeholders and their values.
func Render(p Predicate) (string, []interface{}) {
	b := &binder{}
	sql := p(b)
	return sql, b.args
}

// WhereClause builds the WHERE clause for f, or "" when no filter is present.
func WhereClause(f Filters, radius float64) (string, []interface{}) {
	p, ok := And(f, AllFilters(radius))
	if !ok {
		return "", nil
	}
	sql, args := Render(p)
	return "WHERE " + sql, args
}
