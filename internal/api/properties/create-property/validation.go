package createproperty

import (
	"livest/internal/common/validation"
	"livest/internal/models"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var propertyTypes = func() []interface{} {
	out := make([]interface{}, len(models.PropertyTypes))
	for i, pt := range models.PropertyTypes {
		out[i] = pt
	}
	return out
}()

func (in *Input) Validate() error {
	return validation.Struct(in,
		ozzo.Field(&in.Name, ozzo.Required, ozzo.Length(1, 200)),
		ozzo.Field(&in.Description, ozzo.Length(0, 5000)),
		ozzo.Field(&in.PricePerMonth, ozzo.Required, ozzo.Min(0.0)),
		ozzo.Field(&in.SecurityDeposit, ozzo.Min(0.0)),
		ozzo.Field(&in.ApplicationFee, ozzo.Min(0.0)),
		ozzo.Field(&in.PhotoURLs, ozzo.Each(is.URL)),
		ozzo.Field(&in.Beds, ozzo.Min(0)),
		ozzo.Field(&in.Baths, ozzo.Min(0.0)),
		ozzo.Field(&in.SquareFeet, ozzo.Required, ozzo.Min(1)),
		ozzo.Field(&in.PropertyType, ozzo.Required, ozzo.In(propertyTypes...)),
		ozzo.Field(&in.Address, ozzo.Required),
		ozzo.Field(&in.City, ozzo.Required),
		ozzo.Field(&in.State, ozzo.Required),
		ozzo.Field(&in.Country, ozzo.Required),
		ozzo.Field(&in.PostalCode, ozzo.Required),
	)
}
