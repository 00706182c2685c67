package dataset

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

var validate = validator.New()

// ValidateRecord checks one record against the dataset's field rules:
// identifying names present, temperatures within physical bounds,
// coordinates within range when set.
func ValidateRecord(rec domain.CityRecord) error {
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("record %q: %w", rec.City, err)
	}
	return nil
}

// ValidateAll runs ValidateRecord over the whole dataset and collects
// every failure instead of stopping at the first.
func ValidateAll(ds *domain.Dataset) []error {
	var errs []error
	for i := range ds.Cities {
		if err := ValidateRecord(ds.Cities[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
