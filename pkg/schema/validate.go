package schema

import "github.com/aretw0/stylepanel/pkg/domain"

// ValidateLayer checks the values the layer carries for fields against the field types.
// Missing values are not an error: a layer only carries the properties it sets.
func ValidateLayer(fields []Field, layer domain.Layer) error {
	var errs []error

	for _, f := range fields {
		value, exists := f.Value(layer)
		if !exists {
			continue
		}
		if err := f.ValueType().Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    f.Name,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateValue checks a single value for f.
func ValidateValue(f Field, value any) error {
	if err := f.ValueType().Validate(value); err != nil {
		return &ValidationError{Key: f.Name, Reason: err.Error(), Value: value}
	}
	return nil
}
