package cli

import (
	"errors"
	"fmt"

	"github.com/aretw0/stylepanel/pkg/ports"
	"github.com/aretw0/stylepanel/pkg/schema"
	"github.com/aretw0/stylepanel/pkg/style"
)

// LayerError reports the schema violations of one layer.
type LayerError struct {
	LayerID string
	Err     error
}

func (e *LayerError) Error() string {
	return fmt.Sprintf("layer %q: %v", e.LayerID, e.Err)
}

func (e *LayerError) Unwrap() error { return e.Err }

// ValidateDocument checks every layer of doc against the fields its type
// declares. Layers of types unknown to the provider are skipped.
func ValidateDocument(doc *style.Document, provider ports.SchemaProvider) error {
	var errs []error
	for _, id := range doc.LayerIDs() {
		layer, err := doc.Layer(id)
		if err != nil {
			errs = append(errs, &LayerError{LayerID: id, Err: err})
			continue
		}
		groups, ok := provider.Groups(layer.Type())
		if !ok {
			continue
		}
		var fields []schema.Field
		for _, g := range groups {
			fields = append(fields, g.Fields...)
		}
		if err := schema.ValidateLayer(fields, layer); err != nil {
			errs = append(errs, &LayerError{LayerID: id, Err: err})
		}
	}
	return errors.Join(errs...)
}
