package ports

import "github.com/aretw0/stylepanel/pkg/schema"

// SchemaProvider maps a layer type to its ordered groups.
// Implementations are read-only lookups; *schema.Document is the standard one.
type SchemaProvider interface {
	// Groups returns the groups for layerType, or false when the type is unknown.
	Groups(layerType string) ([]schema.Group, bool)

	// LayerTypes lists the known layer types.
	LayerTypes() []string
}

var _ SchemaProvider = (*schema.Document)(nil)
