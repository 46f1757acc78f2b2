package schema

import (
	_ "embed"
	"sync"
)

//go:embed default_layout.yaml
var defaultLayout []byte

var loadDefault = sync.OnceValues(func() (*Document, error) {
	return Parse(defaultLayout, FormatYAML)
})

// Default returns the built-in layout covering the standard layer types.
// It panics if the embedded document is malformed, which is a build defect.
func Default() *Document {
	doc, err := loadDefault()
	if err != nil {
		panic(err)
	}
	return doc
}

// Load returns the document at path, or the built-in layout when path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		return Default(), nil
	}
	return ParseFile(path)
}
