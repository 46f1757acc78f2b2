// Package style reads and rewrites map style documents.
//
// A Document wraps the raw JSON bytes of a style. Layers are located with
// gjson and edits are spliced back with sjson, so everything outside the
// edited layer keeps its original formatting and key order.
package style
