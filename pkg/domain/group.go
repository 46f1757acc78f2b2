package domain

// GroupKind selects the editing surface of a schema group.
// The set is open: unknown kinds are carried through and render nothing.
type GroupKind string

const (
	KindSettings   GroupKind = "settings"   // id and type
	KindSource     GroupKind = "source"     // source binding and filter
	KindProperties GroupKind = "properties" // one field per schema entry
	KindRaw        GroupKind = "raw"        // whole layer as structured data
)

// kindJSONEditor is the historical name of KindRaw found in older layout documents.
const kindJSONEditor = "jsoneditor"

// ParseGroupKind normalizes a kind tag read from a schema document.
func ParseGroupKind(s string) GroupKind {
	if s == kindJSONEditor {
		return KindRaw
	}
	return GroupKind(s)
}

// Known reports whether the panel has an editing surface for k.
func (k GroupKind) Known() bool {
	switch k {
	case KindSettings, KindSource, KindProperties, KindRaw:
		return true
	}
	return false
}
