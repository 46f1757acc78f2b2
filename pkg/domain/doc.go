/*
Package domain contains the core models of the stylepanel layer editor.

It defines the Layer value edited by the panel, the group kinds a schema can
declare, the EditEvent that describes a single field change, and the lifecycle
hooks used for observability. The package is pure: no I/O, no persistence.

# Key Entities

  - Layer: one style rule of a map-style document (id, type, source binding, paint/layout groups).
  - GroupKind: selects the editing surface of a schema group (settings, source, properties, raw).
  - EditEvent: a (group, field, value) triple targeting the top level or one nested group.
  - LayerDiff: the top-level and nested keys that differ between two layers.
*/
package domain
