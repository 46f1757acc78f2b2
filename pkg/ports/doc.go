/*
Package ports defines the driven ports (interfaces) of the stylepanel editor.

These interfaces decouple the panel from concrete schema sources and from the
stores adapters use to keep per-panel UI state between requests.

# Key Interfaces

  - SchemaProvider: resolves a layer type to its ordered schema groups.
  - PanelStore: persists group visibility per panel ID.
  - PanelLocker: serializes access to a panel across replicas.
*/
package ports
