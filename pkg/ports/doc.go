/*
Package ports defines the driven ports (interfaces) for the tend client core.

These interfaces decouple the core logic from external implementations,
allowing the store and the coach to work against different backends and
presentation layers.

# Key Interfaces

  - RemoteAPI: the authoritative backend (data CRUD plus hosted AI functions).
  - Notifier: receives the lifecycle of asynchronous operations for display.
  - Animator: drives the coach avatar segments and the typed-text reveal.
  - SnapshotCache: optional persistence of the last-known-good snapshot.
*/
package ports
