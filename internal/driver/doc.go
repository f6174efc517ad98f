// Package driver provides the single host job that runs every runner handle
// once per host cycle.
//
// # Why Detach Before Running
//
// A runner handle lives inside the very containers its pipeline works on: the
// resource store (singleton placement) or the component store (per-entity
// placement). Running it in place would hand jobs a world that also holds the
// object currently executing. The driver therefore moves each packed pipeline
// out of its handle, leaves an inert placeholder behind, runs the pipeline
// against the world, and moves it back.
//
// # Ordering
//
//   - The singleton runs first.
//   - Per-entity runners follow, with no guaranteed order among themselves.
//   - Per-entity pipelines are reattached once all of them have run.
//
// # Shared Handles
//
// Components hold *runner.Runner, so one handle can sit on several entities or
// double as the singleton resource. Each handle still runs once per cycle: a
// shared component runs once for all of its entities, and a component that is
// also the singleton only runs as the singleton.
//
// # Despawned Entities
//
// If an entity (or its runner component) disappears while pipelines are
// running, and no other entity still holds the same handle, its detached
// pipeline has nowhere to go and is discarded. Despawn
// an entity that owns a runner only when its work is finished.
package driver
