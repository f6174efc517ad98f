// Package ecs is the minimal host world that tickgrid pipelines run against.
//
// # Why It Exists
//
// The scheduling layer (packed pipelines, runner handles and the driver) is
// written against a host entity-component store. This package is that store
// in its smallest useful form:
//   - **World:** generational entities and type-keyed component storage
//   - **Resources:** a type-keyed singleton container
//   - **Time:** the frame-delta resource fixed-rate pipelines read
//
// # Concurrency Model
//
// Both World and Resources are guarded by a sync.RWMutex. The executor only
// runs jobs side by side when their declared access does not conflict, but
// structural changes (spawn, despawn, insert) touch shared maps, so the lock
// keeps those maps consistent regardless of what the jobs declared.
package ecs
