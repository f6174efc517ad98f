package ecs

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// ErrNoSuchEntity is returned when an operation targets a despawned or
// never-spawned entity.
var ErrNoSuchEntity = errors.New("no such entity")

// World owns entities and their components.
type World struct {
	mu         sync.RWMutex
	versions   []uint32 // current version per ID
	alive      []bool
	free       []uint32
	components map[reflect.Type]map[Entity]any
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		components: make(map[reflect.Type]map[Entity]any),
	}
}

// Spawn creates a new entity carrying the given components.
func (w *World) Spawn(components ...any) Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	var e Entity
	if n := len(w.free); n > 0 {
		id := w.free[n-1]
		w.free = w.free[:n-1]
		w.versions[id]++
		w.alive[id] = true
		e = Entity{ID: id, Version: w.versions[id]}
	} else {
		id := uint32(len(w.versions))
		w.versions = append(w.versions, 0)
		w.alive = append(w.alive, true)
		e = Entity{ID: id}
	}

	for _, c := range components {
		w.insertLocked(e, c)
	}
	return e
}

// Despawn removes e and all of its components. It reports whether e was alive.
func (w *World) Despawn(e Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.aliveLocked(e) {
		return false
	}
	for _, store := range w.components {
		delete(store, e)
	}
	w.alive[e.ID] = false
	w.free = append(w.free, e.ID)
	return true
}

// Alive reports whether e refers to a live entity.
func (w *World) Alive(e Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.aliveLocked(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.versions) - len(w.free)
}

// Insert attaches c to e, replacing any component of the same dynamic type.
func (w *World) Insert(e Entity, c any) error {
	if c == nil {
		return fmt.Errorf("insert on entity %s: nil component", e)
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.aliveLocked(e) {
		return fmt.Errorf("insert on entity %s: %w", e, ErrNoSuchEntity)
	}
	w.insertLocked(e, c)
	return nil
}

func (w *World) insertLocked(e Entity, c any) {
	typ := reflect.TypeOf(c)
	store, ok := w.components[typ]
	if !ok {
		store = make(map[Entity]any)
		w.components[typ] = store
	}
	store[e] = c
}

func (w *World) aliveLocked(e Entity) bool {
	return int(e.ID) < len(w.versions) && w.alive[e.ID] && w.versions[e.ID] == e.Version
}

// GetComponent returns the component of type T attached to e.
func GetComponent[T any](w *World, e Entity) (T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var zero T
	store, ok := w.components[reflect.TypeFor[T]()]
	if !ok {
		return zero, false
	}
	c, ok := store[e]
	if !ok {
		return zero, false
	}
	return c.(T), true
}

// RemoveComponent detaches the component of type T from e and reports whether
// there was one.
func RemoveComponent[T any](w *World, e Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	store, ok := w.components[reflect.TypeFor[T]()]
	if !ok {
		return false
	}
	if _, ok := store[e]; !ok {
		return false
	}
	delete(store, e)
	return true
}

// Row pairs an entity with one of its components.
type Row[T any] struct {
	Entity Entity
	Value  T
}

// Query returns a snapshot of every entity carrying a component of type T,
// ordered by entity ID. Mutating the world while iterating the snapshot is safe.
func Query[T any](w *World) []Row[T] {
	w.mu.RLock()
	store := w.components[reflect.TypeFor[T]()]
	rows := make([]Row[T], 0, len(store))
	for e, c := range store {
		rows = append(rows, Row[T]{Entity: e, Value: c.(T)})
	}
	w.mu.RUnlock()

	slices.SortFunc(rows, func(a, b Row[T]) int {
		return cmp.Compare(a.Entity.ID, b.Entity.ID)
	})
	return rows
}
