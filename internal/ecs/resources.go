package ecs

import (
	"reflect"
	"sync"
)

// Resources is a container of singletons keyed by their type. Values are held
// by pointer so callers mutate them in place.
type Resources struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
}

// NewResources creates an empty resource container.
func NewResources() *Resources {
	return &Resources{values: make(map[reflect.Type]any)}
}

// InsertResource stores v as the resource of type T, replacing any previous one.
func InsertResource[T any](r *Resources, v *T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[reflect.TypeFor[T]()] = v
}

// Resource returns the resource of type T.
func Resource[T any](r *Resources) (*T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// HasResource reports whether a resource of type T is present.
func HasResource[T any](r *Resources) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.values[reflect.TypeFor[T]()]
	return ok
}

// RemoveResource takes the resource of type T out of the container.
func RemoveResource[T any](r *Resources) (*T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reflect.TypeFor[T]()
	v, ok := r.values[key]
	if !ok {
		return nil, false
	}
	delete(r.values, key)
	return v.(*T), true
}
