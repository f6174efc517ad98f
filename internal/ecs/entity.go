package ecs

import "fmt"

// Entity is a generational handle into a World. IDs are recycled after a
// despawn; the Version distinguishes the new tenant from the old one.
type Entity struct {
	ID      uint32
	Version uint32
}

// String renders the entity as "id.version".
func (e Entity) String() string {
	return fmt.Sprintf("%d.%d", e.ID, e.Version)
}
