package pipeline

import "reflect"

type accessKind uint8

const (
	resourceAccess accessKind = iota
	componentAccess
)

type accessKey struct {
	kind accessKind
	typ  reflect.Type
}

// Access declares what a job reads and writes. The executor uses it to
// decide which jobs of a stage may run side by side.
type Access struct {
	exclusive bool
	reads     map[accessKey]struct{}
	writes    map[accessKey]struct{}
}

// AccessOption adds one declaration to an Access.
type AccessOption func(*Access)

// NewAccess builds an Access from options. No options means the job touches
// nothing the executor tracks.
func NewAccess(opts ...AccessOption) Access {
	var a Access
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Exclusive marks a job that must run alone.
func Exclusive() AccessOption {
	return func(a *Access) { a.exclusive = true }
}

// ReadsResource declares shared access to the resource of type T.
func ReadsResource[T any]() AccessOption {
	return func(a *Access) { a.addRead(accessKey{resourceAccess, reflect.TypeFor[T]()}) }
}

// WritesResource declares mutable access to the resource of type T.
func WritesResource[T any]() AccessOption {
	return func(a *Access) { a.addWrite(accessKey{resourceAccess, reflect.TypeFor[T]()}) }
}

// ReadsComponent declares shared access to components of type T.
func ReadsComponent[T any]() AccessOption {
	return func(a *Access) { a.addRead(accessKey{componentAccess, reflect.TypeFor[T]()}) }
}

// WritesComponent declares mutable access to components of type T.
func WritesComponent[T any]() AccessOption {
	return func(a *Access) { a.addWrite(accessKey{componentAccess, reflect.TypeFor[T]()}) }
}

func (a *Access) addRead(k accessKey) {
	if a.reads == nil {
		a.reads = make(map[accessKey]struct{})
	}
	a.reads[k] = struct{}{}
}

func (a *Access) addWrite(k accessKey) {
	if a.writes == nil {
		a.writes = make(map[accessKey]struct{})
	}
	a.writes[k] = struct{}{}
}

// IsExclusive reports whether the job must run alone.
func (a Access) IsExclusive() bool { return a.exclusive }

// Conflicts reports whether two jobs with these declarations may not overlap.
func (a Access) Conflicts(b Access) bool {
	if a.exclusive || b.exclusive {
		return true
	}
	for k := range a.writes {
		if _, ok := b.writes[k]; ok {
			return true
		}
		if _, ok := b.reads[k]; ok {
			return true
		}
	}
	for k := range b.writes {
		if _, ok := a.reads[k]; ok {
			return true
		}
	}
	return false
}
