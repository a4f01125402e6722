package component

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID identifies a registered component type at runtime.
type ComponentID uint32

var nextComponentID atomic.Uint32

// Kind is the untyped view of a ComponentKind, used where kinds of different
// types are mixed (queries).
type Kind interface {
	ID() ComponentID
}

type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// Kind returns k itself so a ComponentHandle can be passed wherever a kind is
// expected.
func (k ComponentKind[T]) Kind() ComponentKind[T] {
	return k
}

// ComponentHandle is the exported per-type handle declared next to each
// component (var XComponent = NewComponent[X]()).
type ComponentHandle[T any] = ComponentKind[T]

func NewComponent[T any]() ComponentHandle[T] {
	return NewComponentKind[T]()
}
