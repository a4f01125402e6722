package system

import (
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
)

// LifetimeSystem counts down Lifetime components and destroys the entity
// once the remaining time runs out.
type LifetimeSystem struct{}

func NewLifetimeSystem() *LifetimeSystem {
	return &LifetimeSystem{}
}

func (s *LifetimeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach(w, component.LifetimeComponent.Kind(), func(e ecs.Entity, lt *component.Lifetime) {
		lt.Remaining -= dt
		if lt.Remaining <= 0 {
			ecs.DestroyEntity(w, e)
		}
	})
}
