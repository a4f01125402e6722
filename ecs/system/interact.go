package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
)

// InteractionSystem tracks the selectable under each interactor's gaze and
// forwards hover and select notifications to it. Hover-enter fires once when
// a target is first looked at; hover-exit fires once when the gaze leaves it.
type InteractionSystem struct {
	physics Physics
}

func NewInteractionSystem(physics Physics) *InteractionSystem {
	return &InteractionSystem{physics: physics}
}

func (s *InteractionSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.physics == nil {
		return
	}

	ecs.ForEach2(w, component.InteractorComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, it *component.Interactor, input *component.Input) {
		origin, dir, ok := cameraPose(w, e)
		if !ok {
			return
		}

		if it.Handler != nil && !w.IsAlive(ecs.Entity(it.Target)) {
			s.exit(w, e, it)
		}

		target, handler := s.resolve(w, e, origin, dir, it)
		if handler == nil {
			if it.Handler != nil {
				s.exit(w, e, it)
			}
			return
		}

		if it.Handler == nil || ecs.Entity(it.Target) != target {
			if it.Handler != nil {
				s.exit(w, e, it)
			}
			it.Target = uint64(target)
			it.Handler = handler
			handler.HoverEnter()
			w.Events().Push(ecs.Event{Type: ecs.EventHoverEnter, Data: ecs.EntityEvent{Source: e, Target: target}})
		}

		if input.InteractPressed {
			it.Handler.Select()
			w.Events().Push(ecs.Event{Type: ecs.EventSelected, Data: ecs.EntityEvent{Source: e, Target: target}})
		}
	})
}

// resolve casts the gaze ray and returns the hit entity with its select
// capability, or a nil handler when nothing selectable is under the gaze.
func (s *InteractionSystem) resolve(w *ecs.World, self ecs.Entity, origin, dir mgl64.Vec3, it *component.Interactor) (ecs.Entity, component.SelectHandler) {
	hit, ok := s.physics.Raycast(origin, dir, it.Distance, it.Mask)
	if !ok || hit.Entity == self {
		return 0, nil
	}
	sel, ok := ecs.Get(w, hit.Entity, component.SelectableComponent)
	if !ok || sel.Handler == nil {
		return 0, nil
	}
	return hit.Entity, sel.Handler
}

func (s *InteractionSystem) exit(w *ecs.World, e ecs.Entity, it *component.Interactor) {
	it.Handler.HoverExit()
	w.Events().Push(ecs.Event{Type: ecs.EventHoverExit, Data: ecs.EntityEvent{Source: e, Target: ecs.Entity(it.Target)}})
	it.Handler = nil
	it.Target = 0
}
