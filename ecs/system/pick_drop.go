package system

import (
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
)

// PickDropSystem runs the two-state pick/drop machine of every Picker. It
// only changes state on the interact edge: when empty it picks the pickable
// under the gaze, when holding it always drops.
type PickDropSystem struct {
	physics Physics
}

func NewPickDropSystem(physics Physics) *PickDropSystem {
	return &PickDropSystem{physics: physics}
}

func (s *PickDropSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.PickerComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, picker *component.Picker, input *component.Input) {
		if !input.InteractPressed {
			return
		}

		if picker.Picked {
			held := ecs.Entity(picker.Held)
			if picker.Handler != nil {
				picker.Handler.Dropped()
			}
			picker.Picked = false
			picker.Handler = nil
			picker.Held = 0
			w.Events().Push(ecs.Event{Type: ecs.EventDropped, Data: ecs.EntityEvent{Source: e, Target: held}})
			return
		}

		if s.physics == nil {
			return
		}
		origin, dir, ok := cameraPose(w, e)
		if !ok {
			return
		}
		hit, ok := s.physics.Raycast(origin, dir, picker.Distance, picker.Mask)
		if !ok || hit.Entity == e {
			return
		}
		pk, ok := ecs.Get(w, hit.Entity, component.PickableComponent)
		if !ok || pk.Handler == nil {
			return
		}

		pk.Handler.Picked(component.AttachPoint{Holder: uint64(e), Offset: picker.AttachOffset})
		picker.Picked = true
		picker.Handler = pk.Handler
		picker.Held = uint64(hit.Entity)
		w.Events().Push(ecs.Event{Type: ecs.EventPicked, Data: ecs.EntityEvent{Source: e, Target: hit.Entity}})
	})
}
