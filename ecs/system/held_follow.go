package system

import (
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
)

// HeldFollowSystem keeps carried objects at their holder's attach point. The
// attach point is the object's centre, so bodies are lowered by half their
// height to get the base position.
type HeldFollowSystem struct{}

func NewHeldFollowSystem() *HeldFollowSystem {
	return &HeldFollowSystem{}
}

func (s *HeldFollowSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.HeldComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, held *component.Held, transform *component.Transform) {
		holder := ecs.Entity(held.Holder)
		if !w.IsAlive(holder) {
			ecs.Remove(w, e, component.HeldComponent)
			return
		}
		pos, yaw, ok := attachPoint(w, holder, held.Offset)
		if !ok {
			return
		}
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent); ok {
			pos[1] -= body.Height / 2
			body.VelocityY = 0
		}
		transform.Position = pos
		transform.Yaw = yaw
	})
}
