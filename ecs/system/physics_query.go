package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gamearch/common"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
)

// RaycastHit describes the nearest shape a ray touched.
type RaycastHit struct {
	Entity   ecs.Entity
	Point    mgl64.Vec3
	Distance float64
}

// Physics is the query surface the player simulation needs from the physics
// backend. Masks are collision layer bitmasks (see common.LayerMask).
type Physics interface {
	// CheckSphere reports whether any shape on mask overlaps the sphere.
	CheckSphere(center mgl64.Vec3, radius float64, mask uint32) bool
	// Raycast returns the nearest hit along dir within maxDist. ok is false
	// when nothing was hit; hit is meaningless in that case.
	Raycast(origin, dir mgl64.Vec3, maxDist float64, mask uint32) (hit RaycastHit, ok bool)
	// Move requests a displacement for e, resolved against colliders on the
	// next physics step.
	Move(e ecs.Entity, delta mgl64.Vec3)
}

// cameraPose returns the camera's world position and view direction for an
// entity. Entities without a Camera look from their base position along
// their yaw.
func cameraPose(w *ecs.World, e ecs.Entity) (mgl64.Vec3, mgl64.Vec3, bool) {
	transform, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	cam, ok := ecs.Get(w, e, component.CameraComponent)
	if !ok {
		return transform.Position, common.ForwardDir(transform.Yaw), true
	}
	origin := transform.Position.Add(common.YawRotation(transform.Yaw).Rotate(cam.Offset))
	return origin, common.ViewDir(transform.Yaw, cam.Pitch), true
}

// attachPoint converts an offset local to e's camera into world space.
func attachPoint(w *ecs.World, e ecs.Entity, offset mgl64.Vec3) (mgl64.Vec3, float64, bool) {
	transform, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return mgl64.Vec3{}, 0, false
	}
	origin := transform.Position
	pitch := 0.0
	if cam, ok := ecs.Get(w, e, component.CameraComponent); ok {
		origin = origin.Add(common.YawRotation(transform.Yaw).Rotate(cam.Offset))
		pitch = cam.Pitch
	}
	return origin.Add(common.ViewRotation(transform.Yaw, pitch).Rotate(offset)), transform.Yaw, true
}
