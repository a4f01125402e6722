package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gamearch/common"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
)

// groundedStickVelocity keeps a grounded character pressed onto the floor.
const groundedStickVelocity = -2.0

// PlayerControllerSystem runs the first-person locomotion for every entity
// with Player, PlayerMotion, Transform and Input: ground check, movement,
// turning and jumping, in that order.
type PlayerControllerSystem struct {
	physics Physics
}

func NewPlayerControllerSystem(physics Physics) *PlayerControllerSystem {
	return &PlayerControllerSystem{physics: physics}
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	dt := w.DeltaTime()
	for _, e := range w.Query(
		component.PlayerComponent.Kind(),
		component.PlayerMotionComponent.Kind(),
		component.TransformComponent.Kind(),
		component.InputComponent.Kind(),
	) {
		player, _ := ecs.Get(w, e, component.PlayerComponent)
		motion, _ := ecs.Get(w, e, component.PlayerMotionComponent)
		transform, _ := ecs.Get(w, e, component.TransformComponent)
		input, _ := ecs.Get(w, e, component.InputComponent)
		if player == nil || motion == nil || transform == nil || input == nil {
			continue
		}

		s.groundCheck(w, e, transform, motion)
		s.move(e, player, motion, transform, input, dt)
		s.turn(w, e, player, motion, transform, input, dt)
		if input.JumpPressed {
			motion.Velocity[1] = player.JumpVelocity
		}
	}
}

func (s *PlayerControllerSystem) groundCheck(w *ecs.World, e ecs.Entity, transform *component.Transform, motion *component.PlayerMotion) {
	motion.Grounded = false
	if s.physics == nil {
		return
	}
	probe, ok := ecs.Get(w, e, component.GroundProbeComponent)
	if !ok {
		return
	}
	center := transform.Position.Add(common.YawRotation(transform.Yaw).Rotate(probe.Offset))
	motion.Grounded = s.physics.CheckSphere(center, probe.Radius, probe.Mask)
}

func (s *PlayerControllerSystem) move(e ecs.Entity, player *component.Player, motion *component.PlayerMotion, transform *component.Transform, input *component.Input, dt float64) {
	motion.MoveMultiplier = 1
	if input.Sprint {
		motion.MoveMultiplier = player.SprintMultiplier
	}

	dir := common.ForwardDir(transform.Yaw).Mul(input.Vertical).
		Add(common.RightDir(transform.Yaw).Mul(input.Horizontal))
	planar := dir.Mul(player.MoveSpeed * motion.MoveMultiplier * dt)

	if motion.Grounded && motion.Velocity.Y() < 0 {
		motion.Velocity[1] = groundedStickVelocity
	}
	motion.Velocity[1] += player.Gravity * dt

	if s.physics == nil {
		return
	}
	s.physics.Move(e, planar)
	s.physics.Move(e, mgl64.Vec3{0, motion.Velocity.Y(), 0}.Mul(dt))
}

func (s *PlayerControllerSystem) turn(w *ecs.World, e ecs.Entity, player *component.Player, motion *component.PlayerMotion, transform *component.Transform, input *component.Input, dt float64) {
	transform.Yaw += player.TurnSpeed * dt * input.MouseX

	sign := -1.0
	if player.InvertMouse {
		sign = 1
	}
	motion.CamXRotation += dt * input.MouseY * player.TurnSpeed * sign
	motion.CamXRotation = common.Clamp(motion.CamXRotation, player.YTurnMin, player.YTurnMax)

	if cam, ok := ecs.Get(w, e, component.CameraComponent); ok {
		cam.Pitch = motion.CamXRotation
	}
	transform.Pitch = motion.CamXRotation
}
