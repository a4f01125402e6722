package system

import (
	"github.com/milk9111/gamearch/common"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
)

// projectileLifetime is how long, in seconds, a fired projectile lives.
const projectileLifetime = 5.0

// ShootSystem spawns a bullet on fire1 and a rocket on fire2. Both may fire
// on the same tick; the bullet is spawned first.
type ShootSystem struct{}

func NewShootSystem() *ShootSystem {
	return &ShootSystem{}
}

func (s *ShootSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(component.ShooterComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind()) {
		shooter, ok := ecs.Get(w, e, component.ShooterComponent)
		if !ok {
			continue
		}
		input, ok := ecs.Get(w, e, component.InputComponent)
		if !ok {
			continue
		}
		if input.Fire1Pressed {
			spawnProjectile(w, e, shooter, shooter.Bullet)
		}
		if input.Fire2Pressed {
			spawnProjectile(w, e, shooter, shooter.Rocket)
		}
	}
}

func spawnProjectile(w *ecs.World, owner ecs.Entity, shooter *component.Shooter, cfg component.ProjectileConfig) (ecs.Entity, bool) {
	transform, ok := ecs.Get(w, owner, component.TransformComponent)
	if !ok {
		return 0, false
	}
	pitch := 0.0
	if cam, ok := ecs.Get(w, owner, component.CameraComponent); ok {
		pitch = cam.Pitch
	}
	pos, _, ok := attachPoint(w, owner, shooter.SpawnOffset)
	if !ok {
		return 0, false
	}
	forward := common.ViewDir(transform.Yaw, pitch)

	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent, &component.Transform{Position: pos, Yaw: transform.Yaw, Pitch: pitch})
	_ = ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
		Kind:         component.BodyDynamic,
		Radius:       cfg.Radius,
		Height:       cfg.Height,
		Mass:         cfg.Mass,
		GravityScale: cfg.GravityScale,
	})
	_ = ecs.Add(w, e, component.CollisionLayerComponent, &component.CollisionLayer{Category: cfg.Category, Mask: cfg.Mask})
	_ = ecs.Add(w, e, component.ProjectileComponent, &component.Projectile{
		Kind:    cfg.Kind,
		Owner:   uint64(owner),
		Impulse: forward.Mul(shooter.Force),
	})
	_ = ecs.Add(w, e, component.LifetimeComponent, &component.Lifetime{Remaining: projectileLifetime})

	w.Events().Push(ecs.Event{Type: ecs.EventProjectileSpawned, Data: ecs.EntityEvent{Source: owner, Target: e}})
	return e, true
}
