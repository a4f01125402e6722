package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gamearch/common"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
)

func addBox(t *testing.T, w *ecs.World, kind component.BodyKind, pos mgl64.Vec3, width, depth, height float64, category uint32) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, e, component.TransformComponent, &component.Transform{Position: pos}))
	mustAdd(t, ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
		Kind:         kind,
		Width:        width,
		Depth:        depth,
		Height:       height,
		Mass:         1,
		GravityScale: 1,
	}))
	if category != 0 {
		mustAdd(t, ecs.Add(w, e, component.CollisionLayerComponent, &component.CollisionLayer{Category: category}))
	}
	return e
}

func addCylinder(t *testing.T, w *ecs.World, kind component.BodyKind, pos mgl64.Vec3, radius, height float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, e, component.TransformComponent, &component.Transform{Position: pos}))
	mustAdd(t, ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
		Kind:   kind,
		Radius: radius,
		Height: height,
		Mass:   1,
	}))
	return e
}

func stepPhysics(w *ecs.World, ps *PhysicsSystem, dt float64, ticks int) {
	w.SetDeltaTime(dt)
	for i := 0; i < ticks; i++ {
		ps.Update(w)
	}
}

func TestPhysicsDynamicBodyLandsOnFloor(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultGravity, nil)
	addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 0, 0}, 10, 10, 1, common.LayerGround)
	crate := addBox(t, w, component.BodyDynamic, mgl64.Vec3{0, 3, 0}, 0.5, 0.5, 0.5, common.LayerPickable)

	stepPhysics(w, ps, 0.02, 200)

	tr, _ := ecs.Get(w, crate, component.TransformComponent)
	if !approx(tr.Position.Y(), 1) {
		t.Fatalf("crate rests at y=%v, want 1", tr.Position.Y())
	}
	body, _ := ecs.Get(w, crate, component.PhysicsBodyComponent)
	if body.VelocityY != 0 {
		t.Fatalf("resting crate has vertical velocity %v", body.VelocityY)
	}
	if body.Body == nil || body.Shape == nil {
		t.Fatalf("physics body handles not filled in")
	}
}

func TestPhysicsCheckSphere(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultGravity, nil)
	addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 0, 0}, 10, 10, 1, common.LayerGround)
	addCylinder(t, w, component.BodyStatic, mgl64.Vec3{20, 0, 0}, 1, 2)
	ps.Update(w)

	cases := []struct {
		name   string
		center mgl64.Vec3
		radius float64
		mask   uint32
		want   bool
	}{
		{"touching_floor", mgl64.Vec3{0, 1.05, 0}, 0.1, common.LayerGround, true},
		{"above_floor", mgl64.Vec3{0, 2, 0}, 0.1, common.LayerGround, false},
		{"floor_edge", mgl64.Vec3{5.05, 1, 0}, 0.1, common.LayerGround, true},
		{"outside_floor", mgl64.Vec3{5.5, 1, 0}, 0.1, common.LayerGround, false},
		{"masked_out", mgl64.Vec3{0, 1.05, 0}, 0.1, common.LayerPlayer, false},
		{"cylinder_side", mgl64.Vec3{21.05, 1, 0}, 0.1, common.LayerAll, true},
		{"cylinder_miss", mgl64.Vec3{21.5, 1, 0}, 0.1, common.LayerAll, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ps.CheckSphere(c.center, c.radius, c.mask); got != c.want {
				t.Fatalf("CheckSphere = %v, want %v", got, c.want)
			}
		})
	}
}

func TestPhysicsRaycast(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultGravity, nil)
	near := addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 0, 0}, 2, 2, 4, common.LayerInteractable)
	far := addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 0, 5}, 2, 2, 4, common.LayerInteractable)
	pillar := addCylinder(t, w, component.BodyStatic, mgl64.Vec3{10, 0, 5}, 1, 2)
	ps.Update(w)

	cases := []struct {
		name     string
		origin   mgl64.Vec3
		dir      mgl64.Vec3
		maxDist  float64
		mask     uint32
		wantOK   bool
		wantEnt  ecs.Entity
		wantDist float64
	}{
		{"nearest_wins", mgl64.Vec3{0, 2, -5}, mgl64.Vec3{0, 0, 1}, 20, common.LayerAll, true, near, 4},
		{"too_short", mgl64.Vec3{0, 2, -5}, mgl64.Vec3{0, 0, 1}, 3.5, common.LayerAll, false, 0, 0},
		{"masked_out", mgl64.Vec3{0, 2, -5}, mgl64.Vec3{0, 0, 1}, 20, common.LayerGround, false, 0, 0},
		{"over_the_top", mgl64.Vec3{0, 5, -5}, mgl64.Vec3{0, 0, 1}, 20, common.LayerAll, false, 0, 0},
		{"from_inside_skips_self", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 0, 1}, 20, common.LayerAll, true, far, 4},
		{"unnormalized_dir", mgl64.Vec3{0, 2, -5}, mgl64.Vec3{0, 0, 3}, 20, common.LayerAll, true, near, 4},
		{"cylinder_side", mgl64.Vec3{10, 1, 0}, mgl64.Vec3{0, 0, 1}, 20, common.LayerAll, true, pillar, 4},
		{"cylinder_top", mgl64.Vec3{10, 5, 5}, mgl64.Vec3{0, -1, 0}, 20, common.LayerAll, true, pillar, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hit, ok := ps.Raycast(c.origin, c.dir, c.maxDist, c.mask)
			if ok != c.wantOK {
				t.Fatalf("Raycast ok = %v, want %v", ok, c.wantOK)
			}
			if !ok {
				return
			}
			if hit.Entity != c.wantEnt {
				t.Fatalf("hit entity %v, want %v", hit.Entity, c.wantEnt)
			}
			if math.Abs(hit.Distance-c.wantDist) > 1e-9 {
				t.Fatalf("hit distance %v, want %v", hit.Distance, c.wantDist)
			}
		})
	}
}

func TestPhysicsCharacterBlockedByWall(t *testing.T) {
	cases := []struct {
		name  string
		depth float64
		ticks int
	}{
		{name: "thick wall", depth: 3, ticks: 60},
		{name: "thin wall held", depth: 1, ticks: 200},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ps := NewPhysicsSystem(DefaultGravity, nil)
			addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 0, 0}, 20, 20, 1, common.LayerGround)
			// near face at z=1.5 for both walls
			addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 1, 1.5 + c.depth/2}, 4, c.depth, 3, common.LayerGround)
			player := addCylinder(t, w, component.BodyCharacter, mgl64.Vec3{0, 1, 0}, 0.4, 1.8)

			limit := 1.5 - 0.4 + 0.15
			w.SetDeltaTime(0.02)
			for i := 0; i < c.ticks; i++ {
				ps.Move(player, mgl64.Vec3{0, 0, 0.1})
				ps.Update(w)
				tr, _ := ecs.Get(w, player, component.TransformComponent)
				if tr.Position.Z() > limit {
					t.Fatalf("tick %d: character pushed into the wall: z=%v", i, tr.Position.Z())
				}
			}

			tr, _ := ecs.Get(w, player, component.TransformComponent)
			if tr.Position.Z() < 0.9 {
				t.Fatalf("character did not reach the wall: z=%v", tr.Position.Z())
			}
			if !approx(tr.Position.Y(), 1) {
				t.Fatalf("character left the floor: y=%v", tr.Position.Y())
			}
		})
	}
}

func TestPhysicsCharacterStopsWhenMoveEnds(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultGravity, nil)
	addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 0, 0}, 20, 20, 1, common.LayerGround)
	player := addCylinder(t, w, component.BodyCharacter, mgl64.Vec3{0, 1, 0}, 0.4, 1.8)

	w.SetDeltaTime(0.02)
	for i := 0; i < 10; i++ {
		ps.Move(player, mgl64.Vec3{0.1, 0, 0})
		ps.Update(w)
	}
	// one more step carries the last requested move
	ps.Update(w)
	tr, _ := ecs.Get(w, player, component.TransformComponent)
	stopped := tr.Position.X()
	if !approx(stopped, 1) {
		t.Fatalf("character should have covered every requested move, x=%v", stopped)
	}

	for i := 0; i < 10; i++ {
		ps.Update(w)
	}
	tr, _ = ecs.Get(w, player, component.TransformComponent)
	if !approx(tr.Position.X(), stopped) {
		t.Fatalf("character kept drifting without input: x=%v, want %v", tr.Position.X(), stopped)
	}
}

func TestPhysicsCharacterStepsOntoLedge(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultGravity, nil)
	addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 0, 0}, 20, 20, 1, common.LayerGround)
	addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 1, 4}, 4, 4, 0.2, common.LayerGround)
	player := addCylinder(t, w, component.BodyCharacter, mgl64.Vec3{0, 1, 0}, 0.4, 1.8)

	w.SetDeltaTime(0.02)
	for i := 0; i < 40; i++ {
		ps.Move(player, mgl64.Vec3{0, -0.04, 0.1})
		ps.Update(w)
	}

	tr, _ := ecs.Get(w, player, component.TransformComponent)
	if tr.Position.Z() < 3 {
		t.Fatalf("character stopped at the ledge: z=%v", tr.Position.Z())
	}
	if !approx(tr.Position.Y(), 1.2) {
		t.Fatalf("character should stand on the ledge top, y=%v", tr.Position.Y())
	}
}

func TestPhysicsCharacterCeiling(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultGravity, nil)
	addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 3, 0}, 4, 4, 1, common.LayerGround)
	player := addCylinder(t, w, component.BodyCharacter, mgl64.Vec3{0, 0, 0}, 0.4, 1.8)
	ps.Update(w)

	w.SetDeltaTime(0.02)
	ps.Move(player, mgl64.Vec3{0, 5, 0})
	ps.Update(w)

	tr, _ := ecs.Get(w, player, component.TransformComponent)
	if !approx(tr.Position.Y(), 3-1.8) {
		t.Fatalf("character head should stop at the ceiling, y=%v", tr.Position.Y())
	}
}

func TestPhysicsProjectileImpulseAppliedOnce(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultGravity, nil)
	bullet := addCylinder(t, w, component.BodyDynamic, mgl64.Vec3{0, 5, 0}, 0.05, 0.1)
	mustAdd(t, ecs.Add(w, bullet, component.ProjectileComponent, &component.Projectile{Kind: "bullet", Impulse: mgl64.Vec3{0, 0, 20}}))

	stepPhysics(w, ps, 0.02, 1)
	proj, _ := ecs.Get(w, bullet, component.ProjectileComponent)
	if !proj.Applied {
		t.Fatalf("impulse not marked applied")
	}
	stepPhysics(w, ps, 0.02, 1)

	tr, _ := ecs.Get(w, bullet, component.TransformComponent)
	if math.Abs(tr.Position.Z()-0.8) > 1e-6 {
		t.Fatalf("bullet z after two ticks = %v, want 0.8", tr.Position.Z())
	}
}

func TestPhysicsHeldBodyIgnoredByQueries(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultGravity, nil)
	crate := addBox(t, w, component.BodyDynamic, mgl64.Vec3{0, 0, 0}, 1, 1, 1, common.LayerPickable)
	holder := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, crate, component.HeldComponent, &component.Held{Holder: uint64(holder)}))
	w.SetDeltaTime(0.02)
	ps.Update(w)

	if ps.CheckSphere(mgl64.Vec3{0, 0.5, 0}, 0.1, common.LayerAll) {
		t.Fatalf("held body should not be visible to queries")
	}
	tr, _ := ecs.Get(w, crate, component.TransformComponent)
	if tr.Position.Y() != 0 {
		t.Fatalf("held body should not fall, y=%v", tr.Position.Y())
	}

	ecs.Remove(w, crate, component.HeldComponent)
	ps.Update(w)
	if !ps.CheckSphere(tr.Position.Add(mgl64.Vec3{0, 0.5, 0}), 0.1, common.LayerAll) {
		t.Fatalf("dropped body should be visible to queries again")
	}
}

func TestPhysicsRemovesDestroyedBodies(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultGravity, nil)
	wall := addBox(t, w, component.BodyStatic, mgl64.Vec3{0, 0, 5}, 2, 2, 4, 0)
	ps.Update(w)

	if _, ok := ps.Raycast(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}, 10, common.LayerAll); !ok {
		t.Fatalf("expected a hit before destroy")
	}
	ecs.DestroyEntity(w, wall)
	ps.Update(w)
	if _, ok := ps.Raycast(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}, 10, common.LayerAll); ok {
		t.Fatalf("destroyed wall is still hit")
	}
	count := 0
	ps.ForEachBody(func(BodyBounds) { count++ })
	if count != 0 {
		t.Fatalf("expected no bodies left, got %d", count)
	}
}
