package entity

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gamearch/common"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
	"github.com/milk9111/gamearch/levels"
)

type enderRecorder struct {
	calls int
}

func (r *enderRecorder) EndLevel() { r.calls++ }

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildPlayerPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayerAt(w, mgl64.Vec3{1, 0, -2}, 45)
	if err != nil {
		t.Fatalf("NewPlayerAt: %v", err)
	}

	tr, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok || tr.Position != (mgl64.Vec3{1, 0, -2}) || tr.Yaw != 45 {
		t.Fatalf("unexpected transform %+v", tr)
	}
	p, ok := ecs.Get(w, e, component.PlayerComponent)
	if !ok {
		t.Fatalf("player component missing")
	}
	if p.MoveSpeed != 5 || p.JumpVelocity != 5 || p.YTurnMin != -80 || p.YTurnMax != 80 {
		t.Fatalf("unexpected player tuning %+v", p)
	}
	motion, ok := ecs.Get(w, e, component.PlayerMotionComponent)
	if !ok || motion.MoveMultiplier != 1 {
		t.Fatalf("expected player motion with multiplier 1, got %+v", motion)
	}
	probe, ok := ecs.Get(w, e, component.GroundProbeComponent)
	if !ok || probe.Mask&common.LayerGround == 0 || probe.Mask&common.LayerPlayer != 0 {
		t.Fatalf("unexpected ground probe %+v", probe)
	}
	shooter, ok := ecs.Get(w, e, component.ShooterComponent)
	if !ok {
		t.Fatalf("shooter missing")
	}
	if shooter.Bullet.Kind != "bullet" || shooter.Rocket.Kind != "rocket" {
		t.Fatalf("unexpected projectile kinds %q %q", shooter.Bullet.Kind, shooter.Rocket.Kind)
	}
	if shooter.Rocket.Mass <= shooter.Bullet.Mass {
		t.Fatalf("expected rocket heavier than bullet")
	}
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
	if !ok || body.Kind != component.BodyCharacter {
		t.Fatalf("expected character body, got %+v", body)
	}
	for name, has := range map[string]bool{
		"player_tag": ecs.Has(w, e, component.PlayerTagComponent),
		"input":      ecs.Has(w, e, component.InputComponent),
		"camera":     ecs.Has(w, e, component.CameraComponent),
		"interactor": ecs.Has(w, e, component.InteractorComponent),
		"picker":     ecs.Has(w, e, component.PickerComponent),
	} {
		if !has {
			t.Fatalf("player missing %s", name)
		}
	}
}

func TestBuildEntityErrors(t *testing.T) {
	cases := []struct {
		name   string
		prefab string
	}{
		{"missing_prefab", "nope.yaml"},
		{"projectile_only_prefab", "bullet.yaml"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			if _, err := BuildEntity(w, c.prefab); err == nil {
				t.Fatalf("expected error building %s", c.prefab)
			}
			if n := len(ecs.Entities(w)); n != 0 {
				t.Fatalf("expected failed build to leave no entities, got %d", n)
			}
		})
	}
}

func TestApplyPlayerTuningKeepsRuntimeState(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayer(w)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	picker, _ := ecs.Get(w, e, component.PickerComponent)
	picker.Picked = true
	picker.Held = 42
	player, _ := ecs.Get(w, e, component.PlayerComponent)
	player.MoveSpeed = 99
	motion, _ := ecs.Get(w, e, component.PlayerMotionComponent)
	motion.Velocity = mgl64.Vec3{0, -3, 0}

	if err := ApplyPlayerTuning(w, e); err != nil {
		t.Fatalf("ApplyPlayerTuning: %v", err)
	}

	player, _ = ecs.Get(w, e, component.PlayerComponent)
	if player.MoveSpeed != 5 {
		t.Fatalf("expected move speed reset to 5, got %v", player.MoveSpeed)
	}
	picker, _ = ecs.Get(w, e, component.PickerComponent)
	if !picker.Picked || picker.Held != 42 {
		t.Fatalf("expected held object kept, got %+v", picker)
	}
	motion, _ = ecs.Get(w, e, component.PlayerMotionComponent)
	if motion.Velocity.Y() != -3 {
		t.Fatalf("expected motion kept, got %v", motion.Velocity)
	}
}

func TestLoadLevelToWorld(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("level1")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}

	w := ecs.NewWorld()
	ender := &enderRecorder{}
	player, err := LoadLevelToWorld(w, lvl, ender, nil)
	if err != nil {
		t.Fatalf("LoadLevelToWorld: %v", err)
	}

	if !ecs.Has(w, player, component.PlayerTagComponent) {
		t.Fatalf("returned entity is not the player")
	}
	tr, _ := ecs.Get(w, player, component.TransformComponent)
	if tr.Position != (mgl64.Vec3{lvl.Spawn.X, lvl.Spawn.Y, lvl.Spawn.Z}) {
		t.Fatalf("player not at spawn: %v", tr.Position)
	}

	bodies := w.Query(component.PhysicsBodyComponent.Kind())
	want := len(lvl.Boxes) + len(lvl.Props) + len(lvl.Buttons) + 1
	if len(bodies) != want {
		t.Fatalf("expected %d bodies, got %d", want, len(bodies))
	}
	if n := len(w.Query(component.PickableComponent.Kind())); n != len(lvl.Props) {
		t.Fatalf("expected %d pickables, got %d", len(lvl.Props), n)
	}

	buttons := map[string]ecs.Entity{}
	ecs.ForEach(w, component.ButtonTagComponent.Kind(), func(e ecs.Entity, tag *component.ButtonTag) {
		buttons[tag.Name] = e
	})
	if len(buttons) != len(lvl.Buttons) {
		t.Fatalf("expected %d named buttons, got %v", len(lvl.Buttons), buttons)
	}

	sel, ok := ecs.Get(w, buttons["exit"], component.SelectableComponent)
	if !ok {
		t.Fatalf("exit button is not selectable")
	}
	if _, ok := sel.Handler.(*ExitSelectable); !ok {
		t.Fatalf("expected exit handler, got %T", sel.Handler)
	}
	sel.Handler.Select()
	if ender.calls != 1 {
		t.Fatalf("expected exit button to end the level once, got %d", ender.calls)
	}

	sel, _ = ecs.Get(w, buttons["console"], component.SelectableComponent)
	if _, ok := sel.Handler.(*ScriptSelectable); !ok {
		t.Fatalf("expected script handler, got %T", sel.Handler)
	}

	var floor *component.PhysicsBody
	var floorPos mgl64.Vec3
	for _, e := range bodies {
		b, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
		if b.Kind == component.BodyStatic && b.Width == 20 && b.Depth == 20 {
			floor = b
			ft, _ := ecs.Get(w, e, component.TransformComponent)
			floorPos = ft.Position
		}
	}
	if floor == nil || floor.Height != 1 || floorPos != (mgl64.Vec3{0, -1, 0}) {
		t.Fatalf("unexpected floor %+v at %v", floor, floorPos)
	}
}

func TestHighlightSelectable(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.HighlightComponent, &component.Highlight{})
	h := NewHighlightSelectable(w, e, nil)

	h.HoverEnter()
	h.HoverEnter()
	hl, _ := ecs.Get(w, e, component.HighlightComponent)
	if !hl.Active || hl.Count != 1 {
		t.Fatalf("expected active highlight counted once, got %+v", hl)
	}
	h.HoverExit()
	if hl.Active {
		t.Fatalf("expected highlight off after exit")
	}
	h.Select()
}

func TestPropPickable(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.HighlightComponent, &component.Highlight{Active: true})
	_ = ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{Kind: component.BodyDynamic, VelocityY: -4})
	p := NewPropPickable(w, e)

	p.Picked(component.AttachPoint{Holder: 7, Offset: mgl64.Vec3{0, 0, 1}})
	held, ok := ecs.Get(w, e, component.HeldComponent)
	if !ok || held.Holder != 7 || held.Offset != (mgl64.Vec3{0, 0, 1}) {
		t.Fatalf("unexpected held %+v", held)
	}
	hl, _ := ecs.Get(w, e, component.HighlightComponent)
	if hl.Active {
		t.Fatalf("expected highlight cleared when picked")
	}

	p.Dropped()
	if ecs.Has(w, e, component.HeldComponent) {
		t.Fatalf("expected held removed on drop")
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
	if !approx(body.VelocityY, 0) {
		t.Fatalf("expected vertical velocity reset, got %v", body.VelocityY)
	}

	ecs.DestroyEntity(w, e)
	p.Picked(component.AttachPoint{Holder: 7})
	p.Dropped()
}
