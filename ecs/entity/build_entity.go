package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gamearch/common"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
	"github.com/milk9111/gamearch/prefabs"
	"go.uber.org/zap"
)

// BuildContext carries what component builders need beyond the prefab
// itself.
type BuildContext struct {
	PrefabPath string
	Ender      LevelEnder
	Log        *zap.SugaredLogger
	// Selectable replaces the prefab's selectable settings, so one button
	// prefab can back every kind of level button.
	Selectable *prefabs.SelectableComponentSpec
}

func (ctx *BuildContext) logger() *zap.SugaredLogger {
	if ctx == nil || ctx.Log == nil {
		return zap.NewNop().Sugar()
	}
	return ctx.Log
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"prop_tag":        addPropTag,
	"button_tag":      addButtonTag,
	"transform":       addTransform,
	"input":           addInput,
	"player":          addPlayer,
	"player_motion":   addPlayerMotion,
	"camera":          addCamera,
	"ground_probe":    addGroundProbe,
	"interactor":      addInteractor,
	"picker":          addPicker,
	"shooter":         addShooter,
	"physics_body":    addPhysicsBody,
	"collision_layer": addCollisionLayer,
	"highlight":       addHighlight,
	"pickable":        addPickable,
	"selectable":      addSelectable,
}

var componentBuildOrder = []string{
	"player_tag",
	"prop_tag",
	"button_tag",
	"transform",
	"input",
	"player",
	"player_motion",
	"camera",
	"ground_probe",
	"interactor",
	"picker",
	"shooter",
	"physics_body",
	"collision_layer",
	"highlight",
	"pickable",
	"selectable",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	return BuildEntityWith(w, prefabPath, nil)
}

func BuildEntityWith(w *ecs.World, prefabPath string, ctx *BuildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	if ctx == nil {
		ctx = &BuildContext{}
	}
	ctx.PrefabPath = prefabPath

	e := ecs.CreateEntity(w)
	if err := applyComponents(w, e, spec.Components, ctx); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: %w", prefabPath, err)
	}
	return e, nil
}

// applyComponents runs the builders for components in build order, then any
// remaining ones alphabetically.
func applyComponents(w *ecs.World, e ecs.Entity, components map[string]any, ctx *BuildContext) error {
	remaining := make(map[string]any, len(components))
	for k, v := range components {
		remaining[k] = v
	}

	names := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			names = append(names, name)
			delete(remaining, name)
		}
	}
	rest := make([]string, 0, len(remaining))
	for name := range remaining {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	names = append(names, rest...)

	for _, name := range names {
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("no builder for component %q", name)
		}
		if err := builder(w, e, components[name], ctx); err != nil {
			return fmt.Errorf("add %q: %w", name, err)
		}
	}
	return nil
}

// SetEntityTransform places e with its base at pos.
func SetEntityTransform(w *ecs.World, e ecs.Entity, pos mgl64.Vec3, yaw float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		t = &component.Transform{}
	}
	t.Position = pos
	t.Yaw = yaw
	return ecs.Add(w, e, component.TransformComponent, t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent, &component.PlayerTag{})
}

func addPropTag(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.PropTagComponent, &component.PropTag{})
}

func addButtonTag(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.ButtonTagComponent, &component.ButtonTag{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent, &component.Transform{
		Position: spec.Position.Vec(),
		Yaw:      spec.Yaw,
	})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.InputComponent, &component.Input{})
}

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	sprint := spec.SprintMultiplier
	if sprint <= 0 {
		sprint = 1
	}
	if spec.YTurnMin > spec.YTurnMax {
		return fmt.Errorf("y_turn_min %v exceeds y_turn_max %v", spec.YTurnMin, spec.YTurnMax)
	}
	return ecs.Add(w, e, component.PlayerComponent, &component.Player{
		MoveSpeed:        spec.MoveSpeed,
		TurnSpeed:        spec.TurnSpeed,
		InvertMouse:      spec.InvertMouse,
		Gravity:          spec.Gravity,
		JumpVelocity:     spec.JumpVelocity,
		SprintMultiplier: sprint,
		YTurnMin:         spec.YTurnMin,
		YTurnMax:         spec.YTurnMax,
	})
}

func addPlayerMotion(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	if ecs.Has(w, e, component.PlayerMotionComponent) {
		return nil
	}
	return ecs.Add(w, e, component.PlayerMotionComponent, &component.PlayerMotion{MoveMultiplier: 1})
}

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CameraComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	cam, ok := ecs.Get(w, e, component.CameraComponent)
	if !ok {
		cam = &component.Camera{}
	}
	cam.Offset = spec.Offset.Vec()
	return ecs.Add(w, e, component.CameraComponent, cam)
}

func addGroundProbe(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.GroundProbeComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ground_probe spec: %w", err)
	}
	mask, err := spec.Mask.Mask(common.LayerGround)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.GroundProbeComponent, &component.GroundProbe{
		Offset: spec.Offset.Vec(),
		Radius: spec.Radius,
		Mask:   mask,
	})
}

// addInteractor keeps the tracked target when re-applied to a live entity.
func addInteractor(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.InteractorComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode interactor spec: %w", err)
	}
	mask, err := spec.Mask.Mask(common.LayerInteractable)
	if err != nil {
		return err
	}
	it, ok := ecs.Get(w, e, component.InteractorComponent)
	if !ok {
		it = &component.Interactor{}
	}
	it.Distance = spec.Distance
	it.Mask = mask
	return ecs.Add(w, e, component.InteractorComponent, it)
}

// addPicker keeps the held object when re-applied to a live entity.
func addPicker(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PickerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode picker spec: %w", err)
	}
	mask, err := spec.Mask.Mask(common.LayerPickable)
	if err != nil {
		return err
	}
	picker, ok := ecs.Get(w, e, component.PickerComponent)
	if !ok {
		picker = &component.Picker{}
	}
	picker.Distance = spec.Distance
	picker.Mask = mask
	picker.AttachOffset = spec.AttachOffset.Vec()
	return ecs.Add(w, e, component.PickerComponent, picker)
}

func addShooter(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ShooterComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode shooter spec: %w", err)
	}
	bullet, err := LoadProjectileConfig(spec.Bullet)
	if err != nil {
		return err
	}
	rocket, err := LoadProjectileConfig(spec.Rocket)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.ShooterComponent, &component.Shooter{
		SpawnOffset: spec.SpawnOffset.Vec(),
		Force:       spec.Force,
		Bullet:      bullet,
		Rocket:      rocket,
	})
}

// LoadProjectileConfig reads the projectile and collision_layer components of
// a projectile prefab.
func LoadProjectileConfig(prefabPath string) (component.ProjectileConfig, error) {
	if strings.TrimSpace(prefabPath) == "" {
		return component.ProjectileConfig{}, fmt.Errorf("projectile prefab not set")
	}
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return component.ProjectileConfig{}, err
	}
	proj, err := prefabs.DecodeComponentSpec[prefabs.ProjectileComponentSpec](spec.Components["projectile"])
	if err != nil {
		return component.ProjectileConfig{}, fmt.Errorf("decode projectile spec %q: %w", prefabPath, err)
	}
	layer, err := prefabs.DecodeComponentSpec[prefabs.CollisionLayerComponentSpec](spec.Components["collision_layer"])
	if err != nil {
		return component.ProjectileConfig{}, fmt.Errorf("decode collision_layer spec %q: %w", prefabPath, err)
	}
	category, err := layer.Category.Mask(common.LayerProjectile)
	if err != nil {
		return component.ProjectileConfig{}, err
	}
	mask, err := layer.Mask.Mask(common.LayerAll)
	if err != nil {
		return component.ProjectileConfig{}, err
	}
	kind := proj.Kind
	if kind == "" {
		kind = spec.Name
	}
	return component.ProjectileConfig{
		Kind:         kind,
		Radius:       proj.Radius,
		Height:       proj.Height,
		Mass:         proj.Mass,
		GravityScale: proj.GravityScale,
		Category:     category,
		Mask:         mask,
	}, nil
}

func parseBodyKind(s string) (component.BodyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "static":
		return component.BodyStatic, nil
	case "dynamic":
		return component.BodyDynamic, nil
	case "character":
		return component.BodyCharacter, nil
	default:
		return 0, fmt.Errorf("unknown body kind %q", s)
	}
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics_body spec: %w", err)
	}
	kind, err := parseBodyKind(spec.Kind)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
		Kind:         kind,
		Width:        spec.Width,
		Depth:        spec.Depth,
		Height:       spec.Height,
		Radius:       spec.Radius,
		Mass:         spec.Mass,
		Friction:     spec.Friction,
		Elasticity:   spec.Elasticity,
		GravityScale: spec.GravityScale,
	})
}

func addCollisionLayer(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CollisionLayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision_layer spec: %w", err)
	}
	category, err := spec.Category.Mask(0)
	if err != nil {
		return err
	}
	mask, err := spec.Mask.Mask(0)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.CollisionLayerComponent, &component.CollisionLayer{Category: category, Mask: mask})
}

func addHighlight(w *ecs.World, e ecs.Entity, raw any, _ *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HighlightComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode highlight spec: %w", err)
	}
	return ecs.Add(w, e, component.HighlightComponent, &component.Highlight{Active: spec.Active})
}

func addPickable(w *ecs.World, e ecs.Entity, _ any, _ *BuildContext) error {
	return ecs.Add(w, e, component.PickableComponent, &component.Pickable{Handler: NewPropPickable(w, e)})
}

func addSelectable(w *ecs.World, e ecs.Entity, raw any, ctx *BuildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SelectableComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode selectable spec: %w", err)
	}
	var ender LevelEnder
	if ctx != nil {
		ender = ctx.Ender
		if ctx.Selectable != nil {
			spec = *ctx.Selectable
		}
	}

	var handler component.SelectHandler
	switch strings.ToLower(strings.TrimSpace(spec.Kind)) {
	case "", "highlight":
		handler = NewHighlightSelectable(w, e, ctx.logger())
	case "exit":
		if ender == nil {
			return fmt.Errorf("exit selectable needs a level")
		}
		handler = NewExitSelectable(w, e, ender, ctx.logger())
	case "script":
		handler = NewScriptSelectable(w, e, spec.Script, ender, ctx.logger())
	default:
		return fmt.Errorf("unknown selectable kind %q", spec.Kind)
	}
	return ecs.Add(w, e, component.SelectableComponent, &component.Selectable{Handler: handler})
}
