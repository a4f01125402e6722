package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gamearch/common"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
	"github.com/milk9111/gamearch/levels"
	"github.com/milk9111/gamearch/prefabs"
	"go.uber.org/zap"
)

const (
	defaultPropPrefab = "crate.yaml"
	buttonPrefab      = "button.yaml"
)

func vec(v levels.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// LoadLevelToWorld builds static geometry, props, buttons and the player for
// lvl. It returns the player entity.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level, ender LevelEnder, log *zap.SugaredLogger) (ecs.Entity, error) {
	if w == nil || lvl == nil {
		return 0, fmt.Errorf("load level: world and level are required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	for i, box := range lvl.Boxes {
		if err := addLevelBox(w, box); err != nil {
			return 0, fmt.Errorf("load level %s: box %d: %w", lvl.Name, i, err)
		}
	}

	for i, prop := range lvl.Props {
		prefab := prop.Prefab
		if prefab == "" {
			prefab = defaultPropPrefab
		}
		e, err := BuildEntityWith(w, prefab, &BuildContext{Ender: ender, Log: log})
		if err != nil {
			return 0, fmt.Errorf("load level %s: prop %d: %w", lvl.Name, i, err)
		}
		if err := SetEntityTransform(w, e, vec(prop.Pos), 0); err != nil {
			return 0, err
		}
	}

	for _, btn := range lvl.Buttons {
		ctx := &BuildContext{
			Ender: ender,
			Log:   log.With("button", btn.Name),
			Selectable: &prefabs.SelectableComponentSpec{
				Kind:   string(btn.Kind),
				Script: btn.Script,
			},
		}
		e, err := BuildEntityWith(w, buttonPrefab, ctx)
		if err != nil {
			return 0, fmt.Errorf("load level %s: button %q: %w", lvl.Name, btn.Name, err)
		}
		if tag, ok := ecs.Get(w, e, component.ButtonTagComponent); ok {
			tag.Name = btn.Name
		}
		if err := SetEntityTransform(w, e, vec(btn.Pos), 0); err != nil {
			return 0, err
		}
	}

	player, err := NewPlayerAt(w, vec(lvl.Spawn.Vec3), lvl.Spawn.Yaw)
	if err != nil {
		return 0, fmt.Errorf("load level %s: player: %w", lvl.Name, err)
	}

	log.Infow("level built",
		"level", lvl.Name,
		"boxes", len(lvl.Boxes),
		"props", len(lvl.Props),
		"buttons", len(lvl.Buttons),
	)
	return player, nil
}

func addLevelBox(w *ecs.World, box levels.Box) error {
	layer := box.Layer
	if layer == "" {
		layer = "ground"
	}
	category, err := common.LayerMask(layer)
	if err != nil {
		return err
	}

	min, max := vec(box.Min), vec(box.Max)
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{
		Position: mgl64.Vec3{(min.X() + max.X()) / 2, min.Y(), (min.Z() + max.Z()) / 2},
	}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
		Kind:   component.BodyStatic,
		Width:  max.X() - min.X(),
		Depth:  max.Z() - min.Z(),
		Height: max.Y() - min.Y(),
	}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.CollisionLayerComponent, &component.CollisionLayer{
		Category: category,
		Mask:     common.LayerAll,
	})
}
