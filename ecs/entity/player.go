package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/prefabs"
)

const PlayerPrefab = "player.yaml"

// playerTuning lists the player components that only carry configuration and
// can be re-applied to a live player.
var playerTuning = []string{
	"player",
	"camera",
	"ground_probe",
	"interactor",
	"picker",
	"shooter",
}

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, PlayerPrefab)
}

func NewPlayerAt(w *ecs.World, pos mgl64.Vec3, yaw float64) (ecs.Entity, error) {
	e, err := NewPlayer(w)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, pos, yaw); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// ApplyPlayerTuning re-reads the player prefab and overwrites the tuning
// components of e. Motion, pose and held objects are left alone.
func ApplyPlayerTuning(w *ecs.World, e ecs.Entity) error {
	if w == nil || !w.IsAlive(e) {
		return fmt.Errorf("apply player tuning: entity %d is not alive", e)
	}
	spec, err := prefabs.LoadEntityBuildSpec(PlayerPrefab)
	if err != nil {
		return fmt.Errorf("apply player tuning: %w", err)
	}
	ctx := &BuildContext{PrefabPath: PlayerPrefab}
	for _, name := range playerTuning {
		raw, ok := spec.Components[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			return fmt.Errorf("apply player tuning: %s: %w", name, err)
		}
	}
	return nil
}
