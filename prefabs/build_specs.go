package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gamearch/common"
)

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// LayerList is a list of collision layer names, e.g. [ground, pickable].
type LayerList []string

// Mask resolves the names to a bitmask. An empty list yields fallback.
func (l LayerList) Mask(fallback uint32) (uint32, error) {
	if len(l) == 0 {
		return fallback, nil
	}
	mask, err := common.LayerMask(l...)
	if err != nil {
		return 0, fmt.Errorf("layers %v: %w", []string(l), err)
	}
	return mask, nil
}

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	Yaw      float64  `yaml:"yaw"`
}

type PlayerComponentSpec struct {
	MoveSpeed        float64 `yaml:"move_speed"`
	TurnSpeed        float64 `yaml:"turn_speed"`
	InvertMouse      bool    `yaml:"invert_mouse"`
	Gravity          float64 `yaml:"gravity"`
	JumpVelocity     float64 `yaml:"jump_velocity"`
	SprintMultiplier float64 `yaml:"sprint_multiplier"`
	YTurnMin         float64 `yaml:"y_turn_min"`
	YTurnMax         float64 `yaml:"y_turn_max"`
}

type CameraComponentSpec struct {
	Offset Vec3Spec `yaml:"offset"`
}

type GroundProbeComponentSpec struct {
	Offset Vec3Spec  `yaml:"offset"`
	Radius float64   `yaml:"radius"`
	Mask   LayerList `yaml:"mask"`
}

type InteractorComponentSpec struct {
	Distance float64   `yaml:"distance"`
	Mask     LayerList `yaml:"mask"`
}

type PickerComponentSpec struct {
	Distance     float64   `yaml:"distance"`
	Mask         LayerList `yaml:"mask"`
	AttachOffset Vec3Spec  `yaml:"attach_offset"`
}

// ShooterComponentSpec names the projectile prefabs to spawn for each fire
// button.
type ShooterComponentSpec struct {
	SpawnOffset Vec3Spec `yaml:"spawn_offset"`
	Force       float64  `yaml:"force"`
	Bullet      string   `yaml:"bullet"`
	Rocket      string   `yaml:"rocket"`
}

type ProjectileComponentSpec struct {
	Kind         string  `yaml:"kind"`
	Radius       float64 `yaml:"radius"`
	Height       float64 `yaml:"height"`
	Mass         float64 `yaml:"mass"`
	GravityScale float64 `yaml:"gravity_scale"`
}

type PhysicsBodyComponentSpec struct {
	Kind         string  `yaml:"kind"`
	Width        float64 `yaml:"width"`
	Depth        float64 `yaml:"depth"`
	Height       float64 `yaml:"height"`
	Radius       float64 `yaml:"radius"`
	Mass         float64 `yaml:"mass"`
	Friction     float64 `yaml:"friction"`
	Elasticity   float64 `yaml:"elasticity"`
	GravityScale float64 `yaml:"gravity_scale"`
}

type CollisionLayerComponentSpec struct {
	Category LayerList `yaml:"category"`
	Mask     LayerList `yaml:"mask"`
}

// SelectableComponentSpec picks the select behaviour: highlight, script or
// exit.
type SelectableComponentSpec struct {
	Kind   string `yaml:"kind"`
	Script string `yaml:"script"`
}

type HighlightComponentSpec struct {
	Active bool `yaml:"active"`
}
