package component

import "github.com/jakecoffman/cp"

type BodyKind int

const (
	BodyStatic BodyKind = iota
	BodyDynamic
	BodyCharacter
)

func (k BodyKind) String() string {
	switch k {
	case BodyStatic:
		return "static"
	case BodyDynamic:
		return "dynamic"
	case BodyCharacter:
		return "character"
	default:
		return "unknown"
	}
}

// PhysicsBody is an extruded shape: a box (Width along X, Depth along Z) or,
// when Radius > 0, a vertical cylinder, spanning Height upwards from the
// entity's Transform position. Body and Shape are filled in by the physics
// system.
type PhysicsBody struct {
	Kind         BodyKind
	Width        float64
	Depth        float64
	Height       float64
	Radius       float64
	Mass         float64
	Friction     float64
	Elasticity   float64
	GravityScale float64
	VelocityY    float64

	Body  *cp.Body
	Shape *cp.Shape
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
