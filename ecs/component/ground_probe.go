package component

import "github.com/go-gl/mathgl/mgl64"

// GroundProbe is the sphere tested against ground geometry each tick.
type GroundProbe struct {
	Offset mgl64.Vec3
	Radius float64
	Mask   uint32
}

var GroundProbeComponent = NewComponent[GroundProbe]()
