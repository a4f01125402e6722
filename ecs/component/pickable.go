package component

import "github.com/go-gl/mathgl/mgl64"

// AttachPoint is where a picked object is carried: Offset is local to the
// holder's camera.
type AttachPoint struct {
	Holder uint64
	Offset mgl64.Vec3
}

// PickHandler is the pick/drop capability an entity may expose.
type PickHandler interface {
	Picked(attach AttachPoint)
	Dropped()
}

// Pickable attaches a PickHandler to an entity.
type Pickable struct {
	Handler PickHandler
}

var PickableComponent = NewComponent[Pickable]()

// Picker is the two-state pick/drop machine. Picked is true exactly when
// Handler is non-nil.
type Picker struct {
	Distance     float64
	Mask         uint32
	AttachOffset mgl64.Vec3
	Picked       bool
	Held         uint64
	Handler      PickHandler
}

var PickerComponent = NewComponent[Picker]()

// Held is set on an object while it is carried.
type Held struct {
	Holder uint64
	Offset mgl64.Vec3
}

var HeldComponent = NewComponent[Held]()
