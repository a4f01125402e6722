package component

// Input stores the per-tick input sample for an entity. Axes are in -1..1
// (look axes are raw deltas); *Pressed fields are true only on the tick the
// button went down.
type Input struct {
	Horizontal float64
	Vertical   float64
	MouseX     float64
	MouseY     float64

	Sprint          bool
	JumpPressed     bool
	Fire1Pressed    bool
	Fire2Pressed    bool
	InteractPressed bool
}

var InputComponent = NewComponent[Input]()
