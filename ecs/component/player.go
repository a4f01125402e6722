package component

// Player is the fixed per-instance tuning of the first-person controller.
// Angles are in degrees, speeds in units per second.
type Player struct {
	MoveSpeed        float64
	TurnSpeed        float64
	InvertMouse      bool
	Gravity          float64
	JumpVelocity     float64
	SprintMultiplier float64
	YTurnMin         float64
	YTurnMax         float64
}

var PlayerComponent = NewComponent[Player]()
