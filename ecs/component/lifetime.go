package component

// Lifetime destroys its entity once Remaining (seconds) runs out. It is the
// world-owned replacement for scheduling a delayed destroy.
type Lifetime struct {
	Remaining float64
}

var LifetimeComponent = NewComponent[Lifetime]()
