package component

// SelectHandler is the hover/select capability an entity may expose to gaze
// interaction.
type SelectHandler interface {
	HoverEnter()
	HoverExit()
	Select()
}

// Selectable attaches a SelectHandler to an entity.
type Selectable struct {
	Handler SelectHandler
}

var SelectableComponent = NewComponent[Selectable]()

// Interactor tracks the selectable currently under the entity's gaze.
// Target is a lookup-only reference; Handler is the capability resolved when
// the target was first hit.
type Interactor struct {
	Distance float64
	Mask     uint32
	Target   uint64
	Handler  SelectHandler
}

var InteractorComponent = NewComponent[Interactor]()
