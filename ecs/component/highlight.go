package component

// Highlight is toggled by hover handlers; the debug view draws highlighted
// entities in a different colour.
type Highlight struct {
	Active bool
	Count  int
}

var HighlightComponent = NewComponent[Highlight]()
