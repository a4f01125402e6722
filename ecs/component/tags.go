package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type PropTag struct{}

var PropTagComponent = NewComponent[PropTag]()

type ButtonTag struct {
	Name string
}

var ButtonTagComponent = NewComponent[ButtonTag]()
