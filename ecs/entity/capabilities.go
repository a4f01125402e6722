package entity

import (
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
	"go.uber.org/zap"
)

// LevelEnder is the part of the level manager that capabilities may call.
type LevelEnder interface {
	EndLevel()
}

// HighlightSelectable lights its entity while hovered.
type HighlightSelectable struct {
	w   *ecs.World
	e   ecs.Entity
	log *zap.SugaredLogger
}

func NewHighlightSelectable(w *ecs.World, e ecs.Entity, log *zap.SugaredLogger) *HighlightSelectable {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &HighlightSelectable{w: w, e: e, log: log}
}

func (h *HighlightSelectable) HoverEnter() { setHighlight(h.w, h.e, true) }

func (h *HighlightSelectable) HoverExit() { setHighlight(h.w, h.e, false) }

func (h *HighlightSelectable) Select() {
	h.log.Infow("selected", "entity", h.e, "name", buttonName(h.w, h.e))
}

// ExitSelectable ends the current level when selected.
type ExitSelectable struct {
	*HighlightSelectable
	ender LevelEnder
}

func NewExitSelectable(w *ecs.World, e ecs.Entity, ender LevelEnder, log *zap.SugaredLogger) *ExitSelectable {
	return &ExitSelectable{HighlightSelectable: NewHighlightSelectable(w, e, log), ender: ender}
}

func (x *ExitSelectable) Select() {
	x.HighlightSelectable.Select()
	if x.ender != nil {
		x.ender.EndLevel()
	}
}

// PropPickable attaches its entity to whoever picks it up.
type PropPickable struct {
	w *ecs.World
	e ecs.Entity
}

func NewPropPickable(w *ecs.World, e ecs.Entity) *PropPickable {
	return &PropPickable{w: w, e: e}
}

func (p *PropPickable) Picked(at component.AttachPoint) {
	if p.w == nil || !p.w.IsAlive(p.e) {
		return
	}
	_ = ecs.Add(p.w, p.e, component.HeldComponent, &component.Held{Holder: at.Holder, Offset: at.Offset})
	setHighlight(p.w, p.e, false)
}

func (p *PropPickable) Dropped() {
	if p.w == nil || !p.w.IsAlive(p.e) {
		return
	}
	ecs.Remove(p.w, p.e, component.HeldComponent)
	if body, ok := ecs.Get(p.w, p.e, component.PhysicsBodyComponent); ok {
		body.VelocityY = 0
	}
}

func setHighlight(w *ecs.World, e ecs.Entity, on bool) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	h, ok := ecs.Get(w, e, component.HighlightComponent)
	if !ok {
		return
	}
	if on && !h.Active {
		h.Count++
	}
	h.Active = on
}

func buttonName(w *ecs.World, e ecs.Entity) string {
	if w == nil {
		return ""
	}
	if tag, ok := ecs.Get(w, e, component.ButtonTagComponent); ok {
		return tag.Name
	}
	return ""
}
