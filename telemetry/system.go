package telemetry

import (
	"encoding/json"

	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
	"go.uber.org/zap"
)

// Snapshot is one player sample sent to websocket clients.
type Snapshot struct {
	Tick     uint64     `json:"tick"`
	Level    string     `json:"level,omitempty"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
	Velocity [3]float64 `json:"velocity"`
	Grounded bool       `json:"grounded"`
	Held     uint64     `json:"held,omitempty"`
	Target   uint64     `json:"target,omitempty"`
}

// System counts interaction events and streams a player snapshot every
// Every ticks. It runs last so it sees the whole tick's events.
type System struct {
	hub   *Hub
	every uint64
	log   *zap.SugaredLogger
	level string
}

func NewSystem(hub *Hub, every int, log *zap.SugaredLogger) *System {
	if every <= 0 {
		every = 1
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &System{hub: hub, every: uint64(every), log: log}
}

func (s *System) SetLevel(name string) { s.level = name }

func (s *System) Update(w *ecs.World) {
	if s == nil || s.hub == nil || w == nil {
		return
	}
	m := s.hub.Metrics()
	m.IncTick()

	for _, ev := range w.Events().Drain() {
		switch ev.Type {
		case ecs.EventProjectileSpawned:
			m.IncProjectile()
		case ecs.EventPicked:
			m.IncPick()
		case ecs.EventDropped:
			m.IncDrop()
		case ecs.EventSelected:
			m.IncSelect()
		case ecs.EventHoverEnter:
			m.IncHoverEnter()
		}
	}

	if w.Tick()%s.every != 0 || s.hub.ClientCount() == 0 {
		return
	}
	snap, ok := PlayerSnapshot(w)
	if !ok {
		return
	}
	snap.Level = s.level
	msg, err := json.Marshal(snap)
	if err != nil {
		s.log.Warnw("telemetry encode failed", "error", err)
		return
	}
	s.hub.Broadcast(msg)
	m.IncSnapshot()
}

// PlayerSnapshot samples the first player entity.
func PlayerSnapshot(w *ecs.World) (Snapshot, bool) {
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return Snapshot{}, false
	}
	t, ok := ecs.Get(w, player, component.TransformComponent)
	if !ok {
		return Snapshot{}, false
	}
	snap := Snapshot{
		Tick:     w.Tick(),
		Position: [3]float64{t.Position.X(), t.Position.Y(), t.Position.Z()},
		Yaw:      t.Yaw,
		Pitch:    t.Pitch,
	}
	if motion, ok := ecs.Get(w, player, component.PlayerMotionComponent); ok {
		snap.Velocity = [3]float64{motion.Velocity.X(), motion.Velocity.Y(), motion.Velocity.Z()}
		snap.Grounded = motion.Grounded
	}
	if picker, ok := ecs.Get(w, player, component.PickerComponent); ok {
		snap.Held = picker.Held
	}
	if it, ok := ecs.Get(w, player, component.InteractorComponent); ok {
		snap.Target = it.Target
	}
	return snap, true
}
