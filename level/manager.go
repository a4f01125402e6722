package level

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GameState int

const (
	Playing GameState = iota
	Paused
	LevelEnd
	GameEnd
)

func (s GameState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case LevelEnd:
		return "level_end"
	case GameEnd:
		return "game_end"
	default:
		return "unknown"
	}
}

// StateOwner receives the game state change when a level ends.
type StateOwner interface {
	ChangeState(state GameState, m *Manager)
}

type Config struct {
	Name  string
	Final bool
}

// Manager relays level start and end to listeners and to the state owner.
type Manager struct {
	cfg   Config
	owner StateOwner
	log   *zap.SugaredLogger

	runID string
	ended bool

	onStart []func()
	onEnd   []func()
}

func NewManager(cfg Config, owner StateOwner, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{cfg: cfg, owner: owner, log: log}
}

func (m *Manager) Name() string { return m.cfg.Name }

func (m *Manager) Final() bool { return m.cfg.Final }

// RunID identifies the current play-through of the level. Empty before
// StartLevel.
func (m *Manager) RunID() string { return m.runID }

func (m *Manager) Ended() bool { return m.ended }

func (m *Manager) OnStart(fn func()) {
	if fn != nil {
		m.onStart = append(m.onStart, fn)
	}
}

func (m *Manager) OnEnd(fn func()) {
	if fn != nil {
		m.onEnd = append(m.onEnd, fn)
	}
}

func (m *Manager) StartLevel() {
	m.runID = uuid.NewString()
	m.ended = false
	m.log.Infow("level started", "level", m.cfg.Name, "run", m.runID)
	for _, fn := range m.onStart {
		fn()
	}
}

// EndLevel fires the end listeners and hands the next state to the owner.
// Calls after the first in a run are ignored.
func (m *Manager) EndLevel() {
	if m.ended {
		m.log.Debugw("level already ended", "level", m.cfg.Name, "run", m.runID)
		return
	}
	m.ended = true

	next := LevelEnd
	if m.cfg.Final {
		next = GameEnd
	}
	m.log.Infow("level ended", "level", m.cfg.Name, "run", m.runID, "next", next.String())
	for _, fn := range m.onEnd {
		fn()
	}
	if m.owner != nil {
		m.owner.ChangeState(next, m)
	}
}
