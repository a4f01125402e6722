package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/entity"
	"github.com/milk9111/gamearch/ecs/system"
	"github.com/milk9111/gamearch/level"
	"github.com/milk9111/gamearch/levels"
	"github.com/milk9111/gamearch/prefabs"
	"github.com/milk9111/gamearch/telemetry"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

// Game owns the world of the current level and the game state. It is the
// level manager's state owner.
type Game struct {
	frames int
	debug  bool
	log    *zap.SugaredLogger

	firstLevel string
	levelName  string
	nextLevel  string

	world   *ecs.World
	sched   *ecs.Scheduler
	input   *system.InputSystem
	physics *system.PhysicsSystem
	telem   *telemetry.System
	manager *level.Manager
	player  ecs.Entity

	state   level.GameState
	ui      *ebitenui.UI
	pending uiAction

	watcher *prefabs.Watcher
}

func NewGame(cfg Config, telem *telemetry.System, log *zap.SugaredLogger) (*Game, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	g := &Game{
		debug:      cfg.Debug,
		log:        log,
		firstLevel: cfg.Level,
		telem:      telem,
	}

	if cfg.Watch {
		dirs := []string{prefabs.DiskRoot, prefabs.DiskRoot + "/scripts"}
		w, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			log.Warnw("prefab watcher disabled", "dirs", dirs, "error", err)
		} else {
			g.watcher = w
			log.Infow("watching prefabs", "dirs", dirs)
		}
	}

	if err := g.loadLevel(cfg.Level); err != nil {
		return nil, err
	}
	return g, nil
}

// loadLevel replaces the world with a freshly built level and starts it.
func (g *Game) loadLevel(name string) error {
	lvl, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return fmt.Errorf("load level %q: %w", name, err)
	}

	world := ecs.NewWorld()
	input := system.NewInputSystem()
	physics := system.NewPhysicsSystem(system.DefaultGravity, g.log.Named("physics"))
	sched := ecs.NewScheduler(
		input,
		system.NewPlayerControllerSystem(physics),
		system.NewShootSystem(),
		system.NewInteractionSystem(physics),
		system.NewPickDropSystem(physics),
		system.NewHeldFollowSystem(),
		physics,
		system.NewLifetimeSystem(),
	)
	if g.telem != nil {
		g.telem.SetLevel(lvl.Name)
		sched.Add(g.telem)
	}

	manager := level.NewManager(level.Config{Name: lvl.Name, Final: lvl.Final}, g, g.log.Named("level"))
	manager.OnStart(func() {
		g.setState(level.Playing)
	})
	manager.OnEnd(func() {
		g.log.Infow("level summary", "level", lvl.Name, "ticks", world.Tick())
	})

	player, err := entity.LoadLevelToWorld(world, lvl, manager, g.log.Named("entity"))
	if err != nil {
		return err
	}

	g.world = world
	g.sched = sched
	g.input = input
	g.physics = physics
	g.manager = manager
	g.player = player
	g.levelName = lvl.Name
	g.nextLevel = lvl.Next

	manager.StartLevel()
	return nil
}

// ChangeState is called by the level manager when the level ends.
func (g *Game) ChangeState(state level.GameState, m *level.Manager) {
	if m != g.manager {
		return
	}
	g.setState(state)
}

func (g *Game) setState(state level.GameState) {
	if g.state == state {
		return
	}
	g.log.Debugw("game state", "from", g.state.String(), "to", state.String(), "level", g.levelName)
	g.state = state
	g.ui = NewStateUI(g, state)

	if state == level.Playing {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	if g.input != nil {
		g.input.ResetLook()
	}
}

func (g *Game) queueAction(a uiAction) {
	g.pending = a
}

func (g *Game) applyAction() error {
	action := g.pending
	g.pending = actionNone

	switch action {
	case actionResume:
		g.setState(level.Playing)
	case actionContinue:
		next := g.nextLevel
		if next == "" {
			next = g.firstLevel
		}
		if err := g.loadLevel(next); err != nil {
			g.log.Errorw("next level failed", "level", next, "error", err)
			return err
		}
	case actionRestart:
		if err := g.loadLevel(g.firstLevel); err != nil {
			g.log.Errorw("restart failed", "level", g.firstLevel, "error", err)
			return err
		}
	case actionQuit:
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Update() error {
	g.frames++
	g.reloadChanged()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		switch g.state {
		case level.Playing:
			g.setState(level.Paused)
		case level.Paused:
			g.setState(level.Playing)
		}
	}

	if g.state != level.Playing {
		if g.ui != nil {
			g.ui.Update()
		}
		return g.applyAction()
	}

	// Browsers and some window managers drop the capture; clicking takes it back.
	if ebiten.CursorMode() != ebiten.CursorModeCaptured && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		g.input.ResetLook()
		return nil
	}

	g.world.Step(g.sched, 1/float64(ebiten.TPS()))
	return nil
}

// reloadChanged applies prefab and script edits picked up by the watcher.
func (g *Game) reloadChanged() {
	if g.watcher == nil {
		return
	}
	changed, err := g.watcher.Poll()
	if err != nil {
		g.log.Warnw("prefab watcher error", "error", err)
	}
	for _, path := range changed {
		switch {
		case prefabs.IsScriptFile(path):
			n := entity.ReloadScripts(g.world, path)
			g.log.Infow("script reloaded", "script", prefabs.ScriptName(path), "entities", n)
		case prefabs.IsSpecFile(path) && prefabs.PrefabName(path) == entity.PlayerPrefab:
			if err := entity.ApplyPlayerTuning(g.world, g.player); err != nil {
				g.log.Warnw("player tuning reload failed", "error", err)
				continue
			}
			g.log.Infow("player tuning reloaded")
		case prefabs.IsSpecFile(path):
			g.log.Infow("prefab changed, applies on next level load", "prefab", prefabs.PrefabName(path))
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s    FPS: %.2f", g.levelName, ebiten.ActualFPS()))

	if g.debug {
		system.DrawPhysicsDebug(g.physics, g.world, screen)
		system.DrawPlayerStateDebug(g.world, screen, g.state.String())
	}

	if g.state == level.Playing {
		cx, cy := float64(baseWidth)/2, float64(baseHeight)/2
		ebitenutil.DebugPrintAt(screen, "+", int(cx)-3, int(cy)-8)
	}

	if g.ui != nil {
		g.ui.Draw(screen)
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
