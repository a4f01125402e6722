package entity

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
	"github.com/milk9111/gamearch/prefabs"
	"go.uber.org/zap"
)

// Scripts define a global `handlers` map keyed by phase. Missing phases are
// skipped.
const selectDispatchScript = `
__handler := handlers[__phase]
if is_callable(__handler) {
	__handler(__engine)
}
`

// ScriptSelectable runs a tengo script for hover and select. Script errors are
// logged and never stop the game.
type ScriptSelectable struct {
	w      *ecs.World
	e      ecs.Entity
	script string
	ender  LevelEnder
	log    *zap.SugaredLogger

	compiled *tengo.Compiled
	state    *tengo.Map
}

func NewScriptSelectable(w *ecs.World, e ecs.Entity, script string, ender LevelEnder, log *zap.SugaredLogger) *ScriptSelectable {
	s := newScriptSelectable(w, e, script, ender, log)
	if err := s.Reload(); err != nil {
		s.log.Errorw("script load failed", "entity", e, "script", script, "error", err)
	}
	return s
}

func newScriptSelectable(w *ecs.World, e ecs.Entity, script string, ender LevelEnder, log *zap.SugaredLogger) *ScriptSelectable {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ScriptSelectable{
		w:      w,
		e:      e,
		script: script,
		ender:  ender,
		log:    log,
		state:  &tengo.Map{Value: map[string]tengo.Object{}},
	}
}

func (s *ScriptSelectable) Script() string { return s.script }

// Reload recompiles the script from prefabs. The script's state map survives.
func (s *ScriptSelectable) Reload() error {
	if strings.TrimSpace(s.script) == "" {
		return fmt.Errorf("no script set")
	}
	src, err := prefabs.LoadScript(s.script)
	if err != nil {
		return err
	}
	return s.compile(src)
}

func (s *ScriptSelectable) compile(src []byte) error {
	full := string(src) + "\n" + selectDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return err
	}
	s.compiled = compiled
	return nil
}

func (s *ScriptSelectable) HoverEnter() { s.run("hover_enter") }

func (s *ScriptSelectable) HoverExit() { s.run("hover_exit") }

func (s *ScriptSelectable) Select() { s.run("select") }

func (s *ScriptSelectable) run(phase string) {
	if s.compiled == nil {
		return
	}
	if err := s.compiled.Set("__phase", phase); err != nil {
		s.log.Errorw("script set phase", "entity", s.e, "error", err)
		return
	}
	if err := s.compiled.Set("__engine", s.engine()); err != nil {
		s.log.Errorw("script set engine", "entity", s.e, "error", err)
		return
	}
	if err := s.compiled.Run(); err != nil {
		s.log.Errorw("script error", "entity", s.e, "script", s.script, "phase", phase, "error", err)
	}
}

func (s *ScriptSelectable) engine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		s.log.Infow(strings.Join(parts, " "), "entity", s.e, "script", s.script)
		return tengo.UndefinedValue, nil
	}}

	values["end_level"] = &tengo.UserFunction{Name: "end_level", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.ender == nil {
			return tengo.FalseValue, nil
		}
		s.ender.EndLevel()
		return tengo.TrueValue, nil
	}}

	values["set_highlight"] = &tengo.UserFunction{Name: "set_highlight", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		setHighlight(s.w, s.e, !args[0].IsFalsy())
		return tengo.TrueValue, nil
	}}

	values["entity"] = &tengo.UserFunction{Name: "entity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(s.e)}, nil
	}}

	values["name"] = &tengo.UserFunction{Name: "name", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: buttonName(s.w, s.e)}, nil
	}}

	values["state"] = s.state

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := tengo.ToString(obj); ok {
		return s
	}
	return obj.String()
}

// ReloadScripts recompiles every scripted selectable using script.
func ReloadScripts(w *ecs.World, script string) int {
	if w == nil {
		return 0
	}
	want := prefabs.ScriptName(script)
	reloaded := 0
	ecs.ForEach(w, component.SelectableComponent.Kind(), func(e ecs.Entity, sel *component.Selectable) {
		ss, ok := sel.Handler.(*ScriptSelectable)
		if !ok || prefabs.ScriptName(ss.script) != want {
			return
		}
		if err := ss.Reload(); err != nil {
			ss.log.Errorw("script reload failed", "entity", e, "script", ss.script, "error", err)
			return
		}
		reloaded++
	})
	return reloaded
}
