package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

type Level struct {
	Name    string   `json:"name"`
	Final   bool     `json:"final"`
	Next    string   `json:"next,omitempty"`
	Spawn   Spawn    `json:"spawn"`
	Boxes   []Box    `json:"boxes"`
	Props   []Prop   `json:"props,omitempty"`
	Buttons []Button `json:"buttons,omitempty"`
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Spawn struct {
	Vec3
	Yaw float64 `json:"yaw"`
}

// Box is an axis-aligned block of static geometry given by two corners.
type Box struct {
	Min   Vec3   `json:"min"`
	Max   Vec3   `json:"max"`
	Layer string `json:"layer,omitempty"`
}

// Prop places a prefab (a pickable crate by default) with its base at Pos.
type Prop struct {
	Prefab string `json:"prefab,omitempty"`
	Pos    Vec3   `json:"pos"`
}

type ButtonKind string

const (
	ButtonHighlight ButtonKind = "highlight"
	ButtonScript    ButtonKind = "script"
	ButtonExit      ButtonKind = "exit"
)

type Button struct {
	Name   string     `json:"name"`
	Kind   ButtonKind `json:"kind"`
	Script string     `json:"script,omitempty"`
	Pos    Vec3       `json:"pos"`
}

func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	return &lvl, nil
}

// Validate checks the level for geometry and button mistakes.
func (l *Level) Validate() error {
	for i, b := range l.Boxes {
		if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z {
			return fmt.Errorf("box %d: max corner must exceed min corner", i)
		}
	}
	for _, b := range l.Buttons {
		switch b.Kind {
		case ButtonHighlight, ButtonExit:
		case ButtonScript:
			if strings.TrimSpace(b.Script) == "" {
				return fmt.Errorf("button %q: script button needs a script", b.Name)
			}
		default:
			return fmt.Errorf("button %q: unknown kind %q", b.Name, b.Kind)
		}
	}
	if !l.Final && l.Next == "" {
		return fmt.Errorf("non-final level needs a next level")
	}
	return nil
}
