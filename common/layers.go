package common

import (
	"fmt"
	"strings"
)

// Collision layer bits. Layer masks in prefabs and levels are lists of these
// names.
const (
	LayerDefault uint32 = 1 << iota
	LayerGround
	LayerPlayer
	LayerInteractable
	LayerPickable
	LayerProjectile
)

const LayerAll uint32 = ^uint32(0)

var layerNames = map[string]uint32{
	"default":      LayerDefault,
	"ground":       LayerGround,
	"player":       LayerPlayer,
	"interactable": LayerInteractable,
	"pickable":     LayerPickable,
	"projectile":   LayerProjectile,
	"all":          LayerAll,
}

// LayerMask ORs the named layers together. An empty list yields 0.
func LayerMask(names ...string) (uint32, error) {
	var mask uint32
	for _, name := range names {
		bit, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown collision layer %q", name)
		}
		mask |= bit
	}
	return mask, nil
}

// LayerName returns the name of a single layer bit, or "" if bit is not a
// named layer.
func LayerName(bit uint32) string {
	for name, b := range layerNames {
		if b == bit && name != "all" {
			return name
		}
	}
	return ""
}
