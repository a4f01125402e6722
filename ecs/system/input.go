package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
)

const (
	stickDeadzone = 0.2
	// mouseSensitivity scales captured cursor deltas (pixels) into look axes.
	mouseSensitivity = 0.1
	// stickLookScale maps a fully deflected right stick to a look axis.
	stickLookScale = 1.5
)

// InputSystem samples keyboard, mouse and the first gamepad once per tick
// and writes the result to every Input component.
type InputSystem struct {
	lastX, lastY int
	primed       bool
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

// ResetLook discards the next cursor delta. Call it after the cursor mode
// changes so the jump in position is not read as a look.
func (i *InputSystem) ResetLook() {
	i.primed = false
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	moveX := axis(ebiten.KeyA, ebiten.KeyArrowLeft, ebiten.KeyD, ebiten.KeyArrowRight)
	moveY := axis(ebiten.KeyS, ebiten.KeyArrowDown, ebiten.KeyW, ebiten.KeyArrowUp)
	sprint := ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	fire1 := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	fire2 := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	interact := inpututil.IsKeyJustPressed(ebiten.KeyE)

	lookX, lookY := 0.0, 0.0
	cx, cy := ebiten.CursorPosition()
	if i.primed && ebiten.CursorMode() == ebiten.CursorModeCaptured {
		lookX = float64(cx-i.lastX) * mouseSensitivity
		// screen Y grows downwards; moving the mouse up is a positive look
		lookY = -float64(cy-i.lastY) * mouseSensitivity
	}
	i.lastX, i.lastY = cx, cy
	i.primed = true

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			moveX = lx
			moveY = -ly
		}

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if lookX == 0 && lookY == 0 && math.Hypot(rx, ry) > stickDeadzone {
			lookX = rx * stickLookScale
			lookY = -ry * stickLookScale
		}

		sprint = sprint || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftStick)
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		fire1 = fire1 || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		fire2 = fire2 || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
		interact = interact || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.Horizontal = moveX
		input.Vertical = moveY
		input.MouseX = lookX
		input.MouseY = lookY
		input.Sprint = sprint
		input.JumpPressed = jumpPressed
		input.Fire1Pressed = fire1
		input.Fire2Pressed = fire2
		input.InteractPressed = interact
	})
}

func axis(negA, negB, posA, posB ebiten.Key) float64 {
	v := 0.0
	if ebiten.IsKeyPressed(negA) || ebiten.IsKeyPressed(negB) {
		v -= 1
	}
	if ebiten.IsKeyPressed(posA) || ebiten.IsKeyPressed(posB) {
		v += 1
	}
	return v
}
