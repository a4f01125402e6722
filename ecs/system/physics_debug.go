package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
	// debugZoom is pixels per world unit in the top-down view.
	debugZoom = 24.0
)

// DrawPhysicsDebug draws the physics space from above, centred on the player,
// with the player's gaze ray.
func DrawPhysicsDebug(ps *PhysicsSystem, w *ecs.World, screen *ebiten.Image) {
	if ps == nil || ps.space == nil || w == nil || screen == nil {
		return
	}

	bounds := screen.Bounds()
	drawer := &physicsDebugDrawer{
		screen:  screen,
		zoom:    debugZoom,
		originX: float64(bounds.Dx()) / 2,
		originY: float64(bounds.Dy()) / 2,
		ps:      ps,
		world:   w,
	}
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if ok {
		if tr, ok := ecs.Get(w, player, component.TransformComponent); ok {
			drawer.camX = tr.Position.X()
			drawer.camZ = tr.Position.Z()
		}
	}
	cp.DrawSpace(ps.space, drawer)

	if !ok {
		return
	}
	origin, dir, ok := cameraPose(w, player)
	if !ok {
		return
	}
	reach := 3.0
	if it, ok := ecs.Get(w, player, component.InteractorComponent); ok && it.Distance > 0 {
		reach = it.Distance
	}
	end := origin.Add(dir.Mul(reach))
	drawer.drawLine(cp.Vector{X: origin.X(), Y: origin.Z()}, cp.Vector{X: end.X(), Y: end.Z()}, cp.FColor{R: 1, G: 1, B: 0.2, A: 1})
}

// DrawPlayerStateDebug prints the player's controller state.
func DrawPlayerStateDebug(w *ecs.World, screen *ebiten.Image, state string) {
	if w == nil || screen == nil {
		return
	}
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	motion, ok := ecs.Get(w, player, component.PlayerMotionComponent)
	if !ok {
		return
	}
	tr, _ := ecs.Get(w, player, component.TransformComponent)
	held := "none"
	if picker, ok := ecs.Get(w, player, component.PickerComponent); ok && picker.Picked {
		held = ecs.Entity(picker.Held).String()
	}
	target := "none"
	if it, ok := ecs.Get(w, player, component.InteractorComponent); ok && it.Handler != nil {
		target = ecs.Entity(it.Target).String()
	}
	text := fmt.Sprintf("State: %s\nPos: %.2f %.2f %.2f\nYaw: %.1f Pitch: %.1f\nVelY: %.2f\nGrounded: %v\nHeld: %s\nTarget: %s",
		state, tr.Position.X(), tr.Position.Y(), tr.Position.Z(), tr.Yaw, motion.CamXRotation, motion.Velocity.Y(), motion.Grounded, held, target)
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

type physicsDebugDrawer struct {
	screen  *ebiten.Image
	camX    float64
	camZ    float64
	zoom    float64
	originX float64
	originY float64

	ps    *PhysicsSystem
	world *ecs.World
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, fill)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], fill)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2 / d.zoom
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

// ShapeColor tints shapes by what they are: highlighted selectables, held
// props, projectiles, characters and static geometry.
func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	e, ok := d.ps.shapeToEntity[shape]
	if !ok {
		return cp.FColor{R: 0.5, G: 0.5, B: 0.5, A: 0.8}
	}
	if hl, ok := ecs.Get(d.world, e, component.HighlightComponent); ok && hl.Active {
		return cp.FColor{R: 1, G: 0.8, B: 0.1, A: 1}
	}
	if ecs.Has(d.world, e, component.HeldComponent) {
		return cp.FColor{R: 0.3, G: 0.6, B: 1, A: 1}
	}
	if ecs.Has(d.world, e, component.ProjectileComponent) {
		return cp.FColor{R: 1, G: 0.3, B: 0.3, A: 1}
	}
	if info := d.ps.entities[e]; info != nil && info.kind == component.BodyCharacter {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	return cp.FColor{R: 0.1, G: 0.8, B: 0.1, A: 0.8}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), true)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

// toScreen maps the X/Z plane to the screen with +Z pointing up.
func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float64, float64) {
	return d.originX + (v.X-d.camX)*d.zoom, d.originY - (v.Y-d.camZ)*d.zoom
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
