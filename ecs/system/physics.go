package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gamearch/common"
	"github.com/milk9111/gamearch/ecs"
	"github.com/milk9111/gamearch/ecs/component"
	"go.uber.org/zap"
)

const collisionTypeExtruded cp.CollisionType = 1

const (
	// DefaultGravity is the vertical acceleration applied to dynamic bodies.
	DefaultGravity = -9.81

	// stepHeight is how far a character may step up onto a ledge without
	// jumping.
	stepHeight      = 0.3
	verticalEpsilon = 1e-4
	// groundFriction damps planar motion of dynamic bodies resting on a top,
	// per second.
	groundFriction = 8.0
	defaultExtent  = 1.0

	// collisionSlop is the planar overlap the solver leaves in resting
	// contacts.
	collisionSlop = 0.01
)

// PhysicsSystem simulates an extruded world on a Chipmunk space. The space
// is the horizontal plane (world X maps to cp X, world Z to cp Y) and every
// shape spans a vertical range from its Transform's Y up to Y+Height.
// Chipmunk handles planar collision response; vertical motion is integrated
// here and resolved against the tops and bottoms of overlapping shapes.
//
// PhysicsSystem implements Physics for the player simulation.
type PhysicsSystem struct {
	space         *cp.Space
	gravity       float64
	handlersReady bool

	entities      map[ecs.Entity]*bodyInfo
	shapeToEntity map[*cp.Shape]ecs.Entity
	moves         map[ecs.Entity]mgl64.Vec3

	log *zap.SugaredLogger
}

type bodyInfo struct {
	kind   component.BodyKind
	body   *cp.Body
	shape  *cp.Shape
	filter cp.ShapeFilter

	// static shapes are attached to the space's static body, so their centre
	// is stored rather than read from the body.
	staticCenter cp.Vector

	width  float64
	depth  float64
	radius float64
	bottom float64
	top    float64
	held   bool

	// desired is the planar velocity a character asks for. It is applied in
	// the body's velocity phase so the contact solver clamps it before
	// positions integrate.
	desired cp.Vector
}

func NewPhysicsSystem(gravity float64, log *zap.SugaredLogger) *PhysicsSystem {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PhysicsSystem{
		space:         newSpace(),
		gravity:       gravity,
		entities:      make(map[ecs.Entity]*bodyInfo),
		shapeToEntity: make(map[*cp.Shape]ecs.Entity),
		moves:         make(map[ecs.Entity]mgl64.Vec3),
		log:           log,
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	space.SetCollisionSlop(collisionSlop)
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Move accumulates a displacement request for a character body. The planar
// part becomes the body's velocity for the next space step and is limited by
// contacts there, so it shows up in the position one step later. The vertical
// part is resolved against floors and ceilings right after the step.
func (ps *PhysicsSystem) Move(e ecs.Entity, delta mgl64.Vec3) {
	if ps == nil {
		return
	}
	ps.moves[e] = ps.moves[e].Add(delta)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	dt := w.DeltaTime()
	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.preStep(w, dt)
	if dt > 0 {
		ps.space.Step(dt)
	}
	ps.postStep(w, dt)
	clear(ps.moves)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	handler := ps.space.NewCollisionHandler(collisionTypeExtruded, collisionTypeExtruded)
	handler.UserData = ps
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a := sys.infoForShape(shapeA)
		b := sys.infoForShape(shapeB)
		if a == nil || b == nil {
			return true
		}
		// bodies stacked on or passing over each other don't collide in the
		// plane
		return verticalOverlap(a, b)
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) infoForShape(shape *cp.Shape) *bodyInfo {
	e, ok := ps.shapeToEntity[shape]
	if !ok {
		return nil
	}
	return ps.entities[e]
}

func verticalOverlap(a, b *bodyInfo) bool {
	if b.top <= a.bottom+a.stepTolerance() {
		return false
	}
	if a.top <= b.bottom+b.stepTolerance() {
		return false
	}
	return true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.PhysicsBodyComponent) {
			ps.removeBody(e, info)
		}
	}

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		if _, exists := ps.entities[e]; exists {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}

		info := ps.createBodyInfo(*transform, *bodyComp, layerFilter(w, e))
		ps.entities[e] = info
		ps.shapeToEntity[info.shape] = e
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp component.PhysicsBody, filter cp.ShapeFilter) *bodyInfo {
	width := bodyComp.Width
	depth := bodyComp.Depth
	radius := bodyComp.Radius
	height := bodyComp.Height
	if radius <= 0 && (width <= 0 || depth <= 0) {
		width = defaultExtent
		depth = defaultExtent
	}
	if height <= 0 {
		height = defaultExtent
	}

	center := cp.Vector{X: transform.Position.X(), Y: transform.Position.Z()}
	info := &bodyInfo{
		kind:   bodyComp.Kind,
		filter: filter,
		width:  width,
		depth:  depth,
		radius: radius,
		bottom: transform.Position.Y(),
		top:    transform.Position.Y() + height,
	}

	var shape *cp.Shape
	if bodyComp.Kind == component.BodyStatic {
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, center)
		} else {
			bb := cp.BB{L: center.X - width/2, B: center.Y - depth/2, R: center.X + width/2, T: center.Y + depth/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		info.body = ps.space.StaticBody
		info.staticCenter = center
	} else {
		mass := bodyComp.Mass
		if mass <= 0 {
			mass = 1
		}
		// bodies never rotate in the plane
		body := cp.NewBody(mass, cp.INFINITY)
		body.SetPosition(center)
		if bodyComp.Kind == component.BodyCharacter {
			body.SetVelocityUpdateFunc(func(b *cp.Body, _ cp.Vector, _, _ float64) {
				b.SetVelocityVector(info.desired)
			})
		}
		if radius > 0 {
			shape = cp.NewCircle(body, radius, cp.Vector{})
		} else {
			shape = cp.NewBox(body, width, depth, 0)
		}
		ps.space.AddBody(body)
		info.body = body
	}

	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypeExtruded)
	shape.SetFilter(filter)
	ps.space.AddShape(shape)
	info.shape = shape

	ps.log.Debugw("physics body created", "kind", bodyComp.Kind.String(), "x", center.X, "z", center.Y, "bottom", info.bottom, "top", info.top)
	return info
}

func (ps *PhysicsSystem) removeBody(e ecs.Entity, info *bodyInfo) {
	if info.shape != nil {
		ps.space.RemoveShape(info.shape)
		delete(ps.shapeToEntity, info.shape)
	}
	if info.kind != component.BodyStatic && info.body != nil {
		ps.space.RemoveBody(info.body)
	}
	delete(ps.entities, e)
	delete(ps.moves, e)
}

// layerFilter builds the shape filter for e from its CollisionLayer. A zero
// category means the default layer and a zero mask collides with everything.
func layerFilter(w *ecs.World, e ecs.Entity) cp.ShapeFilter {
	category := common.LayerDefault
	mask := common.LayerAll
	if layer, ok := ecs.Get(w, e, component.CollisionLayerComponent); ok {
		if layer.Category != 0 {
			category = layer.Category
		}
		if layer.Mask != 0 {
			mask = layer.Mask
		}
	}
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: uint(category), Mask: uint(mask)}
}

func queryFilter(mask uint32) cp.ShapeFilter {
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: uint(mask)}
}

func (ps *PhysicsSystem) preStep(w *ecs.World, dt float64) {
	for e, info := range ps.entities {
		if info.kind == component.BodyStatic {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok {
			continue
		}

		held := ecs.Has(w, e, component.HeldComponent)
		if held != info.held {
			info.held = held
			if held {
				info.shape.SetFilter(cp.SHAPE_FILTER_NONE)
			} else {
				info.shape.SetFilter(info.filter)
			}
		}
		if held {
			info.body.SetPosition(cp.Vector{X: transform.Position.X(), Y: transform.Position.Z()})
			info.body.SetVelocityVector(cp.Vector{})
			info.setBase(transform.Position.Y())
			continue
		}

		switch info.kind {
		case component.BodyCharacter:
			move := ps.moves[e]
			info.desired = cp.Vector{}
			if dt > 0 {
				info.desired = cp.Vector{X: move.X() / dt, Y: move.Z() / dt}
			}
		case component.BodyDynamic:
			proj, ok := ecs.Get(w, e, component.ProjectileComponent)
			if ok && !proj.Applied {
				imp := proj.Impulse
				info.body.ApplyImpulseAtWorldPoint(cp.Vector{X: imp.X(), Y: imp.Z()}, info.body.Position())
				bodyComp.VelocityY += imp.Y() / info.body.Mass()
				proj.Applied = true
			}
		}
	}
}

func (ps *PhysicsSystem) postStep(w *ecs.World, dt float64) {
	for e, info := range ps.entities {
		if info.kind == component.BodyStatic || info.held {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok {
			continue
		}

		p := info.body.Position()
		transform.Position[0] = p.X
		transform.Position[2] = p.Y

		switch info.kind {
		case component.BodyCharacter:
			y, _, _ := ps.resolveVertical(info, transform.Position.Y(), ps.moves[e].Y())
			transform.Position[1] = y
		case component.BodyDynamic:
			bodyComp.VelocityY += ps.gravity * bodyComp.GravityScale * dt
			y, landed, bumped := ps.resolveVertical(info, transform.Position.Y(), bodyComp.VelocityY*dt)
			transform.Position[1] = y
			if landed || bumped {
				bodyComp.VelocityY = 0
			}
			if landed {
				f := math.Max(0, 1-groundFriction*dt)
				info.body.SetVelocityVector(info.body.Velocity().Mult(f))
			}
		}
		info.setBase(transform.Position.Y())
	}
}

// resolveVertical moves a body's base from y by dy, stopping on the highest
// supporting top below it or under the lowest ceiling above it.
func (ps *PhysicsSystem) resolveVertical(info *bodyInfo, y, dy float64) (float64, bool, bool) {
	height := info.top - info.bottom
	target := y + dy
	switch {
	case dy < 0:
		if support, ok := ps.supportBelow(info, y); ok && target <= support {
			return support, true, false
		}
	case dy > 0:
		if ceiling, ok := ps.ceilingAbove(info, y+height); ok && target+height > ceiling {
			return math.Max(y, ceiling-height), false, true
		}
	}
	return target, false, false
}

func (ps *PhysicsSystem) supportBelow(info *bodyInfo, y float64) (float64, bool) {
	best := math.Inf(-1)
	found := false
	ps.eachPlanarNeighbour(info, func(other *bodyInfo) {
		if other.top <= y+info.stepTolerance() && other.top > best {
			best = other.top
			found = true
		}
	})
	return best, found
}

func (ps *PhysicsSystem) ceilingAbove(info *bodyInfo, top float64) (float64, bool) {
	best := math.Inf(1)
	found := false
	ps.eachPlanarNeighbour(info, func(other *bodyInfo) {
		if other.bottom >= top-verticalEpsilon && other.bottom < best {
			best = other.bottom
			found = true
		}
	})
	return best, found
}

// eachPlanarNeighbour calls fn for every other shape the body would collide
// with whose footprint overlaps the body's footprint.
func (ps *PhysicsSystem) eachPlanarNeighbour(info *bodyInfo, fn func(other *bodyInfo)) {
	filter := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: info.filter.Categories, Mask: info.filter.Mask}
	ps.space.BBQuery(info.planarBB(), filter, func(shape *cp.Shape, _ interface{}) {
		if shape == info.shape {
			return
		}
		other := ps.infoForShape(shape)
		if other == nil || other.held {
			return
		}
		if planarOverlap(info, other) {
			fn(other)
		}
	}, nil)
}

// CheckSphere reports whether a sphere overlaps any shape on mask.
func (ps *PhysicsSystem) CheckSphere(center mgl64.Vec3, radius float64, mask uint32) bool {
	if ps == nil || ps.space == nil {
		return false
	}
	bb := cp.BB{L: center.X() - radius, B: center.Z() - radius, R: center.X() + radius, T: center.Z() + radius}
	hit := false
	ps.space.BBQuery(bb, queryFilter(mask), func(shape *cp.Shape, _ interface{}) {
		if hit {
			return
		}
		if info := ps.infoForShape(shape); info != nil && info.sphereOverlap(center, radius) {
			hit = true
		}
	}, nil)
	return hit
}

// Raycast returns the nearest shape on mask along dir within maxDist. Shapes
// containing the origin are ignored.
func (ps *PhysicsSystem) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask uint32) (RaycastHit, bool) {
	if ps == nil || ps.space == nil || maxDist <= 0 || dir.Len() == 0 {
		return RaycastHit{}, false
	}
	dir = dir.Normalize()
	end := origin.Add(dir.Mul(maxDist))
	bb := cp.BB{
		L: math.Min(origin.X(), end.X()),
		B: math.Min(origin.Z(), end.Z()),
		R: math.Max(origin.X(), end.X()),
		T: math.Max(origin.Z(), end.Z()),
	}

	best := RaycastHit{Distance: math.Inf(1)}
	found := false
	ps.space.BBQuery(bb, queryFilter(mask), func(shape *cp.Shape, _ interface{}) {
		e, ok := ps.shapeToEntity[shape]
		if !ok {
			return
		}
		info := ps.entities[e]
		if info == nil {
			return
		}
		t, ok := info.rayHit(origin, dir, maxDist)
		if !ok || t >= best.Distance {
			return
		}
		best = RaycastHit{Entity: e, Point: origin.Add(dir.Mul(t)), Distance: t}
		found = true
	}, nil)
	if !found {
		return RaycastHit{}, false
	}
	return best, true
}

func (info *bodyInfo) stepTolerance() float64 {
	if info.kind == component.BodyCharacter {
		return stepHeight
	}
	return verticalEpsilon
}

func (info *bodyInfo) setBase(y float64) {
	height := info.top - info.bottom
	info.bottom = y
	info.top = y + height
}

func (info *bodyInfo) center() cp.Vector {
	if info.kind == component.BodyStatic {
		return info.staticCenter
	}
	return info.body.Position()
}

func (info *bodyInfo) planarBB() cp.BB {
	c := info.center()
	if info.radius > 0 {
		return cp.BB{L: c.X - info.radius, B: c.Y - info.radius, R: c.X + info.radius, T: c.Y + info.radius}
	}
	return cp.BB{L: c.X - info.width/2, B: c.Y - info.depth/2, R: c.X + info.width/2, T: c.Y + info.depth/2}
}

func planarOverlap(a, b *bodyInfo) bool {
	ca, cb := a.center(), b.center()
	switch {
	case a.radius > 0 && b.radius > 0:
		return ca.Distance(cb) < a.radius+b.radius
	case a.radius > 0:
		return circleBoxOverlap(ca, a.radius, b.planarBB())
	case b.radius > 0:
		return circleBoxOverlap(cb, b.radius, a.planarBB())
	default:
		return math.Abs(ca.X-cb.X) < (a.width+b.width)/2 && math.Abs(ca.Y-cb.Y) < (a.depth+b.depth)/2
	}
}

func circleBoxOverlap(c cp.Vector, r float64, bb cp.BB) bool {
	closest := cp.Vector{X: common.Clamp(c.X, bb.L, bb.R), Y: common.Clamp(c.Y, bb.B, bb.T)}
	return c.Distance(closest) < r
}

// sphereOverlap tests a sphere against the extruded shape using the closest
// point on the shape.
func (info *bodyInfo) sphereOverlap(center mgl64.Vec3, radius float64) bool {
	c := info.center()
	var dx, dz float64
	if info.radius > 0 {
		d := math.Hypot(center.X()-c.X, center.Z()-c.Y)
		dx = math.Max(0, d-info.radius)
	} else {
		dx = math.Max(0, math.Abs(center.X()-c.X)-info.width/2)
		dz = math.Max(0, math.Abs(center.Z()-c.Y)-info.depth/2)
	}
	var dy float64
	switch {
	case center.Y() < info.bottom:
		dy = info.bottom - center.Y()
	case center.Y() > info.top:
		dy = center.Y() - info.top
	}
	return dx*dx+dy*dy+dz*dz <= radius*radius
}

// rayHit returns the distance along the unit direction dir at which the ray
// enters the shape, if within maxDist.
func (info *bodyInfo) rayHit(origin, dir mgl64.Vec3, maxDist float64) (float64, bool) {
	if info.radius > 0 {
		return info.rayCylinder(origin, dir, maxDist)
	}
	c := info.center()
	lo := mgl64.Vec3{c.X - info.width/2, info.bottom, c.Y - info.depth/2}
	hi := mgl64.Vec3{c.X + info.width/2, info.top, c.Y + info.depth/2}
	return raySlab(origin, dir, lo, hi, maxDist)
}

func raySlab(origin, dir, lo, hi mgl64.Vec3, maxDist float64) (float64, bool) {
	inside := true
	for i := 0; i < 3; i++ {
		if origin[i] < lo[i] || origin[i] > hi[i] {
			inside = false
			break
		}
	}
	if inside {
		return 0, false
	}

	tmin := 0.0
	tmax := maxDist
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1.0 / dir[i]
		t1 := (lo[i] - origin[i]) * inv
		t2 := (hi[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

func (info *bodyInfo) rayCylinder(origin, dir mgl64.Vec3, maxDist float64) (float64, bool) {
	c := info.center()
	ox := origin.X() - c.X
	oz := origin.Z() - c.Y
	r2 := info.radius * info.radius
	if ox*ox+oz*oz <= r2 && origin.Y() >= info.bottom && origin.Y() <= info.top {
		return 0, false
	}

	best := math.Inf(1)
	a := dir.X()*dir.X() + dir.Z()*dir.Z()
	if a > 1e-12 {
		b := 2 * (ox*dir.X() + oz*dir.Z())
		cc := ox*ox + oz*oz - r2
		disc := b*b - 4*a*cc
		if disc >= 0 {
			t := (-b - math.Sqrt(disc)) / (2 * a)
			if t >= 0 {
				y := origin.Y() + dir.Y()*t
				if y >= info.bottom && y <= info.top {
					best = t
				}
			}
		}
	}
	if math.Abs(dir.Y()) > 1e-12 {
		for _, plane := range []float64{info.bottom, info.top} {
			t := (plane - origin.Y()) / dir.Y()
			if t < 0 || t >= best {
				continue
			}
			px := ox + dir.X()*t
			pz := oz + dir.Z()*t
			if px*px+pz*pz <= r2 {
				best = t
			}
		}
	}
	if best > maxDist {
		return 0, false
	}
	return best, true
}

// BodyBounds is the debug view of one physics shape.
type BodyBounds struct {
	Entity ecs.Entity
	Kind   component.BodyKind
	X, Z   float64
	Width  float64
	Depth  float64
	Radius float64
	Bottom float64
	Top    float64
	Held   bool
}

// ForEachBody calls fn with the current bounds of every shape in the space.
func (ps *PhysicsSystem) ForEachBody(fn func(BodyBounds)) {
	if ps == nil || fn == nil {
		return
	}
	for e, info := range ps.entities {
		c := info.center()
		fn(BodyBounds{
			Entity: e,
			Kind:   info.kind,
			X:      c.X,
			Z:      c.Y,
			Width:  info.width,
			Depth:  info.depth,
			Radius: info.radius,
			Bottom: info.bottom,
			Top:    info.top,
			Held:   info.held,
		})
	}
}
