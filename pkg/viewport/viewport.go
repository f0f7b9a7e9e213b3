package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Zoom limits and factors.
const (
	MinScale = 0.2
	MaxScale = 5.0

	WheelInFactor  = 1.1
	WheelOutFactor = 0.9
	StepInFactor   = 1.2
	StepOutFactor  = 0.8
)

// Target classifies what a pointer-down landed on.
type Target int

const (
	// TargetBackground is empty surface; it starts a drag.
	TargetBackground Target = iota
	// TargetNode is a node hit-shape; nodes handle their own clicks and never
	// start a drag.
	TargetNode
)

// Capturer routes all events of one pointer to the viewport while a drag is
// in progress, even outside the surface bounds.
type Capturer interface {
	SetPointerCapture(pointerID int) error
	ReleasePointerCapture(pointerID int) error
}

// PointerEvent is a pointer-down, pointer-move or pointer-up in pointer space.
type PointerEvent struct {
	PointerID int
	Point     r2.Vec
	Target    Target
}

// Viewport holds pan/zoom state and drag bookkeeping.
// The zero value is not usable; call New.
type Viewport struct {
	scale float64
	pan   r2.Vec

	dragging  bool
	last      r2.Vec
	pointerID int

	surface  Surface
	capturer Capturer
}

// New returns a viewport at scale 1 with no pan.
func New() *Viewport {
	return &Viewport{scale: 1}
}

// Attach sets the rendering surface used to convert pointer coordinates.
// A nil surface means pointer coordinates are already local.
func (v *Viewport) Attach(s Surface) { v.surface = s }

// SetCapturer sets the pointer capture target used during drags.
func (v *Viewport) SetCapturer(c Capturer) { v.capturer = c }

// Scale returns the current zoom factor.
func (v *Viewport) Scale() float64 { return v.scale }

// Pan returns the current pan offset in local units.
func (v *Viewport) Pan() r2.Vec { return v.pan }

// Dragging reports whether a drag is armed.
func (v *Viewport) Dragging() bool { return v.dragging }

// Transform returns the data → local transform.
func (v *Viewport) Transform() Affine {
	return Affine{Scale: v.scale, Pan: v.pan}
}

// Local converts a pointer-space point into local space.
func (v *Viewport) Local(p r2.Vec) r2.Vec {
	return ToLocal(v.surface, p)
}

// DataPoint converts a pointer-space point into data space.
func (v *Viewport) DataPoint(p r2.Vec) r2.Vec {
	return v.Transform().Invert(v.Local(p))
}

// =============================================================================
// Zoom
// =============================================================================

// Wheel applies one discrete wheel event: negative deltaY zooms in, positive
// zooms out, zero is ignored.
func (v *Viewport) Wheel(deltaY float64) {
	switch {
	case deltaY > 0:
		v.zoom(WheelOutFactor)
	case deltaY < 0:
		v.zoom(WheelInFactor)
	}
}

// ZoomIn applies the explicit zoom-in step.
func (v *Viewport) ZoomIn() { v.zoom(StepInFactor) }

// ZoomOut applies the explicit zoom-out step.
func (v *Viewport) ZoomOut() { v.zoom(StepOutFactor) }

// SetScale sets the scale, clamped to [MinScale, MaxScale]. Non-finite or
// non-positive values are ignored.
func (v *Viewport) SetScale(s float64) {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return
	}
	v.scale = clamp(s)
}

// SetPan sets the pan offset. Non-finite components are ignored.
func (v *Viewport) SetPan(p r2.Vec) {
	if !finite(p) {
		return
	}
	v.pan = p
}

// Focus pans so that the data-space point p is drawn at the local origin.
func (v *Viewport) Focus(p r2.Vec) {
	v.SetPan(r2.Scale(-v.scale, p))
}

// Reset restores scale 1 and zero pan and disarms any drag.
func (v *Viewport) Reset() {
	v.scale = 1
	v.pan = r2.Vec{}
	v.disarm()
}

func (v *Viewport) zoom(factor float64) {
	v.scale = clamp(v.scale * factor)
}

func clamp(s float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, s))
}

func finite(p r2.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// =============================================================================
// Drag
// =============================================================================

// PointerDown arms a drag when the event landed on the background.
// It reports whether dragging was armed. A press that re-arms an active drag
// releases the capture held for the previous pointer first.
func (v *Viewport) PointerDown(ev PointerEvent) bool {
	if ev.Target == TargetNode {
		return false
	}
	if v.dragging {
		v.release(v.pointerID)
	}
	v.last = v.Local(ev.Point)
	v.dragging = true
	v.pointerID = ev.PointerID
	if v.capturer != nil {
		_ = v.capturer.SetPointerCapture(ev.PointerID)
	}
	return true
}

// PointerMove pans by the local-space delta since the previous event while a
// drag is armed. It reports whether the pan changed.
func (v *Viewport) PointerMove(ev PointerEvent) bool {
	if !v.dragging {
		return false
	}
	p := v.Local(ev.Point)
	delta := r2.Sub(p, v.last)
	v.last = p
	if !finite(delta) || delta == (r2.Vec{}) {
		return false
	}
	v.pan = r2.Add(v.pan, delta)
	return true
}

// PointerUp disarms dragging and releases pointer capture. Calling it without
// an armed drag is a no-op.
func (v *Viewport) PointerUp(PointerEvent) {
	v.disarm()
}

// LostCapture disarms dragging after the surface lost pointer capture.
func (v *Viewport) LostCapture() {
	v.disarm()
}

func (v *Viewport) disarm() {
	if !v.dragging {
		return
	}
	v.dragging = false
	v.last = r2.Vec{}
	v.release(v.pointerID)
}

// release relinquishes capture; errors and panics from the capturer are
// swallowed.
func (v *Viewport) release(id int) {
	if v.capturer == nil {
		return
	}
	defer func() { _ = recover() }()
	_ = v.capturer.ReleasePointerCapture(id)
}
