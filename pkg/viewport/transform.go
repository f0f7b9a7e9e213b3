package viewport

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// =============================================================================
// Affine - the pan/zoom transform
// =============================================================================

// Affine is a uniform scale followed by a translation: p' = Scale·p + Pan.
type Affine struct {
	Scale float64 `json:"scale"`
	Pan   r2.Vec  `json:"pan"`
}

// Apply maps a data-space point into local space.
func (a Affine) Apply(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(a.Scale, p), a.Pan)
}

// Invert maps a local-space point back into data space.
// A zero scale has no inverse and returns p unchanged.
func (a Affine) Invert(p r2.Vec) r2.Vec {
	if a.Scale == 0 {
		return p
	}
	return r2.Scale(1/a.Scale, r2.Sub(p, a.Pan))
}

// SVG returns the transform as an SVG transform attribute value.
func (a Affine) SVG() string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", num(a.Pan.X), num(a.Pan.Y), num(a.Scale))
}

func num(f float64) string {
	return fmt.Sprintf("%.4g", f)
}

// =============================================================================
// Matrix - the surface device transform
// =============================================================================

// Matrix is a 2-D affine matrix in SVG order:
//
//	x' = A·x + C·y + E
//	y' = B·x + D·y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Apply transforms p.
func (m Matrix) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Inverse returns the inverse matrix. ok is false when m is singular or has
// non-finite entries.
func (m Matrix) Inverse() (inv Matrix, ok bool) {
	for _, v := range []float64{m.A, m.B, m.C, m.D, m.E, m.F} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Identity(), false
		}
	}
	a := mat.NewDense(3, 3, []float64{
		m.A, m.C, m.E,
		m.B, m.D, m.F,
		0, 0, 1,
	})
	var r mat.Dense
	if err := r.Inverse(a); err != nil {
		return Identity(), false
	}
	return Matrix{
		A: r.At(0, 0), C: r.At(0, 1), E: r.At(0, 2),
		B: r.At(1, 0), D: r.At(1, 1), F: r.At(1, 2),
	}, true
}

// Surface is a rendering surface that can report its device transform
// (local → pointer space). ok is false while the surface is not ready.
type Surface interface {
	DeviceTransform() (m Matrix, ok bool)
}

// ToLocal converts a pointer-space point into the surface's local space.
// A nil surface, an unready surface, or a non-invertible transform leave the
// point unchanged.
func ToLocal(s Surface, p r2.Vec) r2.Vec {
	if s == nil {
		return p
	}
	m, ok := s.DeviceTransform()
	if !ok {
		return p
	}
	inv, ok := m.Inverse()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// ViewBox describes the local coordinate rectangle of a surface.
type ViewBox struct {
	MinX   float64 `json:"min_x"`
	MinY   float64 `json:"min_y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Fit returns the device transform that maps the view box onto a device
// rectangle of the given size with uniform scale, centered (the SVG
// "xMidYMid meet" rule).
func (vb ViewBox) Fit(width, height float64) (Matrix, bool) {
	return vb.FitCells(width, height, 1)
}

// FitCells is Fit for devices whose pixels are not square: aspect is the
// height of one device unit divided by its width (about 2 for terminal
// cells).
func (vb ViewBox) FitCells(width, height, aspect float64) (Matrix, bool) {
	if vb.Width <= 0 || vb.Height <= 0 || width <= 0 || height <= 0 || aspect <= 0 {
		return Identity(), false
	}
	k := math.Min(width/vb.Width, height*aspect/vb.Height)
	kx, ky := k, k/aspect
	ox := (width - vb.Width*kx) / 2
	oy := (height - vb.Height*ky) / 2
	return Matrix{A: kx, D: ky, E: ox - vb.MinX*kx, F: oy - vb.MinY*ky}, true
}
