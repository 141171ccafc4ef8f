package compose

import (
	"math"
	"sort"

	"github.com/gogpu/compose/wide"
)

// ExtendMode defines how a gradient extends beyond its defined bounds.
type ExtendMode int

const (
	// ExtendPad extends edge colors beyond bounds.
	ExtendPad ExtendMode = iota
	// ExtendRepeat repeats the gradient pattern.
	ExtendRepeat
	// ExtendReflect mirrors the gradient pattern.
	ExtendReflect
)

// ColorStop is a premultiplied color at a position in a gradient.
type ColorStop struct {
	Offset     float64 // position in gradient, 0.0 to 1.0
	R, G, B, A uint8   // premultiplied color at this position
}

// GradientSource produces a horizontal linear gradient along the span,
// running from span offset X0 to X1. Colors are resolved through a lookup
// table built once at construction, so fetching stays table-bound no matter
// how many stops the gradient has.
type GradientSource struct {
	x0, x1 float64
	extend ExtendMode
	lut    [256][4]uint8
}

const gradientLutSize = 256

// NewGradientSource builds a gradient between span offsets x0 and x1 from
// the given stops. Stops are sorted by offset; at least one is required.
func NewGradientSource(x0, x1 float64, extend ExtendMode, stops []ColorStop) *GradientSource {
	if len(stops) == 0 {
		panic("compose: gradient needs at least one color stop")
	}
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	g := &GradientSource{x0: x0, x1: x1, extend: extend}
	for i := 0; i < gradientLutSize; i++ {
		t := float64(i) / float64(gradientLutSize-1)
		g.lut[i] = resolveStops(sorted, t)
	}
	return g
}

// resolveStops interpolates the sorted stop list at position t.
func resolveStops(stops []ColorStop, t float64) [4]uint8 {
	first := stops[0]
	if t <= first.Offset {
		return [4]uint8{first.R, first.G, first.B, first.A}
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return [4]uint8{last.R, last.G, last.B, last.A}
	}
	for i := 1; i < len(stops); i++ {
		lo, hi := stops[i-1], stops[i]
		if t > hi.Offset {
			continue
		}
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return [4]uint8{hi.R, hi.G, hi.B, hi.A}
		}
		f := (t - lo.Offset) / span
		return [4]uint8{
			lerpU8(lo.R, hi.R, f),
			lerpU8(lo.G, hi.G, f),
			lerpU8(lo.B, hi.B, f),
			lerpU8(lo.A, hi.A, f),
		}
	}
	return [4]uint8{last.R, last.G, last.B, last.A}
}

func lerpU8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// applyExtend normalizes t to [0, 1] per the extend mode.
func applyExtend(t float64, mode ExtendMode) float64 {
	switch mode {
	case ExtendRepeat:
		t -= math.Floor(t)
		if t < 0 {
			t++
		}
	case ExtendReflect:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int(period)%2 == 1 {
			t = 1 - t
		}
	default:
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	return t
}

func (g *GradientSource) IsSolid() bool { return false }

// IsComplex reports true: gradient fetches resolve a table index per pixel,
// so the compositor limits the batch width.
func (g *GradientSource) IsComplex() bool { return true }

func (g *GradientSource) MaxPixels() int { return wide.MaxLanes }

// PixelAt returns the packed gradient color at span offset x.
func (g *GradientSource) PixelAt(x int) [4]uint8 {
	span := g.x1 - g.x0
	t := 0.5
	if span != 0 {
		t = (float64(x) - g.x0) / span
	}
	t = applyExtend(t, g.extend)
	return g.lut[int(t*float64(gradientLutSize-1)+0.5)]
}

func (g *GradientSource) Fetch(scratch *wide.PixelBatch, x, n int) *wide.PixelBatch {
	scratch.Reset(wide.PRGB32, n)
	var r, gg, b, a wide.U16x16
	for i := 0; i < n; i++ {
		px := g.PixelAt(x + i)
		r[i] = uint16(px[0])
		gg[i] = uint16(px[1])
		b[i] = uint16(px[2])
		a[i] = uint16(px[3])
	}
	scratch.R, scratch.G, scratch.B, scratch.A = r, gg, b, a
	scratch.MarkWidened()
	return scratch
}
