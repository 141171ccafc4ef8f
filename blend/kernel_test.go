package blend

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gogpu/compose/wide"
)

// refFunc is the scalar floating-point reference for one operator, computing
// a premultiplied channel in normalized 0..1 space.
type refFunc func(dc, sc, da, sa float64) float64

// refAlpha is the union law shared by every separable blend mode.
func refAlpha(da, sa float64) float64 { return da + sa - sa*da }

var refKernels = map[Op]struct {
	color refFunc
	alpha func(da, sa float64) float64
}{
	Clear:   {func(dc, sc, da, sa float64) float64 { return 0 }, func(da, sa float64) float64 { return 0 }},
	SrcCopy: {func(dc, sc, da, sa float64) float64 { return sc }, func(da, sa float64) float64 { return sa }},
	DstCopy: {func(dc, sc, da, sa float64) float64 { return dc }, func(da, sa float64) float64 { return da }},
	SrcOver: {func(dc, sc, da, sa float64) float64 { return sc + dc*(1-sa) }, refAlpha},
	DstOver: {func(dc, sc, da, sa float64) float64 { return dc + sc*(1-da) }, refAlpha},
	SrcIn:   {func(dc, sc, da, sa float64) float64 { return sc * da }, func(da, sa float64) float64 { return sa * da }},
	DstIn:   {func(dc, sc, da, sa float64) float64 { return dc * sa }, func(da, sa float64) float64 { return sa * da }},
	SrcOut:  {func(dc, sc, da, sa float64) float64 { return sc * (1 - da) }, func(da, sa float64) float64 { return sa * (1 - da) }},
	DstOut:  {func(dc, sc, da, sa float64) float64 { return dc * (1 - sa) }, func(da, sa float64) float64 { return da * (1 - sa) }},
	SrcAtop: {func(dc, sc, da, sa float64) float64 { return sc*da + dc*(1-sa) }, func(da, sa float64) float64 { return da }},
	DstAtop: {func(dc, sc, da, sa float64) float64 { return dc*sa + sc*(1-da) }, func(da, sa float64) float64 { return sa }},
	Xor: {func(dc, sc, da, sa float64) float64 { return sc*(1-da) + dc*(1-sa) },
		func(da, sa float64) float64 { return sa*(1-da) + da*(1-sa) }},
	Plus: {func(dc, sc, da, sa float64) float64 { return math.Min(dc+sc, 1) },
		func(da, sa float64) float64 { return math.Min(da+sa, 1) }},
	Minus: {func(dc, sc, da, sa float64) float64 { return math.Max(dc-sc, 0) + sc*(1-da) }, refAlpha},
	Modulate: {func(dc, sc, da, sa float64) float64 { return dc * sc },
		func(da, sa float64) float64 { return da * sa }},
	Multiply: {func(dc, sc, da, sa float64) float64 { return dc*sc + sc*(1-da) + dc*(1-sa) }, refAlpha},
	Screen:   {func(dc, sc, da, sa float64) float64 { return sc + dc*(1-sc) }, refAlpha},
	Darken: {func(dc, sc, da, sa float64) float64 {
		return math.Min(dc+sc*(1-da), sc+dc*(1-sa))
	}, refAlpha},
	Lighten: {func(dc, sc, da, sa float64) float64 {
		return math.Max(dc+sc*(1-da), sc+dc*(1-sa))
	}, refAlpha},
	LinearBurn: {func(dc, sc, da, sa float64) float64 {
		return math.Max(dc+sc-sa*da, 0)
	}, refAlpha},
	Difference: {func(dc, sc, da, sa float64) float64 {
		return dc + sc - 2*math.Min(sc*da, dc*sa)
	}, refAlpha},
	Exclusion: {func(dc, sc, da, sa float64) float64 {
		return dc + sc - 2*sc*dc
	}, refAlpha},
	HardLight: {func(dc, sc, da, sa float64) float64 {
		cross := dc*sa + sc*da - 2*sc*dc
		if 2*sc <= sa {
			return dc + sc - cross
		}
		return dc + sc + cross - sa*da
	}, refAlpha},
	Overlay: {func(dc, sc, da, sa float64) float64 {
		cross := dc*sa + sc*da - 2*sc*dc
		if 2*dc <= da {
			return dc + sc - cross
		}
		return dc + sc + cross - sa*da
	}, refAlpha},
	PinLight: {func(dc, sc, da, sa float64) float64 {
		x := dc + sc - sc*da
		y := dc + sc + sc*da - dc*sa
		if 2*sc <= sa {
			return math.Min(x, y)
		}
		return math.Max(x, y-da*sa)
	}, refAlpha},
}

// randomPremul fills a batch with random premultiplied pixels (channel <= alpha).
func randomPremul(rng *rand.Rand, n int) *wide.PixelBatch {
	b := wide.NewBatch(wide.PRGB32, n)
	data := make([]byte, n*4)
	for i := 0; i < n; i++ {
		a := rng.Intn(256)
		data[i*4+0] = byte(rng.Intn(a + 1))
		data[i*4+1] = byte(rng.Intn(a + 1))
		data[i*4+2] = byte(rng.Intn(a + 1))
		data[i*4+3] = byte(a)
	}
	b.SetPacked(data)
	return b
}

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// TestKernelsVsFloatReference runs every vectorizable operator against the
// scalar floating-point reference with a small tolerance for fixed-point
// rounding.
func TestKernelsVsFloatReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for op, ref := range refKernels {
		op, ref := op, ref
		t.Run(op.String(), func(t *testing.T) {
			for trial := 0; trial < 200; trial++ {
				d := randomPremul(rng, wide.MaxLanes)
				s := randomPremul(rng, wide.MaxLanes)
				d.Widen()
				s.Widen()
				d0 := *d
				Kernel(op, wide.PRGB32)(d, s)
				for i := 0; i < wide.MaxLanes; i++ {
					da := float64(d0.A[i]) / 255
					sa := float64(s.A[i]) / 255
					wantA := clampUnit(ref.alpha(da, sa)) * 255
					checkNear(t, op, "A", i, float64(d.A[i]), wantA)
					for ch, pair := range [3][2]uint16{
						{d0.R[i], s.R[i]}, {d0.G[i], s.G[i]}, {d0.B[i], s.B[i]},
					} {
						dc := float64(pair[0]) / 255
						sc := float64(pair[1]) / 255
						want := clampUnit(ref.color(dc, sc, da, sa)) * 255
						var got uint16
						switch ch {
						case 0:
							got = d.R[i]
						case 1:
							got = d.G[i]
						case 2:
							got = d.B[i]
						}
						checkNear(t, op, "RGB"[ch:ch+1], i, float64(got), want)
					}
				}
				if t.Failed() {
					return
				}
			}
		})
	}
}

func checkNear(t *testing.T, op Op, ch string, lane int, got, want float64) {
	t.Helper()
	// Each div255 in a kernel rounds once; the three-product cross term of
	// HardLight/Overlay accumulates the most.
	if math.Abs(got-want) > 3.0 {
		t.Errorf("%s lane %d channel %s: got %g, want %g", op, lane, ch, got, want)
	}
}

// TestNonLinearVsFloatReference runs the width-1 operators against their
// defining formulas.
func TestNonLinearVsFloatReference(t *testing.T) {
	refs := map[Op]refFunc{
		ColorDodge: func(dc, sc, da, sa float64) float64 {
			denom := math.Max(sa-sc, epsilon)
			return math.Min(dc*sa*sa/denom, sa*da) + sc*(1-da) + dc*(1-sa)
		},
		ColorBurn: func(dc, sc, da, sa float64) float64 {
			denom := math.Max(sc, epsilon)
			return sa*da - math.Min(sa*da, (da-dc)*sa*sa/denom) + sc*(1-da) + dc*(1-sa)
		},
		LinearLight: func(dc, sc, da, sa float64) float64 {
			return math.Min(math.Max(dc*sa+2*sc*da-sa*da, 0), sa*da) + sc*(1-da) + dc*(1-sa)
		},
		SoftLight: func(dc, sc, da, sa float64) float64 {
			e := math.Max(da, epsilon)
			c := dc / e
			tt := 2*sc - sa
			var b float64
			switch {
			case tt <= 0:
				b = c * (1 - c)
			case 4*c <= 1:
				b = 4*c*(4*c*c+c-4*c+1) - c
			default:
				b = math.Sqrt(c) - c
			}
			return dc + sc*(1-da) + tt*e*b
		},
	}
	rng := rand.New(rand.NewSource(7))
	for op, ref := range refs {
		op, ref := op, ref
		t.Run(op.String(), func(t *testing.T) {
			for trial := 0; trial < 2000; trial++ {
				d := randomPremul(rng, 1)
				s := randomPremul(rng, 1)
				d.Widen()
				s.Widen()
				d0 := *d
				Kernel(op, wide.PRGB32)(d, s)
				da := float64(d0.A[0]) / 255
				sa := float64(s.A[0]) / 255
				for ch, pair := range [3][2]uint16{
					{d0.R[0], s.R[0]}, {d0.G[0], s.G[0]}, {d0.B[0], s.B[0]},
				} {
					dc := float64(pair[0]) / 255
					sc := float64(pair[1]) / 255
					want := clampUnit(ref(dc, sc, da, sa)) * 255
					var got uint16
					switch ch {
					case 0:
						got = d.R[0]
					case 1:
						got = d.G[0]
					case 2:
						got = d.B[0]
					}
					if math.Abs(float64(got)-want) > 1.0 {
						t.Fatalf("%s channel %c: src=%v dst=%v got %d, want %g",
							op, "RGB"[ch], s.Packed(), d0.A, got, want)
					}
				}
			}
		})
	}
}

// TestTransparentSourceIsIdentity checks that a fully transparent source
// leaves the destination unchanged for every operator where that is the
// defined behavior.
func TestTransparentSourceIsIdentity(t *testing.T) {
	identityOps := []Op{
		SrcOver, DstOver, DstOut, Plus, Minus, Multiply, Screen, Overlay,
		Darken, Lighten, ColorDodge, ColorBurn, LinearBurn, LinearLight,
		PinLight, HardLight, SoftLight, Difference, Exclusion,
	}
	rng := rand.New(rand.NewSource(9))
	for _, op := range identityOps {
		n := int(op.Info().MaxPixels)
		d := randomPremul(rng, n)
		d.Widen()
		d0 := *d
		s := wide.NewBatch(wide.PRGB32, n)
		s.SetPacked(make([]byte, n*4))
		Kernel(op, wide.PRGB32)(d, s)
		for i := 0; i < n; i++ {
			if d.R[i] != d0.R[i] || d.G[i] != d0.G[i] || d.B[i] != d0.B[i] || d.A[i] != d0.A[i] {
				t.Errorf("%s: transparent source changed pixel %d: (%d,%d,%d,%d) -> (%d,%d,%d,%d)",
					op, i, d0.R[i], d0.G[i], d0.B[i], d0.A[i], d.R[i], d.G[i], d.B[i], d.A[i])
				break
			}
		}
	}
}

// TestMaskedEndpoints checks the two exactness guarantees of the masked
// variants: a 255 mask reproduces the unmasked result bit-exactly, and a 0
// mask leaves the destination untouched.
func TestMaskedEndpoints(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var scratch wide.PixelBatch
	for op := Op(0); op < NumOps; op++ {
		n := int(op.Info().MaxPixels)

		d1 := randomPremul(rng, n)
		s := randomPremul(rng, n)
		d1.Widen()
		s.Widen()
		d2 := wide.NewBatch(wide.PRGB32, n)
		d2.CopyFrom(d1)
		d0 := *d1

		Kernel(op, wide.PRGB32)(d1, s)
		Masked(op, d2, s, wide.SplatU16(255), &scratch)
		for i := 0; i < n; i++ {
			if d1.R[i] != d2.R[i] || d1.G[i] != d2.G[i] || d1.B[i] != d2.B[i] || d1.A[i] != d2.A[i] {
				t.Errorf("%s: mask 255 differs from unmasked at pixel %d", op, i)
				break
			}
		}

		d3 := wide.NewBatch(wide.PRGB32, n)
		d3.CopyFrom(&d0)
		Masked(op, d3, s, wide.SplatU16(0), &scratch)
		for i := 0; i < n; i++ {
			if d3.R[i] != d0.R[i] || d3.G[i] != d0.G[i] || d3.B[i] != d0.B[i] || d3.A[i] != d0.A[i] {
				t.Errorf("%s: mask 0 modified the destination at pixel %d", op, i)
				break
			}
		}
	}
}

// TestMaskedBlendsTowardUnmasked checks that a partial mask lands near the
// linear blend of destination and unmasked result. Exact for the fold-class
// operators; within rounding for the prescale class.
func TestMaskedBlendsTowardUnmasked(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	var scratch wide.PixelBatch
	for op := Op(0); op < NumOps; op++ {
		// ColorDodge and ColorBurn clamp their denominator to epsilon; a
		// scaled-down source can hit that clamp when the unscaled source
		// does not, so the blend property does not hold near sa == sc.
		if op == ColorDodge || op == ColorBurn {
			continue
		}
		n := int(op.Info().MaxPixels)
		for trial := 0; trial < 50; trial++ {
			m := uint16(rng.Intn(256))
			d := randomPremul(rng, n)
			s := randomPremul(rng, n)
			d.Widen()
			s.Widen()
			d0 := *d

			full := wide.NewBatch(wide.PRGB32, n)
			full.CopyFrom(d)
			Kernel(op, wide.PRGB32)(full, s)

			Masked(op, d, s, wide.SplatU16(m), &scratch)

			for i := 0; i < n; i++ {
				lanes := [][3]uint16{
					{d0.R[i], full.R[i], d.R[i]},
					{d0.G[i], full.G[i], d.G[i]},
					{d0.B[i], full.B[i], d.B[i]},
					{d0.A[i], full.A[i], d.A[i]},
				}
				for ch, l := range lanes {
					want := (float64(l[1])*float64(m) + float64(l[0])*float64(255-m)) / 255
					// Pre-scaling rounds every source channel before the
					// operator runs, so errors compound beyond a single
					// rounding step.
					if math.Abs(float64(l[2])-want) > 6.0 {
						t.Fatalf("%s m=%d pixel %d channel %d: got %d, want blend near %g (dst=%d full=%d)",
							op, m, i, ch, l[2], want, l[0], l[1])
					}
				}
			}
		}
	}
}

// TestA8ReductionMatchesColorAlpha checks that each operator's alpha-only
// kernel agrees with the alpha channel of its PRGB32 kernel.
func TestA8ReductionMatchesColorAlpha(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for op := Op(0); op < NumOps; op++ {
		n := int(op.Info().MaxPixels)
		for trial := 0; trial < 100; trial++ {
			d := randomPremul(rng, n)
			s := randomPremul(rng, n)

			da := wide.NewBatch(wide.A8, n)
			da.SetPacked(alphaBytes(d, n))
			sa := wide.NewBatch(wide.A8, n)
			sa.SetPacked(alphaBytes(s, n))

			Kernel(op, wide.PRGB32)(d, s)
			Kernel(op, wide.A8)(da, sa)

			for i := 0; i < n; i++ {
				diff := int(d.A[i]) - int(da.A[i])
				if diff < -1 || diff > 1 {
					t.Fatalf("%s pixel %d: PRGB32 alpha %d, A8 alpha %d", op, i, d.A[i], da.A[i])
				}
			}
		}
	}
}

// TestDarkenLightenComplement verifies min/max complementarity: the two
// operators pick opposite branches of the same candidate pair, so their sum
// equals SrcOver + DstOver exactly, and over opaque pixels that collapses to
// D + S per channel.
func TestDarkenLightenComplement(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	apply := func(op Op, d0, s *wide.PixelBatch) wide.PixelBatch {
		var d wide.PixelBatch
		d.CopyFrom(d0)
		Kernel(op, wide.PRGB32)(&d, s)
		d.Widen()
		return d
	}

	for trial := 0; trial < 100; trial++ {
		d0 := randomPremul(rng, wide.MaxLanes)
		s := randomPremul(rng, wide.MaxLanes)
		dark := apply(Darken, d0, s)
		light := apply(Lighten, d0, s)
		over := apply(SrcOver, d0, s)
		under := apply(DstOver, d0, s)
		for i := 0; i < wide.MaxLanes; i++ {
			pairs := [4][2]uint16{
				{dark.R[i] + light.R[i], over.R[i] + under.R[i]},
				{dark.G[i] + light.G[i], over.G[i] + under.G[i]},
				{dark.B[i] + light.B[i], over.B[i] + under.B[i]},
				{dark.A[i] + light.A[i], over.A[i] + under.A[i]},
			}
			for ch, p := range pairs {
				if p[0] != p[1] {
					t.Fatalf("lane %d channel %d: Darken+Lighten = %d, SrcOver+DstOver = %d",
						i, ch, p[0], p[1])
				}
			}
		}
	}

	// Opaque pixels: both candidates collapse to D and S respectively, so
	// the sum is exactly D + S.
	opaque := func() *wide.PixelBatch {
		b := wide.NewBatch(wide.PRGB32, wide.MaxLanes)
		data := make([]byte, wide.MaxLanes*4)
		for i := range data {
			data[i] = byte(rng.Intn(256))
		}
		for i := 3; i < len(data); i += 4 {
			data[i] = 255
		}
		b.SetPacked(data)
		return b
	}
	for trial := 0; trial < 100; trial++ {
		d0 := opaque()
		s := opaque()
		dark := apply(Darken, d0, s)
		light := apply(Lighten, d0, s)
		d0.Widen()
		s.Widen()
		for i := 0; i < wide.MaxLanes; i++ {
			pairs := [3][2]uint16{
				{dark.R[i] + light.R[i], d0.R[i] + s.R[i]},
				{dark.G[i] + light.G[i], d0.G[i] + s.G[i]},
				{dark.B[i] + light.B[i], d0.B[i] + s.B[i]},
			}
			for ch, p := range pairs {
				if p[0] != p[1] {
					t.Fatalf("opaque lane %d channel %d: Darken+Lighten = %d, D+S = %d",
						i, ch, p[0], p[1])
				}
			}
		}
	}
}

func alphaBytes(b *wide.PixelBatch, n int) []byte {
	out := make([]byte, n)
	p := b.Packed()
	for i := 0; i < n; i++ {
		out[i] = p[i*4+3]
	}
	return out
}
