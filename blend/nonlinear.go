// Non-linear operators that need per-pixel division or square root. These
// are only defined for single-pixel batches; wider spans fall back to the
// width-1 path once per pixel. Denominators are clamped to epsilon before
// use, so no input can produce NaN or infinity.
package blend

import (
	"math"

	"github.com/gogpu/compose/wide"
)

// channelFunc computes one premultiplied color channel in normalized 0..1
// space. All four operands are premultiplied.
type channelFunc func(dc, sc, da, sa float64) float64

// nonLinear1 applies f to the single pixel in lane 0. The alpha result is
// the union Da + Sa - Sa.Da for every operator in this file.
func nonLinear1(d, s *wide.PixelBatch, f channelFunc) {
	d.Widen()
	s.Widen()
	da := float64(d.A[0]) / 255
	sa := float64(s.A[0]) / 255
	for _, ch := range [3]struct{ dc *uint16; sc uint16 }{{&d.R[0], s.R[0]}, {&d.G[0], s.G[0]}, {&d.B[0], s.B[0]}} {
		dc := float64(*ch.dc) / 255
		sc := float64(ch.sc) / 255
		*ch.dc = uint16(clamp255(f(dc, sc, da, sa)))
	}
	d.A[0] = uint16(clamp255(da + sa - sa*da))
	d.MarkWidened()
}

// kColorDodge brightens the destination to reflect the source.
// Dca' = min(Dca.Sa.Sa / max(Sa - Sca, eps), Sa.Da) + Sca.(1 - Da) + Dca.(1 - Sa)
func kColorDodge(d, s *wide.PixelBatch) {
	nonLinear1(d, s, func(dc, sc, da, sa float64) float64 {
		denom := sa - sc
		if denom < epsilon {
			denom = epsilon
		}
		v := dc * sa * sa / denom
		if lim := sa * da; v > lim {
			v = lim
		}
		return v + sc*(1-da) + dc*(1-sa)
	})
}

// kColorBurn darkens the destination to reflect the source.
// Dca' = Sa.Da - min(Sa.Da, (Da - Dca).Sa.Sa / max(Sca, eps)) + Sca.(1 - Da) + Dca.(1 - Sa)
func kColorBurn(d, s *wide.PixelBatch) {
	nonLinear1(d, s, func(dc, sc, da, sa float64) float64 {
		denom := sc
		if denom < epsilon {
			denom = epsilon
		}
		v := (da - dc) * sa * sa / denom
		if lim := sa * da; v > lim {
			v = lim
		}
		return sa*da - v + sc*(1-da) + dc*(1-sa)
	})
}

// kLinearLight burns or dodges linearly depending on the source.
// Dca' = min(max(Dca.Sa + 2.Sca.Da - Sa.Da, 0), Sa.Da) + Sca.(1 - Da) + Dca.(1 - Sa)
func kLinearLight(d, s *wide.PixelBatch) {
	nonLinear1(d, s, func(dc, sc, da, sa float64) float64 {
		v := dc*sa + 2*sc*da - sa*da
		if v < 0 {
			v = 0
		}
		if lim := sa * da; v > lim {
			v = lim
		}
		return v + sc*(1-da) + dc*(1-sa)
	})
}

// kSoftLight darkens or lightens softly depending on the source.
//
//	Dc = Dca / max(Da, eps)
//	if 2.Sca <= Sa:            B = Dc.(1 - Dc)
//	else if 4.Dc <= 1:         B = 4.Dc.(4.Dc.Dc + Dc - 4.Dc + 1) - Dc
//	else:                      B = sqrt(Dc) - Dc
//	Dca' = Dca + Sca.(1 - Da) + (2.Sca - Sa).Da.B
func kSoftLight(d, s *wide.PixelBatch) {
	nonLinear1(d, s, func(dc, sc, da, sa float64) float64 {
		e := da
		if e < epsilon {
			e = epsilon
		}
		c := dc / e
		t := 2*sc - sa
		var b float64
		switch {
		case t <= 0:
			b = c * (1 - c)
		case 4*c <= 1:
			b = 4*c*(4*c*c+c-4*c+1) - c
		default:
			b = math.Sqrt(c) - c
		}
		return dc + sc*(1-da) + t*e*b
	})
}
