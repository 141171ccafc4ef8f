// Fast fixed-point helpers for 8-bit premultiplied channel arithmetic.
//
// div255 is the single normalization primitive of the whole compositor. It is
// exact: for all a, b in [0, 255], div255(a*b) equals round(a*b / 255). Any
// shortcut that deviates from it is only legal where the operand is already a
// correct 8-bit value (for example when the mask is fully opaque and no
// product needs renormalizing).
//
// References:
//   - Alpha blending without division: https://arxiv.org/abs/2202.02864
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// div255 normalizes a product of two 8-bit values back to 8-bit range,
// rounding to nearest. Exact for all x up to 255*255.
func div255(x uint32) uint32 {
	t := x + 128
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255 with exact rounding.
func mulDiv255(a, b uint8) uint8 {
	return uint8(div255(uint32(a) * uint32(b))) // #nosec G115
}

// lerp8 blends d toward s by weight m: div255(s*m + d*(255-m)).
// A single rounding step keeps the endpoints exact: lerp8(d, s, 0) == d and
// lerp8(d, s, 255) == s.
func lerp8(d, s, m uint8) uint8 {
	x := uint32(s)*uint32(m) + uint32(d)*uint32(255-m)
	return uint8(div255(x)) // #nosec G115
}

// addClamp adds two bytes saturating at 255.
func addClamp(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum) // #nosec G115
}

// subClamp subtracts b from a saturating at 0.
func subClamp(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}

// clamp255 clamps a float in [0, 1] scaled value to byte range.
func clamp255(x float64) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5) // #nosec G115
}

// epsilon guards the denominators of the non-linear operators. The value is
// an empirical tolerance in normalized 0..1 space, not a derived constant;
// changing it shifts last-bit rounding of ColorDodge/ColorBurn/SoftLight.
const epsilon = 0.001
