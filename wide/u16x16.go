package wide

// MaxLanes is the lane width of U16x16 and the widest batch the compositor
// can process in one step.
const MaxLanes = 16

// U16x16 represents 16 uint16 values for SIMD-style operations.
// Designed for Go compiler auto-vectorization with fixed-size arrays.
type U16x16 [16]uint16

// SplatU16 creates U16x16 with all elements set to n.
func SplatU16(n uint16) U16x16 {
	var result U16x16
	for i := range result {
		result[i] = n
	}
	return result
}

// Add performs element-wise addition.
func (v U16x16) Add(other U16x16) U16x16 {
	var result U16x16
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

// Sub performs element-wise subtraction.
func (v U16x16) Sub(other U16x16) U16x16 {
	var result U16x16
	for i := range v {
		result[i] = v[i] - other[i]
	}
	return result
}

// Mul performs element-wise multiplication without normalization. Both
// inputs must be 8-bit values so the product fits a lane; pair with Div255
// or MulAddDiv255 to return to 8-bit range.
func (v U16x16) Mul(other U16x16) U16x16 {
	var result U16x16
	for i := range v {
		result[i] = v[i] * other[i]
	}
	return result
}

// AddClamp performs element-wise addition saturating at 255.
func (v U16x16) AddClamp(other U16x16) U16x16 {
	var result U16x16
	for i := range v {
		sum := v[i] + other[i]
		if sum > 255 {
			sum = 255
		}
		result[i] = sum
	}
	return result
}

// SubClamp performs element-wise subtraction saturating at 0.
func (v U16x16) SubClamp(other U16x16) U16x16 {
	var result U16x16
	for i := range v {
		if other[i] >= v[i] {
			result[i] = 0
		} else {
			result[i] = v[i] - other[i]
		}
	}
	return result
}

// Min returns the element-wise minimum.
func (v U16x16) Min(other U16x16) U16x16 {
	var result U16x16
	for i := range v {
		if v[i] < other[i] {
			result[i] = v[i]
		} else {
			result[i] = other[i]
		}
	}
	return result
}

// Max returns the element-wise maximum.
func (v U16x16) Max(other U16x16) U16x16 {
	var result U16x16
	for i := range v {
		if v[i] > other[i] {
			result[i] = v[i]
		} else {
			result[i] = other[i]
		}
	}
	return result
}

// Inv computes 255 - v for each element (inverse alpha).
// The result is only meaningful for lanes holding 8-bit values.
func (v U16x16) Inv() U16x16 {
	var result U16x16
	for i := range v {
		result[i] = 255 - v[i]
	}
	return result
}

// MulDiv255 performs div255(v * other) for each element.
// This is the core fixed-point operation of the compositor:
// both inputs must be 8-bit values and the result is again 8-bit.
func (v U16x16) MulDiv255(other U16x16) U16x16 {
	var result U16x16
	for i := range v {
		x := uint32(v[i]) * uint32(other[i])
		t := x + 128
		// Intentional narrowing - div255 of an 8-bit product fits in uint16.
		result[i] = uint16((t + (t >> 8)) >> 8) // #nosec G115
	}
	return result
}

// Div255 normalizes each lane holding a product of two 8-bit values back to
// 8-bit range, rounding to nearest. Bit-exact for all inputs up to 255*255.
func (v U16x16) Div255() U16x16 {
	var result U16x16
	for i := range v {
		t := uint32(v[i]) + 128
		result[i] = uint16((t + (t >> 8)) >> 8) // #nosec G115
	}
	return result
}

// Lerp blends v toward other using the per-lane weight m (0-255):
// result = div255(other*m + v*(255-m)). A single rounding step keeps the
// m=0 and m=255 endpoints exact.
func (v U16x16) Lerp(other, m U16x16) U16x16 {
	var result U16x16
	for i := range v {
		x := uint32(other[i])*uint32(m[i]) + uint32(v[i])*uint32(255-m[i])
		t := x + 128
		result[i] = uint16((t + (t >> 8)) >> 8) // #nosec G115
	}
	return result
}

// MulAddDiv255 computes div255(add + v*mul) per lane, accumulating in 32-bit
// before the single normalization step. This is the lerp form with the
// constant term hoisted: precomputing add = s*m and mul = 255-m reproduces
// Lerp bit-exactly.
func (v U16x16) MulAddDiv255(mul, add U16x16) U16x16 {
	var result U16x16
	for i := range v {
		x := uint32(add[i]) + uint32(v[i])*uint32(mul[i])
		t := x + 128
		result[i] = uint16((t + (t >> 8)) >> 8) // #nosec G115
	}
	return result
}

// Clamp clamps each element to [0, maxVal].
func (v U16x16) Clamp(maxVal uint16) U16x16 {
	var result U16x16
	for i := range v {
		if v[i] > maxVal {
			result[i] = maxVal
		} else {
			result[i] = v[i]
		}
	}
	return result
}

// ShiftLanes shifts the vector down by n lanes, discarding the lowest n
// elements and zero-filling the top. Used by the partial-batch protocol to
// rotate consumed mask lanes out of a prefetched mask vector.
func (v U16x16) ShiftLanes(n int) U16x16 {
	var result U16x16
	if n < 0 || n >= MaxLanes {
		return result
	}
	for i := 0; i < MaxLanes-n; i++ {
		result[i] = v[i+n]
	}
	return result
}
