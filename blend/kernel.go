package blend

import "github.com/gogpu/compose/wide"

// kDstCopy keeps the destination. The orchestrator never compiles a loop for
// DstCopy; the kernel exists so every table slot is populated.
func kDstCopy(d, s *wide.PixelBatch) {
	d.Widen()
	d.MarkWidened()
}

// wideKernels maps each operator to its PRGB32 batch kernel. Looked up once
// at configuration time; per-pixel dispatch never touches this table.
var wideKernels = [NumOps]WideFunc{
	Clear:       kClear,
	SrcCopy:     kSrcCopy,
	DstCopy:     kDstCopy,
	SrcOver:     kSrcOver,
	DstOver:     kDstOver,
	SrcIn:       kSrcIn,
	DstIn:       kDstIn,
	SrcOut:      kSrcOut,
	DstOut:      kDstOut,
	SrcAtop:     kSrcAtop,
	DstAtop:     kDstAtop,
	Xor:         kXor,
	Plus:        kPlus,
	Minus:       kMinus,
	Modulate:    kModulate,
	Multiply:    kMultiply,
	Screen:      kScreen,
	Overlay:     kOverlay,
	Darken:      kDarken,
	Lighten:     kLighten,
	ColorDodge:  kColorDodge,
	ColorBurn:   kColorBurn,
	LinearBurn:  kLinearBurn,
	LinearLight: kLinearLight,
	PinLight:    kPinLight,
	HardLight:   kHardLight,
	SoftLight:   kSoftLight,
	Difference:  kDifference,
	Exclusion:   kExclusion,
}

// Kernel returns the unmasked batch kernel for op in the given format.
func Kernel(op Op, format wide.Format) WideFunc {
	if !op.Valid() {
		panic("blend: invalid operator")
	}
	if format == wide.A8 {
		return a8Kernel(op)
	}
	return wideKernels[op]
}

// PrescaleSource copies src into dst and multiplies every channel by the
// per-lane mask m. This is the masked-variant transformation for TypeA
// operators: the scaled source enters the unmasked formula unchanged.
func PrescaleSource(dst, src *wide.PixelBatch, m wide.U16x16) {
	src.Widen()
	dst.CopyFrom(src)
	if dst.Format() == wide.A8 {
		dst.A = dst.A.MulDiv255(m)
	} else {
		dst.R = dst.R.MulDiv255(m)
		dst.G = dst.G.MulDiv255(m)
		dst.B = dst.B.MulDiv255(m)
		dst.A = dst.A.MulDiv255(m)
	}
	dst.MarkWidened()
}

// Masked applies op to d and s under the per-lane coverage mask m.
//
// TypeA operators pre-scale the source into scratch and run the unmasked
// kernel. All other operators run the unmasked kernel and fold the mask in
// afterwards by blending the result with the original destination:
// Dca' = R.m + Dca.(1 - m). Both transformations reproduce the unmasked
// result bit-exactly at m = 255 and leave the destination untouched at m = 0.
func Masked(op Op, d, s *wide.PixelBatch, m wide.U16x16, scratch *wide.PixelBatch) {
	k := Kernel(op, d.Format())
	if op.Info().TypeA {
		PrescaleSource(scratch, s, m)
		k(d, scratch)
		return
	}
	d.Widen()
	if d.Format() == wide.A8 {
		d0 := d.A
		k(d, s)
		d.A = d0.Lerp(d.A, m)
		d.MarkWidened()
		return
	}
	d0R, d0G, d0B, d0A := d.R, d.G, d.B, d.A
	k(d, s)
	d.R = d0R.Lerp(d.R, m)
	d.G = d0G.Lerp(d.G, m)
	d.B = d0B.Lerp(d.B, m)
	d.A = d0A.Lerp(d.A, m)
	d.MarkWidened()
}
