// Alpha-only (A8) kernels. When the pixel stream carries no color, every
// operator collapses to its alpha law, so the ~25 operators reduce to a
// handful of distinct kernels selected through a reduction table.
package blend

import "github.com/gogpu/compose/wide"

// a8Law enumerates the distinct alpha laws the operator set reduces to.
type a8Law uint8

const (
	a8Zero   a8Law = iota // Da' = 0
	a8Src                 // Da' = Sa
	a8Dst                 // Da' = Da
	a8Union               // Da' = Sa + Da.(1 - Sa)
	a8Mul                 // Da' = Sa.Da
	a8SrcOut              // Da' = Sa.(1 - Da)
	a8DstOut              // Da' = Da.(1 - Sa)
	a8Xor                 // Da' = Sa.(1 - Da) + Da.(1 - Sa)
	a8Plus                // Da' = Clamp(Da + Sa)
)

// a8Reduce maps each operator to its alpha law. All separable blend modes
// share the union law: their color formulas differ but their alpha channel
// is always Sa + Da.(1 - Sa).
var a8Reduce = [NumOps]a8Law{
	Clear:       a8Zero,
	SrcCopy:     a8Src,
	DstCopy:     a8Dst,
	SrcOver:     a8Union,
	DstOver:     a8Union,
	SrcIn:       a8Mul,
	DstIn:       a8Mul,
	SrcOut:      a8SrcOut,
	DstOut:      a8DstOut,
	SrcAtop:     a8Dst,
	DstAtop:     a8Src,
	Xor:         a8Xor,
	Plus:        a8Plus,
	Minus:       a8Union,
	Modulate:    a8Mul,
	Multiply:    a8Union,
	Screen:      a8Union,
	Overlay:     a8Union,
	Darken:      a8Union,
	Lighten:     a8Union,
	ColorDodge:  a8Union,
	ColorBurn:   a8Union,
	LinearBurn:  a8Union,
	LinearLight: a8Union,
	PinLight:    a8Union,
	HardLight:   a8Union,
	SoftLight:   a8Union,
	Difference:  a8Union,
	Exclusion:   a8Union,
}

var a8Kernels = [...]WideFunc{
	a8Zero: func(d, s *wide.PixelBatch) {
		d.A = wide.SplatU16(0)
		d.MarkWidened()
	},
	a8Src: func(d, s *wide.PixelBatch) {
		d.A = s.Alpha()
		d.MarkWidened()
	},
	a8Dst: func(d, s *wide.PixelBatch) {
		d.Widen()
		d.MarkWidened()
	},
	a8Union: func(d, s *wide.PixelBatch) {
		d.Widen()
		sa := s.Alpha()
		d.A = sa.AddClamp(d.A.MulDiv255(sa.Inv()))
		d.MarkWidened()
	},
	a8Mul: func(d, s *wide.PixelBatch) {
		d.Widen()
		d.A = d.A.MulDiv255(s.Alpha())
		d.MarkWidened()
	},
	a8SrcOut: func(d, s *wide.PixelBatch) {
		d.Widen()
		d.A = s.Alpha().MulDiv255(d.A.Inv())
		d.MarkWidened()
	},
	a8DstOut: func(d, s *wide.PixelBatch) {
		d.Widen()
		d.A = d.A.MulDiv255(s.Alpha().Inv())
		d.MarkWidened()
	},
	a8Xor: func(d, s *wide.PixelBatch) {
		d.Widen()
		sa := s.Alpha()
		d.A = sa.MulDiv255(d.A.Inv()).AddClamp(d.A.MulDiv255(sa.Inv()))
		d.MarkWidened()
	},
	a8Plus: func(d, s *wide.PixelBatch) {
		d.Widen()
		d.A = d.A.AddClamp(s.Alpha())
		d.MarkWidened()
	},
}

// a8Kernel returns the alpha-law kernel for op.
func a8Kernel(op Op) WideFunc {
	return a8Kernels[a8Reduce[op]]
}
