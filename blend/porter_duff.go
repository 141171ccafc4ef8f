package blend

import "github.com/gogpu/compose/wide"

// WideFunc is the signature of a batch kernel. It reads the widened channels
// of d and s and writes the composed result into d's channels. Kernels never
// mutate s; masked variants that need a scaled source receive a scratch copy.
type WideFunc func(d, s *wide.PixelBatch)

// Porter-Duff kernels over premultiplied RGBA channels. The alpha channel
// follows the same law as color with Sca->Sa, Dca->Da unless noted.

// kClear writes transparent black.
// Dca' = 0
func kClear(d, s *wide.PixelBatch) {
	zero := wide.SplatU16(0)
	d.R, d.G, d.B, d.A = zero, zero, zero, zero
	d.MarkWidened()
}

// kSrcCopy replaces destination with source.
// Dca' = Sca
func kSrcCopy(d, s *wide.PixelBatch) {
	s.Widen()
	d.R, d.G, d.B, d.A = s.R, s.G, s.B, s.A
	d.MarkWidened()
}

// kSrcOver composites source over destination.
// Dca' = Sca + Dca.(1 - Sa)
func kSrcOver(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	invSA := s.A.Inv()
	d.R = s.R.AddClamp(d.R.MulDiv255(invSA))
	d.G = s.G.AddClamp(d.G.MulDiv255(invSA))
	d.B = s.B.AddClamp(d.B.MulDiv255(invSA))
	d.A = s.A.AddClamp(d.A.MulDiv255(invSA))
	d.MarkWidened()
}

// kDstOver composites destination over source.
// Dca' = Dca + Sca.(1 - Da)
func kDstOver(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	invDA := d.A.Inv()
	d.R = d.R.AddClamp(s.R.MulDiv255(invDA))
	d.G = d.G.AddClamp(s.G.MulDiv255(invDA))
	d.B = d.B.AddClamp(s.B.MulDiv255(invDA))
	d.A = d.A.AddClamp(s.A.MulDiv255(invDA))
	d.MarkWidened()
}

// kSrcIn shows source where destination is opaque.
// Dca' = Sca.Da
func kSrcIn(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	da := d.A
	d.R = s.R.MulDiv255(da)
	d.G = s.G.MulDiv255(da)
	d.B = s.B.MulDiv255(da)
	d.A = s.A.MulDiv255(da)
	d.MarkWidened()
}

// kDstIn shows destination where source is opaque.
// Dca' = Dca.Sa
func kDstIn(d, s *wide.PixelBatch) {
	d.Widen()
	sa := s.Alpha()
	d.R = d.R.MulDiv255(sa)
	d.G = d.G.MulDiv255(sa)
	d.B = d.B.MulDiv255(sa)
	d.A = d.A.MulDiv255(sa)
	d.MarkWidened()
}

// kSrcOut shows source where destination is transparent.
// Dca' = Sca.(1 - Da)
func kSrcOut(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	invDA := d.A.Inv()
	d.R = s.R.MulDiv255(invDA)
	d.G = s.G.MulDiv255(invDA)
	d.B = s.B.MulDiv255(invDA)
	d.A = s.A.MulDiv255(invDA)
	d.MarkWidened()
}

// kDstOut shows destination where source is transparent.
// Dca' = Dca.(1 - Sa)
func kDstOut(d, s *wide.PixelBatch) {
	d.Widen()
	invSA := s.Alpha().Inv()
	d.R = d.R.MulDiv255(invSA)
	d.G = d.G.MulDiv255(invSA)
	d.B = d.B.MulDiv255(invSA)
	d.A = d.A.MulDiv255(invSA)
	d.MarkWidened()
}

// kSrcAtop composites source over destination, keeping destination coverage.
// Dca' = Sca.Da + Dca.(1 - Sa)
func kSrcAtop(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	da := d.A
	invSA := s.A.Inv()
	d.R = s.R.MulDiv255(da).AddClamp(d.R.MulDiv255(invSA))
	d.G = s.G.MulDiv255(da).AddClamp(d.G.MulDiv255(invSA))
	d.B = s.B.MulDiv255(da).AddClamp(d.B.MulDiv255(invSA))
	d.A = s.A.MulDiv255(da).AddClamp(da.MulDiv255(invSA))
	d.MarkWidened()
}

// kDstAtop composites destination over source, keeping source coverage.
// Dca' = Sca.(1 - Da) + Dca.Sa
func kDstAtop(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	invDA := d.A.Inv()
	sa := s.A
	d.R = s.R.MulDiv255(invDA).AddClamp(d.R.MulDiv255(sa))
	d.G = s.G.MulDiv255(invDA).AddClamp(d.G.MulDiv255(sa))
	d.B = s.B.MulDiv255(invDA).AddClamp(d.B.MulDiv255(sa))
	d.A = s.A.MulDiv255(invDA).AddClamp(d.A.MulDiv255(sa))
	d.MarkWidened()
}

// kXor shows source and destination where they do not overlap.
// Dca' = Sca.(1 - Da) + Dca.(1 - Sa)
func kXor(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	invDA := d.A.Inv()
	invSA := s.A.Inv()
	d.R = s.R.MulDiv255(invDA).AddClamp(d.R.MulDiv255(invSA))
	d.G = s.G.MulDiv255(invDA).AddClamp(d.G.MulDiv255(invSA))
	d.B = s.B.MulDiv255(invDA).AddClamp(d.B.MulDiv255(invSA))
	d.A = s.A.MulDiv255(invDA).AddClamp(d.A.MulDiv255(invSA))
	d.MarkWidened()
}

// kPlus adds source and destination, saturating at 255.
// Dca' = Clamp(Dca + Sca)
func kPlus(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	d.R = d.R.AddClamp(s.R)
	d.G = d.G.AddClamp(s.G)
	d.B = d.B.AddClamp(s.B)
	d.A = d.A.AddClamp(s.A)
	d.MarkWidened()
}

// kMinus subtracts source from destination, restoring the source where the
// destination has no coverage.
// Dca' = Clamp(Dca - Sca) + Sca.(1 - Da)
// Da'  = Da + Sa.(1 - Da)
func kMinus(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	invDA := d.A.Inv()
	d.R = d.R.SubClamp(s.R).AddClamp(s.R.MulDiv255(invDA))
	d.G = d.G.SubClamp(s.G).AddClamp(s.G.MulDiv255(invDA))
	d.B = d.B.SubClamp(s.B).AddClamp(s.B.MulDiv255(invDA))
	d.A = d.A.AddClamp(s.A.MulDiv255(invDA))
	d.MarkWidened()
}

// kModulate multiplies source and destination.
// Dca' = Dca.Sca
func kModulate(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	d.R = d.R.MulDiv255(s.R)
	d.G = d.G.MulDiv255(s.G)
	d.B = d.B.MulDiv255(s.B)
	d.A = d.A.MulDiv255(s.A)
	d.MarkWidened()
}
