// Separable blend modes over premultiplied channels.
//
// Unlike a textbook implementation that unpremultiplies, applies the W3C
// channel function and premultiplies again, these kernels use the
// algebraically expanded premultiplied form, so no per-pixel division is
// needed for any vectorizable operator. The alpha channel of every mode in
// this file is the union Da + Sa.(1 - Sa.Da scaling), as in the W3C model.
package blend

import "github.com/gogpu/compose/wide"

// kMultiply multiplies source and destination.
// Dca' = Dca.(Sca + 1 - Sa) + Sca.(1 - Da)
func kMultiply(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	invDA := d.A.Inv()
	invSA := s.A.Inv()
	d.R = d.R.MulDiv255(s.R.Add(invSA)).AddClamp(s.R.MulDiv255(invDA))
	d.G = d.G.MulDiv255(s.G.Add(invSA)).AddClamp(s.G.MulDiv255(invDA))
	d.B = d.B.MulDiv255(s.B.Add(invSA)).AddClamp(s.B.MulDiv255(invDA))
	d.A = d.A.MulDiv255(s.A.Add(invSA)).AddClamp(s.A.MulDiv255(invDA))
	d.MarkWidened()
}

// kScreen lightens by inverting, multiplying and inverting again.
// Dca' = Sca + Dca.(1 - Sca)
func kScreen(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	d.R = s.R.AddClamp(d.R.MulDiv255(s.R.Inv()))
	d.G = s.G.AddClamp(d.G.MulDiv255(s.G.Inv()))
	d.B = s.B.AddClamp(d.B.MulDiv255(s.B.Inv()))
	d.A = s.A.AddClamp(d.A.MulDiv255(s.A.Inv()))
	d.MarkWidened()
}

// kDarken selects the darker composite per channel.
// Dca' = min(Dca + Sca.(1 - Da), Sca + Dca.(1 - Sa))
func kDarken(d, s *wide.PixelBatch) {
	minMaxKernel(d, s, true)
}

// kLighten selects the lighter composite per channel.
// Dca' = max(Dca + Sca.(1 - Da), Sca + Dca.(1 - Sa))
func kLighten(d, s *wide.PixelBatch) {
	minMaxKernel(d, s, false)
}

func minMaxKernel(d, s *wide.PixelBatch, useMin bool) {
	d.Widen()
	s.Widen()
	invDA := d.A.Inv()
	invSA := s.A.Inv()
	pick := func(x, y wide.U16x16) wide.U16x16 {
		if useMin {
			return x.Min(y)
		}
		return x.Max(y)
	}
	d.R = pick(d.R.Add(s.R.MulDiv255(invDA)), s.R.Add(d.R.MulDiv255(invSA))).Clamp(255)
	d.G = pick(d.G.Add(s.G.MulDiv255(invDA)), s.G.Add(d.G.MulDiv255(invSA))).Clamp(255)
	d.B = pick(d.B.Add(s.B.MulDiv255(invDA)), s.B.Add(d.B.MulDiv255(invSA))).Clamp(255)
	// Both arguments agree on alpha: Da + Sa.(1 - Da).
	d.A = d.A.Add(s.A.MulDiv255(invDA)).Clamp(255)
	d.MarkWidened()
}

// kLinearBurn darkens by summing and subtracting full coverage.
// Dca' = Dca + Sca - Sa.Da
func kLinearBurn(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	sada := s.A.MulDiv255(d.A)
	d.R = d.R.Add(s.R).SubClamp(sada).Clamp(255)
	d.G = d.G.Add(s.G).SubClamp(sada).Clamp(255)
	d.B = d.B.Add(s.B).SubClamp(sada).Clamp(255)
	d.A = d.A.Add(s.A).SubClamp(sada).Clamp(255)
	d.MarkWidened()
}

// kDifference subtracts the darker from the lighter channel.
// Dca' = Dca + Sca - 2.min(Sca.Da, Dca.Sa)
// Da'  = Da + Sa - Sa.Da
func kDifference(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	m := s.R.MulDiv255(d.A).Min(d.R.MulDiv255(s.A))
	d.R = d.R.Add(s.R).SubClamp(m.Add(m)).Clamp(255)
	m = s.G.MulDiv255(d.A).Min(d.G.MulDiv255(s.A))
	d.G = d.G.Add(s.G).SubClamp(m.Add(m)).Clamp(255)
	m = s.B.MulDiv255(d.A).Min(d.B.MulDiv255(s.A))
	d.B = d.B.Add(s.B).SubClamp(m.Add(m)).Clamp(255)
	sada := s.A.MulDiv255(d.A)
	d.A = d.A.Add(s.A).SubClamp(sada).Clamp(255)
	d.MarkWidened()
}

// kExclusion is Difference with lower contrast.
// Dca' = Dca + Sca - 2.Sca.Dca
// Da'  = Da + Sa - Sa.Da
func kExclusion(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	t := s.R.MulDiv255(d.R)
	d.R = d.R.Add(s.R).SubClamp(t.Add(t)).Clamp(255)
	t = s.G.MulDiv255(d.G)
	d.G = d.G.Add(s.G).SubClamp(t.Add(t)).Clamp(255)
	t = s.B.MulDiv255(d.B)
	d.B = d.B.Add(s.B).SubClamp(t.Add(t)).Clamp(255)
	sada := s.A.MulDiv255(d.A)
	d.A = d.A.Add(s.A).SubClamp(sada).Clamp(255)
	d.MarkWidened()
}

// kHardLight multiplies or screens depending on the source channel.
//
//	if 2.Sca <= Sa: Dca' = Dca + Sca - (Dca.Sa + Sca.Da - 2.Sca.Dca)
//	else:           Dca' = Dca + Sca + (Dca.Sa + Sca.Da - 2.Sca.Dca) - Sa.Da
//	Da' = Da + Sa - Sa.Da
func kHardLight(d, s *wide.PixelBatch) {
	hardLightKernel(d, s, false)
}

// kOverlay is HardLight with the layers swapped in the channel condition:
// the branch tests 2.Dca against Da instead of the source.
func kOverlay(d, s *wide.PixelBatch) {
	hardLightKernel(d, s, true)
}

func hardLightKernel(d, s *wide.PixelBatch, condOnDst bool) {
	d.Widen()
	s.Widen()
	n := d.Count()
	for _, ch := range [3]struct{ dc, sc *wide.U16x16 }{{&d.R, &s.R}, {&d.G, &s.G}, {&d.B, &s.B}} {
		for i := 0; i < n; i++ {
			dc := uint32((*ch.dc)[i])
			sc := uint32((*ch.sc)[i])
			da := uint32(d.A[i])
			sa := uint32(s.A[i])
			cross := div255(dc*sa) + div255(sc*da) - 2*div255(sc*dc)
			var v int32
			if (condOnDst && 2*dc <= da) || (!condOnDst && 2*sc <= sa) {
				v = int32(dc+sc) - int32(cross)
			} else {
				v = int32(dc+sc+cross) - int32(div255(sa*da))
			}
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			(*ch.dc)[i] = uint16(v)
		}
	}
	sada := s.A.MulDiv255(d.A)
	d.A = d.A.Add(s.A).SubClamp(sada).Clamp(255)
	d.MarkWidened()
}

// kPinLight replaces channels depending on source brightness.
//
//	if 2.Sca <= Sa: Dca' = min(Dca + Sca - Sca.Da, Dca + Sca + Sca.Da - Dca.Sa)
//	else:           Dca' = max(Dca + Sca - Sca.Da, Dca + Sca + Sca.Da - Dca.Sa - Da.Sa)
//	Da' = Da + Sa.(1 - Da)
func kPinLight(d, s *wide.PixelBatch) {
	d.Widen()
	s.Widen()
	n := d.Count()
	for _, ch := range [3]struct{ dc, sc *wide.U16x16 }{{&d.R, &s.R}, {&d.G, &s.G}, {&d.B, &s.B}} {
		for i := 0; i < n; i++ {
			dc := int32((*ch.dc)[i])
			sc := int32((*ch.sc)[i])
			da := uint32(d.A[i])
			sa := uint32(s.A[i])
			scda := int32(div255(uint32(sc) * da))
			dcsa := int32(div255(uint32(dc) * sa))
			x := dc + sc - scda
			y := dc + sc + scda - dcsa
			var v int32
			if 2*sc <= int32(sa) {
				if y < x {
					x = y
				}
				v = x
			} else {
				y -= int32(div255(da * sa))
				if y > x {
					x = y
				}
				v = x
			}
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			(*ch.dc)[i] = uint16(v)
		}
	}
	invDA := d.A.Inv()
	d.A = d.A.Add(s.A.MulDiv255(invDA)).Clamp(255)
	d.MarkWidened()
}
