package wide

// Rep identifies a materialized representation of a PixelBatch.
type Rep uint8

const (
	// RepPacked is the packed 8-bit byte layout (R,G,B,A per pixel for
	// PRGB32, one byte per pixel for A8).
	RepPacked Rep = 1 << iota
	// RepWidened is the widened 16-bit SoA channel layout.
	RepWidened
	// RepAlpha means the alpha lanes (the A channel vector) are valid,
	// independent of the color channels.
	RepAlpha
)

// PixelBatch describes a run of 1..16 pixels materialized in one or more
// numeric layouts. Consumers request a representation and the batch converts
// on demand, caching the conversion for the batch's lifetime (one loop
// iteration).
//
// A batch marked immutable aliases a producer-owned constant (for example a
// splatted solid color); callers must not mutate its channels in place and
// should copy into a scratch batch instead.
type PixelBatch struct {
	// R, G, B, A are the widened channel lanes, valid when RepWidened is
	// set. For A8 batches only A is meaningful. A alone is valid when
	// RepAlpha is set.
	R, G, B, A U16x16

	packed [MaxLanes * 4]byte

	format    Format
	count     int
	valid     Rep
	immutable bool
}

// NewBatch returns an empty batch for count pixels of the given format.
// Count must be in 1..MaxLanes; anything else is a programming error.
func NewBatch(format Format, count int) *PixelBatch {
	b := &PixelBatch{}
	b.Reset(format, count)
	return b
}

// Reset reinitializes the batch for a new run, invalidating all
// representations.
func (b *PixelBatch) Reset(format Format, count int) {
	if count < 1 || count > MaxLanes {
		panic("wide: batch count out of range")
	}
	b.format = format
	b.count = count
	b.valid = 0
	b.immutable = false
}

// Format returns the pixel format of the batch.
func (b *PixelBatch) Format() Format { return b.format }

// Count returns the number of pixels in the batch.
func (b *PixelBatch) Count() int { return b.count }

// Has reports whether the given representation is currently materialized.
func (b *PixelBatch) Has(rep Rep) bool { return b.valid&rep != 0 }

// SetImmutable marks the batch as an alias of a producer-owned constant.
func (b *PixelBatch) SetImmutable() { b.immutable = true }

// Immutable reports whether the batch aliases shared data.
func (b *PixelBatch) Immutable() bool { return b.immutable }

// SetPacked loads count pixels from data into the packed representation,
// invalidating all others. data must hold at least count*bpp bytes.
func (b *PixelBatch) SetPacked(data []byte) {
	n := b.count * b.format.BytesPerPixel()
	copy(b.packed[:n], data[:n])
	b.valid = RepPacked
}

// MarkWidened declares that the widened channels have been written directly
// (typically by a blend kernel) and all other representations are stale.
func (b *PixelBatch) MarkWidened() {
	b.valid = RepWidened | RepAlpha
}

// Packed materializes and returns the packed byte representation. The
// returned slice aliases batch-owned storage of length count*bpp.
func (b *PixelBatch) Packed() []byte {
	n := b.count * b.format.BytesPerPixel()
	if b.valid&RepPacked == 0 {
		b.pack()
	}
	return b.packed[:n]
}

// Widen materializes the widened 16-bit channel representation.
func (b *PixelBatch) Widen() {
	if b.valid&RepWidened != 0 {
		return
	}
	if b.valid&RepPacked == 0 {
		panic("wide: batch has no valid representation")
	}
	if b.format == A8 {
		var a U16x16
		for i := 0; i < b.count; i++ {
			a[i] = uint16(b.packed[i])
		}
		b.A = a
	} else {
		var r, g, bb, a U16x16
		for i := 0; i < b.count; i++ {
			o := i * 4
			r[i] = uint16(b.packed[o+0])
			g[i] = uint16(b.packed[o+1])
			bb[i] = uint16(b.packed[o+2])
			a[i] = uint16(b.packed[o+3])
		}
		b.R, b.G, b.B, b.A = r, g, bb, a
	}
	b.valid |= RepWidened | RepAlpha
}

// Alpha materializes and returns the alpha-only lane vector. Lanes beyond
// the batch count are zero.
func (b *PixelBatch) Alpha() U16x16 {
	if b.valid&RepAlpha != 0 {
		return b.A
	}
	if b.valid&RepPacked == 0 {
		panic("wide: batch has no valid representation")
	}
	var a U16x16
	if b.format == A8 {
		for i := 0; i < b.count; i++ {
			a[i] = uint16(b.packed[i])
		}
	} else {
		for i := 0; i < b.count; i++ {
			a[i] = uint16(b.packed[i*4+3])
		}
	}
	b.A = a
	b.valid |= RepAlpha
	return a
}

// CopyFrom makes b a mutable copy of src with the same materialized
// representations. Used to obtain a writable batch from an immutable alias.
func (b *PixelBatch) CopyFrom(src *PixelBatch) {
	*b = *src
	b.immutable = false
}

// pack converts the widened channels back to packed bytes. Channel values
// must already be in 0-255 range; kernels are responsible for clamping.
func (b *PixelBatch) pack() {
	if b.valid&RepWidened == 0 {
		panic("wide: batch has no valid representation")
	}
	if b.format == A8 {
		for i := 0; i < b.count; i++ {
			b.packed[i] = uint8(b.A[i]) // #nosec G115
		}
	} else {
		for i := 0; i < b.count; i++ {
			o := i * 4
			b.packed[o+0] = uint8(b.R[i]) // #nosec G115
			b.packed[o+1] = uint8(b.G[i]) // #nosec G115
			b.packed[o+2] = uint8(b.B[i]) // #nosec G115
			b.packed[o+3] = uint8(b.A[i]) // #nosec G115
		}
	}
	b.valid |= RepPacked
}
