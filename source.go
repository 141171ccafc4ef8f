package compose

import (
	"github.com/gogpu/compose/wide"
)

// Source is the fetch contract the compositor consumes from pixel producers
// (solid colors, pattern samplers, buffer readers). Producers must honor the
// requested count exactly; the span boundary is expressed through n, so a
// fetch never reads outside the span.
type Source interface {
	// IsSolid reports whether the producer yields a single constant color.
	// Solid producers enable the precomputed fast paths.
	IsSolid() bool

	// IsComplex reports whether fetching is expensive enough that the
	// compositor should limit the batch width (e.g. transformed pattern
	// sampling).
	IsComplex() bool

	// MaxPixels returns the widest batch the producer can fetch.
	MaxPixels() int

	// Fetch produces n pixels starting at span offset x. The producer
	// either fills scratch and returns it, or returns a producer-owned
	// batch marked immutable when the result aliases a precomputed
	// constant. The returned batch may hold more lanes than n; only the
	// first n are meaningful.
	Fetch(scratch *wide.PixelBatch, x, n int) *wide.PixelBatch
}

// Blitter is an optional Source refinement for producers whose pixels can be
// copied directly into the destination without composition. SrcCopy with an
// opaque mask reduces to Blit.
type Blitter interface {
	Blit(dst []byte, x, n int)
}

// SolidSource produces a single constant premultiplied color. The splatted
// batch is computed once and shared across all fetches.
type SolidSource struct {
	format wide.Format
	pixel  [4]uint8
	batch  wide.PixelBatch
}

// NewSolidSource returns a producer for the premultiplied color r,g,b,a.
// For A8 only a is used.
func NewSolidSource(format wide.Format, r, g, b, a uint8) *SolidSource {
	s := &SolidSource{format: format, pixel: [4]uint8{r, g, b, a}}
	s.batch.Reset(format, wide.MaxLanes)
	s.batch.R = wide.SplatU16(uint16(r))
	s.batch.G = wide.SplatU16(uint16(g))
	s.batch.B = wide.SplatU16(uint16(b))
	s.batch.A = wide.SplatU16(uint16(a))
	s.batch.MarkWidened()
	s.batch.SetImmutable()
	return s
}

// Pixel returns the packed form of the solid color.
func (s *SolidSource) Pixel() []byte {
	if s.format == wide.A8 {
		return []byte{s.pixel[3]}
	}
	return []byte{s.pixel[0], s.pixel[1], s.pixel[2], s.pixel[3]}
}

// Opaque reports whether the solid color is fully opaque.
func (s *SolidSource) Opaque() bool { return s.pixel[3] == 255 }

func (s *SolidSource) IsSolid() bool   { return true }
func (s *SolidSource) IsComplex() bool { return false }
func (s *SolidSource) MaxPixels() int  { return wide.MaxLanes }

// Fetch returns the shared splatted batch; it is immutable and must not be
// written to.
func (s *SolidSource) Fetch(scratch *wide.PixelBatch, x, n int) *wide.PixelBatch {
	return &s.batch
}

// BufferSource reads pixels from a backing buffer, one packed pixel per span
// position. It implements Blitter, so SrcCopy spans degrade to block copies.
type BufferSource struct {
	format wide.Format
	pix    []byte
}

// NewBufferSource wraps pix, which must hold format-packed pixels for every
// span offset fetched.
func NewBufferSource(format wide.Format, pix []byte) *BufferSource {
	return &BufferSource{format: format, pix: pix}
}

func (s *BufferSource) IsSolid() bool   { return false }
func (s *BufferSource) IsComplex() bool { return false }
func (s *BufferSource) MaxPixels() int  { return wide.MaxLanes }

// Format returns the pixel format of the backing buffer.
func (s *BufferSource) Format() wide.Format { return s.format }

func (s *BufferSource) Fetch(scratch *wide.PixelBatch, x, n int) *wide.PixelBatch {
	bpp := s.format.BytesPerPixel()
	scratch.Reset(s.format, n)
	scratch.SetPacked(s.pix[x*bpp:])
	return scratch
}

func (s *BufferSource) Blit(dst []byte, x, n int) {
	bpp := s.format.BytesPerPixel()
	copy(dst[:n*bpp], s.pix[x*bpp:(x+n)*bpp])
}

// Store is the write-back contract. Implementations write exactly n pixels
// from the batch into dst and never touch bytes outside [0, n*bpp).
type Store interface {
	Store(dst []byte, b *wide.PixelBatch, n int)
}

// memStore is the default store primitive: a packed copy into the
// destination slice. Partial-width tails need no special casing because the
// slice bounds act as the store predicate.
type memStore struct{}

func (memStore) Store(dst []byte, b *wide.PixelBatch, n int) {
	bpp := b.Format().BytesPerPixel()
	copy(dst[:n*bpp], b.Packed()[:n*bpp])
}
