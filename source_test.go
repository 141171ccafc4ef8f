package compose

import (
	"bytes"
	"testing"

	"github.com/gogpu/compose/wide"
)

func TestSolidSource(t *testing.T) {
	s := NewSolidSource(wide.PRGB32, 10, 20, 30, 40)
	if !s.IsSolid() || s.IsComplex() {
		t.Error("solid source misreports its kind")
	}
	if s.Opaque() {
		t.Error("alpha 40 reported as opaque")
	}
	if !bytes.Equal(s.Pixel(), []byte{10, 20, 30, 40}) {
		t.Errorf("Pixel() = %v", s.Pixel())
	}

	b := s.Fetch(nil, 123, 5)
	if !b.Immutable() {
		t.Error("solid fetch returned a mutable batch")
	}
	for i := 0; i < wide.MaxLanes; i++ {
		if b.R[i] != 10 || b.G[i] != 20 || b.B[i] != 30 || b.A[i] != 40 {
			t.Fatalf("lane %d not splatted: (%d,%d,%d,%d)", i, b.R[i], b.G[i], b.B[i], b.A[i])
		}
	}

	// Repeated fetches share the same batch.
	if s.Fetch(nil, 0, 1) != b {
		t.Error("solid fetch allocated a new batch")
	}
}

func TestSolidSourceA8(t *testing.T) {
	s := NewSolidSource(wide.A8, 0, 0, 0, 200)
	if !bytes.Equal(s.Pixel(), []byte{200}) {
		t.Errorf("A8 Pixel() = %v, want one alpha byte", s.Pixel())
	}
}

func TestBufferSourceFetch(t *testing.T) {
	pix := make([]byte, 10*4)
	for i := range pix {
		pix[i] = byte(i)
	}
	s := NewBufferSource(wide.PRGB32, pix)
	if s.IsSolid() || s.IsComplex() {
		t.Error("buffer source misreports its kind")
	}

	var scratch wide.PixelBatch
	b := s.Fetch(&scratch, 3, 4)
	b.Widen()
	for i := 0; i < 4; i++ {
		base := (3 + i) * 4
		if b.R[i] != uint16(pix[base]) || b.A[i] != uint16(pix[base+3]) {
			t.Fatalf("pixel %d fetched wrong bytes", i)
		}
	}
}

func TestBufferSourceBlit(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	s := NewBufferSource(wide.PRGB32, pix)
	dst := make([]byte, 8)
	s.Blit(dst, 1, 2)
	if !bytes.Equal(dst, pix[4:12]) {
		t.Errorf("Blit copied %v, want %v", dst, pix[4:12])
	}
}

func TestMemStorePartialWidth(t *testing.T) {
	b := wide.NewBatch(wide.PRGB32, 3)
	b.R = wide.SplatU16(1)
	b.G = wide.SplatU16(2)
	b.B = wide.SplatU16(3)
	b.A = wide.SplatU16(4)
	b.MarkWidened()

	dst := bytes.Repeat([]byte{0xee}, 5*4)
	memStore{}.Store(dst, b, 3)
	for i := 0; i < 3*4; i += 4 {
		if !bytes.Equal(dst[i:i+4], []byte{1, 2, 3, 4}) {
			t.Fatalf("pixel %d not stored", i/4)
		}
	}
	for i := 3 * 4; i < len(dst); i++ {
		if dst[i] != 0xee {
			t.Fatal("store wrote past the requested width")
		}
	}
}
