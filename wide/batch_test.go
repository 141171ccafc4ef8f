package wide

import "testing"

func TestBatchPackedRoundTrip(t *testing.T) {
	data := make([]byte, 16*4)
	for i := range data {
		data[i] = byte(i * 3)
	}

	b := NewBatch(PRGB32, 16)
	b.SetPacked(data)
	b.Widen()

	for i := 0; i < 16; i++ {
		o := i * 4
		if b.R[i] != uint16(data[o]) || b.G[i] != uint16(data[o+1]) ||
			b.B[i] != uint16(data[o+2]) || b.A[i] != uint16(data[o+3]) {
			t.Fatalf("pixel %d widened to (%d,%d,%d,%d), want (%d,%d,%d,%d)",
				i, b.R[i], b.G[i], b.B[i], b.A[i], data[o], data[o+1], data[o+2], data[o+3])
		}
	}

	b.MarkWidened()
	got := b.Packed()
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("packed byte %d = %d, want %d", i, got[i], data[i])
		}
	}
}

func TestBatchWidenZeroFillsTail(t *testing.T) {
	data := []byte{255, 255, 255, 255, 200, 200, 200, 200}
	b := NewBatch(PRGB32, 2)
	b.SetPacked(data)
	b.Widen()
	for i := 2; i < MaxLanes; i++ {
		if b.R[i] != 0 || b.G[i] != 0 || b.B[i] != 0 || b.A[i] != 0 {
			t.Fatalf("lane %d not zero after widening a 2-pixel batch", i)
		}
	}
}

func TestBatchA8(t *testing.T) {
	data := []byte{10, 20, 30}
	b := NewBatch(A8, 3)
	b.SetPacked(data)
	b.Widen()
	for i, want := range data {
		if b.A[i] != uint16(want) {
			t.Errorf("A8 lane %d = %d, want %d", i, b.A[i], want)
		}
	}
	b.A = b.A.Add(SplatU16(1))
	b.MarkWidened()
	got := b.Packed()
	for i, orig := range data {
		if got[i] != orig+1 {
			t.Errorf("A8 packed %d = %d, want %d", i, got[i], orig+1)
		}
	}
}

func TestBatchAlphaOnly(t *testing.T) {
	data := []byte{0, 0, 0, 77, 0, 0, 0, 178}
	b := NewBatch(PRGB32, 2)
	b.SetPacked(data)
	a := b.Alpha()
	if a[0] != 77 || a[1] != 178 {
		t.Errorf("Alpha() = %d,%d, want 77,178", a[0], a[1])
	}
	if !b.Has(RepAlpha) {
		t.Error("RepAlpha not cached after Alpha()")
	}
	if b.Has(RepWidened) {
		t.Error("Alpha() should not materialize the full widened rep")
	}
}

func TestBatchResetInvalidates(t *testing.T) {
	b := NewBatch(PRGB32, 4)
	b.SetPacked(make([]byte, 16))
	b.SetImmutable()
	b.Reset(PRGB32, 8)
	if b.Has(RepPacked) || b.Has(RepWidened) || b.Has(RepAlpha) {
		t.Error("Reset left representations valid")
	}
	if b.Immutable() {
		t.Error("Reset left the batch immutable")
	}
	if b.Count() != 8 {
		t.Errorf("Count() = %d, want 8", b.Count())
	}
}

func TestBatchCopyFromClearsImmutable(t *testing.T) {
	src := NewBatch(PRGB32, 4)
	src.R = SplatU16(9)
	src.MarkWidened()
	src.SetImmutable()

	var dst PixelBatch
	dst.CopyFrom(src)
	if dst.Immutable() {
		t.Error("CopyFrom kept the immutable flag")
	}
	if dst.R != src.R {
		t.Error("CopyFrom did not copy channels")
	}
}

func TestBatchCountPanics(t *testing.T) {
	for _, n := range []int{0, -1, MaxLanes + 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewBatch(PRGB32, %d) did not panic", n)
				}
			}()
			NewBatch(PRGB32, n)
		}()
	}
}

func TestBatchWidenWithoutRepPanics(t *testing.T) {
	b := NewBatch(PRGB32, 4)
	defer func() {
		if recover() == nil {
			t.Error("Widen() on an empty batch did not panic")
		}
	}()
	b.Widen()
}
