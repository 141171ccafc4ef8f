package mask

import (
	"testing"

	"github.com/gogpu/compose/wide"
)

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	f()
}

func TestInitFiniLifecycle(t *testing.T) {
	var c Context
	c.Init(Constant)
	if c.Mode() != Constant {
		t.Errorf("Mode() = %v, want Constant", c.Mode())
	}
	c.Fini()

	// A finalized context can be reused.
	c.Init(Variable)
	if c.Mode() != Variable {
		t.Errorf("Mode() after reuse = %v, want Variable", c.Mode())
	}
	c.Fini()
}

func TestDoubleInitPanics(t *testing.T) {
	var c Context
	c.Init(None)
	mustPanic(t, "double Init", func() { c.Init(None) })
}

func TestFiniWithoutInitPanics(t *testing.T) {
	var c Context
	mustPanic(t, "Fini without Init", func() { c.Fini() })
}

func TestModeMismatchPanics(t *testing.T) {
	var c Context
	c.Init(Constant)
	mustPanic(t, "SetCoverage in Constant mode", func() { c.SetCoverage(nil) })
	mustPanic(t, "Load in Constant mode", func() { c.Load(0, 1) })
	c.Fini()

	var v Context
	v.Init(Variable)
	mustPanic(t, "SetConstant in Variable mode", func() { v.SetConstant(128) })
}

func TestOpaquePresets(t *testing.T) {
	for _, mode := range []Mode{None, Opaque} {
		var c Context
		c.Init(mode)
		if c.Value() != 255 {
			t.Errorf("%v: Value() = %d, want 255", mode, c.Value())
		}
		if c.Vec() != wide.SplatU16(255) {
			t.Errorf("%v: Vec() not splatted to 255", mode)
		}
		if c.Inv() != wide.SplatU16(0) {
			t.Errorf("%v: Inv() not zero", mode)
		}
	}
}

func TestSetConstantDerivesInverse(t *testing.T) {
	var c Context
	c.Init(Constant)
	c.SetConstant(100)
	if c.Value() != 100 {
		t.Errorf("Value() = %d, want 100", c.Value())
	}
	if c.Vec() != wide.SplatU16(100) {
		t.Error("Vec() not splatted to the constant")
	}
	if c.Inv() != wide.SplatU16(155) {
		t.Error("Inv() not derived as 255 - value")
	}
}

func TestLoad(t *testing.T) {
	var c Context
	c.Init(Variable)
	cov := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	c.SetCoverage(cov)

	m := c.Load(2, 4)
	for i := 0; i < 4; i++ {
		if m[i] != uint16(cov[2+i]) {
			t.Errorf("lane %d = %d, want %d", i, m[i], cov[2+i])
		}
	}
	for i := 4; i < wide.MaxLanes; i++ {
		if m[i] != 0 {
			t.Errorf("lane %d = %d, want 0 beyond the load width", i, m[i])
		}
	}
}

func TestLoadGlobalAlpha(t *testing.T) {
	var c Context
	c.Init(Variable)
	c.SetGlobalAlpha(128)
	c.SetCoverage([]byte{255, 128, 0})

	m := c.Load(0, 3)
	want := []uint16{128, 64, 0}
	for i, w := range want {
		if m[i] != w {
			t.Errorf("lane %d = %d, want %d", i, m[i], w)
		}
	}
}

func TestSolidCoeffs(t *testing.T) {
	var c Context
	c.Init(Constant)
	if c.SolidCoeffs() != nil {
		t.Error("fresh context has coefficients")
	}
	c.SetCoeffs(Fill{Pattern: []byte{1, 2, 3, 4}})
	if _, ok := c.SolidCoeffs().(Fill); !ok {
		t.Errorf("SolidCoeffs() = %T, want Fill", c.SolidCoeffs())
	}
	c.Fini()
	if c.SolidCoeffs() != nil {
		t.Error("Fini did not clear coefficients")
	}
}
