// Package mask implements the coverage-mask context of the compositor.
//
// A Context is scoped to one compiled iteration template. It holds either a
// compile-time-constant mask (fully opaque, or a single broadcast coverage
// value) together with precomputed solid fast-path coefficients, or a
// variable per-iteration mask stream reloaded from a coverage buffer.
//
// Init and Fini must be paired; double-init or fini-without-init is a
// programming error and panics.
package mask

import "github.com/gogpu/compose/wide"

// Mode selects how coverage is supplied to the compositor.
type Mode uint8

const (
	// None means no coverage mask; composition uses the unmasked formula.
	None Mode = iota
	// Opaque is a constant mask known to be 255 everywhere. Like None it
	// selects the unmasked formula, but producers may still rely on the
	// mask slot being materialized.
	Opaque
	// Constant is a single broadcast coverage value reused for the whole
	// span (a "CMask").
	Constant
	// Variable reloads a fresh mask from a coverage buffer every
	// iteration (a "VMask").
	Variable
)

func (m Mode) String() string {
	switch m {
	case None:
		return "None"
	case Opaque:
		return "Opaque"
	case Constant:
		return "Constant"
	case Variable:
		return "Variable"
	default:
		return "Mode(?)"
	}
}

// Context holds the mask state of one compiled iteration template.
// It is not safe for concurrent use; each compiled routine owns its own.
type Context struct {
	mode   Mode
	inited bool

	// Constant-mode state, derived once at configuration time. inv is an
	// explicit immutable derived value; it is never toggled back.
	value uint8
	vec   wide.U16x16
	inv   wide.U16x16

	// Variable-mode state.
	globalAlpha uint8
	coverage    []byte

	// Solid fast-path coefficients, populated by the orchestrator when the
	// source is a constant color and the operator/mask pair reduces.
	coeffs Coeffs
}

// Init initializes the context for the given mode. Calling Init on an
// already-initialized context is a programming error.
func (c *Context) Init(mode Mode) {
	if c.inited {
		panic("mask: double init")
	}
	*c = Context{mode: mode, inited: true, globalAlpha: 255}
	switch mode {
	case None, Opaque:
		c.value = 255
		c.vec = wide.SplatU16(255)
		c.inv = wide.SplatU16(0)
	}
}

// Fini releases the context. Calling Fini on an uninitialized context is a
// programming error.
func (c *Context) Fini() {
	if !c.inited {
		panic("mask: fini without init")
	}
	*c = Context{}
}

// Mode returns the configured mode.
func (c *Context) Mode() Mode { return c.mode }

// SetConstant installs the broadcast coverage value for Constant mode and
// derives the inverted mask once.
func (c *Context) SetConstant(value uint8) {
	c.check(Constant)
	c.value = value
	c.vec = wide.SplatU16(uint16(value))
	c.inv = wide.SplatU16(uint16(255 - value))
}

// Value returns the constant mask value (None/Opaque/Constant modes).
func (c *Context) Value() uint8 { return c.value }

// Vec returns the broadcast mask vector.
func (c *Context) Vec() wide.U16x16 { return c.vec }

// Inv returns the broadcast inverted mask vector (255 - m).
func (c *Context) Inv() wide.U16x16 { return c.inv }

// SetGlobalAlpha installs a scalar alpha multiplied into every loaded mask
// value in Variable mode.
func (c *Context) SetGlobalAlpha(a uint8) {
	c.check(Variable)
	c.globalAlpha = a
}

// SetCoverage installs the coverage buffer for the current span. The buffer
// must hold one byte per pixel of the span.
func (c *Context) SetCoverage(buf []byte) {
	c.check(Variable)
	c.coverage = buf
}

// Load reads n coverage values starting at span offset off, scaled by the
// global alpha. Lanes beyond n are zero.
func (c *Context) Load(off, n int) wide.U16x16 {
	c.check(Variable)
	var m wide.U16x16
	for i := 0; i < n; i++ {
		m[i] = uint16(c.coverage[off+i])
	}
	if c.globalAlpha != 255 {
		m = m.MulDiv255(wide.SplatU16(uint16(c.globalAlpha)))
	}
	return m
}

// SetCoeffs installs the precomputed solid fast-path coefficients.
func (c *Context) SetCoeffs(co Coeffs) {
	if !c.inited {
		panic("mask: context not initialized")
	}
	c.coeffs = co
}

// SolidCoeffs returns the installed coefficients, or nil when the general
// formula must run.
func (c *Context) SolidCoeffs() Coeffs { return c.coeffs }

func (c *Context) check(mode Mode) {
	if !c.inited {
		panic("mask: context not initialized")
	}
	if c.mode != mode {
		panic("mask: operation not valid in mode " + c.mode.String())
	}
}
