// Package blend implements the operator formula catalog of the compositor:
// Porter-Duff compositing operators and separable blend modes over
// premultiplied 8-bit channels.
//
// Every operator is described by an Info entry (required channel sets, mask
// application class, maximum batch width) and implemented as a kernel over
// wide channel lanes. All products of two 8-bit values are normalized with an
// exact division by 255 rounding to nearest, so results are bit-exact and
// reproducible.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Op identifies a compositing operator.
type Op uint8

const (
	Clear Op = iota // Result: 0
	SrcCopy
	DstCopy // no-op, destination kept
	SrcOver
	DstOver
	SrcIn
	DstIn
	SrcOut
	DstOut
	SrcAtop
	DstAtop
	Xor
	Plus
	Minus
	Modulate
	Multiply
	Screen
	Overlay
	Darken
	Lighten
	ColorDodge
	ColorBurn
	LinearBurn
	LinearLight
	PinLight
	HardLight
	SoftLight
	Difference
	Exclusion

	NumOps
)

// Info describes the static properties of one operator.
type Info struct {
	// NeedsSa and NeedsDa report which alpha channels the formula reads.
	// When one side's alpha is not tracked the same kernel evaluated with
	// that alpha fixed at 255 produces the reduced variant.
	NeedsSa bool
	NeedsDa bool

	// TypeA marks operators whose masked variant is obtained by
	// pre-multiplying the source (color and alpha) with the mask before
	// the unmasked formula runs. Operators without TypeA fold the mask in
	// afterwards by blending the result with the original destination.
	TypeA bool

	// MaxPixels is the baseline batch width for PRGB32 pixels. Non-linear
	// operators that need per-pixel division or square root only support
	// width 1 and go through the partial path for anything wider.
	MaxPixels uint8
}

// opInfo is indexed by Op. Width limits reflect kernel cost: 8 for the cheap
// linear kernels, 4 for the branchy per-lane ones, 1 for those needing
// division or square root.
var opInfo = [NumOps]Info{
	Clear:       {MaxPixels: 8},
	SrcCopy:     {MaxPixels: 8},
	DstCopy:     {MaxPixels: 8},
	SrcOver:     {NeedsSa: true, TypeA: true, MaxPixels: 8},
	DstOver:     {NeedsDa: true, TypeA: true, MaxPixels: 8},
	SrcIn:       {NeedsDa: true, MaxPixels: 8},
	DstIn:       {NeedsSa: true, MaxPixels: 8},
	SrcOut:      {NeedsDa: true, MaxPixels: 8},
	DstOut:      {NeedsSa: true, TypeA: true, MaxPixels: 8},
	SrcAtop:     {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 8},
	DstAtop:     {NeedsSa: true, NeedsDa: true, MaxPixels: 8},
	Xor:         {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 8},
	Plus:        {TypeA: true, MaxPixels: 8},
	Minus:       {NeedsSa: true, NeedsDa: true, MaxPixels: 4},
	Modulate:    {NeedsSa: true, NeedsDa: true, MaxPixels: 8},
	Multiply:    {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 8},
	Screen:      {TypeA: true, MaxPixels: 8},
	Overlay:     {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 4},
	Darken:      {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 8},
	Lighten:     {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 8},
	ColorDodge:  {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 1},
	ColorBurn:   {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 1},
	LinearBurn:  {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 8},
	LinearLight: {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 1},
	PinLight:    {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 4},
	HardLight:   {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 4},
	SoftLight:   {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 1},
	Difference:  {NeedsSa: true, NeedsDa: true, TypeA: true, MaxPixels: 4},
	Exclusion:   {NeedsSa: true, TypeA: true, MaxPixels: 4},
}

// Valid reports whether op is a known operator.
func (op Op) Valid() bool { return op < NumOps }

// Info returns the static descriptor of op.
func (op Op) Info() Info {
	if !op.Valid() {
		panic("blend: invalid operator")
	}
	return opInfo[op]
}

var opNames = [NumOps]string{
	"Clear", "SrcCopy", "DstCopy", "SrcOver", "DstOver", "SrcIn", "DstIn",
	"SrcOut", "DstOut", "SrcAtop", "DstAtop", "Xor", "Plus", "Minus",
	"Modulate", "Multiply", "Screen", "Overlay", "Darken", "Lighten",
	"ColorDodge", "ColorBurn", "LinearBurn", "LinearLight", "PinLight",
	"HardLight", "SoftLight", "Difference", "Exclusion",
}

func (op Op) String() string {
	if !op.Valid() {
		return "Op(?)"
	}
	return opNames[op]
}
