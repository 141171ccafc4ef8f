package mask

import "github.com/gogpu/compose/wide"

// Coeffs is the tagged set of precomputed operands for the solid-source fast
// path. Construction only produces the variant whose fields are valid for
// the configured (operator, mask mode) pair, so there is no maybe-initialized
// scratch state. Each variant must reproduce the general formula bit-exactly
// with the constant substituted; combinations that cannot are left without
// coefficients and take the general path.
type Coeffs interface {
	coeffs()
}

// Fill replaces composition with a raw fill: SrcCopy with an opaque solid
// source under a fully opaque mask, or Clear. Pattern holds one packed pixel.
type Fill struct {
	Pattern []byte
}

// Prescaled is the TypeA reduction: the solid source already multiplied by
// the constant mask, hoisted out of the loop. The unmasked kernel consumes
// it directly. The batch is immutable; it aliases configuration-owned state.
type Prescaled struct {
	Src *wide.PixelBatch
}

// Lerp is the SrcCopy-with-mask reduction to an add term and a multiply
// term per channel: Dca' = div255(Add + Dca.InvM), where Add = Sca.m is kept
// un-normalized so a single rounding step remains.
type Lerp struct {
	AddR, AddG, AddB, AddA wide.U16x16
	InvM                   wide.U16x16
}

func (Fill) coeffs()      {}
func (Prescaled) coeffs() {}
func (Lerp) coeffs()      {}
