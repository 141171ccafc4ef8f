package compose

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/compose/blend"
	"github.com/gogpu/compose/looper"
	"github.com/gogpu/compose/mask"
	"github.com/gogpu/compose/wide"
)

// ErrUnsupported is returned by Compile for configurations the compositor
// cannot express, wrapped with the offending detail.
var ErrUnsupported = errors.New("unsupported composition")

// Config describes one composition routine: the operator, the pixel format
// of the destination, the pixel producer and how coverage is supplied.
type Config struct {
	Op     blend.Op
	Format wide.Format

	// Source produces the pixels composed onto the destination. It may be
	// nil for operators that ignore the source (Clear, DstCopy).
	Source Source

	// MaskMode selects the coverage regime. The zero value is mask.None.
	MaskMode mask.Mode

	// MaskValue is the broadcast coverage for mask.Constant.
	MaskValue uint8

	// GlobalAlpha scales every coverage value in mask.Variable. Zero means
	// fully opaque; use a Constant mask of 0 for an explicit no-op.
	GlobalAlpha uint8

	// Granularity restricts Variable-mask iteration to multiples of the
	// given run length, with sub-unit tails going through the partial
	// protocol. Zero or one disables it.
	Granularity int

	// AlignSpans requests a scalar prologue so the wide body starts at a
	// batch-aligned destination offset.
	AlignSpans bool

	// OpaqueDest declares that every destination pixel the routine will
	// touch is fully opaque (alpha 255). Operators whose formulas read the
	// destination alpha then reduce to cheaper equivalents. Composing onto
	// a non-opaque pixel with such a routine yields the reduced operator's
	// result instead.
	OpaqueDest bool
}

// Routine is a compiled composition loop. It is not safe for concurrent use;
// call Clone to obtain an independent routine sharing the compiled
// configuration.
type Routine struct {
	op     blend.Op
	format wide.Format
	bpp    int
	source Source
	kernel blend.WideFunc
	mctx   mask.Context
	loop   looper.Config
	store  Store

	nop  bool
	blit Blitter

	partial *looper.Partial

	dstB     wide.PixelBatch
	srcB     wide.PixelBatch
	scratchB wide.PixelBatch
}

// Compile builds a routine for cfg. The operator/mask pair is simplified
// where the result is provably identical: DstCopy and zero constant masks
// become no-ops, a 255 constant mask compiles as unmasked, operators with a
// pinned source or destination alpha reduce to cheaper equivalents (SrcOver
// of an opaque solid source compiles as SrcCopy), and solid-source fast
// paths are precomputed here so the per-pixel loop never re-derives them.
func Compile(cfg Config) (*Routine, error) {
	if !cfg.Op.Valid() {
		return nil, fmt.Errorf("%w: operator %d", ErrUnsupported, cfg.Op)
	}
	if cfg.Format != wide.PRGB32 && cfg.Format != wide.A8 {
		return nil, fmt.Errorf("%w: format %d", ErrUnsupported, cfg.Format)
	}
	if cfg.Granularity != 0 && cfg.MaskMode != mask.Variable {
		return nil, fmt.Errorf("compose: granularity requires a variable mask")
	}
	if cfg.Granularity < 0 || cfg.Granularity > wide.MaxLanes {
		return nil, fmt.Errorf("%w: granularity %d", ErrUnsupported, cfg.Granularity)
	}

	op := cfg.Op
	mode := cfg.MaskMode

	// Constant-mask extremes collapse before any other decision.
	if mode == mask.Constant {
		switch cfg.MaskValue {
		case 0:
			op = blend.DstCopy
		case 255:
			mode = mask.Opaque
		}
	}
	solidSrc, _ := cfg.Source.(*SolidSource)
	op = simplify(op, solidSrc != nil && solidSrc.Opaque(), cfg.OpaqueDest)

	if op == blend.DstCopy {
		r := &Routine{op: op, format: cfg.Format, nop: true}
		Logger().Debug("compiled nop routine", slog.String("op", op.String()))
		return r, nil
	}
	if cfg.Source == nil && op != blend.Clear {
		return nil, fmt.Errorf("compose: operator %s requires a source", op)
	}

	src := cfg.Source
	if src == nil {
		src = NewSolidSource(cfg.Format, 0, 0, 0, 0)
	}

	r := &Routine{
		op:     op,
		format: cfg.Format,
		bpp:    cfg.Format.BytesPerPixel(),
		source: src,
		kernel: blend.Kernel(op, cfg.Format),
		store:  memStore{},
	}
	r.mctx.Init(mode)

	switch mode {
	case mask.Constant:
		r.mctx.SetConstant(cfg.MaskValue)
	case mask.Variable:
		if cfg.GlobalAlpha != 0 {
			r.mctx.SetGlobalAlpha(cfg.GlobalAlpha)
		}
	}

	r.deriveCoeffs(mode)

	g := cfg.Granularity
	if g == 1 {
		g = 0
	}
	r.loop = looper.Config{
		MaxStep:     batchWidth(op, src),
		AlignStep:   cfg.AlignSpans,
		Granularity: g,
		MaskedTail:  true,
	}
	if g > 1 {
		r.partial = looper.NewPartial(g)
	}

	Logger().Debug("compiled routine",
		slog.String("op", op.String()),
		slog.String("format", cfg.Format.String()),
		slog.String("mask", mode.String()),
		slog.Int("maxStep", r.loop.MaxStep))
	return r, nil
}

// opaqueSrcOps maps each operator to its reduction when the source is known
// fully opaque, obtained by substituting Sa = 1 into the formulas.
var opaqueSrcOps = map[blend.Op]blend.Op{
	blend.SrcOver: blend.SrcCopy, // Sca + Dca.(1 - Sa) = Sca
	blend.SrcAtop: blend.SrcIn,   // Sca.Da + Dca.(1 - Sa) = Sca.Da
	blend.Xor:     blend.SrcOut,  // Sca.(1 - Da) + Dca.(1 - Sa) = Sca.(1 - Da)
	blend.DstOut:  blend.Clear,   // Dca.(1 - Sa) = 0
	blend.DstIn:   blend.DstCopy, // Dca.Sa = Dca
}

// opaqueDstOps is the Da = 1 counterpart, applied when the caller declares
// the destination opaque.
var opaqueDstOps = map[blend.Op]blend.Op{
	blend.DstOver: blend.DstCopy, // Dca + Sca.(1 - Da) = Dca
	blend.SrcIn:   blend.SrcCopy, // Sca.Da = Sca
	blend.SrcOut:  blend.Clear,   // Sca.(1 - Da) = 0
	blend.SrcAtop: blend.SrcOver, // Sca.Da + Dca.(1 - Sa) = Sca + Dca.(1 - Sa)
	blend.DstAtop: blend.DstIn,   // Dca.Sa + Sca.(1 - Da) = Dca.Sa
	blend.Xor:     blend.DstOut,  // Sca.(1 - Da) + Dca.(1 - Sa) = Dca.(1 - Sa)
}

// simplify reduces op under alphas that are known constants: an opaque solid
// source pins Sa, an opaque destination pins Da. Only operators whose
// formulas read the pinned channel can reduce, so both lookups are gated on
// the operator descriptor.
func simplify(op blend.Op, srcOpaque, dstOpaque bool) blend.Op {
	if srcOpaque && op.Info().NeedsSa {
		if s, ok := opaqueSrcOps[op]; ok {
			op = s
		}
	}
	if dstOpaque && op.Info().NeedsDa {
		if s, ok := opaqueDstOps[op]; ok {
			op = s
		}
	}
	return op
}

// batchWidth computes the widest batch the routine runs at: the operator's
// baseline width scaled by the CPU vector multiplier, capped by the lane
// count and by what the producer can fetch.
func batchWidth(op blend.Op, src Source) int {
	w := int(op.Info().MaxPixels)
	if w == 1 {
		// Width-1 operators run a scalar loop; wider batches cannot help.
		return 1
	}
	if src.IsComplex() && w > 4 {
		w = 4
	}
	w *= vectorMultiplier()
	if w > wide.MaxLanes {
		w = wide.MaxLanes
	}
	if mp := src.MaxPixels(); w > mp {
		w = mp
	}
	return w
}

// deriveCoeffs precomputes the solid fast paths. Every coefficient set must
// reproduce the general formula bit-exactly with the constant substituted;
// pairs that cannot are left on the general path.
func (r *Routine) deriveCoeffs(mode mask.Mode) {
	if r.op == blend.Clear && (mode == mask.None || mode == mask.Opaque) {
		r.mctx.SetCoeffs(mask.Fill{Pattern: make([]byte, r.bpp)})
		return
	}

	solid, isSolid := r.source.(*SolidSource)

	if r.op == blend.SrcCopy && (mode == mask.None || mode == mask.Opaque) {
		if isSolid {
			r.mctx.SetCoeffs(mask.Fill{Pattern: solid.Pixel()})
			return
		}
		if b, ok := r.source.(Blitter); ok {
			r.blit = b
			return
		}
	}

	if !isSolid || mode != mask.Constant {
		return
	}
	m := r.mctx.Vec()

	if r.op.Info().TypeA {
		pre := wide.NewBatch(r.format, wide.MaxLanes)
		blend.PrescaleSource(pre, solid.Fetch(nil, 0, wide.MaxLanes), m)
		pre.SetImmutable()
		r.mctx.SetCoeffs(mask.Prescaled{Src: pre})
		return
	}
	if r.op == blend.SrcCopy {
		s := solid.Fetch(nil, 0, wide.MaxLanes)
		r.mctx.SetCoeffs(mask.Lerp{
			AddR: s.R.Mul(m),
			AddG: s.G.Mul(m),
			AddB: s.B.Mul(m),
			AddA: s.A.Mul(m),
			InvM: r.mctx.Inv(),
		})
	}
}

// Clone returns an independent routine sharing the compiled configuration.
// Precomputed coefficient batches are immutable and safely shared; scratch
// state is per-clone.
func (r *Routine) Clone() *Routine {
	c := *r
	c.dstB = wide.PixelBatch{}
	c.srcB = wide.PixelBatch{}
	c.scratchB = wide.PixelBatch{}
	if r.partial != nil {
		c.partial = looper.NewPartial(r.loop.Granularity)
	}
	return &c
}

// Composite composes count pixels into dst, whose first byte is the pixel at
// span offset x. cov holds one coverage byte per pixel and is required in
// Variable mode, ignored otherwise.
func (r *Routine) Composite(dst []byte, x, count int, cov []byte) {
	if r.nop || count <= 0 {
		return
	}
	if r.mctx.Mode() == mask.Variable {
		r.mctx.SetCoverage(cov)
	}

	if co, ok := r.mctx.SolidCoeffs().(mask.Fill); ok {
		fillPattern(dst, co.Pattern, count)
		return
	}
	if r.blit != nil {
		r.blit.Blit(dst, x, count)
		return
	}

	off := 0
	for _, step := range looper.Plan(count, x%r.loop.MaxStep, r.loop) {
		if step.Partial {
			r.runPartial(dst, x, off, step.Count)
			off += step.Count
			continue
		}
		for i := 0; i < step.Count; i++ {
			r.step(dst, x, off, step.Width)
			off += step.Width
		}
	}
}

// step composes one batch of n pixels at span offset off.
func (r *Routine) step(dst []byte, x, off, n int) {
	d := &r.dstB
	d.Reset(r.format, n)
	d.SetPacked(dst[off*r.bpp:])

	s := r.source.Fetch(&r.srcB, x+off, n)

	switch r.mctx.Mode() {
	case mask.None, mask.Opaque:
		r.kernel(d, s)
	case mask.Constant:
		r.applyConstant(d, s)
	case mask.Variable:
		m := r.mctx.Load(off, n)
		blend.Masked(r.op, d, s, m, &r.scratchB)
	}

	r.store.Store(dst[off*r.bpp:], d, n)
}

func (r *Routine) applyConstant(d, s *wide.PixelBatch) {
	switch co := r.mctx.SolidCoeffs().(type) {
	case mask.Prescaled:
		r.kernel(d, co.Src)
	case mask.Lerp:
		d.Widen()
		if r.format == wide.A8 {
			d.A = d.A.MulAddDiv255(co.InvM, co.AddA)
		} else {
			d.R = d.R.MulAddDiv255(co.InvM, co.AddR)
			d.G = d.G.MulAddDiv255(co.InvM, co.AddG)
			d.B = d.B.MulAddDiv255(co.InvM, co.AddB)
			d.A = d.A.MulAddDiv255(co.InvM, co.AddA)
		}
		d.MarkWidened()
	default:
		blend.Masked(r.op, d, s, r.mctx.Vec(), &r.scratchB)
	}
}

// runPartial composes a granular run pixel by pixel, unit by unit. The mask
// for each unit is prefetched once; every pixel consumes one lane. The run
// may span several units when no whole unit fits in a batch, and the final
// unit may be cut short by the span end.
func (r *Routine) runPartial(dst []byte, x, off, n int) {
	g := r.loop.Granularity
	for done := 0; done < n; done += g {
		run := g
		if rem := n - done; rem < run {
			run = rem
		}
		r.partial.Enter(g, r.mctx.Load(off+done, run))
		for i := 0; i < run; i++ {
			m := wide.SplatU16(r.partial.Mask())
			p := off + done + i
			d := &r.dstB
			d.Reset(r.format, 1)
			d.SetPacked(dst[p*r.bpp:])
			s := r.source.Fetch(&r.srcB, x+p, 1)
			blend.Masked(r.op, d, s, m, &r.scratchB)
			r.store.Store(dst[p*r.bpp:], d, 1)
			r.partial.Next()
		}
		r.partial.Exit()
	}
}

// fillPattern repeats one packed pixel across count destination pixels.
func fillPattern(dst, pat []byte, count int) {
	n := len(pat)
	if n == 1 {
		for i := 0; i < count; i++ {
			dst[i] = pat[0]
		}
		return
	}
	copy(dst, pat)
	// Doubling copy; copies grow geometrically until the run is filled.
	for filled := n; filled < count*n; filled *= 2 {
		copy(dst[filled:count*n], dst[:filled])
	}
}
