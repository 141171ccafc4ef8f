// Package looper plans the iteration shape of a compiled composition loop
// and implements the partial-batch protocol for span boundaries.
//
// A plan is a deterministic partition of a pixel count into steps: it depends
// only on the total, the destination's alignment phase and the static
// configuration, never on pixel data. This keeps compiled loops reproducible
// and cache-coherent.
package looper

// Config is the static loop-shape configuration of one compiled routine.
type Config struct {
	// MaxStep is the widest batch the configured kernel supports,
	// 1..wide.MaxLanes and a power of two.
	MaxStep int

	// AlignStep requests a scalar prologue that runs until the destination
	// reaches a MaxStep pixel boundary.
	AlignStep bool

	// Granularity, when non-zero, restricts steps to multiples of the
	// given run length (span-coherent coverage masks). Leftovers shorter
	// than one unit go through the partial-batch protocol.
	Granularity int

	// MaskedTail marks that the store primitive supports partial-width
	// predicated writes, letting the tail run at an arbitrary width
	// instead of decreasing power-of-two steps.
	MaskedTail bool
}

// Step is one segment of a loop plan: Count iterations of Width pixels.
type Step struct {
	Width int
	Count int

	// Partial marks pixels processed one at a time through the
	// partial-batch protocol (granular tails).
	Partial bool

	// Predicated marks a single tail step narrower than MaxStep written
	// through a masked store.
	Predicated bool
}

// Pixels returns the number of pixels the step covers.
func (s Step) Pixels() int { return s.Width * s.Count }

// Plan partitions total pixels into loop steps. phase is the destination's
// pixel offset from a MaxStep boundary (0 <= phase < MaxStep); it is ignored
// unless cfg.AlignStep is set. The widths of the emitted steps always sum to
// exactly total and never exceed cfg.MaxStep.
func Plan(total, phase int, cfg Config) []Step {
	if total <= 0 {
		return nil
	}
	if cfg.Granularity > 1 {
		return planGranular(total, cfg)
	}
	if cfg.MaxStep <= 1 {
		return []Step{{Width: 1, Count: total}}
	}

	var steps []Step
	rem := total

	if cfg.AlignStep {
		pro := (cfg.MaxStep - phase%cfg.MaxStep) % cfg.MaxStep
		if pro > rem {
			pro = rem
		}
		if pro > 0 {
			steps = append(steps, Step{Width: 1, Count: pro})
			rem -= pro
		}
	}

	if n := rem / cfg.MaxStep; n > 0 {
		steps = append(steps, Step{Width: cfg.MaxStep, Count: n})
		rem -= n * cfg.MaxStep
	}

	if rem == 0 {
		return steps
	}
	if cfg.MaskedTail {
		return append(steps, Step{Width: rem, Count: 1, Predicated: true})
	}
	// Decreasing power-of-two epilogue; the wide body is never re-entered.
	for w := cfg.MaxStep / 2; w >= 1; w /= 2 {
		if rem >= w {
			steps = append(steps, Step{Width: w, Count: 1})
			rem -= w
		}
	}
	return steps
}

// planGranular emits steps that are always multiples of the granularity;
// anything shorter than one unit is delegated to the partial protocol.
func planGranular(total int, cfg Config) []Step {
	g := cfg.Granularity
	if g > cfg.MaxStep {
		// Not even one unit fits in a batch, so every unit runs through
		// the partial protocol; no step may exceed MaxStep.
		return []Step{{Width: 1, Count: total, Partial: true}}
	}
	body := cfg.MaxStep - cfg.MaxStep%g

	var steps []Step
	rem := total
	if n := rem / body; n > 0 {
		steps = append(steps, Step{Width: body, Count: n})
		rem -= n * body
	}
	if body > g {
		if n := rem / g; n > 0 {
			steps = append(steps, Step{Width: g, Count: n})
			rem -= n * g
		}
	}
	if rem > 0 {
		steps = append(steps, Step{Width: 1, Count: rem, Partial: true})
	}
	return steps
}
