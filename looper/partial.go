package looper

import "github.com/gogpu/compose/wide"

// Partial implements the partial-batch protocol: at a span boundary pixels
// are fetched one at a time and composed at width 1, while the mask keeps
// coming from the prefetched wide mask vector, consumed one lane per pixel
// through a rotation that discards the used lane.
//
// States: Idle -> Active (n fetches remaining) -> Idle. Entering while
// active, advancing while idle, or exiting while idle is a programming error.
type Partial struct {
	granularity int
	active      bool
	remaining   int
	m           wide.U16x16
}

// NewPartial returns an idle protocol handler for the given granularity.
func NewPartial(granularity int) *Partial {
	if granularity < 1 || granularity > wide.MaxLanes {
		panic("looper: invalid granularity")
	}
	return &Partial{granularity: granularity}
}

// Enter activates partial mode for one coverage run. runLen must equal the
// configured granularity; m holds the prefetched mask lanes for the run.
func (p *Partial) Enter(runLen int, m wide.U16x16) {
	if p.active {
		panic("looper: partial mode already active")
	}
	if runLen != p.granularity {
		panic("looper: partial run length does not match granularity")
	}
	p.active = true
	p.remaining = runLen
	p.m = m
}

// Active reports whether the protocol is between Enter and Exit.
func (p *Partial) Active() bool { return p.active }

// Remaining returns the number of unconsumed lanes.
func (p *Partial) Remaining() int { return p.remaining }

// Mask returns the mask value for the current pixel (lane 0 of the rotated
// vector).
func (p *Partial) Mask() uint16 {
	if !p.active {
		panic("looper: partial mode not active")
	}
	return p.m[0]
}

// Next consumes the current pixel's lane, rotating the mask vector so the
// following pixel's coverage moves into lane 0.
func (p *Partial) Next() {
	if !p.active {
		panic("looper: partial mode not active")
	}
	if p.remaining == 0 {
		panic("looper: partial run exhausted")
	}
	p.m = p.m.ShiftLanes(1)
	p.remaining--
}

// Exit deactivates partial mode. The run may be abandoned early at the end
// of a span; exiting while idle is a programming error.
func (p *Partial) Exit() {
	if !p.active {
		panic("looper: partial mode not active")
	}
	p.active = false
	p.remaining = 0
}
