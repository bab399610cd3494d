// Package pool implements the bounded, sequence-keyed packet pool at the
// receive side of the transport: an associative set of P slots holding
// recent incoming packets, with oldest-sequence eviction on push and
// exact-match lookup on pull. It also embeds the health monitor that
// resynchronises the pull cursor after sustained loss (spec §4.7).
//
// Pool is the only component that touches shared mutable state across the
// ingress and audio threads; everything downstream of Pull (the per-channel
// DSP in package concealment) runs lock-free on the audio thread alone, per
// the split the reference design explicitly sanctions (spec §9: "implementers
// may split into (a) locked slot selection + memcpy ... (b) unlocked DSP").
package pool

import "sync"

// emptySeq marks a slot that has never held a packet, or has been evicted.
const emptySeq = -1

// consumedSeq marks a slot whose packet was consumed by the current pull
// cycle. It is evictable exactly like emptySeq: assigned sequence numbers
// start at 1 (incomingCnt is pre-incremented before first use), so 0 can
// never collide with a genuinely assigned sequence.
const consumedSeq = 0

type slot struct {
	seq   int
	bytes []byte
}

// Diagnostics is a read-only snapshot of the pool's monitor counters,
// exposed for external observability (spec §7). PacketCnt is not tracked by
// the pool itself (it is the concealment engine's warm-up counter); callers
// that want it populated should use jitterpool.Engine.Diagnostics, which
// fills it in from the concealment engine after reading the pool's snapshot.
type Diagnostics struct {
	IncomingCnt int
	OutgoingCnt int
	GlitchCnt   int
	PacketCnt   int
	Started     bool
}

// Pool is a bounded, sequence-keyed set of recent packets. The zero value is
// not usable; use New.
type Pool struct {
	mu sync.Mutex

	slots          []slot
	bytesPerPacket int
	rcvLag         int
	glitchMax      int

	incomingCnt int
	outgoingCnt int
	glitchCnt   int
	started     bool

	// xfr holds the bytes selected by the most recent Pull: either the
	// matched packet (on a hit) or whatever it held last cycle (on a miss,
	// per spec §4.5 step 5 — "leave xfr unchanged").
	xfr []byte
}

// New returns a Pool with poolSize slots (all initially empty), sized for
// packets of bytesPerPacket bytes. rcvLag is the configured queue depth
// (playback delay in packets); glitchMax is the resync threshold (the
// caller typically passes channelstate.HistoryDepth(fpp)*2*fpp, per the
// reference's mGlitchMax = mHist*2*mFPP).
func New(poolSize, bytesPerPacket, rcvLag, glitchMax int) *Pool {
	slots := make([]slot, poolSize)
	for i := range slots {
		slots[i] = slot{seq: emptySeq, bytes: make([]byte, bytesPerPacket)}
	}
	return &Pool{
		slots:          slots,
		bytesPerPacket: bytesPerPacket,
		rcvLag:         rcvLag,
		glitchMax:      glitchMax,
		xfr:            make([]byte, bytesPerPacket),
	}
}

// Push inserts a received packet, tagging it with the next arrival
// sequence. Never blocks beyond mutex acquisition, never allocates. Always
// returns true (the reference's push can never fail once buf is the right
// size; callers are expected to validate buf's length before calling, e.g.
// via jitterpool.Engine.Push).
func (p *Pool) Push(buf []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.incomingCnt++

	if p.glitchCnt > p.glitchMax {
		p.started = true
		p.incomingCnt = p.outgoingCnt
		p.glitchCnt = 0
	}

	oldestIdx := 0
	oldestSeq := p.slots[0].seq
	for i := 1; i < len(p.slots); i++ {
		if p.slots[i].seq < oldestSeq {
			oldestSeq = p.slots[i].seq
			oldestIdx = i
		}
	}

	p.slots[oldestIdx].seq = p.incomingCnt
	copy(p.slots[oldestIdx].bytes, buf)
	return true
}

// Pull advances the pull cursor, selects the slot matching the lagged
// target (or evicts the oldest slot on a miss), and returns whether this
// cycle was a glitch. The selected bytes are available via Bytes() until
// the next Pull call. This implements spec §4.5 steps 1-5; the caller
// (jitterpool.Engine) is responsible for step 6 (concealment dispatch or
// silence) and step 7 (copy to the caller's output buffer) — both run
// outside this method's lock.
func (p *Pool) Pull() (glitch bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.outgoingCnt++
	target := p.outgoingCnt - p.rcvLag

	hitIdx := -1
	oldestIdx := 0
	oldestSeq := p.slots[0].seq
	for i, s := range p.slots {
		if s.seq == target {
			hitIdx = i
		}
		if s.seq < oldestSeq {
			oldestSeq = s.seq
			oldestIdx = i
		}
	}

	if hitIdx >= 0 {
		copy(p.xfr, p.slots[hitIdx].bytes)
		p.slots[hitIdx].seq = consumedSeq
		return false
	}

	p.slots[oldestIdx].seq = emptySeq
	p.glitchCnt++
	return true
}

// Bytes returns the pool's transfer buffer — the bytes selected by the most
// recent Pull (unchanged since the prior cycle on a miss). Callers must not
// retain the returned slice past the next Pull/Push call.
func (p *Pool) Bytes() []byte { return p.xfr }

// Started reports whether the monitor has ever fired (spec §4.7: "the only
// path through which started can transition from false to true").
func (p *Pool) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Diagnostics returns a snapshot of the monitor counters.
func (p *Pool) Diagnostics() Diagnostics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Diagnostics{
		IncomingCnt: p.incomingCnt,
		OutgoingCnt: p.outgoingCnt,
		GlitchCnt:   p.glitchCnt,
		Started:     p.started,
	}
}

// BytesPerPacket returns B, the exact packet size this pool was sized for.
func (p *Pool) BytesPerPacket() int { return p.bytesPerPacket }
