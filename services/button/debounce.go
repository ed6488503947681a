package button

// Edge is the debounced transition a raw sample produced.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgePress
	EdgeRelease
)

// Debouncer turns raw pin samples into clean press/release edges. It is
// tick-driven and pure: feed it (level, time) pairs from an ISR drain loop or
// a poll loop and it never touches hardware or clocks itself.
//
// A raw edge inside the debounce window of the previous emitted edge updates
// the level snapshot without emitting, which absorbs contact chatter while
// keeping the snapshot honest: a tap shorter than the window still ends with
// the level released, so the next press is a fresh edge.
type Debouncer struct {
	debounceMs int64
	invert     bool

	level  bool // last accepted logical level
	lastMs int64
	primed bool
}

func NewDebouncer(debounceMs int, invert bool) *Debouncer {
	if debounceMs <= 0 {
		debounceMs = 30
	}
	return &Debouncer{debounceMs: int64(debounceMs), invert: invert}
}

// Step consumes one raw sample taken at nowMs and reports the edge it
// produced, if any. The first sample only primes the level snapshot.
func (d *Debouncer) Step(raw bool, nowMs int64) Edge {
	logical := raw
	if d.invert {
		logical = !raw
	}
	if !d.primed {
		d.primed = true
		d.level = logical
		d.lastMs = nowMs
		return EdgeNone
	}
	if logical == d.level {
		return EdgeNone
	}
	if nowMs-d.lastMs < d.debounceMs {
		// Track the level silently; lastMs stays at the emitted edge so
		// chatter cannot push the window forever.
		d.level = logical
		return EdgeNone
	}
	d.level = logical
	d.lastMs = nowMs
	if logical {
		return EdgePress
	}
	return EdgeRelease
}

// Pressed reports the current debounced logical level.
func (d *Debouncer) Pressed() bool { return d.level }
