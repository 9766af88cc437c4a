package predictor

// 2-bit counter states.
const (
	StronglyNotTaken uint8 = 0 // SN
	WeaklyNotTaken   uint8 = 1 // WN
	WeaklyTaken      uint8 = 2 // WT
	StronglyTaken    uint8 = 3 // ST
)

// Saturating counter ranges.
const (
	counter2Max uint8 = 3 // 2-bit: 0..3
	counter3Max uint8 = 7 // 3-bit: 0..7
)

// saturate applies one training step to a saturating counter in [0, max]:
// +1 on taken, -1 on not taken, clamped at the endpoints.
func saturate(c uint8, outcome Outcome, max uint8) uint8 {
	if outcome == Taken {
		if c < max {
			c++
		}
	} else {
		if c > 0 {
			c--
		}
	}
	return c
}

// counterTaken reports whether a counter at or above its midpoint predicts
// taken. The midpoint is (max+1)/2: 2 for 2-bit counters, 4 for 3-bit.
func counterTaken(c, max uint8) bool {
	return c >= (max+1)/2
}

// direction maps a counter comparison to an Outcome.
func direction(taken bool) Outcome {
	if taken {
		return Taken
	}
	return NotTaken
}

// histMask returns a mask covering the low bits of a history register.
// Widths of 64 or more cover the whole register.
func histMask(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bits)) - 1
}
