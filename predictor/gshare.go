package predictor

// Gshare is a global-history predictor: a single table of 2-bit counters
// indexed by the XOR of the PC and the global history register.
type Gshare struct {
	bht      []uint8
	ghistory uint64

	historyBits int
	indexMask   uint64
}

// NewGshare creates a gshare predictor with a 2^historyBits entry BHT.
// All counters start weakly not taken.
func NewGshare(historyBits int) *Gshare {
	g := &Gshare{
		bht:         make([]uint8, 1<<uint(historyBits)),
		historyBits: historyBits,
		indexMask:   histMask(historyBits),
	}
	g.Reset()

	return g
}

// index folds the PC and the global history into a BHT index. Only the low
// historyBits of each participate.
func (g *Gshare) index(pc uint64) uint64 {
	return (pc & g.indexMask) ^ (g.ghistory & g.indexMask)
}

// Predict returns taken when the indexed counter is at or above the
// weakly-taken threshold.
func (g *Gshare) Predict(pc uint64) Outcome {
	return direction(counterTaken(g.bht[g.index(pc)], counter2Max))
}

// Train applies a saturating update to the indexed counter, then shifts the
// outcome into the history register. The register is deliberately not masked
// here; only the low historyBits participate in indexing.
func (g *Gshare) Train(pc uint64, outcome Outcome) {
	idx := g.index(pc)
	g.bht[idx] = saturate(g.bht[idx], outcome, counter2Max)

	g.ghistory = (g.ghistory << 1) | outcome.bit()
}

// Reset restores all counters to weakly not taken and clears the history.
func (g *Gshare) Reset() {
	for i := range g.bht {
		g.bht[i] = WeaklyNotTaken
	}
	g.ghistory = 0
}

// History returns the raw global history register. Exposed for inspection;
// note that bits above the configured width are retained.
func (g *Gshare) History() uint64 {
	return g.ghistory
}
