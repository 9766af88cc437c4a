package predictor

// Tournament predictor sizes, fixed in the style of the Alpha 21264.
const (
	tournamentLocalHistoryBits = 11
	tournamentLHTEntries       = 1 << tournamentLocalHistoryBits
	tournamentLPTEntries       = 1 << tournamentLocalHistoryBits

	tournamentGlobalHistoryBits = 13
	tournamentGPTEntries        = 1 << tournamentGlobalHistoryBits
	tournamentChooserEntries    = 1 << tournamentGlobalHistoryBits
)

// Tournament is an Alpha-21264-style two-level predictor. A per-PC local
// history indexes a table of 3-bit counters; the global history register
// indexes a table of 2-bit counters; a chooser table, also indexed by the
// global history, selects between the two predictions.
type Tournament struct {
	localHistory []uint16 // per-PC shift registers, 11 bits each
	localPred    []uint8  // 3-bit counters indexed by local history
	globalPred   []uint8  // 2-bit counters indexed by GHR
	chooser      []uint8  // 2-bit counters: >=2 prefers global

	ghr uint64
}

// NewTournament creates a tournament predictor. Prediction counters and the
// chooser start weakly taken; local histories start empty.
func NewTournament() *Tournament {
	t := &Tournament{
		localHistory: make([]uint16, tournamentLHTEntries),
		localPred:    make([]uint8, tournamentLPTEntries),
		globalPred:   make([]uint8, tournamentGPTEntries),
		chooser:      make([]uint8, tournamentChooserEntries),
	}
	t.Reset()

	return t
}

func (t *Tournament) localIndex(pc uint64) (lht, local uint64) {
	lht = pc & (tournamentLHTEntries - 1)
	local = uint64(t.localHistory[lht]) & (tournamentLPTEntries - 1)
	return lht, local
}

func (t *Tournament) globalIndex() uint64 {
	return t.ghr & (tournamentGPTEntries - 1)
}

// Predict returns the global prediction when the chooser prefers global,
// otherwise the local prediction.
func (t *Tournament) Predict(pc uint64) Outcome {
	_, local := t.localIndex(pc)
	global := t.globalIndex()

	localTaken := counterTaken(t.localPred[local], counter3Max)
	globalTaken := counterTaken(t.globalPred[global], counter2Max)
	preferGlobal := counterTaken(t.chooser[global], counter2Max)

	if preferGlobal {
		return direction(globalTaken)
	}
	return direction(localTaken)
}

// Train updates both component predictors, trains the chooser toward
// whichever side was correct when they disagreed, then shifts the outcome
// into the local and global history registers. The component predictions are
// read before any counter is touched, so the chooser sees the pre-update
// state.
func (t *Tournament) Train(pc uint64, outcome Outcome) {
	lht, local := t.localIndex(pc)
	global := t.globalIndex()

	localTaken := counterTaken(t.localPred[local], counter3Max)
	globalTaken := counterTaken(t.globalPred[global], counter2Max)

	t.localPred[local] = saturate(t.localPred[local], outcome, counter3Max)
	t.globalPred[global] = saturate(t.globalPred[global], outcome, counter2Max)

	// Chooser moves toward the correct side only on disagreement. A step
	// toward taken means "prefer global".
	if localTaken != globalTaken {
		if direction(globalTaken) == outcome {
			t.chooser[global] = saturate(t.chooser[global], Taken, counter2Max)
		} else {
			t.chooser[global] = saturate(t.chooser[global], NotTaken, counter2Max)
		}
	}

	t.localHistory[lht] = uint16(((uint64(t.localHistory[lht]) << 1) | outcome.bit()) &
		(tournamentLHTEntries - 1))
	t.ghr = ((t.ghr << 1) | outcome.bit()) & (tournamentGPTEntries - 1)
}

// Reset restores the initial weakly-taken counters and clears all history.
func (t *Tournament) Reset() {
	for i := range t.localHistory {
		t.localHistory[i] = 0
	}
	for i := range t.localPred {
		t.localPred[i] = 4 // weakly taken, 3-bit
	}
	for i := range t.globalPred {
		t.globalPred[i] = WeaklyTaken
	}
	for i := range t.chooser {
		t.chooser[i] = WeaklyTaken
	}
	t.ghr = 0
}
