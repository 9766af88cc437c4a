package predictor

// TAGE predictor sizes.
const (
	tageBimodalBits    = 15
	tageBimodalEntries = 1 << tageBimodalBits

	tageNumTables     = 7
	tageTaggedBits    = 12
	tageTaggedEntries = 1 << tageTaggedBits

	// Tag width is bound as a value rather than derived, so the stored tag
	// space is unambiguous: 7 bits, 0x00..0x7F.
	tageTagBits = 7
	tageTagMask = (1 << tageTagBits) - 1

	// tageInvalidTag marks a never-allocated entry. It is wider than the
	// 7-bit tag space, so no computed tag can ever equal it.
	tageInvalidTag uint16 = 0xFFFF

	// tageCtrInit is the neutral 3-bit counter value for fresh entries.
	tageCtrInit uint8 = 4

	// tageUsefulMax is the range of the per-entry useful counter.
	tageUsefulMax uint8 = 3

	// tageDecayInterval makes useful-counter decay deterministic: every
	// Nth entry skipped during allocation loses one useful point.
	tageDecayInterval = 64
)

// Geometric history lengths, one per tagged table, shortest first.
var tageHistoryLengths = [tageNumTables]int{4, 8, 16, 32, 64, 128, 256}

// Index and tag hashing constants.
const (
	tageIndexHashMul   = 0x9E3779B9
	tageIndexTableSalt = 0xABCDEF
)

// tageEntry is one tagged-table entry: a partial tag, a 3-bit prediction
// counter, and a 2-bit useful counter that protects the entry from being
// reallocated.
type tageEntry struct {
	tag uint16
	ctr uint8
	u   uint8
}

// TAGE is a TAgged GEometric-history-length predictor: a bimodal base table
// plus seven tagged tables indexed by geometrically increasing slices of the
// global history. The longest-history table whose tag matches provides the
// prediction; the next match (or the bimodal base) is the alternate.
type TAGE struct {
	bimodal []uint8
	tables  [tageNumTables][]tageEntry

	ghist       uint64
	historyBits int

	decaySkips uint64
}

// NewTAGE creates a TAGE predictor. The stored global history register is
// masked to historyBits on every update.
func NewTAGE(historyBits int) *TAGE {
	t := &TAGE{
		bimodal:     make([]uint8, tageBimodalEntries),
		historyBits: historyBits,
	}
	for i := range t.tables {
		t.tables[i] = make([]tageEntry, tageTaggedEntries)
	}
	t.Reset()

	return t
}

// index hashes the PC and the table's history slice into a tagged-table
// index. Each table is salted so equal history slices in different tables
// spread differently.
func (t *TAGE) index(pc uint64, table int) uint64 {
	h := t.ghist & histMask(tageHistoryLengths[table])
	return (pc ^ (h * tageIndexHashMul) ^ (uint64(table) * tageIndexTableSalt)) &
		(tageTaggedEntries - 1)
}

// tag hashes the PC against the table's history slice. Its 7-bit result can
// never equal the invalid-tag sentinel.
func (t *TAGE) tag(pc uint64, table int) uint16 {
	h := t.ghist & histMask(tageHistoryLengths[table])
	return uint16((pc ^ (h >> uint(table+1))) & tageTagMask)
}

func (t *TAGE) bimodalIndex(pc uint64) uint64 {
	return pc & (tageBimodalEntries - 1)
}

// lookup walks the tagged tables from longest history to shortest and
// returns the provider and alternate tables with their indices. A table of
// -1 means no tagged hit; the bimodal base then stands in.
func (t *TAGE) lookup(pc uint64) (provider, providerIdx, alt, altIdx int) {
	provider, alt = -1, -1

	for table := tageNumTables - 1; table >= 0; table-- {
		idx := t.index(pc, table)
		if t.tables[table][idx].tag != t.tag(pc, table) {
			continue
		}
		if provider < 0 {
			provider, providerIdx = table, int(idx)
		} else {
			alt, altIdx = table, int(idx)
			break
		}
	}

	return provider, providerIdx, alt, altIdx
}

// Predict returns the provider's prediction when any tagged table hits, and
// the bimodal prediction otherwise.
func (t *TAGE) Predict(pc uint64) Outcome {
	provider, providerIdx, _, _ := t.lookup(pc)
	if provider >= 0 {
		return direction(
			counterTaken(t.tables[provider][providerIdx].ctr, counter3Max))
	}
	return direction(counterTaken(t.bimodal[t.bimodalIndex(pc)], counter2Max))
}

// Train captures the pre-update provider and alternate predictions, updates
// the provider (or the bimodal base on a miss), adjusts the provider's
// useful counter when it disagreed with the alternate, allocates a fresh
// entry when no table hit, and finally shifts the outcome into the global
// history.
func (t *TAGE) Train(pc uint64, outcome Outcome) {
	provider, providerIdx, alt, altIdx := t.lookup(pc)

	bimodalPred := direction(
		counterTaken(t.bimodal[t.bimodalIndex(pc)], counter2Max))

	providerPred := bimodalPred
	if provider >= 0 {
		providerPred = direction(
			counterTaken(t.tables[provider][providerIdx].ctr, counter3Max))
	}
	altPred := bimodalPred
	if alt >= 0 {
		altPred = direction(
			counterTaken(t.tables[alt][altIdx].ctr, counter3Max))
	}

	if provider >= 0 {
		entry := &t.tables[provider][providerIdx]
		entry.ctr = saturate(entry.ctr, outcome, counter3Max)

		// The useful counter only moves when the provider and a tagged
		// alternate disagreed and exactly one of them was right.
		if alt >= 0 && providerPred != altPred {
			if providerPred == outcome {
				if entry.u < tageUsefulMax {
					entry.u++
				}
			} else if altPred == outcome {
				if entry.u > 0 {
					entry.u--
				}
			}
		}

		// With only one tagged hit the bimodal base keeps learning, so it
		// stays a useful alternate.
		if alt < 0 {
			idx := t.bimodalIndex(pc)
			t.bimodal[idx] = saturate(t.bimodal[idx], outcome, counter2Max)
		}
	} else {
		idx := t.bimodalIndex(pc)
		t.bimodal[idx] = saturate(t.bimodal[idx], outcome, counter2Max)

		t.allocate(pc, outcome)
	}

	t.ghist = ((t.ghist << 1) | outcome.bit()) & histMask(t.historyBits)
}

// allocate claims an entry for a missed branch in the shortest-history table
// whose slot is not protected by a useful counter. Protected slots that are
// passed over decay deterministically, one useful point every
// tageDecayInterval skips, so stale entries eventually become reclaimable.
func (t *TAGE) allocate(pc uint64, outcome Outcome) {
	for table := 0; table < tageNumTables; table++ {
		idx := t.index(pc, table)
		entry := &t.tables[table][idx]

		if entry.u > 0 {
			t.decaySkips++
			if t.decaySkips%tageDecayInterval == 0 {
				entry.u--
			}
			continue
		}

		entry.tag = t.tag(pc, table)
		entry.ctr = saturate(tageCtrInit, outcome, counter3Max)
		entry.u = 0
		return
	}
}

// Reset restores the initial state: bimodal weakly not taken, all tagged
// entries invalid and neutral, empty history.
func (t *TAGE) Reset() {
	for i := range t.bimodal {
		t.bimodal[i] = WeaklyNotTaken
	}
	for table := range t.tables {
		for i := range t.tables[table] {
			t.tables[table][i] = tageEntry{
				tag: tageInvalidTag,
				ctr: tageCtrInit,
			}
		}
	}
	t.ghist = 0
	t.decaySkips = 0
}

// History returns the stored global history register, masked to the
// configured width.
func (t *TAGE) History() uint64 {
	return t.ghist
}
