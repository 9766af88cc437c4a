// Package branchunit models the fetch-redirect cost of branch prediction as
// an Akita ticking component. One branch retires per cycle; a misprediction
// stalls the unit for a configurable penalty before fetch resumes.
package branchunit

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/predictor"
)

// DefaultMispredictPenalty is the flush cost in cycles charged for each
// misprediction, matching a typical modern out-of-order front end.
const DefaultMispredictPenalty = 12

// Report summarizes one timing run.
type Report struct {
	// Cycles is the total cycle count, including stalls.
	Cycles uint64 `json:"cycles"`

	// Branches is the number of branch records retired.
	Branches uint64 `json:"branches"`

	// StallCycles is the number of cycles lost to misprediction flushes.
	StallCycles uint64 `json:"stall_cycles"`

	// Mispredictions is the number of conditional branches mispredicted.
	Mispredictions uint64 `json:"mispredictions"`

	// CPB is cycles per branch.
	CPB float64 `json:"cpb"`
}

// Comp is an Akita ticking component that retires one branch per cycle from
// a preloaded trace, consulting the predictor before each conditional branch
// and stalling on mispredictions.
type Comp struct {
	*sim.TickingComponent

	pred     *predictor.Predictor
	branches []predictor.Branch
	penalty  uint64

	next      int
	stallLeft uint64

	cycles         uint64
	retired        uint64
	stallCycles    uint64
	mispredictions uint64
}

// Tick advances the unit by one cycle. It reports false once the trace is
// exhausted and the final stall has drained, which stops the tick stream.
func (c *Comp) Tick() bool {
	if c.stallLeft == 0 && c.next >= len(c.branches) {
		return false
	}

	c.cycles++

	if c.stallLeft > 0 {
		c.stallLeft--
		c.stallCycles++
		return true
	}

	b := c.branches[c.next]
	c.next++
	c.retired++

	if b.Conditional {
		predicted := c.pred.Predict(b.PC)
		mispredicted := predicted != b.Outcome

		c.pred.Train(b)

		if mispredicted {
			c.mispredictions++
			c.stallLeft = c.penalty
		}
	}

	return true
}

// Report returns the accumulated timing figures.
func (c *Comp) Report() Report {
	r := Report{
		Cycles:         c.cycles,
		Branches:       c.retired,
		StallCycles:    c.stallCycles,
		Mispredictions: c.mispredictions,
	}
	if c.retired > 0 {
		r.CPB = float64(c.cycles) / float64(c.retired)
	}

	return r
}

// Builder configures and builds branch units.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	pred     *predictor.Predictor
	branches []predictor.Branch
	penalty  uint64
}

// MakeBuilder returns a Builder with a 1 GHz frequency and the default
// misprediction penalty.
func MakeBuilder() Builder {
	return Builder{
		freq:    1 * sim.GHz,
		penalty: DefaultMispredictPenalty,
	}
}

// WithEngine sets the event engine that drives the unit.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the unit's tick frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithPredictor sets the predictor the unit consults.
func (b Builder) WithPredictor(pred *predictor.Predictor) Builder {
	b.pred = pred
	return b
}

// WithBranches preloads the trace the unit retires.
func (b Builder) WithBranches(branches []predictor.Branch) Builder {
	b.branches = branches
	return b
}

// WithMispredictPenalty sets the flush cost per misprediction, in cycles.
func (b Builder) WithMispredictPenalty(penalty uint64) Builder {
	b.penalty = penalty
	return b
}

// Build creates the branch unit and schedules its first tick.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		pred:     b.pred,
		branches: b.branches,
		penalty:  b.penalty,
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.TickNow()

	return c
}

// Simulate runs a whole trace through a fresh engine and returns the report.
func Simulate(
	pred *predictor.Predictor,
	branches []predictor.Branch,
	penalty uint64,
) (Report, error) {
	engine := sim.NewSerialEngine()
	unit := MakeBuilder().
		WithEngine(engine).
		WithPredictor(pred).
		WithBranches(branches).
		WithMispredictPenalty(penalty).
		Build("BranchUnit")

	if err := engine.Run(); err != nil {
		return Report{}, err
	}

	return unit.Report(), nil
}
