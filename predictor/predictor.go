// Package predictor implements conditional-branch direction predictors for
// trace-driven simulation. Four interchangeable variants share one driver:
// a static always-taken predictor, a gshare predictor, an Alpha-21264-style
// tournament predictor, and a TAGE predictor.
package predictor

// Outcome is a branch direction: NotTaken (0) or Taken (1).
type Outcome uint8

// Branch directions shared between the predictor and the harness.
const (
	NotTaken Outcome = 0
	Taken    Outcome = 1
)

// bit returns the outcome as a history bit.
func (o Outcome) bit() uint64 {
	if o == Taken {
		return 1
	}
	return 0
}

// String returns "T" for taken and "NT" for not taken.
func (o Outcome) String() string {
	if o == Taken {
		return "T"
	}
	return "NT"
}

// Kind selects a predictor variant.
type Kind int

// Predictor variants.
const (
	KindStatic Kind = iota
	KindGshare
	KindTournament
	KindCustom // TAGE
)

// Branch describes one branch event from a trace. Only conditional branches
// train the predictor; the remaining flags are accepted for forward
// compatibility and ignored by the core predictors.
type Branch struct {
	// PC is the address of the branch instruction.
	PC uint64
	// Target is the branch target address. Ignored by direction predictors.
	Target uint64
	// Outcome is the resolved direction of the branch.
	Outcome Outcome
	// Conditional is true for conditional branches. Only conditional
	// branches update predictor state.
	Conditional bool
	// Call is true for call instructions. Observed but ignored.
	Call bool
	// Ret is true for return instructions. Observed but ignored.
	Ret bool
	// Direct is true for direct branches. Observed but ignored.
	Direct bool
}

// Scheme is the interface implemented by each predictor variant.
// Predict must be a pure function of the current state; Train is the only
// operation that mutates state.
type Scheme interface {
	// Predict returns the predicted direction for the branch at pc.
	Predict(pc uint64) Outcome
	// Train updates tables and history registers with the true outcome.
	Train(pc uint64, outcome Outcome)
	// Reset restores the initial state.
	Reset()
}

// Stats holds driver-level prediction statistics.
type Stats struct {
	// Predictions is the number of conditional branches trained.
	Predictions uint64
	// Correct is the number of correct predictions.
	Correct uint64
	// Mispredictions is the number of incorrect predictions.
	Mispredictions uint64
}

// Accuracy returns the prediction accuracy as a percentage.
func (s Stats) Accuracy() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Predictions) * 100
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s Stats) MispredictionRate() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Mispredictions) / float64(s.Predictions) * 100
}

// Predictor is the driver. It routes Predict and Train to the configured
// variant and tracks accuracy statistics. All tables are allocated once at
// construction; nothing allocates on the per-branch path.
type Predictor struct {
	kind   Kind
	scheme Scheme
	stats  Stats
}

// New creates a predictor for the configured variant.
func New(config Config) (*Predictor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Predictor{kind: config.Kind}

	switch config.Kind {
	case KindStatic:
		p.scheme = NewStatic()
	case KindGshare:
		p.scheme = NewGshare(config.GlobalHistoryBits)
	case KindTournament:
		p.scheme = NewTournament()
	case KindCustom:
		p.scheme = NewTAGE(config.GlobalHistoryBits)
	}

	return p, nil
}

// Kind returns the configured variant.
func (p *Predictor) Kind() Kind {
	return p.kind
}

// Predict returns the predicted direction for the branch at pc. It does not
// mutate any predictor state. An unconfigured variant predicts NotTaken.
func (p *Predictor) Predict(pc uint64) Outcome {
	if p.scheme == nil {
		return NotTaken
	}
	return p.scheme.Predict(pc)
}

// Train updates the predictor with a resolved branch. Only conditional
// branches mutate state. The pre-update prediction is scored against the
// outcome before any table or history update is applied.
func (p *Predictor) Train(b Branch) {
	if !b.Conditional {
		return
	}
	if p.scheme == nil {
		return
	}

	predicted := p.scheme.Predict(b.PC)
	p.stats.Predictions++
	if predicted == b.Outcome {
		p.stats.Correct++
	} else {
		p.stats.Mispredictions++
	}

	p.scheme.Train(b.PC, b.Outcome)
}

// Stats returns the accumulated prediction statistics.
func (p *Predictor) Stats() Stats {
	return p.stats
}

// Reset restores the initial state of the variant and clears statistics.
func (p *Predictor) Reset() {
	if p.scheme != nil {
		p.scheme.Reset()
	}
	p.stats = Stats{}
}
