package predictor

// Static always predicts taken. It holds no state and training is a no-op.
type Static struct{}

// NewStatic creates a static always-taken predictor.
func NewStatic() *Static {
	return &Static{}
}

// Predict always returns Taken.
func (s *Static) Predict(pc uint64) Outcome {
	return Taken
}

// Train is a no-op.
func (s *Static) Train(pc uint64, outcome Outcome) {}

// Reset is a no-op.
func (s *Static) Reset() {}
