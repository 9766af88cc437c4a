// Package harness drives a branch predictor over a trace and reports
// accuracy results.
package harness

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// Result holds the measurement results for one predictor over one trace.
type Result struct {
	// Predictor identifies the predictor variant.
	Predictor string `json:"predictor"`

	// Trace is the trace file path, when known.
	Trace string `json:"trace,omitempty"`

	// Branches is the total number of branch records in the trace.
	Branches uint64 `json:"branches"`

	// Conditional is the number of conditional branches, which are the
	// only ones that were predicted and trained.
	Conditional uint64 `json:"conditional"`

	// Correct is the number of correct predictions.
	Correct uint64 `json:"correct"`

	// Mispredictions is the number of incorrect predictions.
	Mispredictions uint64 `json:"mispredictions"`

	// AccuracyPercent is the prediction accuracy over conditional branches.
	AccuracyPercent float64 `json:"accuracy_percent"`

	// MispredictsPer1000 is the misprediction rate per 1000 conditional
	// branches.
	MispredictsPer1000 float64 `json:"mispredicts_per_1000"`

	// WallTime is the time the measurement took.
	WallTime time.Duration `json:"wall_time_ns"`
}

// Run streams branch records from r through p, predicting before training on
// each conditional branch, and returns the accumulated result.
func Run(p *predictor.Predictor, r *trace.Reader) (Result, error) {
	result := Result{Predictor: p.Kind().String()}
	start := time.Now()

	for {
		b, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, err
		}

		result.Branches++
		p.Train(b)
	}

	stats := p.Stats()
	result.Conditional = stats.Predictions
	result.Correct = stats.Correct
	result.Mispredictions = stats.Mispredictions
	result.AccuracyPercent = stats.Accuracy()
	if stats.Predictions > 0 {
		result.MispredictsPer1000 =
			float64(stats.Mispredictions) / float64(stats.Predictions) * 1000
	}
	result.WallTime = time.Since(start)

	return result, nil
}

// RunFile opens a trace file and measures p over it.
func RunFile(p *predictor.Predictor, path string) (Result, error) {
	r, err := trace.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = r.Close() }()

	result, err := Run(p, r)
	if err != nil {
		return Result{}, err
	}
	result.Trace = path

	return result, nil
}

// Print writes a human-readable result summary. A nil writer defaults to
// standard output.
func (r Result) Print(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintf(w, "Predictor:       %s\n", r.Predictor)
	if r.Trace != "" {
		fmt.Fprintf(w, "Trace:           %s\n", r.Trace)
	}
	fmt.Fprintf(w, "Branches:        %d\n", r.Branches)
	fmt.Fprintf(w, "Conditional:     %d\n", r.Conditional)
	fmt.Fprintf(w, "Mispredictions:  %d\n", r.Mispredictions)
	fmt.Fprintf(w, "Accuracy:        %.3f%%\n", r.AccuracyPercent)
	fmt.Fprintf(w, "Mispred/1000:    %.3f\n", r.MispredictsPer1000)
}
