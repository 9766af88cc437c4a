// Package main provides the entry point for bpsim.
// bpsim measures conditional-branch direction predictors over branch traces.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/bpsim/harness"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/timing/branchunit"
	"github.com/sarchlab/bpsim/trace"
)

var (
	bpName     = flag.String("bp", "gshare", "Predictor: static, gshare, tournament, or custom")
	ghistory   = flag.Int("ghistory", predictor.DefaultGlobalHistoryBits, "Global history bits")
	configPath = flag.String("config", "", "Path to predictor configuration JSON file")
	timing     = flag.Bool("timing", false, "Enable timing simulation mode")
	penalty    = flag.Uint64("penalty", branchunit.DefaultMispredictPenalty, "Misprediction penalty in cycles (timing mode)")
	jsonOut    = flag.Bool("json", false, "Emit results as JSON")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: bpsim [options] <trace-file>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	tracePath := flag.Arg(0)

	config, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	pred, err := predictor.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Predictor: %s\n", config.Kind)
		fmt.Printf("Global history bits: %d\n", config.GlobalHistoryBits)
		fmt.Printf("Trace: %s\n", tracePath)
	}

	if *timing {
		runTiming(pred, tracePath)
		return
	}

	result, err := harness.RunFile(pred, tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		emitJSON(result)
	} else {
		result.Print(os.Stdout)
	}
}

// buildConfig merges the configuration file, when given, with command-line
// flags. Flags set explicitly win over file values.
func buildConfig() (predictor.Config, error) {
	config := predictor.DefaultConfig()

	if *configPath != "" {
		loaded, err := predictor.LoadConfig(*configPath)
		if err != nil {
			return predictor.Config{}, err
		}
		config = *loaded
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *configPath == "" || set["bp"] {
		kind, err := predictor.ParseKind(*bpName)
		if err != nil {
			return predictor.Config{}, err
		}
		config.Kind = kind
	}
	if *configPath == "" || set["ghistory"] {
		config.GlobalHistoryBits = *ghistory
	}

	return config, nil
}

// runTiming replays the whole trace through the Akita branch unit and
// reports cycle counts.
func runTiming(pred *predictor.Predictor, tracePath string) {
	branches, err := readAll(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report, err := branchunit.Simulate(pred, branches, *penalty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running timing simulation: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		emitJSON(report)
		return
	}

	fmt.Printf("Cycles:          %d\n", report.Cycles)
	fmt.Printf("Branches:        %d\n", report.Branches)
	fmt.Printf("Stall cycles:    %d\n", report.StallCycles)
	fmt.Printf("Mispredictions:  %d\n", report.Mispredictions)
	fmt.Printf("Cycles/branch:   %.3f\n", report.CPB)
}

func readAll(path string) ([]predictor.Branch, error) {
	r, err := trace.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var branches []predictor.Branch
	for {
		b, err := r.Next()
		if err == io.EOF {
			return branches, nil
		}
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
}

func emitJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding results: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
