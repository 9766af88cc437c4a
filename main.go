// Package main provides the entry point for bpsim.
// bpsim is a trace-driven conditional-branch predictor simulator built on Akita.
//
// For the full CLI, use: go run ./cmd/bpsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("bpsim - Branch Predictor Simulator")
	fmt.Println("")
	fmt.Println("Usage: bpsim [options] <trace-file>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -bp        Predictor variant: static, gshare, tournament, custom")
	fmt.Println("  -ghistory  Global history bits (default 15)")
	fmt.Println("  -timing    Enable timing simulation mode")
	fmt.Println("  -config    Path to predictor configuration JSON file")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/bpsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/bpsim' instead.")
	}
}
