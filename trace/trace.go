// Package trace provides branch trace reading for the predictor harness.
//
// A trace is a text file with one branch per line:
//
//	<pc> <target> <outcome> <conditional> <call> <ret> <direct>
//
// PC and target are hexadecimal (an optional 0x prefix is accepted); the
// remaining fields are 0/1 flags. Blank lines and lines starting with '#'
// are skipped. Files ending in .bz2 or .gz are decompressed transparently.
package trace

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/bpsim/predictor"
)

// fieldsPerRecord is the number of whitespace-separated fields in a line.
const fieldsPerRecord = 7

// Reader reads branch records from a trace stream.
type Reader struct {
	scanner *bufio.Scanner
	line    int

	closers []io.Closer
}

// Open opens a trace file, decompressing .bz2 and .gz files transparently.
// The caller must Close the returned reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	r := &Reader{closers: []io.Closer{f}}

	var stream io.Reader = f
	switch {
	case strings.HasSuffix(path, ".bz2"):
		stream = bzip2.NewReader(f)
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to open gzip trace: %w", err)
		}
		r.closers = append(r.closers, gz)
		stream = gz
	}

	r.scanner = bufio.NewScanner(stream)
	return r, nil
}

// NewReader reads a trace from an arbitrary stream. Used by tests and by
// callers that manage decompression themselves.
func NewReader(stream io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(stream)}
}

// Next returns the next branch record. It returns io.EOF when the trace is
// exhausted.
func (r *Reader) Next() (predictor.Branch, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		b, err := parseRecord(text)
		if err != nil {
			return predictor.Branch{}, fmt.Errorf("trace line %d: %w", r.line, err)
		}
		return b, nil
	}

	if err := r.scanner.Err(); err != nil {
		return predictor.Branch{}, fmt.Errorf("failed to read trace: %w", err)
	}
	return predictor.Branch{}, io.EOF
}

// Close releases the underlying file handles.
func (r *Reader) Close() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func parseRecord(text string) (predictor.Branch, error) {
	fields := strings.Fields(text)
	if len(fields) != fieldsPerRecord {
		return predictor.Branch{}, fmt.Errorf(
			"want %d fields, got %d", fieldsPerRecord, len(fields))
	}

	pc, err := parseHex(fields[0])
	if err != nil {
		return predictor.Branch{}, fmt.Errorf("bad pc %q: %w", fields[0], err)
	}
	target, err := parseHex(fields[1])
	if err != nil {
		return predictor.Branch{}, fmt.Errorf("bad target %q: %w", fields[1], err)
	}

	flags := make([]bool, fieldsPerRecord-2)
	for i := range flags {
		field := fields[i+2]
		switch field {
		case "0":
			flags[i] = false
		case "1":
			flags[i] = true
		default:
			return predictor.Branch{}, fmt.Errorf("bad flag %q", field)
		}
	}

	outcome := predictor.NotTaken
	if flags[0] {
		outcome = predictor.Taken
	}

	return predictor.Branch{
		PC:          pc,
		Target:      target,
		Outcome:     outcome,
		Conditional: flags[1],
		Call:        flags[2],
		Ret:         flags[3],
		Direct:      flags[4],
	}, nil
}

func parseHex(field string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(field, "0x"), 16, 64)
}
