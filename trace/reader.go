// Package trace reads memory-access trace files and produces normalized
// access records for the simulator.
//
// A trace line is a kind letter (I, L, S, or M), a hex address, a comma,
// and a decimal size, e.g. " L 10,1". Data accesses conventionally carry
// a leading space and instruction fetches do not; leading whitespace is
// not significant to the reader.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/sim"
)

// A Reader yields the access records of one trace file in order.
// Malformed lines are skipped and counted rather than aborting the run,
// so a bad record can never corrupt the simulation counters.
type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
	warn    io.Writer
	line    int
	skipped int
}

// Option configures a Reader.
type Option func(*Reader)

// WithWarnings makes the reader report each skipped line, with its line
// number, to w.
func WithWarnings(w io.Writer) Option {
	return func(r *Reader) {
		r.warn = w
	}
}

// Open opens a trace file for reading.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}

	r := &Reader{
		file:    f,
		scanner: bufio.NewScanner(f),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Next returns the next well-formed access record, or io.EOF once the
// file is exhausted.
func (r *Reader) Next() (sim.Access, error) {
	for r.scanner.Scan() {
		r.line++

		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}

		access, ok := parseLine(text)
		if !ok {
			r.skipped++
			if r.warn != nil {
				fmt.Fprintf(r.warn, "skipping malformed trace line %d: %s\n",
					r.line, text)
			}
			continue
		}

		return access, nil
	}

	if err := r.scanner.Err(); err != nil {
		return sim.Access{}, fmt.Errorf("failed to read trace file: %w", err)
	}

	return sim.Access{}, io.EOF
}

// Skipped returns the number of malformed lines passed over so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// parseLine parses one trimmed, non-empty trace line.
func parseLine(text string) (sim.Access, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return sim.Access{}, false
	}

	var kind sim.Kind
	switch fields[0] {
	case "I":
		kind = sim.KindIgnore
	case "L":
		kind = sim.KindLoad
	case "S":
		kind = sim.KindStore
	case "M":
		kind = sim.KindModify
	default:
		return sim.Access{}, false
	}

	addrText, sizeText, found := strings.Cut(fields[1], ",")
	if !found {
		return sim.Access{}, false
	}

	addr, err := strconv.ParseUint(addrText, 16, 64)
	if err != nil {
		return sim.Access{}, false
	}

	size, err := strconv.Atoi(sizeText)
	if err != nil || size <= 0 {
		return sim.Access{}, false
	}

	return sim.Access{Kind: kind, Address: addr, Size: size}, true
}
