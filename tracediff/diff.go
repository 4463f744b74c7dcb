// Package tracediff compares two newline-delimited-JSON execution traces
// (vm.JSONLTracer's output format, the same shape the teacher's
// pvm/trace/jsonl.go writes) and reports the first line at which they
// diverge.
package tracediff

import (
	"bufio"
	"fmt"
	"io"

	"github.com/nsf/jsondiff"
)

// Divergence describes the first trace line at which two runs disagree.
type Divergence struct {
	// Line is the 1-indexed line number the disagreement was found at.
	Line int
	// A and B are the raw JSON records at Line from each trace. A or B is
	// empty when one trace ended before the other (length mismatch rather
	// than a content mismatch).
	A, B string
	// Detail is jsondiff's human-readable description of the difference.
	Detail string
}

var diffOptions = jsondiff.DefaultConsoleOptions()

// Compare reads newline-delimited JSON records from a and b in lockstep and
// returns the first line where they disagree, or nil if every line compares
// equal and both traces are the same length.
func Compare(a, b io.Reader) (*Divergence, error) {
	scanA := bufio.NewScanner(a)
	scanA.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanB := bufio.NewScanner(b)
	scanB.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for {
		line++
		hasA := scanA.Scan()
		hasB := scanB.Scan()
		if !hasA && !hasB {
			if err := scanA.Err(); err != nil {
				return nil, err
			}
			if err := scanB.Err(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if hasA != hasB {
			var lineA, lineB string
			if hasA {
				lineA = scanA.Text()
			}
			if hasB {
				lineB = scanB.Text()
			}
			return &Divergence{Line: line, A: lineA, B: lineB, Detail: "traces have different lengths"}, nil
		}

		lineA, lineB := scanA.Text(), scanB.Text()
		diff, explanation := jsondiff.Compare([]byte(lineA), []byte(lineB), &diffOptions)
		if diff != jsondiff.FullMatch {
			return &Divergence{Line: line, A: lineA, B: lineB, Detail: explanation}, nil
		}
	}
}

// String renders a Divergence for CLI/log output.
func (d *Divergence) String() string {
	return fmt.Sprintf("trace diverges at line %d:\n  a: %s\n  b: %s\n%s", d.Line, d.A, d.B, d.Detail)
}
