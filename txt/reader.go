// SPDX-License-Identifier: MIT

package txt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownLine indicates a line matching no record form.
var ErrUnknownLine = errors.New("txt: unknown line")

// ParseError reports the offending line. It matches ErrUnknownLine and
// unwraps to the numeric conversion error, if any.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("txt: line %d: %q: %v", e.Line, e.Text, e.Err)
	}

	return fmt.Sprintf("txt: line %d: unknown line %q", e.Line, e.Text)
}

// Is matches ErrUnknownLine.
func (e *ParseError) Is(target error) bool { return target == ErrUnknownLine }

func (e *ParseError) Unwrap() error { return e.Err }

// Record is one parsed line. The concrete types are Detection, Appearance,
// Disappearance, Move, Division and ConflictSet.
type Record interface {
	record()
}

// Detection is an "H" line.
type Detection struct {
	Timestep int
	ID       int
	Cost     float64
}

// Appearance is an "APP" line.
type Appearance struct {
	ID        int
	Detection int
	Cost      float64
}

// Disappearance is a "DISAPP" line.
type Disappearance struct {
	ID        int
	Detection int
	Cost      float64
}

// Move is a "MOVE" line.
type Move struct {
	ID   int
	From int
	To   int
	Cost float64
}

// Division is a "DIV" line.
type Division struct {
	ID   int
	From int
	To1  int
	To2  int
	Cost float64
}

// ConflictSet is a "CONFSET" line listing detection ids.
type ConflictSet struct {
	Detections []int
}

func (Detection) record()     {}
func (Appearance) record()    {}
func (Disappearance) record() {}
func (Move) record()          {}
func (Division) record()      {}
func (ConflictSet) record()   {}

const num = `([-+.0-9eE]+)`

var (
	reHypothesis = regexp.MustCompile(`^H +([0-9]+) +([0-9]+) +` + num)
	reAppearance = regexp.MustCompile(`^(DIS)?APP +([0-9]+) +([0-9]+) +` + num)
	reMove       = regexp.MustCompile(`^MOVE +([0-9]+) +([0-9]+) +([0-9]+) +` + num)
	reDivision   = regexp.MustCompile(`^DIV +([0-9]+) +([0-9]+) +([0-9]+) +([0-9]+) +` + num)
	reConflict   = regexp.MustCompile(`^CONFSET +(.+) +<= 1$`)
	rePlus       = regexp.MustCompile(` *\+ *`)
)

// MaxLineSize bounds a single input line. CONFSET lines grow with the
// number of members, so it is far above bufio's default.
const MaxLineSize = 1 << 30

// Reader produces Records from a line stream. It makes a single pass;
// restart by reading the input again.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	return &Reader{sc: sc}
}

// Line returns the number of the last line read.
func (r *Reader) Line() int { return r.line }

// Next returns the next record, skipping comments and blank lines.
//
// Errors:
//   - io.EOF at the end of input.
//   - *ParseError for an unknown or malformed line.
//   - read errors of the underlying reader, wrapped.
func (r *Reader) Next() (Record, error) {
	for r.sc.Scan() {
		r.line++
		text := strings.TrimRight(r.sc.Text(), "\r")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		rec, err := parseLine(text)
		if err != nil || rec == nil {
			return nil, &ParseError{Line: r.line, Text: text, Err: err}
		}

		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, fmt.Errorf("txt: read: %w", err)
	}

	return nil, io.EOF
}

// All iterates the remaining records. Iteration stops after the first error,
// which is yielded with a nil Record; io.EOF is not yielded.
func (r *Reader) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// parseLine returns (nil, nil) when no record form matches.
func parseLine(text string) (Record, error) {
	if m := reHypothesis.FindStringSubmatch(text); m != nil {
		n, cost, err := fields(m[1:3], m[3])
		if err != nil {
			return nil, err
		}

		return Detection{Timestep: n[0], ID: n[1], Cost: cost}, nil
	}
	if m := reAppearance.FindStringSubmatch(text); m != nil {
		n, cost, err := fields(m[2:4], m[4])
		if err != nil {
			return nil, err
		}
		if m[1] == "DIS" {
			return Disappearance{ID: n[0], Detection: n[1], Cost: cost}, nil
		}

		return Appearance{ID: n[0], Detection: n[1], Cost: cost}, nil
	}
	if m := reMove.FindStringSubmatch(text); m != nil {
		n, cost, err := fields(m[1:4], m[4])
		if err != nil {
			return nil, err
		}

		return Move{ID: n[0], From: n[1], To: n[2], Cost: cost}, nil
	}
	if m := reDivision.FindStringSubmatch(text); m != nil {
		n, cost, err := fields(m[1:5], m[5])
		if err != nil {
			return nil, err
		}

		return Division{ID: n[0], From: n[1], To1: n[2], To2: n[3], Cost: cost}, nil
	}
	if m := reConflict.FindStringSubmatch(text); m != nil {
		ids, err := atoi(rePlus.Split(strings.TrimSpace(m[1]), -1))
		if err != nil {
			return nil, err
		}

		return ConflictSet{Detections: ids}, nil
	}

	return nil, nil
}

// fields converts the integer captures and the trailing cost of one record.
func fields(ints []string, cost string) ([]int, float64, error) {
	n, err := atoi(ints)
	if err != nil {
		return nil, 0, err
	}
	c, err := strconv.ParseFloat(cost, 64)
	if err != nil {
		return nil, 0, err
	}

	return n, c, nil
}

// atoi fails with strconv.ErrRange on ids that do not fit an int.
func atoi(ss []string) ([]int, error) {
	out := make([]int, len(ss))
	for i, s := range ss {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}
