// SPDX-License-Identifier: MIT

package model

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// dumpHeader opens every dump.
const dumpHeader = "m := model.New()"

// maxDumpLine bounds one replayed line; AddConflict lines grow with the set.
const maxDumpLine = 1 << 30

// Dump renders the Model as a deterministic replay script: one call per
// addition, ordered detections, conflicts, edges. Detections and conflicts
// are listed by (timestep, index); transitions and divisions interleave in
// their insertion order, so the replayed Model assigns the same slots.
// ParseDump replays the script.
//
// Complexity: O(V + C + E) lines.
func (m *Model) Dump() string {
	var b strings.Builder
	b.WriteString(dumpHeader)

	for t := range m.detections {
		for _, n := range m.detections[t] {
			fmt.Fprintf(&b, "\nm.AddDetection(%d, model.Costs{Detection: %s, Appearance: %s, Disappearance: %s})",
				t, formatCost(n.costs.Detection), formatCost(n.costs.Appearance), formatCost(n.costs.Disappearance))
		}
	}

	for t := range m.conflicts {
		for _, members := range m.conflicts[t] {
			parts := make([]string, len(members))
			for i, d := range members {
				parts[i] = strconv.Itoa(d)
			}
			fmt.Fprintf(&b, "\nm.AddConflict(%d, []int{%s})", t, strings.Join(parts, ", "))
		}
	}

	for _, ref := range m.edgeOrder {
		switch ref.Kind {
		case KindTransition:
			k := ref.Transition
			fmt.Fprintf(&b, "\nm.AddTransition(%d, %d, %d, %s)",
				k.Timestep, k.From, k.To, formatCost(m.transitions[k].Cost))
		case KindDivision:
			k := ref.Division
			fmt.Fprintf(&b, "\nm.AddDivision(%d, %d, %d, %d, %s)",
				k.Timestep, k.From, k.To1, k.To2, formatCost(m.divisions[k].Cost))
		}
	}

	return b.String()
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

const numberPattern = `([-+0-9.eEInfNa]+)`

var (
	reDumpDetection = regexp.MustCompile(`^m\.AddDetection\((\d+), model\.Costs\{Detection: ` + numberPattern +
		`, Appearance: ` + numberPattern + `, Disappearance: ` + numberPattern + `\}\)$`)
	reDumpConflict   = regexp.MustCompile(`^m\.AddConflict\((\d+), \[\]int\{([0-9, ]*)\}\)$`)
	reDumpTransition = regexp.MustCompile(`^m\.AddTransition\((\d+), (\d+), (\d+), ` + numberPattern + `\)$`)
	reDumpDivision   = regexp.MustCompile(`^m\.AddDivision\((\d+), (\d+), (\d+), (\d+), ` + numberPattern + `\)$`)
)

// ParseDump rebuilds a Model from the output of Dump. Every replayed call is
// validated exactly as a direct call would be.
//
// Errors:
//   - ErrBadDump for unrecognized lines or unparsable numbers, including
//     integers that overflow int.
//   - any sentinel the replayed Add* call returns.
func ParseDump(r io.Reader) (*Model, error) {
	m := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxDumpLine)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line == dumpHeader {
			continue
		}
		if err := m.replay(line); err != nil {
			return nil, fmt.Errorf("ParseDump: line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ParseDump: %w", err)
	}

	return m, nil
}

// replay applies one dump line to m.
func (m *Model) replay(line string) error {
	if g := reDumpDetection.FindStringSubmatch(line); g != nil {
		n, err := atoi(g[1])
		if err != nil {
			return err
		}
		nums, err := parseFloats(g[2:]...)
		if err != nil {
			return err
		}
		_, err = m.AddDetection(n[0], Costs{Detection: nums[0], Appearance: nums[1], Disappearance: nums[2]})

		return err
	}
	if g := reDumpConflict.FindStringSubmatch(line); g != nil {
		var fields []string
		for _, f := range strings.Split(g[2], ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
		n, err := atoi(append([]string{g[1]}, fields...)...)
		if err != nil {
			return err
		}
		_, err = m.AddConflict(n[0], n[1:])

		return err
	}
	if g := reDumpTransition.FindStringSubmatch(line); g != nil {
		n, err := atoi(g[1:4]...)
		if err != nil {
			return err
		}
		nums, err := parseFloats(g[4])
		if err != nil {
			return err
		}
		_, err = m.AddTransition(n[0], n[1], n[2], nums[0])

		return err
	}
	if g := reDumpDivision.FindStringSubmatch(line); g != nil {
		n, err := atoi(g[1:5]...)
		if err != nil {
			return err
		}
		nums, err := parseFloats(g[5])
		if err != nil {
			return err
		}
		_, err = m.AddDivision(n[0], n[1], n[2], n[3], nums[0])

		return err
	}

	return fmt.Errorf("%q: %w", line, ErrBadDump)
}

// atoi converts digit captures; overflow is ErrBadDump.
func atoi(fields ...string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", f, ErrBadDump)
		}
		out[i] = v
	}

	return out, nil
}

func parseFloats(fields ...string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", f, ErrBadDump)
		}
		out[i] = v
	}

	return out, nil
}
