// G-code text normalization for golden output comparison.
//
// Serialized output may differ from a golden file in line endings,
// trailing whitespace and ';' comments without differing in meaning.
// This package reduces both sides to comparable line sets and reports
// the first real difference.
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package normalize

import (
	"fmt"
	"strings"
)

// Lines splits raw G-code text into comparable lines. Everything after
// a ';' is dropped, surrounding whitespace (including the \r of CRLF
// endings) is trimmed, and blank lines are removed.
func Lines(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if idx := strings.IndexByte(raw, ';'); idx >= 0 {
			raw = raw[:idx]
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Diff describes the first difference between two normalized line sets.
// Line is 1-based. Expected is empty when actual has extra lines past
// the end; Actual is empty when expected lines are missing.
type Diff struct {
	Line     int
	Expected string
	Actual   string
}

func (d *Diff) String() string {
	switch {
	case d.Expected == "":
		return fmt.Sprintf("line %d: unexpected extra line %q", d.Line, d.Actual)
	case d.Actual == "":
		return fmt.Sprintf("line %d: expected %q, got end of output", d.Line, d.Expected)
	default:
		return fmt.Sprintf("line %d: expected %q, got %q", d.Line, d.Expected, d.Actual)
	}
}

// Compare returns the first difference between expected and actual,
// or nil when they match line for line.
func Compare(expected, actual []string) *Diff {
	n := len(expected)
	if len(actual) < n {
		n = len(actual)
	}
	for i := 0; i < n; i++ {
		if expected[i] != actual[i] {
			return &Diff{Line: i + 1, Expected: expected[i], Actual: actual[i]}
		}
	}
	if len(expected) > n {
		return &Diff{Line: n + 1, Expected: expected[n]}
	}
	if len(actual) > n {
		return &Diff{Line: n + 1, Actual: actual[n]}
	}
	return nil
}

// CompareText normalizes both texts and compares them.
func CompareText(expected, actual string) *Diff {
	return Compare(Lines(expected), Lines(actual))
}
