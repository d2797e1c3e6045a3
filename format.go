package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// ReportLine is one run of consecutive casts of the same spell.
type ReportLine struct {
	Name     string `json:"name"`
	Damage   int    `json:"damage"`
	Count    int    `json:"count"`
	Subtotal int    `json:"subtotal"` // Damage * Count
}

// ResultReport summarizes a cast sequence for display.
type ResultReport struct {
	Solved    bool         `json:"solved"`
	Lines     []ReportLine `json:"lines"`
	Remainder int          `json:"remainder"`
}

// NewReport run-length-encodes path in cast order. Repeats of a spell that
// are not adjacent in path become separate lines. An empty path yields an
// unsolved report.
func NewReport(cat Catalog, path []int, remainder int) ResultReport {
	if len(path) == 0 {
		return ResultReport{Lines: []ReportLine{}}
	}

	r := ResultReport{Solved: true, Remainder: remainder}
	for i := 0; i < len(path); {
		j := i + 1
		for j < len(path) && path[j] == path[i] {
			j++
		}
		s := cat[path[i]]
		r.Lines = append(r.Lines, ReportLine{
			Name:     s.Name,
			Damage:   s.Damage,
			Count:    j - i,
			Subtotal: s.Damage * (j - i),
		})
		i = j
	}
	return r
}

// ReportFor builds the report of the best solution in out.
func ReportFor(cat Catalog, out SearchOutcome) ResultReport {
	if out.Best == nil {
		return NewReport(cat, nil, 0)
	}
	return NewReport(cat, out.Best.Path, out.Best.Remainder)
}

// FormatReport produces the text block shown after every search.
func FormatReport(r ResultReport) string {
	var b strings.Builder

	b.WriteString("\n-------------------\n")
	if !r.Solved {
		b.WriteString("No solution.\n")
		return b.String()
	}

	for _, l := range r.Lines {
		if l.Count == 1 {
			fmt.Fprintf(&b, "%8s    | %d\n", l.Name, l.Damage)
		} else {
			fmt.Fprintf(&b, "%8s x%2d| %d\n", l.Name, l.Count, l.Subtotal)
		}
	}
	fmt.Fprintf(&b, "\nRemaining: %d\n", r.Remainder)
	b.WriteString("--------------------\n")
	return b.String()
}

// WriteResolution prints the stop reason, styled when w is a terminal,
// followed by the formatted report.
func WriteResolution(w io.Writer, res Resolution, r ResultReport) {
	out := termenv.NewOutput(w)
	reason := out.String(res.Outcome.Kind.StopReason())
	if res.Outcome.Kind == GoodEnough {
		reason = reason.Foreground(out.Color("2"))
	} else {
		reason = reason.Foreground(out.Color("3"))
	}
	fmt.Fprintln(w, reason.Bold())
	if res.Attempts > 1 {
		fmt.Fprintf(w, "Accepted overshoot raised to %d after %d attempts\n", res.Tolerance, res.Attempts)
	}
	fmt.Fprint(w, FormatReport(r))
}
