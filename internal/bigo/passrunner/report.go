package passrunner

import (
	"fmt"
	"io"
	"strings"

	"github.com/zertyz/big-O/internal/bigo/classifier"
	"github.com/zertyz/big-O/internal/bigo/sampler"
)

// Dimension identifies which measured quantity an AnalysisResult
// describes: an explicit enum to avoid stringly-typed dimension handling.
type Dimension int

const (
	Time Dimension = iota
	ResidentSpace
	AuxiliarySpace
	Custom
)

func (d Dimension) String() string {
	switch d {
	case Time:
		return "time"
	case ResidentSpace:
		return "space"
	case AuxiliarySpace:
		return "aux space"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of comparing an observed class to a declared max.
type Verdict int

const (
	Pass Verdict = iota
	Fail
	WayBelow
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "Pass"
	case Fail:
		return "Fail"
	case WayBelow:
		return "WayBelow"
	default:
		return "Unknown"
	}
}

// AnalysisResult is one measured dimension's classification outcome.
type AnalysisResult struct {
	Dimension     Dimension
	Label         string // non-empty only for Dimension == Custom
	Observed      classifier.Class
	Declared      classifier.Class
	Verdict       Verdict
	TieBreakFired bool
	Unavailable   bool
}

// Note is a single report-only annotation: a retry, a leak suspicion, a
// WayBelow hint, or time lost to flakiness.
type Note string

// Report is the rendered outcome of one analysis: a prelude, per-pass
// measurements, per-dimension verdicts, and a notes block. It is a plain
// struct independent of any io.Writer, so it can be rendered or
// suppressed by the caller.
type Report struct {
	Algorithm string
	Passes    []sampler.PassMeasurement
	Results   []AnalysisResult
	Notes     []Note
}

// Failed reports whether any dimension's verdict is Fail.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Verdict == Fail {
			return true
		}
	}
	return false
}

// Format writes the report in a stable text layout: a header line, a
// per-pass block, per-dimension verdict lines, and a notes block.
func (r *Report) Format(w io.Writer) {
	fmt.Fprintf(w, "=== bigo: %s ===\n", r.Algorithm)
	for _, p := range r.Passes {
		fmt.Fprintf(w, "pass %d: n=%d  dt=%s  ds=%d  max_aux_s=%d",
			p.PassIndex, p.N, p.DeltaT, p.DeltaS, p.MaxAuxS)
		if p.Repetitions > 1 {
			fmt.Fprintf(w, "  r=%d  dt/call=%s  ds/call=%.1f  aux/call=%.1f",
				p.Repetitions, p.PerCallTime(), p.PerCallSpace(), p.PerCallAuxSpace())
		}
		fmt.Fprintln(w)
	}
	for _, res := range r.Results {
		label := res.Dimension.String()
		if res.Dimension == Custom {
			label = res.Label
		}
		if res.Unavailable {
			fmt.Fprintf(w, "%-10s observed=Unavailable declared=%s verdict=Unavailable\n",
				label, res.Declared)
			continue
		}
		line := fmt.Sprintf("%-10s observed=%s declared=%s verdict=%s",
			label, res.Observed, res.Declared, res.Verdict)
		if res.TieBreakFired {
			line += fmt.Sprintf(" (tie-break: favored %s)", res.Observed)
		}
		fmt.Fprintln(w, line)
	}
	if len(r.Notes) > 0 {
		fmt.Fprintln(w, "notes:")
		for _, n := range r.Notes {
			fmt.Fprintf(w, "  - %s\n", n)
		}
	}
}

// String renders the report via Format into a string.
func (r *Report) String() string {
	var buf strings.Builder
	r.Format(&buf)
	return buf.String()
}
