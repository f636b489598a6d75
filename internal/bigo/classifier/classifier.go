package classifier

import "math"

// Tolerance is the multiplicative slack applied to class boundary
// expected-ratios when classifying. The discrete set is kept deliberately
// small to avoid misuse and to keep class interval arithmetic easy to audit.
type Tolerance int

const (
	// Tolerance10 is the default 10% tolerance.
	Tolerance10 Tolerance = 10
	// Tolerance25 is the looser 25% tolerance for noisier environments.
	Tolerance25 Tolerance = 25
)

// Valid reports whether t is one of the two recognized tolerances.
func (t Tolerance) Valid() bool {
	return t == Tolerance10 || t == Tolerance25
}

// fraction returns t as a fraction in (0,1), e.g. Tolerance10 -> 0.10.
func (t Tolerance) fraction() float64 {
	return float64(t) / 100
}

// epsilon is the absolute floor below which a measurement is treated as
// effectively zero for ratio purposes: if y₁ ≤ ε, no ratio is computed; the
// pair is O(1) when y₂ ≤ ε as well, and Indeterminate otherwise.
const epsilon = 1e-9

// Result is the outcome of classifying one pass pair along one dimension.
type Result struct {
	// Class is the selected complexity class, or Indeterminate.
	Class Class
	// Ratio is the observed growth ratio y₂/y₁ actually used (1 when both
	// measurements are effectively zero), kept for reporting.
	Ratio float64
	// TieBreakFired is true when the ambiguous-interval tie-break (favor
	// the lower/slower class) actually changed the outcome.
	TieBreakFired bool
}

// expectedRatios returns the expected growth ratio E_c for each candidate
// class.
func expectedRatios(n1, n2 int) [7]float64 {
	n1f, n2f := float64(n1), float64(n2)
	// Smoothed natural log: avoids a log(1)=0 division, keeping O(log n)'s
	// expected ratio well-defined for small n without materially changing
	// it at the n ≥ 1000-scale inputs typical analyses use.
	ln1, ln2 := math.Log(n1f)+1, math.Log(n2f)+1
	return [7]float64{
		1,                         // O1
		ln2 / ln1,                 // OLogN
		n2f / n1f,                 // ON
		(n2f * ln2) / (n1f * ln1), // ONLogN
		math.Pow(n2f/n1f, 2),      // ON2
		math.Pow(n2f/n1f, 3),      // ON3
		math.Pow(2, n2f-n1f),      // O2N
	}
}

// ExpectedRatio returns the growth ratio Classify expects for class c
// between n1 and n2, the same curve observations are fit against. ok is
// false for Indeterminate and WorseThanExponential, neither of which has a
// closed-form expected ratio.
func ExpectedRatio(c Class, n1, n2 int) (ratio float64, ok bool) {
	table := expectedRatios(n1, n2)
	for i, oc := range orderedClasses[:len(table)] {
		if oc == c {
			return table[i], true
		}
	}
	return 0, false
}

// Classify maps a pass pair (n₁,y₁)→(n₂,y₂) to a Class under tolerance tol:
// compute the observed ratio, compute each candidate class's expected
// ratio, and pick the class whose τ-wide acceptance band around its
// expected ratio contains the observation.
//
// Bands are defined symmetrically, [E_c·(1−τ), E_c·(1+τ)], rather than as
// contiguous half-open bins sharing a neighbor's expected ratio: at typical
// worked-scenario scales (e.g. n₁=16384, n₂=32768), O(log n)'s expected
// ratio sits so close to 1 that a contiguous-bin reading would misclassify
// a genuinely constant subject as O(log n). A symmetric band keyed to each
// class's own expected ratio avoids that artifact while still producing
// interval overlaps at small n, which is exactly the case the tie-break
// rule anticipates: when intervals overlap, choose the lower class. See
// DESIGN.md.
//
// y₁ and y₂ must already be amortized per-call figures (y/r) when the
// caller is measuring an iterator-shaped pass — amortization is the only
// mechanism by which CRUD per-element complexity is derived. Classify
// itself is a pure function of its four numeric inputs and performs no
// division by a repetition count.
func Classify(n1, n2 int, y1, y2 float64, tol Tolerance) Result {
	if !tol.Valid() || n1 < 1 || n2 <= n1 ||
		math.IsNaN(y1) || math.IsNaN(y2) || math.IsInf(y1, 0) || math.IsInf(y2, 0) ||
		y2 < 0 {
		return Result{Class: Indeterminate}
	}

	if y1 <= epsilon {
		if y2 <= epsilon {
			return Result{Class: O1, Ratio: 1}
		}
		return Result{Class: Indeterminate}
	}

	ratio := y2 / y1
	tau := tol.fraction()
	expected := expectedRatios(n1, n2)

	// logRatio is only used for the nearest-class fallback distance; clamp
	// away non-positive ratios (e.g. a region that nets to zero bytes) so
	// math.Log never produces -Inf.
	logRatio := ratio
	if logRatio <= epsilon {
		logRatio = epsilon
	}

	// Walk classes in ascending growth order (favoring the lower class on
	// a tie is then just "keep the first match"); fall back to the
	// closest class by log-distance when no band contains the ratio.
	selected := -1
	bestLogDist := math.Inf(1)
	nearest := 0
	overlapCount := 0
	for i, e := range expected {
		lo, hi := e*(1-tau), e*(1+tau)
		if ratio >= lo && ratio <= hi {
			if selected == -1 {
				selected = i
			} else {
				overlapCount++
			}
		}
		if d := math.Abs(math.Log(logRatio) - math.Log(e)); d < bestLogDist {
			bestLogDist = d
			nearest = i
		}
	}
	tieBreak := overlapCount > 0
	if selected == -1 {
		selected = nearest
	}

	return Result{Class: orderedClasses[selected], Ratio: ratio, TieBreakFired: tieBreak}
}
