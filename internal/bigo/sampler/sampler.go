// Package sampler implements the measurement sampler component of the
// harness: it brackets a subject invocation with an enter/exit pair and
// turns the bracket into a PassMeasurement.
package sampler

import (
	"time"

	"github.com/zertyz/big-O/internal/bigo/alloc"
)

// Token is the region handle returned by Enter. It must be consumed by
// exactly one matching Exit call; dropping it without exit is a usage
// error.
type Token struct {
	t0       time.Time
	baseline alloc.Snapshot
}

// PassMeasurement is one pass's raw measurement.
type PassMeasurement struct {
	N                 int
	PassIndex         int
	DeltaT            time.Duration
	DeltaS            int64
	MaxAuxS           int64
	AllocatedInRegion uint64
	Repetitions       int
	SpaceUnavailable  bool
}

// Sampler brackets subject invocations, reading the allocator probe
// around each one. A Sampler holds no state of its own between calls; all
// state lives in the Token returned by Enter, keeping the hot path small
// and stateless.
type Sampler struct {
	probe *alloc.Probe
}

// New returns a Sampler reading from the given allocator probe. Callers
// normally pass alloc.Global().
func New(probe *alloc.Probe) *Sampler {
	return &Sampler{probe: probe}
}

// Enter issues the region's acquire fence: realized here by reading the
// allocator baseline before storing the wall-clock start, since a Go
// memory read of an atomic value already carries acquire semantics and
// establishes the ordering the sampler needs without a separate
// runtime.Gosched or similar.
func (s *Sampler) Enter() Token {
	s.probe.ResetPeak()
	baseline := s.probe.Baseline()
	return Token{t0: time.Now(), baseline: baseline}
}

// Exit reads the closing snapshot and derives the PassMeasurement for n at
// the given pass index and repetition count. repetitions <= 1 means the
// pass is not amortized; Exit itself does not divide — callers needing a
// per-call figure divide the returned totals by Repetitions.
func (s *Sampler) Exit(tok Token, n, passIndex, repetitions int) PassMeasurement {
	closing := s.probe.Baseline()
	pm := PassMeasurement{
		N:           n,
		PassIndex:   passIndex,
		DeltaT:      time.Since(tok.t0),
		Repetitions: repetitions,
	}
	if tok.baseline.Unavailable || closing.Unavailable {
		pm.SpaceUnavailable = true
		return pm
	}
	pm.DeltaS = int64(closing.CurrentOutstanding) - int64(tok.baseline.CurrentOutstanding)

	// max_aux_s = max(peak_outstanding during region) - current_outstanding
	// at entry, approximated as max(peak_outstanding at exit,
	// current_outstanding at exit) minus the entry baseline.
	peak := closing.PeakOutstanding
	if closing.CurrentOutstanding > peak {
		peak = closing.CurrentOutstanding
	}
	maxAux := int64(peak) - int64(tok.baseline.CurrentOutstanding)
	if maxAux < 0 {
		maxAux = 0
	}
	pm.MaxAuxS = maxAux
	pm.AllocatedInRegion = closing.TotalAllocated - tok.baseline.TotalAllocated
	return pm
}

// PerCallTime returns DeltaT amortized by Repetitions (at least 1).
func (pm PassMeasurement) PerCallTime() time.Duration {
	r := pm.Repetitions
	if r < 1 {
		r = 1
	}
	return pm.DeltaT / time.Duration(r)
}

// PerCallSpace returns DeltaS amortized by Repetitions (at least 1).
func (pm PassMeasurement) PerCallSpace() float64 {
	r := pm.Repetitions
	if r < 1 {
		r = 1
	}
	return float64(pm.DeltaS) / float64(r)
}

// PerCallAuxSpace returns MaxAuxS amortized by Repetitions (at least 1).
func (pm PassMeasurement) PerCallAuxSpace() float64 {
	r := pm.Repetitions
	if r < 1 {
		r = 1
	}
	return float64(pm.MaxAuxS) / float64(r)
}
