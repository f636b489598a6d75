package crud

import (
	"fmt"
	"time"

	"github.com/zertyz/big-O/internal/bigo/classifier"
	"github.com/zertyz/big-O/internal/bigo/passrunner"
)

// Phase identifies which of the four CRUD operations an analysis covers.
type Phase int

const (
	Create Phase = iota
	Read
	Update
	Delete
)

func (p Phase) String() string {
	switch p {
	case Create:
		return "Create"
	case Read:
		return "Read"
	case Update:
		return "Update"
	case Delete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// amortizes reports whether phase p's measurement is divided by r before
// classification. Read and Update amortize by r; for Create and Delete,
// work scales with n and amortization is not applied.
func (p Phase) amortizes() bool {
	return p == Read || p == Update
}

// Config describes one CRUD analysis: the dataset parameter n at two
// sizes, the repetition count r for Read/Update, and one PassFunc per
// phase operating against a resident dataset the closures share. Run does
// not rebuild or reset that dataset between passes or phases.
type Config struct {
	Algorithm string
	N1, N2    int
	R         int

	Create passrunner.PassFunc
	Read   passrunner.PassFunc
	Update passrunner.PassFunc
	Delete passrunner.PassFunc

	CreateMax, ReadMax, UpdateMax, DeleteMax classifier.Class

	Tolerance classifier.Tolerance

	MaxReattemptsPerPass int
}

// RunReport is the four-way fan-out of Reports, one per CRUD phase,
// sharing one prelude identifying the algorithm.
type RunReport struct {
	Algorithm string
	Create    *passrunner.Report
	Read      *passrunner.Report
	Update    *passrunner.Report
	Delete    *passrunner.Report
}

// Failed reports whether any of the four phase reports failed.
func (r *RunReport) Failed() bool {
	return r.Create.Failed() || r.Read.Failed() || r.Update.Failed() || r.Delete.Failed()
}

// Run executes the four phase analyses in Create, Read, Update, Delete
// order: the resident set must exist before Read/Update run against it,
// and must still exist when Delete runs.
func Run(cfg *Config) (*RunReport, error) {
	phases := []struct {
		phase Phase
		fn    passrunner.PassFunc
		max   classifier.Class
	}{
		{Create, cfg.Create, cfg.CreateMax},
		{Read, cfg.Read, cfg.ReadMax},
		{Update, cfg.Update, cfg.UpdateMax},
		{Delete, cfg.Delete, cfg.DeleteMax},
	}

	result := &RunReport{Algorithm: cfg.Algorithm}
	var firstErr error

	for _, p := range phases {
		if p.fn == nil {
			return nil, fmt.Errorf("crud: %s phase closure is required", p.phase)
		}
		pc := &passrunner.Config{
			Algorithm:            fmt.Sprintf("%s: %s", cfg.Algorithm, p.phase),
			N1:                   cfg.N1,
			N2:                   cfg.N2,
			FirstPass:            wrapPhase(p.phase, p.fn, cfg.R),
			SecondPass:           wrapPhase(p.phase, p.fn, cfg.R),
			HasTimeMax:           true,
			TimeMax:              p.max,
			Tolerance:            cfg.Tolerance,
			MaxReattemptsPerPass: cfg.MaxReattemptsPerPass,
		}
		report, err := passrunner.Run(pc)
		if report != nil && (p.phase == Create || p.phase == Delete) {
			addDerivedPerElementNote(report)
		}
		switch p.phase {
		case Create:
			result.Create = report
		case Read:
			result.Read = report
		case Update:
			result.Update = report
		case Delete:
			result.Delete = report
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return result, firstErr
}

// addDerivedPerElementNote appends a derived, non-classifying Δt/n and
// Δs/n column for Create/Delete phases: users expect a "per insert"
// figure even though work scales with n and no amortization is applied
// for classification.
func addDerivedPerElementNote(report *passrunner.Report) {
	if len(report.Passes) != 2 {
		return
	}
	p2 := report.Passes[1]
	if p2.N == 0 {
		return
	}
	note := fmt.Sprintf("derived, not used for classification: Δt/n=%s  Δs/n=%.1f (pass 2, n=%d)",
		p2.DeltaT/time.Duration(p2.N), float64(p2.DeltaS)/float64(p2.N), p2.N)
	report.Notes = append(report.Notes, passrunner.Note(note))
}

// wrapPhase adapts a phase closure to passrunner's single-bracketed-call
// convention. Create and Delete run the closure once and report 0
// (unamortized, per sampler.PassMeasurement's convention). Read and
// Update run the closure r times inside the same bracketed call, so the
// sampler measures the real elapsed total for r calls, which passrunner
// then divides by r to get the per-call figure it classifies.
func wrapPhase(phase Phase, fn passrunner.PassFunc, r int) passrunner.PassFunc {
	if !phase.amortizes() {
		return func(n int) (any, int, error) {
			data, _, err := fn(n)
			return data, 0, err
		}
	}
	reps := r
	if reps < 1 {
		reps = 1
	}
	return func(n int) (any, int, error) {
		var data any
		var err error
		for i := 0; i < reps; i++ {
			data, _, err = fn(n)
			if err != nil {
				return data, reps, err
			}
		}
		return data, reps, nil
	}
}
