package bigo

import (
	"testing"

	"github.com/zertyz/big-O/internal/bigo/assertion"
	"github.com/zertyz/big-O/internal/bigo/classifier"
	"github.com/zertyz/big-O/internal/bigo/passrunner"
)

// IteratorBuilder configures an analysis of a subject that is called
// repeatedly within one pass, amortizing the measurement over r calls.
type IteratorBuilder struct {
	tb   testing.TB
	sink assertion.Sink
	cfg  passrunner.Config
}

// AnalyzeIteratorAlgorithm returns a builder for a subject whose
// per-call cost, not its per-pass total, is the quantity to classify.
func AnalyzeIteratorAlgorithm(tb testing.TB, algorithm string) *IteratorBuilder {
	return &IteratorBuilder{
		tb:   tb,
		sink: assertion.SinkFromEnv(),
		cfg: passrunner.Config{
			Algorithm: algorithm,
			Tolerance: defaultToleranceFromEnv(),
		},
	}
}

func (b *IteratorBuilder) Warmup(fn func()) *IteratorBuilder {
	b.cfg.Warmup = fn
	return b
}

func (b *IteratorBuilder) Reset(fn func()) *IteratorBuilder {
	b.cfg.Reset = fn
	return b
}

func (b *IteratorBuilder) MaxReattemptsPerPass(k int) *IteratorBuilder {
	b.cfg.MaxReattemptsPerPass = k
	return b
}

// FirstPass declares the first pass's n and repetition count r, and the
// closure invoked r times.
func (b *IteratorBuilder) FirstPass(n, r int, fn func(n int) (any, error)) *IteratorBuilder {
	b.cfg.N1 = n
	b.cfg.FirstPass = iteratorPassFunc(fn, r)
	return b
}

func (b *IteratorBuilder) SecondPass(n, r int, fn func(n int) (any, error)) *IteratorBuilder {
	b.cfg.N2 = n
	b.cfg.SecondPass = iteratorPassFunc(fn, r)
	return b
}

func (b *IteratorBuilder) FirstPassAssertions(fn func(any) error) *IteratorBuilder {
	b.cfg.FirstPassAssert = fn
	return b
}

func (b *IteratorBuilder) SecondPassAssertions(fn func(any) error) *IteratorBuilder {
	b.cfg.SecondPassAssert = fn
	return b
}

func (b *IteratorBuilder) TimeMeasurements(max classifier.Class) *IteratorBuilder {
	b.cfg.HasTimeMax, b.cfg.TimeMax = true, max
	return b
}

func (b *IteratorBuilder) SpaceMeasurements(max classifier.Class) *IteratorBuilder {
	b.cfg.HasSpaceMax, b.cfg.SpaceMax = true, max
	return b
}

func (b *IteratorBuilder) AuxiliarySpaceMeasurements(max classifier.Class) *IteratorBuilder {
	b.cfg.HasAuxMax, b.cfg.AuxMax = true, max
	return b
}

func (b *IteratorBuilder) AddCustomMeasurement(label string, max classifier.Class, description string, extractor func(data any) float64) *IteratorBuilder {
	b.cfg.CustomMeasurements = append(b.cfg.CustomMeasurements, passrunner.CustomMeasurement{
		Label: label, Declared: max, Description: description, Extractor: extractor,
	})
	return b
}

func (b *IteratorBuilder) AddCustomMeasurementWithAverages(label string, max classifier.Class, description string, extractor func(data any) float64) *IteratorBuilder {
	b.cfg.CustomMeasurements = append(b.cfg.CustomMeasurements, passrunner.CustomMeasurement{
		Label: label, Declared: max, Description: description, Extractor: extractor, WithAverages: true,
	})
	return b
}

func (b *IteratorBuilder) Tolerance(percent int) *IteratorBuilder {
	b.cfg.Tolerance = classifier.Tolerance(percent)
	return b
}

func (b *IteratorBuilder) StrictLeakDetection() *IteratorBuilder {
	b.cfg.StrictLeakDetection = true
	return b
}

func (b *IteratorBuilder) Async() *IteratorBuilder {
	b.cfg.Async = true
	return b
}

func (b *IteratorBuilder) Run() *passrunner.Report {
	report, err := passrunner.Run(&b.cfg)
	assertion.Check(b.tb, b.sink, report, err)
	return report
}

// iteratorPassFunc calls fn r times, returning the final call's data and
// r so the sampler's totals amortize correctly.
func iteratorPassFunc(fn func(n int) (any, error), r int) passrunner.PassFunc {
	return func(n int) (any, int, error) {
		var data any
		var err error
		for i := 0; i < r; i++ {
			data, err = fn(n)
			if err != nil {
				return data, r, err
			}
		}
		return data, r, nil
	}
}
