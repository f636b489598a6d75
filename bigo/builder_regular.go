package bigo

import (
	"testing"

	"github.com/zertyz/big-O/internal/bigo/assertion"
	"github.com/zertyz/big-O/internal/bigo/classifier"
	"github.com/zertyz/big-O/internal/bigo/passrunner"
)

// RegularBuilder configures an analysis of a non-iterator-shaped subject.
type RegularBuilder struct {
	tb   testing.TB
	sink assertion.Sink
	cfg  passrunner.Config
}

// AnalyzeRegularAlgorithm returns a builder for a subject whose cost
// does not amortize over repeated internal calls — the common case of
// "run this once at n and measure it".
func AnalyzeRegularAlgorithm(tb testing.TB, algorithm string) *RegularBuilder {
	return &RegularBuilder{
		tb:   tb,
		sink: assertion.SinkFromEnv(),
		cfg: passrunner.Config{
			Algorithm: algorithm,
			Tolerance: defaultToleranceFromEnv(),
		},
	}
}

func (b *RegularBuilder) Warmup(fn func()) *RegularBuilder {
	b.cfg.Warmup = fn
	return b
}

func (b *RegularBuilder) Reset(fn func()) *RegularBuilder {
	b.cfg.Reset = fn
	return b
}

func (b *RegularBuilder) MaxReattemptsPerPass(k int) *RegularBuilder {
	b.cfg.MaxReattemptsPerPass = k
	return b
}

func (b *RegularBuilder) FirstPass(n int, fn func(n int) (any, error)) *RegularBuilder {
	b.cfg.N1 = n
	b.cfg.FirstPass = regularPassFunc(fn)
	return b
}

func (b *RegularBuilder) SecondPass(n int, fn func(n int) (any, error)) *RegularBuilder {
	b.cfg.N2 = n
	b.cfg.SecondPass = regularPassFunc(fn)
	return b
}

func (b *RegularBuilder) FirstPassAssertions(fn func(any) error) *RegularBuilder {
	b.cfg.FirstPassAssert = fn
	return b
}

func (b *RegularBuilder) SecondPassAssertions(fn func(any) error) *RegularBuilder {
	b.cfg.SecondPassAssert = fn
	return b
}

func (b *RegularBuilder) TimeMeasurements(max classifier.Class) *RegularBuilder {
	b.cfg.HasTimeMax, b.cfg.TimeMax = true, max
	return b
}

func (b *RegularBuilder) SpaceMeasurements(max classifier.Class) *RegularBuilder {
	b.cfg.HasSpaceMax, b.cfg.SpaceMax = true, max
	return b
}

func (b *RegularBuilder) AuxiliarySpaceMeasurements(max classifier.Class) *RegularBuilder {
	b.cfg.HasAuxMax, b.cfg.AuxMax = true, max
	return b
}

// AddCustomMeasurement declares an additional scalar measurement;
// description is stored with the measurement but is not printed in the
// report and does not affect classification.
func (b *RegularBuilder) AddCustomMeasurement(label string, max classifier.Class, description string, extractor func(data any) float64) *RegularBuilder {
	b.cfg.CustomMeasurements = append(b.cfg.CustomMeasurements, passrunner.CustomMeasurement{
		Label: label, Declared: max, Description: description, Extractor: extractor,
	})
	return b
}

// AddCustomMeasurementWithAverages is AddCustomMeasurement with the
// extracted values divided by the pass's repetition count before
// classification when a pass repeats more than once. The report prints no
// separate per-call figure for custom measurements.
func (b *RegularBuilder) AddCustomMeasurementWithAverages(label string, max classifier.Class, description string, extractor func(data any) float64) *RegularBuilder {
	b.cfg.CustomMeasurements = append(b.cfg.CustomMeasurements, passrunner.CustomMeasurement{
		Label: label, Declared: max, Description: description, Extractor: extractor, WithAverages: true,
	})
	return b
}

// Tolerance accepts 10 or 25 (percent); any other value is a ConfigError
// surfaced at Run() time rather than here, since validation happens
// before any subject invocation.
func (b *RegularBuilder) Tolerance(percent int) *RegularBuilder {
	b.cfg.Tolerance = classifier.Tolerance(percent)
	return b
}

// StrictLeakDetection promotes LeakSuspicion to a hard failure; leak
// detection is opt-in strict, not on by default.
func (b *RegularBuilder) StrictLeakDetection() *RegularBuilder {
	b.cfg.StrictLeakDetection = true
	return b
}

// Async routes both passes through a single-threaded blocking executor,
// letting the subject closures themselves be asynchronous.
func (b *RegularBuilder) Async() *RegularBuilder {
	b.cfg.Async = true
	return b
}

// Run executes the configured analysis and fails the host test on any
// Fail verdict.
func (b *RegularBuilder) Run() *passrunner.Report {
	report, err := passrunner.Run(&b.cfg)
	assertion.Check(b.tb, b.sink, report, err)
	return report
}

func regularPassFunc(fn func(n int) (any, error)) passrunner.PassFunc {
	return func(n int) (any, int, error) {
		data, err := fn(n)
		return data, 0, err
	}
}
