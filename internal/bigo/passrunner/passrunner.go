package passrunner

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/pbnjay/memory"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/zertyz/big-O/internal/bigo/alloc"
	"github.com/zertyz/big-O/internal/bigo/classifier"
	"github.com/zertyz/big-O/internal/bigo/diagnostics"
	"github.com/zertyz/big-O/internal/bigo/sampler"
)

// analysisLock is the single process-wide mutual-exclusion lock: only one
// analysis may be live process-wide.
var analysisLock sync.Mutex

// PassFunc runs the subject for a given n and returns whatever data the
// subject produced plus the repetition count actually performed (0 or 1
// when the pass is not iterator-shaped; Run treats any value below 1 as 1).
type PassFunc func(n int) (data any, repetitions int, err error)

// AssertFunc validates the data a pass returned. A non-nil error becomes
// a SubjectFailure and stops further passes.
type AssertFunc func(data any) error

// CustomMeasurement is one user-declared scalar measurement, extracted
// from the pass data and classified like any built-in dimension.
type CustomMeasurement struct {
	Label        string
	Declared     classifier.Class
	Description  string
	Extractor    func(data any) float64
	WithAverages bool
}

// Config is the fully-resolved configuration for one analysis, built by
// the top-level bigo package's builders.
type Config struct {
	Algorithm string

	N1, N2 int

	Warmup func()
	Reset  func()

	FirstPass  PassFunc
	SecondPass PassFunc

	FirstPassAssert  AssertFunc
	SecondPassAssert AssertFunc

	// Async, when true, routes FirstPass/SecondPass through a
	// single-threaded blocking executor, letting the subject closure
	// itself be asynchronous while the harness stays synchronous.
	Async bool

	HasTimeMax bool
	TimeMax    classifier.Class
	HasSpaceMax bool
	SpaceMax    classifier.Class
	HasAuxMax   bool
	AuxMax      classifier.Class

	CustomMeasurements []CustomMeasurement

	Tolerance classifier.Tolerance

	MaxReattemptsPerPass int

	StrictLeakDetection bool

	// BytesPerElementEstimate informs the low-memory guard's crude
	// estimate of pass2's footprint; default 64.
	BytesPerElementEstimate int
}

func (c *Config) validate() error {
	if c.FirstPass == nil || c.SecondPass == nil {
		return &ConfigError{Reason: "both first_pass and second_pass closures are required"}
	}
	if c.N2 <= c.N1 {
		return &ConfigError{Reason: fmt.Sprintf("second pass n (%d) must exceed first pass n (%d)", c.N2, c.N1)}
	}
	if c.N1 < 1 {
		return &ConfigError{Reason: "first pass n must be >= 1"}
	}
	if !c.Tolerance.Valid() {
		return &ConfigError{Reason: "tolerance must be 10 or 25"}
	}
	if !c.HasTimeMax && !c.HasSpaceMax && !c.HasAuxMax && len(c.CustomMeasurements) == 0 {
		return &ConfigError{Reason: "at least one declared maximum class is required"}
	}
	return nil
}

// Run executes the Pass Runner state machine:
//
//	Idle -> Warmup -> Reset -> Pass1 -> Reset -> Pass2 -> Classify -> Report -> Idle
//
// with bounded retries on time-flake between Classify and the offending
// pass.
func Run(cfg *Config) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !analysisLock.TryLock() {
		return nil, &HarnessReentrance{}
	}
	defer analysisLock.Unlock()

	probe := alloc.Global()
	smp := sampler.New(probe)
	baselineGoroutines := runtime.NumGoroutine()
	leakBaseline := goleak.IgnoreCurrent()

	if err := checkLowMemory(cfg); err != nil {
		return nil, err
	}

	if cfg.Warmup != nil {
		cfg.Warmup()
	}

	report := &Report{Algorithm: cfg.Algorithm}

	maxRetries := cfg.MaxReattemptsPerPass
	if maxRetries <= 0 {
		maxRetries = 2
	}

	runPass := func(n, idx int, fn PassFunc, assert AssertFunc) (sampler.PassMeasurement, any, error) {
		if cfg.Reset != nil {
			alloc.WithGCSuspended(cfg.Reset)
		}
		var pm sampler.PassMeasurement
		var data any
		var err error
		var panicStack string
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					panicStack = diagnostics.Lookup(diagnostics.Capture())
					err = fmt.Errorf("panic: %v", rec)
				}
			}()
			alloc.WithGCSuspended(func() {
				tok := smp.Enter()
				var reps int
				if cfg.Async {
					data, reps, err = runAsync(fn, n)
				} else {
					data, reps, err = fn(n)
				}
				if reps < 1 {
					reps = 1
				}
				pm = smp.Exit(tok, n, idx, reps)
			})
		}()
		if err != nil {
			return pm, nil, &SubjectFailure{Pass: idx, Cause: err, Stack: panicStack}
		}
		if assert != nil {
			if aerr := assert(data); aerr != nil {
				return pm, nil, &SubjectFailure{Pass: idx, Cause: aerr}
			}
		}
		return pm, data, nil
	}

	var pm1, pm2 sampler.PassMeasurement
	var data1, data2 any
	var retriesUsed int
	var timeLostToFlakiness time.Duration

	var err error
	pm1, data1, err = runPass(cfg.N1, 1, cfg.FirstPass, cfg.FirstPassAssert)
	if err != nil {
		return nil, err
	}
	preOutstanding := probe.Baseline().CurrentOutstanding

	pm2, data2, err = runPass(cfg.N2, 2, cfg.SecondPass, cfg.SecondPassAssert)
	if err != nil {
		return nil, err
	}
	postOutstanding := probe.Baseline().CurrentOutstanding
	if leakNote := checkLeak(preOutstanding, postOutstanding, baselineGoroutines, leakBaseline); leakNote != "" {
		if cfg.StrictLeakDetection {
			return nil, &LeakSuspicion{Detail: leakNote, Fatal: true}
		}
		report.Notes = append(report.Notes, Note(leakNote))
	}

	var results []AnalysisResult
	for attempt := 0; ; attempt++ {
		results = classifyAll(cfg, pm1, pm2, data1, data2)
		timeFail := false
		spacePass := true
		for _, r := range results {
			if r.Dimension == Time && r.Verdict == Fail {
				timeFail = true
			}
			if r.Dimension != Time && r.Verdict == Fail {
				spacePass = false
			}
		}

		if !(timeFail && spacePass) || attempt >= maxRetries {
			break
		}

		retriesUsed++
		if offendingPass(cfg, pm1, pm2) == 1 {
			timeLostToFlakiness += pm1.DeltaT
			pm1, data1, err = runPass(cfg.N1, 1, cfg.FirstPass, cfg.FirstPassAssert)
		} else {
			timeLostToFlakiness += pm2.DeltaT
			pm2, data2, err = runPass(cfg.N2, 2, cfg.SecondPass, cfg.SecondPassAssert)
		}
		if err != nil {
			return nil, err
		}
	}

	report.Passes = []sampler.PassMeasurement{pm1, pm2}
	report.Results = results

	if retriesUsed > 0 {
		report.Notes = append(report.Notes, Note(fmt.Sprintf(
			"retried %d time(s); %s lost to flakiness", retriesUsed, timeLostToFlakiness)))
	}

	var failedDims []string
	for _, r := range results {
		if r.Verdict == Fail {
			failedDims = append(failedDims, r.Dimension.String())
		}
		if r.Observed == classifier.Indeterminate && r.Declared != classifier.Indeterminate {
			report.Notes = append(report.Notes, Note(fmt.Sprintf("%s: measurement indeterminate", r.Dimension)))
		}
	}
	if len(failedDims) > 0 {
		return report, &ComplexityRegression{Dimensions: failedDims}
	}
	return report, nil
}

// offendingPass identifies which of pass 1 or pass 2 deviates more from the
// value the declared time class implies for it given the other pass, so a
// time-flake retry re-runs only that pass instead of both. Each pass's
// implied value is solved from the other pass's actual measurement and the
// declared class's expected ratio; the pass whose actual measurement is the
// larger relative distance from its implied value is the one re-run.
func offendingPass(cfg *Config, pm1, pm2 sampler.PassMeasurement) int {
	y1 := float64(pm1.DeltaT.Microseconds())
	y2 := float64(pm2.DeltaT.Microseconds())
	if pm1.Repetitions > 1 {
		y1 = float64(pm1.PerCallTime().Microseconds())
		y2 = float64(pm2.PerCallTime().Microseconds())
	}
	if y1 <= 0 || y2 <= 0 {
		return 2
	}
	expected, ok := classifier.ExpectedRatio(cfg.TimeMax, cfg.N1, cfg.N2)
	if !ok || expected <= 0 {
		return 2
	}
	ratio := y2 / y1
	residual1 := math.Abs(ratio-expected) / ratio
	residual2 := math.Abs(ratio-expected) / expected
	if residual1 > residual2 {
		return 1
	}
	return 2
}

// classifyAll classifies every declared dimension plus every custom
// measurement, amortizing by repetitions where applicable.
func classifyAll(cfg *Config, pm1, pm2 sampler.PassMeasurement, data1, data2 any) []AnalysisResult {
	var results []AnalysisResult

	if cfg.HasTimeMax {
		y1 := float64(pm1.DeltaT.Microseconds())
		y2 := float64(pm2.DeltaT.Microseconds())
		if pm1.Repetitions > 1 {
			y1 = float64(pm1.PerCallTime().Microseconds())
			y2 = float64(pm2.PerCallTime().Microseconds())
		}
		results = append(results, resultFor(Time, "", cfg.TimeMax, cfg.N1, cfg.N2, y1, y2, cfg.Tolerance))
	}
	if cfg.HasSpaceMax {
		if pm1.SpaceUnavailable || pm2.SpaceUnavailable {
			results = append(results, AnalysisResult{Dimension: ResidentSpace, Declared: cfg.SpaceMax, Unavailable: true})
		} else {
			y1, y2 := float64(pm1.DeltaS), float64(pm2.DeltaS)
			if pm1.Repetitions > 1 {
				y1, y2 = pm1.PerCallSpace(), pm2.PerCallSpace()
			}
			results = append(results, resultFor(ResidentSpace, "", cfg.SpaceMax, cfg.N1, cfg.N2, y1, y2, cfg.Tolerance))
		}
	}
	if cfg.HasAuxMax {
		if pm1.SpaceUnavailable || pm2.SpaceUnavailable {
			results = append(results, AnalysisResult{Dimension: AuxiliarySpace, Declared: cfg.AuxMax, Unavailable: true})
		} else {
			y1, y2 := float64(pm1.MaxAuxS), float64(pm2.MaxAuxS)
			if pm1.Repetitions > 1 {
				y1, y2 = pm1.PerCallAuxSpace(), pm2.PerCallAuxSpace()
			}
			results = append(results, resultFor(AuxiliarySpace, "", cfg.AuxMax, cfg.N1, cfg.N2, y1, y2, cfg.Tolerance))
		}
	}
	for _, cm := range cfg.CustomMeasurements {
		y1, y2 := cm.Extractor(data1), cm.Extractor(data2)
		if cm.WithAverages && pm1.Repetitions > 1 {
			y1 /= float64(pm1.Repetitions)
			y2 /= float64(pm2.Repetitions)
		}
		results = append(results, resultFor(Custom, cm.Label, cm.Declared, cfg.N1, cfg.N2, y1, y2, cfg.Tolerance))
	}
	return results
}

func resultFor(dim Dimension, label string, declared classifier.Class, n1, n2 int, y1, y2 float64, tol classifier.Tolerance) AnalysisResult {
	res := classifier.Classify(n1, n2, y1, y2, tol)
	verdict := Pass
	switch {
	case res.Class == classifier.Indeterminate:
		// A soft warning rather than a hard fail, regardless of the
		// declared max: indeterminate never fails a dimension outright.
		verdict = Pass
	case !res.Class.LessOrEqual(declared):
		verdict = Fail
	case res.Class.StepsBelow(declared) >= 2:
		verdict = WayBelow
	}
	return AnalysisResult{
		Dimension:     dim,
		Label:         label,
		Observed:      res.Class,
		Declared:      declared,
		Verdict:       verdict,
		TieBreakFired: res.TieBreakFired,
	}
}

// checkLeak compares the process-outstanding byte count and goroutine
// count before/after pass2 against the pre-warmup baseline, extended to
// goroutines via goleak.
func checkLeak(pre, post uint64, baselineGoroutines int, leakBaseline goleak.Option) string {
	const toleranceBytes = 1 << 20 // 1 MiB slack; counters are noisy at this scale regardless of strictness
	delta := int64(post) - int64(pre)
	if delta < 0 {
		delta = -delta
	}
	var notes []string
	if uint64(delta) > toleranceBytes {
		notes = append(notes, fmt.Sprintf("outstanding bytes drifted by %d between passes", delta))
	}
	if err := goleak.Find(leakBaseline); err != nil {
		notes = append(notes, err.Error())
	}
	if runtime.NumGoroutine() > baselineGoroutines {
		notes = append(notes, fmt.Sprintf("goroutine count grew from %d to %d", baselineGoroutines, runtime.NumGoroutine()))
	}
	if len(notes) == 0 {
		return ""
	}
	joined := notes[0]
	for _, n := range notes[1:] {
		joined += "; " + n
	}
	return joined
}

// checkLowMemory raises a ConfigError before warmup and both passes if
// pass2's declared n, multiplied by a crude per-element byte estimate,
// looks likely to exceed
// available system memory, using github.com/pbnjay/memory to query the
// host rather than hanging or OOMing.
func checkLowMemory(cfg *Config) error {
	perElement := cfg.BytesPerElementEstimate
	if perElement <= 0 {
		perElement = 64
	}
	estimate := uint64(cfg.N2) * uint64(perElement)
	free := memory.FreeMemory()
	if free == 0 {
		return nil // unknown on this platform; don't fail fast on a guess
	}
	if estimate > free {
		return &ConfigError{Reason: fmt.Sprintf(
			"pass2 (n=%d, ~%d bytes/element) estimated at %d bytes, exceeding %d bytes free",
			cfg.N2, perElement, estimate, free)}
	}
	return nil
}

// runAsync routes fn through a single-goroutine errgroup.Group so the
// harness thread blocks on Group.Wait() until the closure completes,
// while the subject itself may be written as an async-shaped closure.
func runAsync(fn PassFunc, n int) (data any, reps int, err error) {
	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var innerErr error
		data, reps, innerErr = fn(n)
		return innerErr
	})
	err = g.Wait()
	return data, reps, err
}
