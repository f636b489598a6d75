package passrunner

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zertyz/big-O/internal/bigo/classifier"
	"github.com/zertyz/big-O/internal/bigo/sampler"
)

func constantLookup(n int) (any, int, error) {
	arr := make([]int, n)
	_ = arr[n/2]
	return nil, 0, nil
}

func TestRun_ConstantLookupPasses(t *testing.T) {
	cfg := &Config{
		Algorithm:  "array index read",
		N1:         16384,
		N2:         32768,
		FirstPass:  constantLookup,
		SecondPass: constantLookup,
		HasTimeMax: true,
		TimeMax:    classifier.O1,
		Tolerance:  classifier.Tolerance10,
	}
	report, err := Run(cfg)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, Pass, report.Results[0].Verdict)
}

func TestRun_RejectsMissingPasses(t *testing.T) {
	cfg := &Config{Algorithm: "x", N1: 10, N2: 20, HasTimeMax: true, TimeMax: classifier.O1, Tolerance: classifier.Tolerance10}
	_, err := Run(cfg)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestRun_RejectsInvalidN(t *testing.T) {
	cfg := &Config{
		Algorithm: "x", N1: 20, N2: 10,
		FirstPass: constantLookup, SecondPass: constantLookup,
		HasTimeMax: true, TimeMax: classifier.O1, Tolerance: classifier.Tolerance10,
	}
	_, err := Run(cfg)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestRun_SubjectFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	cfg := &Config{
		Algorithm: "x", N1: 10, N2: 20,
		FirstPass:  func(n int) (any, int, error) { return nil, 0, boom },
		SecondPass: constantLookup,
		HasTimeMax: true, TimeMax: classifier.O1, Tolerance: classifier.Tolerance10,
	}
	_, err := Run(cfg)
	var sf *SubjectFailure
	require.ErrorAs(t, err, &sf)
	assert.Equal(t, 1, sf.Pass)
}

func TestRun_SubjectPanicBecomesSubjectFailureWithStack(t *testing.T) {
	cfg := &Config{
		Algorithm: "x", N1: 10, N2: 20,
		FirstPass:  func(n int) (any, int, error) { panic("boom") },
		SecondPass: constantLookup,
		HasTimeMax: true, TimeMax: classifier.O1, Tolerance: classifier.Tolerance10,
	}
	_, err := Run(cfg)
	var sf *SubjectFailure
	require.ErrorAs(t, err, &sf)
	assert.NotEmpty(t, sf.Stack)
}

func TestRun_ComplexityRegressionOnQuadraticSort(t *testing.T) {
	bubbleSort := func(n int) (any, int, error) {
		data := make([]int, n)
		for i := range data {
			data[i] = n - i
		}
		for i := 0; i < len(data); i++ {
			for j := 0; j < len(data)-i-1; j++ {
				if data[j] > data[j+1] {
					data[j], data[j+1] = data[j+1], data[j]
				}
			}
		}
		return data, 0, nil
	}
	cfg := &Config{
		Algorithm:  "bubble sort",
		N1:         300,
		N2:         600,
		FirstPass:  bubbleSort,
		SecondPass: bubbleSort,
		HasTimeMax: true,
		TimeMax:    classifier.ONLogN,
		Tolerance:  classifier.Tolerance10,
	}
	_, err := Run(cfg)
	var cr *ComplexityRegression
	require.ErrorAs(t, err, &cr)
}

func TestRun_RetriesOnlyTheOffendingPassOnTimeFlake(t *testing.T) {
	var firstCalls, secondCalls int
	firstPass := func(n int) (any, int, error) {
		firstCalls++
		time.Sleep(time.Millisecond)
		return nil, 0, nil
	}
	secondPassFlaked := false
	secondPass := func(n int) (any, int, error) {
		secondCalls++
		if !secondPassFlaked {
			secondPassFlaked = true
			time.Sleep(50 * time.Millisecond)
		} else {
			time.Sleep(time.Millisecond)
		}
		return nil, 0, nil
	}
	cfg := &Config{
		Algorithm:  "flaky second pass",
		N1:         10,
		N2:         20,
		FirstPass:  firstPass,
		SecondPass: secondPass,
		HasTimeMax: true,
		TimeMax:    classifier.O1,
		Tolerance:  classifier.Tolerance10,
	}
	report, err := Run(cfg)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, 1, firstCalls, "first pass should not be re-run; only the second pass flaked")
	assert.Equal(t, 2, secondCalls, "second pass should be retried once")

	var retryNoted bool
	for _, n := range report.Notes {
		if strings.Contains(string(n), "retried 1 time") {
			retryNoted = true
		}
	}
	assert.True(t, retryNoted, "report should note the retry, notes: %v", report.Notes)
}

func TestOffendingPass_PicksTheMeasurementFurtherFromImpliedValue(t *testing.T) {
	cfg := &Config{N1: 10, N2: 20, HasTimeMax: true, TimeMax: classifier.O1}

	// pass 2 ran far slower than O(1) implies given pass 1; pass 2 is the
	// outlier and should be the one re-run.
	slowSecond := sampler.PassMeasurement{DeltaT: time.Millisecond}
	slowSecondPm2 := sampler.PassMeasurement{DeltaT: 50 * time.Millisecond}
	assert.Equal(t, 2, offendingPass(cfg, slowSecond, slowSecondPm2))

	// pass 1 ran far slower than O(1) implies given pass 2; pass 1 is the
	// outlier and should be the one re-run.
	slowFirst := sampler.PassMeasurement{DeltaT: 50 * time.Millisecond}
	fastSecond := sampler.PassMeasurement{DeltaT: time.Millisecond}
	assert.Equal(t, 1, offendingPass(cfg, slowFirst, fastSecond))
}

func TestRun_ReentranceIsRejected(t *testing.T) {
	analysisLock.Lock()
	defer analysisLock.Unlock()

	cfg := &Config{
		Algorithm: "x", N1: 10, N2: 20,
		FirstPass: constantLookup, SecondPass: constantLookup,
		HasTimeMax: true, TimeMax: classifier.O1, Tolerance: classifier.Tolerance10,
	}
	_, err := Run(cfg)
	var rerr *HarnessReentrance
	require.ErrorAs(t, err, &rerr)
}
