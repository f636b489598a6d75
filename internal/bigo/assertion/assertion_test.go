package assertion

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zertyz/big-O/internal/bigo/classifier"
	"github.com/zertyz/big-O/internal/bigo/passrunner"
)

type fakeTB struct {
	testing.TB
	failed  bool
	message string
}

func (f *fakeTB) Helper() {}
func (f *fakeTB) Fatal(args ...any) {
	f.failed = true
	f.message = fmt.Sprint(args...)
}

func TestCheck_PassingReportDoesNotFail(t *testing.T) {
	var buf bytes.Buffer
	report := &passrunner.Report{Algorithm: "x", Results: []passrunner.AnalysisResult{
		{Dimension: passrunner.Time, Observed: classifier.O1, Declared: classifier.O1, Verdict: passrunner.Pass},
	}}
	tb := &fakeTB{}
	Check(tb, WriterSink{W: &buf}, report, nil)
	assert.False(t, tb.failed)
	assert.Contains(t, buf.String(), "x")
}

func TestCheck_RegressionFailsTB(t *testing.T) {
	tb := &fakeTB{}
	Check(tb, DisabledSink{}, nil, &passrunner.ComplexityRegression{Dimensions: []string{"time"}})
	assert.True(t, tb.failed)
}
