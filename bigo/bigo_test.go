package bigo_test

import (
	"testing"

	"github.com/zertyz/big-O/bigo"
	"github.com/zertyz/big-O/internal/bigo/classifier"
)

// TestAnalyzeRegularAlgorithm_PassesForGenuinelyConstantSubject is a
// smoke test for the RegularBuilder plumbing.
func TestAnalyzeRegularAlgorithm_PassesForGenuinelyConstantSubject(t *testing.T) {
	var arr16384, arr32768 []int
	report := bigo.AnalyzeRegularAlgorithm(t, "array index read").
		Warmup(func() {
			arr16384 = make([]int, 16384)
			arr32768 = make([]int, 32768)
		}).
		FirstPass(16384, func(n int) (any, error) {
			return arr16384[n/2], nil
		}).
		SecondPass(32768, func(n int) (any, error) {
			return arr32768[n/2], nil
		}).
		TimeMeasurements(classifier.O1).
		Run()
	if report.Failed() {
		t.Fatalf("expected Pass, report: %s", report)
	}
}

func TestAnalyzeIteratorAlgorithm_AmortizesByRepetitions(t *testing.T) {
	const r = 50
	var arr4096, arr8192 []int
	report := bigo.AnalyzeIteratorAlgorithm(t, "array index read").
		Warmup(func() {
			arr4096 = make([]int, 4096)
			arr8192 = make([]int, 8192)
		}).
		FirstPass(4096, r, func(n int) (any, error) {
			return arr4096[n/2], nil
		}).
		SecondPass(8192, r, func(n int) (any, error) {
			return arr8192[n/2], nil
		}).
		TimeMeasurements(classifier.O1).
		Run()
	if report.Failed() {
		t.Fatalf("expected Pass, report: %s", report)
	}
}

func TestGetInfo_ReflectsDefaults(t *testing.T) {
	info := bigo.GetInfo()
	if info.DefaultTolerance != 10 {
		t.Fatalf("expected default tolerance 10, got %d", info.DefaultTolerance)
	}
	if info.ReportSink != "stdout" {
		t.Fatalf("expected default report sink stdout, got %q", info.ReportSink)
	}
}
