// Package bigo provides a test-time Big-O enforcement harness: it
// measures the time and space consumption of a subject algorithm at two
// input sizes, classifies the observed growth against a fixed set of
// complexity classes, and asserts the fit against a declared maximum.
//
// # Quick Start
//
// Call one of the three entry points to get a builder, configure the
// passes, and call Run:
//
//	func TestLookupIsConstant(t *testing.T) {
//		var arr16384, arr32768 []int
//		bigo.AnalyzeRegularAlgorithm(t, "array index read").
//			Warmup(func() {
//				arr16384 = make([]int, 16384)
//				arr32768 = make([]int, 32768)
//			}).
//			FirstPass(16384, func(n int) (any, error) {
//				return arr16384[n/2], nil
//			}).
//			SecondPass(32768, func(n int) (any, error) {
//				return arr32768[n/2], nil
//			}).
//			TimeMeasurements(classifier.O1).
//			SpaceMeasurements(classifier.O1).
//			Run()
//	}
//
// # How It Works
//
// Each analysis brackets two calls to the subject closure with the
// measurement sampler, reading the allocator probe's atomic counters
// around each call, then hands the paired measurements to the complexity
// classifier. The classifier's verdict is compared against the declared
// maximum class and, on a Fail, raised as a single composite
// testing.TB.Fatal call.
//
// # Compatibility
//
// Only one analysis may run at a time process-wide; the harness does not
// itself parallelize, though the subject closure is free to.
package bigo
