// Package assertion implements the bridge to the host test runner: it
// turns a passrunner/crud outcome into a single composite failure on
// testing.TB, the one test-runner seam this harness exposes. The
// per-dimension Pass/Fail/WayBelow comparison itself lives in
// passrunner.resultFor, reused here rather than duplicated.
package assertion

import (
	"testing"

	"github.com/zertyz/big-O/internal/bigo/crud"
	"github.com/zertyz/big-O/internal/bigo/passrunner"
)

// Check fails tb with the report's composite verdict if the run produced
// a ComplexityRegression or SubjectFailure, and prints the report to the
// configured sink regardless of outcome. It never fails for
// better-than-declared results: it is strict in one direction only.
func Check(tb testing.TB, sink Sink, report *passrunner.Report, err error) {
	tb.Helper()
	if report != nil {
		sink.Write(report)
	}
	reportErr(tb, err)
}

// CheckCRUD is Check's analogue for the four-way CRUD RunReport.
func CheckCRUD(tb testing.TB, sink Sink, report *crud.RunReport, err error) {
	tb.Helper()
	if report != nil {
		for _, r := range []*passrunner.Report{report.Create, report.Read, report.Update, report.Delete} {
			if r != nil {
				sink.Write(r)
			}
		}
	}
	reportErr(tb, err)
}

func reportErr(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatal(err)
	}
}
