package bigo

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/zertyz/big-O/internal/bigo/alloc"
	"github.com/zertyz/big-O/internal/bigo/classifier"
)

// init performs process-lifetime runtime tuning: GOMAXPROCS and
// GOMEMLIMIT are adjusted to match the container's CPU quota and cgroup
// memory limit, if any, so that measurements taken under this package
// aren't skewed by a mismatched scheduler or a runtime that thinks it
// has more memory than it does. Both calls are no-ops outside a
// container.
func init() {
	if _, err := maxprocs.Set(maxprocs.Logger(log.Printf)); err != nil {
		log.Printf("bigo: maxprocs.Set: %v", err)
	}
	if _, err := memlimit.SetGoMemLimitWithOpts(memlimit.WithLogger(slog.Default())); err != nil {
		log.Printf("bigo: memlimit.SetGoMemLimitWithOpts: %v", err)
	}

	if !allocProbeEnabledFromEnv() {
		alloc.Global().Disable()
	}
}

// allocProbeEnabledFromEnv resolves BIGO_ALLOC_PROBE ("on" default,
// "off" disables).
func allocProbeEnabledFromEnv() bool {
	return os.Getenv("BIGO_ALLOC_PROBE") != "off"
}

// reportSinkNameFromEnv resolves BIGO_REPORT_SINK for display purposes
// (the actual sink is built by internal/bigo/assertion.SinkFromEnv).
func reportSinkNameFromEnv() string {
	switch v := os.Getenv("BIGO_REPORT_SINK"); v {
	case "stderr", "disabled":
		return v
	default:
		return "stdout"
	}
}

// defaultToleranceFromEnv resolves BIGO_TOLERANCE ("10" default, "25"
// alternative).
func defaultToleranceFromEnv() classifier.Tolerance {
	v := os.Getenv("BIGO_TOLERANCE")
	if v == "" {
		return classifier.Tolerance10
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return classifier.Tolerance10
	}
	t := classifier.Tolerance(n)
	if !t.Valid() {
		return classifier.Tolerance10
	}
	return t
}
