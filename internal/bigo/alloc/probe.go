// Package alloc implements the allocator probe component of the harness:
// process-wide atomic accounting of bytes allocated, freed, and currently
// outstanding.
//
// Go offers no equivalent of replacing the global allocator, so this
// package approximates it by polling runtime.ReadMemStats from a
// background goroutine and folding the result into three atomic counters
// (total allocated, current outstanding, peak outstanding); total freed is
// derived as total allocated minus current outstanding.
// See DESIGN.md for the full rationale.
package alloc

import (
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPollInterval is how often the background poller refreshes the
// counters from runtime.MemStats when no explicit interval is configured.
const DefaultPollInterval = 200 * time.Microsecond

// Snapshot is a region token's captured allocator baseline.
type Snapshot struct {
	TotalAllocated     uint64
	TotalFreed         uint64
	CurrentOutstanding uint64
	PeakOutstanding    uint64
	// Unavailable is true when the probe was disabled at the time of
	// capture: space analysis is reported as unavailable rather than wrong.
	Unavailable bool
}

// Probe owns the three process-wide atomic counters and the background
// goroutine that keeps them current.
type Probe struct {
	totalAllocated     atomic.Uint64
	currentOutstanding atomic.Uint64
	peakOutstanding    atomic.Uint64
	enabled            atomic.Bool

	startOnce sync.Once
	stop      chan struct{}
}

// global is the single process-lifetime probe instance, installed for the
// life of the process.
var global = &Probe{}

func init() {
	global.enabled.Store(true)
	global.Start(DefaultPollInterval)
}

// Global returns the process-wide allocator probe.
func Global() *Probe { return global }

// Start launches the background polling goroutine, if not already running.
// Safe to call multiple times; only the first call has effect.
func (p *Probe) Start(interval time.Duration) {
	p.startOnce.Do(func() {
		p.stop = make(chan struct{})
		go p.poll(interval)
	})
}

func (p *Probe) poll(interval time.Duration) {
	var ms runtime.MemStats
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.refresh(&ms)
		}
	}
}

// refresh reads runtime.MemStats once and folds it into the atomic
// counters. TotalAlloc and HeapAlloc are themselves already monotonic /
// point-in-time consistent snapshots from the runtime, so a single
// ReadMemStats call is sufficient per tick.
func (p *Probe) refresh(ms *runtime.MemStats) {
	if !p.enabled.Load() {
		return
	}
	runtime.ReadMemStats(ms)
	p.totalAllocated.Store(ms.TotalAlloc)
	p.currentOutstanding.Store(ms.HeapAlloc)

	// CAS-retry peak update: lost races just retry against the new peak.
	for {
		peak := p.peakOutstanding.Load()
		if ms.HeapAlloc <= peak {
			return
		}
		if p.peakOutstanding.CompareAndSwap(peak, ms.HeapAlloc) {
			return
		}
	}
}

// Enable turns the probe on (the default). When disabled, all counters
// freeze and Baseline reports Unavailable.
func (p *Probe) Enable() { p.enabled.Store(true) }

// Disable turns the probe off. Existing counter values are left in place
// but are no longer refreshed, and Baseline reports Unavailable.
func (p *Probe) Disable() { p.enabled.Store(false) }

// Enabled reports whether the probe is currently active.
func (p *Probe) Enabled() bool { return p.enabled.Load() }

// Baseline captures the four counter values as of this call, forcing a
// fresh runtime.ReadMemStats first so the snapshot reflects allocations up
// to this exact instant rather than the last poll tick.
func (p *Probe) Baseline() Snapshot {
	if !p.enabled.Load() {
		return Snapshot{Unavailable: true}
	}
	var ms runtime.MemStats
	p.refresh(&ms)
	total := p.totalAllocated.Load()
	cur := p.currentOutstanding.Load()
	return Snapshot{
		TotalAllocated:     total,
		TotalFreed:         total - cur,
		CurrentOutstanding: cur,
		PeakOutstanding:    p.peakOutstanding.Load(),
	}
}

// ResetPeak clears the peak watermark back to the current outstanding
// value, used by the sampler at region entry so max_aux_s is computed
// relative to the region rather than the whole process's lifetime peak.
func (p *Probe) ResetPeak() {
	p.peakOutstanding.Store(p.currentOutstanding.Load())
}

// WithGCSuspended disables the garbage collector for the duration of fn,
// restoring the previous GC percentage afterwards. This keeps a region's
// HeapAlloc trajectory monotonic non-decreasing, so the peak-outstanding
// watermark and the resident-space delta stay consistent with the
// invariant that allocated-in-region is never less than max(delta_s, 0).
func WithGCSuspended(fn func()) {
	prev := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(prev)
	fn()
}
