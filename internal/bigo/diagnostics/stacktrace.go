// Package diagnostics captures and deduplicates stack traces for subject
// panics, so a SubjectFailure caused by a panic carries enough
// context to locate the failing call without re-running the subject.
package diagnostics

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
	"sync"
	"unsafe"
)

// MaxFrames bounds how many stack frames a single capture keeps.
const MaxFrames = 16

// Stack is a captured, fixed-size call stack.
type Stack struct {
	pc [MaxFrames]uintptr
	n  int
}

var depot sync.Map // uint64 hash -> *Stack

// Capture records the caller's current stack and returns a hash that can
// be exchanged for the formatted trace via Lookup. Identical stacks
// collapse to the same hash so a flapping subject doesn't balloon memory
// across retries.
func Capture() uint64 {
	var pcs [MaxFrames]uintptr
	n := runtime.Callers(2, pcs[:])
	if n == 0 {
		return 0
	}
	hash := hashFrames(pcs[:n])
	if _, exists := depot.Load(hash); !exists {
		depot.Store(hash, &Stack{pc: pcs, n: n})
	}
	return hash
}

// Lookup returns the formatted stack for a hash returned by Capture, or
// the empty string if the hash is zero or unknown.
func Lookup(hash uint64) string {
	if hash == 0 {
		return ""
	}
	v, ok := depot.Load(hash)
	if !ok {
		return ""
	}
	return v.(*Stack).format()
}

func hashFrames(pcs []uintptr) uint64 {
	h := fnv.New64a()
	for _, pc := range pcs {
		//nolint:gosec // reading a uintptr's bytes for hashing only, never dereferenced
		b := (*[8]byte)(unsafe.Pointer(&pc))[:]
		_, _ = h.Write(b)
	}
	return h.Sum64()
}

func (s *Stack) format() string {
	frames := runtime.CallersFrames(s.pc[:s.n])
	var buf strings.Builder
	for {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}
		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&buf, "  %s()\n      %s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	if buf.Len() == 0 {
		return "  <runtime internal>\n"
	}
	return buf.String()
}
