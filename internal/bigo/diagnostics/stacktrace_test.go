package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapture_ReturnsStableHashForSameStack(t *testing.T) {
	var h [2]uint64
	for i := range h {
		h[i] = Capture()
	}
	assert.NotZero(t, h[0])
	assert.NotZero(t, h[1])
	assert.Equal(t, h[0], h[1])
}

func TestLookup_ReturnsFormattedStackForKnownHash(t *testing.T) {
	h := Capture()
	trace := Lookup(h)
	assert.NotEmpty(t, trace)
}

func TestLookup_EmptyForZeroOrUnknownHash(t *testing.T) {
	assert.Empty(t, Lookup(0))
	assert.Empty(t, Lookup(0xdeadbeef))
}
