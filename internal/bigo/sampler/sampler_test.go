package sampler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zertyz/big-O/internal/bigo/alloc"
)

func TestSampler_EnterExit_MeasuresElapsedTime(t *testing.T) {
	s := New(alloc.Global())
	tok := s.Enter()
	time.Sleep(2 * time.Millisecond)
	pm := s.Exit(tok, 100, 1, 0)
	require.False(t, pm.SpaceUnavailable)
	assert.GreaterOrEqual(t, pm.DeltaT, time.Millisecond)
	assert.Equal(t, 100, pm.N)
	assert.Equal(t, 1, pm.PassIndex)
}

func TestSampler_Exit_ReportsUnavailableWhenProbeDisabled(t *testing.T) {
	p := alloc.Global()
	p.Disable()
	defer p.Enable()

	s := New(p)
	tok := s.Enter()
	pm := s.Exit(tok, 10, 1, 0)
	assert.True(t, pm.SpaceUnavailable)
}

func TestPassMeasurement_PerCallAmortization(t *testing.T) {
	pm := PassMeasurement{DeltaT: 100 * time.Millisecond, DeltaS: 400, MaxAuxS: 800, Repetitions: 10}
	assert.Equal(t, 10*time.Millisecond, pm.PerCallTime())
	assert.Equal(t, 40.0, pm.PerCallSpace())
	assert.Equal(t, 80.0, pm.PerCallAuxSpace())
}

func TestPassMeasurement_PerCallDefaultsToOneRepetition(t *testing.T) {
	pm := PassMeasurement{DeltaT: 100 * time.Millisecond, DeltaS: 40}
	assert.Equal(t, 100*time.Millisecond, pm.PerCallTime())
	assert.Equal(t, 40.0, pm.PerCallSpace())
}

func TestSampler_AllocatingSubjectGrowsAllocatedInRegion(t *testing.T) {
	p := alloc.Global()
	p.Enable()
	s := New(p)

	tok := s.Enter()
	buf := make([][]byte, 0, 1024)
	for i := 0; i < 1024; i++ {
		buf = append(buf, make([]byte, 1024))
	}
	pm := s.Exit(tok, 1024, 1, 0)
	_ = buf

	assert.Greater(t, pm.AllocatedInRegion, uint64(0))
}
