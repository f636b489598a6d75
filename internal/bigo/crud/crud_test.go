package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zertyz/big-O/internal/bigo/classifier"
)

// sortedSequence returns a CRUD config over a growable sorted sequence:
// Create is O(n), Read/Update are O(1) via direct indexing, and Delete
// truncates the slice in one step, within its declared O(n).
func sortedSequence(r int) *Config {
	var data []int
	return &Config{
		Algorithm: "sorted sequence",
		R:         r,
		Create: func(n int) (any, int, error) {
			data = make([]int, 0, n)
			for i := 0; i < n; i++ {
				data = append(data, i)
			}
			return nil, 0, nil
		},
		Read: func(n int) (any, int, error) {
			_ = data[n/2]
			return nil, 0, nil
		},
		Update: func(n int) (any, int, error) {
			data[n/2] = n
			return nil, 0, nil
		},
		Delete: func(n int) (any, int, error) {
			data = data[:0]
			return nil, 0, nil
		},
		CreateMax: classifier.ON,
		ReadMax:   classifier.O1,
		UpdateMax: classifier.O1,
		DeleteMax: classifier.ON,
		Tolerance: classifier.Tolerance10,
	}
}

func TestRun_SortedSequenceAllPhasesPass(t *testing.T) {
	cfg := sortedSequence(1000)
	cfg.N1, cfg.N2 = 16384, 32768
	report, err := Run(cfg)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.NotEmpty(t, report.Create.Notes)
	assert.NotEmpty(t, report.Delete.Notes)
}

func TestPhase_Amortizes(t *testing.T) {
	assert.True(t, Read.amortizes())
	assert.True(t, Update.amortizes())
	assert.False(t, Create.amortizes())
	assert.False(t, Delete.amortizes())
}

func TestRun_MissingPhaseClosureIsAnError(t *testing.T) {
	cfg := sortedSequence(10)
	cfg.N1, cfg.N2 = 100, 200
	cfg.Read = nil
	_, err := Run(cfg)
	require.Error(t, err)
}
