package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStateDiff(t *testing.T) {
	stateIn := map[string]any{
		"counter": float64(1),
		"stale":   "gone",
		"nested":  map[string]any{"a": float64(1)},
	}
	stateOut := map[string]any{
		"counter": float64(2),
		"nested":  map[string]any{"a": float64(1)},
		"fresh":   "new",
	}

	diff := ComputeStateDiff(stateIn, stateOut)

	added := diff["added"].(map[string]any)
	removed := diff["removed"].(map[string]any)
	modified := diff["modified"].(map[string]any)

	assert.Equal(t, "new", added["fresh"])
	assert.Equal(t, "gone", removed["stale"])
	assert.Equal(t, map[string]any{"before": float64(1), "after": float64(2)}, modified["counter"])
	assert.NotContains(t, modified, "nested")
}

func TestComputeStateDiff_NumericNormalization(t *testing.T) {
	// 1 and 1.0 both decode to float64 via encoding/json and must compare equal.
	stateIn := map[string]any{"x": float64(1)}
	stateOut := map[string]any{"x": float64(1.0)}

	diff := ComputeStateDiff(stateIn, stateOut)
	modified := diff["modified"].(map[string]any)
	assert.Empty(t, modified)
}

func TestComputeStateDiff_BothNil(t *testing.T) {
	assert.Nil(t, ComputeStateDiff(nil, nil))
}
