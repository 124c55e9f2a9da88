package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStep_MarshalText(t *testing.T) {
	data, err := json.Marshal(TextStep("Shadow a senior interviewer"))
	require.NoError(t, err)
	assert.Equal(t, `"Shadow a senior interviewer"`, string(data))
}

func TestNextStep_MarshalPoints(t *testing.T) {
	data, err := json.Marshal(PointStep("Practice", "mock interviews"))
	require.NoError(t, err)
	assert.Equal(t, `{"main":"Practice","sub_points":["mock interviews"]}`, string(data))
}

func TestNextStep_MarshalPointsWithoutSubPoints(t *testing.T) {
	step := NextStep{Kind: NextStepPoints, Main: "Practice"}
	data, err := json.Marshal(step)
	require.NoError(t, err)
	assert.Equal(t, `{"main":"Practice","sub_points":[]}`, string(data))
}

func TestNextStep_UnmarshalVariants(t *testing.T) {
	var steps []NextStep
	require.NoError(t, json.Unmarshal([]byte(`["para text", {"main": "Step", "sub_points": ["a", "b"]}]`), &steps))

	require.Len(t, steps, 2)
	assert.Equal(t, NextStepText, steps[0].Kind)
	assert.Equal(t, "para text", steps[0].Text)
	assert.True(t, steps[1].IsPoints())
	assert.Equal(t, "Step", steps[1].Main)
	assert.Equal(t, []string{"a", "b"}, steps[1].SubPoints)
}

func TestNextStep_UnmarshalRejectsOtherShapes(t *testing.T) {
	var step NextStep
	assert.Error(t, json.Unmarshal([]byte(`42`), &step))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &step))
}

func TestNextStep_IsBlank(t *testing.T) {
	tests := []struct {
		name string
		step NextStep
		want bool
	}{
		{name: "empty text", step: TextStep("  "), want: true},
		{name: "text", step: TextStep("x"), want: false},
		{name: "empty points", step: PointStep("", "", " "), want: true},
		{name: "main only", step: PointStep("Main"), want: false},
		{name: "sub point only", step: PointStep("", "", "b"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.step.IsBlank())
		})
	}
}

func TestNextStep_CloneIsIndependent(t *testing.T) {
	step := PointStep("Main", "a")
	clone := step.Clone()
	clone.SubPoints[0] = "changed"
	assert.Equal(t, "a", step.SubPoints[0])
}
