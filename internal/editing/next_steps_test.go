package editing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-feedback/internal/types"
)

func withSteps(steps ...types.NextStep) types.OrderedAnalysis {
	a := emptyOrdered()
	a.NextSteps = steps
	return a
}

func TestScenario_UpdateSubPoint(t *testing.T) {
	a := withSteps(types.TextStep("para text"), types.PointStep("Step", "a", "b"))

	b, err := UpdateSubPoint(a, 1, 1, "b2")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b2"}, b.NextSteps[1].SubPoints)
	assert.Equal(t, types.TextStep("para text"), b.NextSteps[0])
	assert.Equal(t, []string{"a", "b"}, a.NextSteps[1].SubPoints)
}

func TestAddSteps(t *testing.T) {
	a := AddTextStep(emptyOrdered())
	a = AddPointStep(a)

	require.Len(t, a.NextSteps, 2)
	assert.Equal(t, types.TextStep(""), a.NextSteps[0])
	assert.Equal(t, types.PointStep("", ""), a.NextSteps[1])
}

func TestReplaceAndDeleteStep(t *testing.T) {
	a := withSteps(types.TextStep("one"), types.TextStep("two"))

	b, err := ReplaceStep(a, 0, types.PointStep("Main", "x"))
	require.NoError(t, err)
	assert.True(t, b.NextSteps[0].IsPoints())

	c, err := DeleteStep(b, 0)
	require.NoError(t, err)
	assert.Equal(t, []types.NextStep{types.TextStep("two")}, c.NextSteps)
	assert.Len(t, b.NextSteps, 2)
}

func TestUpdateTextAndMain(t *testing.T) {
	a := withSteps(types.TextStep("one"), types.PointStep("Main", "x"))

	b, err := UpdateStepText(a, 0, "uno")
	require.NoError(t, err)
	assert.Equal(t, "uno", b.NextSteps[0].Text)

	c, err := UpdateMain(b, 1, "Headline")
	require.NoError(t, err)
	assert.Equal(t, "Headline", c.NextSteps[1].Main)

	_, err = UpdateMain(a, 0, "nope")
	var kindErr *StepKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, types.NextStepPoints, kindErr.Want)

	_, err = UpdateStepText(a, 1, "nope")
	assert.ErrorAs(t, err, &kindErr)
}

func TestSubPoints(t *testing.T) {
	a := withSteps(types.PointStep("Main", "x"))

	b, err := AddSubPoint(a, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", ""}, b.NextSteps[0].SubPoints)

	c, err := DeleteSubPoint(b, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, c.NextSteps[0].SubPoints)
	assert.Equal(t, []string{"x", ""}, b.NextSteps[0].SubPoints)
}

func TestIndexOperations_OutOfRangeLeaveInputUnchanged(t *testing.T) {
	a := withSteps(types.TextStep("para"), types.PointStep("Step", "a"))

	tests := []struct {
		name string
		op   func(types.OrderedAnalysis) (types.OrderedAnalysis, error)
	}{
		{name: "replace", op: func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) {
			return ReplaceStep(a, 2, types.TextStep("x"))
		}},
		{name: "delete negative", op: func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) { return DeleteStep(a, -1) }},
		{name: "update text", op: func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) { return UpdateStepText(a, 5, "x") }},
		{name: "update main", op: func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) { return UpdateMain(a, 2, "x") }},
		{name: "add sub point", op: func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) { return AddSubPoint(a, 9) }},
		{name: "update sub point", op: func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) { return UpdateSubPoint(a, 1, 1, "x") }},
		{name: "delete sub point", op: func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) { return DeleteSubPoint(a, 1, -1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.op(a)
			var idxErr *IndexError
			require.ErrorAs(t, err, &idxErr)
			assert.Equal(t, a, b)
		})
	}
}

func TestSubPointOnTextStep(t *testing.T) {
	a := withSteps(types.TextStep("para"))
	_, err := UpdateSubPoint(a, 0, 0, "x")
	var kindErr *StepKindError
	assert.ErrorAs(t, err, &kindErr)
}
