package editing

import (
	"github.com/jonathan/interview-feedback/internal/types"
)

// AddTextStep appends an empty paragraph step.
func AddTextStep(a types.OrderedAnalysis) types.OrderedAnalysis {
	steps := types.CloneSteps(a.NextSteps)
	a.NextSteps = append(steps, types.TextStep(""))
	return a
}

// AddPointStep appends a headline step with one empty bullet.
func AddPointStep(a types.OrderedAnalysis) types.OrderedAnalysis {
	steps := types.CloneSteps(a.NextSteps)
	a.NextSteps = append(steps, types.PointStep("", ""))
	return a
}

// ReplaceStep replaces the step at index i.
func ReplaceStep(a types.OrderedAnalysis, i int, step types.NextStep) (types.OrderedAnalysis, error) {
	return updateStep(a, "replace step", i, "", func(s *types.NextStep) {
		*s = step.Clone()
	})
}

// DeleteStep removes the step at index i.
func DeleteStep(a types.OrderedAnalysis, i int) (types.OrderedAnalysis, error) {
	if i < 0 || i >= len(a.NextSteps) {
		return a, &IndexError{Op: "delete step", Index: i, Len: len(a.NextSteps)}
	}
	steps := types.CloneSteps(a.NextSteps)
	a.NextSteps = append(steps[:i], steps[i+1:]...)
	return a, nil
}

// UpdateStepText replaces the paragraph of a text step.
func UpdateStepText(a types.OrderedAnalysis, i int, text string) (types.OrderedAnalysis, error) {
	return updateStep(a, "update step text", i, types.NextStepText, func(s *types.NextStep) {
		s.Text = text
	})
}

// UpdateMain replaces the headline of a point step.
func UpdateMain(a types.OrderedAnalysis, i int, main string) (types.OrderedAnalysis, error) {
	return updateStep(a, "update main", i, types.NextStepPoints, func(s *types.NextStep) {
		s.Main = main
	})
}

// AddSubPoint appends an empty bullet to a point step.
func AddSubPoint(a types.OrderedAnalysis, i int) (types.OrderedAnalysis, error) {
	return updateStep(a, "add sub point", i, types.NextStepPoints, func(s *types.NextStep) {
		s.SubPoints = append(s.SubPoints, "")
	})
}

// UpdateSubPoint replaces bullet j of point step i.
func UpdateSubPoint(a types.OrderedAnalysis, i, j int, text string) (types.OrderedAnalysis, error) {
	if err := checkSubPoint(a, "update sub point", i, j); err != nil {
		return a, err
	}
	return updateStep(a, "update sub point", i, types.NextStepPoints, func(s *types.NextStep) {
		s.SubPoints[j] = text
	})
}

// DeleteSubPoint removes bullet j of point step i.
func DeleteSubPoint(a types.OrderedAnalysis, i, j int) (types.OrderedAnalysis, error) {
	if err := checkSubPoint(a, "delete sub point", i, j); err != nil {
		return a, err
	}
	return updateStep(a, "delete sub point", i, types.NextStepPoints, func(s *types.NextStep) {
		s.SubPoints = append(s.SubPoints[:j], s.SubPoints[j+1:]...)
	})
}

func checkSubPoint(a types.OrderedAnalysis, op string, i, j int) error {
	if i < 0 || i >= len(a.NextSteps) {
		return &IndexError{Op: op, Index: i, Len: len(a.NextSteps)}
	}
	step := a.NextSteps[i]
	if !step.IsPoints() {
		return &StepKindError{Op: op, Index: i, Want: types.NextStepPoints, Got: kindOf(step)}
	}
	if j < 0 || j >= len(step.SubPoints) {
		return &IndexError{Op: op, Index: j, Len: len(step.SubPoints)}
	}
	return nil
}

// updateStep applies fn to a copy of step i. An empty want accepts either shape.
func updateStep(a types.OrderedAnalysis, op string, i int, want types.NextStepKind, fn func(*types.NextStep)) (types.OrderedAnalysis, error) {
	if i < 0 || i >= len(a.NextSteps) {
		return a, &IndexError{Op: op, Index: i, Len: len(a.NextSteps)}
	}
	if want != "" && kindOf(a.NextSteps[i]) != want {
		return a, &StepKindError{Op: op, Index: i, Want: want, Got: kindOf(a.NextSteps[i])}
	}

	steps := types.CloneSteps(a.NextSteps)
	fn(&steps[i])
	a.NextSteps = steps
	return a, nil
}

func kindOf(s types.NextStep) types.NextStepKind {
	if s.IsPoints() {
		return types.NextStepPoints
	}
	return types.NextStepText
}
