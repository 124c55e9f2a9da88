package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-feedback/internal/types"
)

func blankTemplate() types.OrderedAnalysis {
	a := types.EmptyAnalysis()
	a.Name = "   "
	a.Strengths.Order = []string{"s1"}
	a.Strengths.Items["s1"] = types.Item{ID: "s1", Heading: " ", Content: "",
		Evidence: []types.Evidence{{Feedback: " ", Source: "", Role: "\t"}}}
	a.AreasToTarget.Order = []string{"a1"}
	a.AreasToTarget.Items["a1"] = types.Item{ID: "a1"}
	return a
}

func TestHasMeaningfulTemplateData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.OrderedAnalysis)
		want   bool
	}{
		{name: "all blank", mutate: func(*types.OrderedAnalysis) {}, want: false},
		{name: "content", mutate: func(a *types.OrderedAnalysis) {
			it := a.Strengths.Items["s1"]
			it.Content = "Clear communicator"
			a.Strengths.Items["s1"] = it
		}, want: true},
		{name: "name", mutate: func(a *types.OrderedAnalysis) { a.Name = "Jane" }, want: true},
		{name: "area heading", mutate: func(a *types.OrderedAnalysis) {
			it := a.AreasToTarget.Items["a1"]
			it.Heading = "Delegation"
			a.AreasToTarget.Items["a1"] = it
		}, want: true},
		{name: "evidence", mutate: func(a *types.OrderedAnalysis) {
			it := a.Strengths.Items["s1"]
			it.Evidence = []types.Evidence{{Feedback: "quote"}}
			a.Strengths.Items["s1"] = it
		}, want: true},
		{name: "blank next steps", mutate: func(a *types.OrderedAnalysis) {
			a.NextSteps = []types.NextStep{types.TextStep(" "), types.PointStep("", "", " ")}
		}, want: false},
		{name: "text next step", mutate: func(a *types.OrderedAnalysis) {
			a.NextSteps = []types.NextStep{types.TextStep("Practice")}
		}, want: true},
		{name: "sub point", mutate: func(a *types.OrderedAnalysis) {
			a.NextSteps = []types.NextStep{types.PointStep("", "read")}
		}, want: true},
		{name: "blank advice", mutate: func(a *types.OrderedAnalysis) {
			a.Advices = []types.Advice{{Stakeholder: "Peer", Content: " "}}
		}, want: false},
		{name: "advice", mutate: func(a *types.OrderedAnalysis) {
			a.Advices = []types.Advice{{Content: "Keep going"}}
		}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := blankTemplate()
			tt.mutate(&a)
			assert.Equal(t, tt.want, HasMeaningfulTemplateData(&a))
		})
	}
}

func TestHasMeaningfulTemplateData_Nil(t *testing.T) {
	assert.False(t, HasMeaningfulTemplateData(nil))
}
