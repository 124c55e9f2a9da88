package workspace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-feedback/internal/types"
)

func namedAnalysis(name string) types.OrderedAnalysis {
	a := types.EmptyAnalysis()
	a.Name = name
	return a
}

func TestNew(t *testing.T) {
	s := New("sess-1", "user-1")

	assert.Equal(t, TemplateBase, s.Active)
	active, err := s.ActiveTemplate()
	require.NoError(t, err)
	assert.Equal(t, 0, active.Strengths.Len())
	assert.False(t, s.HasFile())
}

func TestParseTemplateID(t *testing.T) {
	id, err := ParseTemplateID("fullReport")
	require.NoError(t, err)
	assert.Equal(t, TemplateFullReport, id)

	_, err = ParseTemplateID("nope")
	assert.Error(t, err)
}

func TestReducersDoNotMutate(t *testing.T) {
	s := New("sess", "")
	next := s.WithTemplate(TemplateFullReport, namedAnalysis("Jane"))

	_, ok := s.Template(TemplateFullReport)
	assert.False(t, ok)
	got, ok := next.Template(TemplateFullReport)
	require.True(t, ok)
	assert.Equal(t, "Jane", got.Name)
}

func TestSetActiveAndEditActive(t *testing.T) {
	s := New("sess", "").WithTemplate(TemplateFullReport, namedAnalysis("Jane"))

	_, err := s.SetActive(TemplateCoachParagraph)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	s, err = s.SetActive(TemplateFullReport)
	require.NoError(t, err)

	s, err = s.EditActive(func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) {
		a.Name = "Janet"
		return a, nil
	})
	require.NoError(t, err)
	got, _ := s.Template(TemplateFullReport)
	assert.Equal(t, "Janet", got.Name)

	boom := errors.New("boom")
	after, err := s.EditActive(func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) {
		return types.OrderedAnalysis{}, boom
	})
	assert.ErrorIs(t, err, boom)
	got, _ = after.Template(TemplateFullReport)
	assert.Equal(t, "Janet", got.Name)
}

func TestEditActive_NoActive(t *testing.T) {
	s := New("sess", "").RemoveTemplate(TemplateBase)
	_, err := s.EditActive(func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) { return a, nil })
	assert.ErrorIs(t, err, ErrNoActiveTemplate)
}

func TestCreateTemplate_KeepsExisting(t *testing.T) {
	s := New("sess", "").WithTemplate(TemplateFullReport, namedAnalysis("Jane"))
	s = s.CreateTemplate(TemplateFullReport).CreateTemplate(TemplateCoachParagraph)

	full, _ := s.Template(TemplateFullReport)
	assert.Equal(t, "Jane", full.Name)
	_, ok := s.Template(TemplateCoachParagraph)
	assert.True(t, ok)
}

func TestWithFile_NewFileResets(t *testing.T) {
	s := New("sess", "").WithFile("file-1", "a.docx").
		WithTemplate(TemplateFullReport, namedAnalysis("Jane")).
		WithSorted(TemplateFullReport, types.SortedBy{Competency: []types.EvidenceGroup{{Heading: "x"}}})

	same := s.WithFile("file-1", "a.docx")
	_, ok := same.Template(TemplateFullReport)
	assert.True(t, ok)

	other := s.WithFile("file-2", "b.pdf")
	_, ok = other.Template(TemplateFullReport)
	assert.False(t, ok)
	assert.Empty(t, other.Sorted)
	assert.Equal(t, "file-2", other.FileID)
	assert.Equal(t, "b.pdf", other.FileName)
}

func TestResetToOriginal(t *testing.T) {
	s := New("sess", "user").WithFile("file-1", "a.docx").
		WithTemplate(TemplateFullReport, namedAnalysis("Jane")).
		EnsureTab(Tab{ID: "full-report", Label: "Full Report", Template: TemplateFullReport})

	reset := s.ResetToOriginal()
	assert.Equal(t, "file-1", reset.FileID)
	assert.Equal(t, "user", reset.UserID)
	assert.Len(t, reset.Templates, 1)
	assert.Empty(t, reset.Tabs)
	assert.Equal(t, TemplateBase, reset.Active)
}

func TestTabs(t *testing.T) {
	s := New("sess", "").
		WithTemplate(TemplateFullReport, namedAnalysis("Full")).
		WithTemplate(TemplateAICompetencies, namedAnalysis("AI"))

	s = s.EnsureTab(Tab{ID: "full-report", Label: "Full Report", Template: TemplateFullReport,
		Children: []Tab{{ID: "interview-feedback", Label: "Interview Feedback"}}})
	assert.Equal(t, "full-report", s.SelectedTab)

	s = s.EnsureTab(Tab{ID: "full-report", Label: "Full Report", Template: TemplateFullReport,
		Children: []Tab{{ID: "interview-feedback"}, {ID: "sorted-evidence", Label: "Sorted Evidence"}}})
	require.Len(t, s.Tabs, 1)
	assert.Len(t, s.Tabs[0].Children, 2)

	s = s.EnsureTab(Tab{ID: "ai-competencies", Label: "AI Competencies", Template: TemplateAICompetencies})
	s, err := s.SelectTab("ai-competencies")
	require.NoError(t, err)
	assert.Equal(t, TemplateAICompetencies, s.Active)

	s = s.RemoveTab("ai-competencies")
	assert.Equal(t, "full-report", s.SelectedTab)
	assert.Equal(t, TemplateFullReport, s.Active)

	_, err = s.SelectTab("missing")
	assert.ErrorIs(t, err, ErrTabNotFound)

	unchanged := s.RemoveTab("missing")
	assert.Equal(t, s.Tabs, unchanged.Tabs)
}

func TestRemoveTemplate_ResetsActive(t *testing.T) {
	s := New("sess", "").WithTemplate(TemplateFullReport, namedAnalysis("Jane"))
	s, _ = s.SetActive(TemplateFullReport)

	s = s.RemoveTemplate(TemplateFullReport)
	assert.Equal(t, TemplateBase, s.Active)
}
