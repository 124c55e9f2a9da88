package snapshot

import (
	"time"

	"github.com/jonathan/interview-feedback/internal/workspace"
)

// Reconcile replaces the workspace's reports with those of snap. The state
// is first reset to its original form; then each meaningful variant is
// registered as its template with a tab, and every other variant's tab is
// removed. The previously selected tab stays selected when it survives.
func Reconcile(state workspace.State, snap *Snapshot) workspace.State {
	selected := state.SelectedTab
	s := state.ResetToOriginal()
	if snap == nil {
		return s
	}

	for _, v := range Variants {
		rv := v.Get(snap)
		if rv == nil || !HasMeaningfulTemplateData(rv.Editable) {
			s = s.RemoveTab(v.TabID)
			continue
		}

		s = s.WithTemplate(v.Template, *rv.Editable)
		children := []workspace.Tab{{ID: TabInterviewFeedback, Label: "Interview Feedback"}}
		if !rv.SortedBy.IsEmpty() {
			s = s.WithSorted(v.Template, rv.SortedBy)
			children = append(children, workspace.Tab{ID: TabSortedEvidence, Label: "Sorted Evidence"})
		}
		s = s.EnsureTab(workspace.Tab{
			ID:       v.TabID,
			Label:    v.Label,
			Template: v.Template,
			Children: children,
		})
	}

	if _, ok := s.FindTab(selected); ok {
		s, _ = s.SelectTab(selected)
	} else if len(s.Tabs) > 0 {
		s, _ = s.SelectTab(s.Tabs[0].ID)
	}
	return s
}

// Capture builds an unsaved snapshot of the workspace's meaningful reports.
func Capture(state workspace.State, trigger Trigger, now time.Time) *Snapshot {
	snap := &Snapshot{
		FileID:    state.FileID,
		UserID:    state.UserID,
		Trigger:   trigger,
		CreatedAt: now.UTC(),
	}
	for _, v := range Variants {
		tmpl, ok := state.Template(v.Template)
		if !ok || !HasMeaningfulTemplateData(&tmpl) {
			continue
		}
		editable := tmpl.Clone()
		v.Set(snap, &ReportVariant{
			Editable: &editable,
			SortedBy: state.Sorted[v.Template].Clone(),
		})
	}
	return snap
}

// Clone returns an independent deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	for _, v := range Variants {
		rv := v.Get(s)
		if rv == nil {
			continue
		}
		cp := &ReportVariant{SortedBy: rv.SortedBy.Clone()}
		if rv.Editable != nil {
			e := rv.Editable.Clone()
			cp.Editable = &e
		}
		v.Set(&out, cp)
	}
	return &out
}
