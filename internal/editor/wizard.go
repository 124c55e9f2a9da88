package editor

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-feedback/internal/snapshot"
	"github.com/jonathan/interview-feedback/internal/types"
	"github.com/jonathan/interview-feedback/internal/wizard"
	"github.com/jonathan/interview-feedback/internal/workspace"
)

// WizardAction names a stepper transition.
type WizardAction string

const (
	WizardNext  WizardAction = "next"
	WizardPrev  WizardAction = "prev"
	WizardSkip  WizardAction = "skip"
	WizardGoTo  WizardAction = "goto"
	WizardReset WizardAction = "reset"
)

// WizardRequest is a stepper transition; Step is used by WizardGoTo.
type WizardRequest struct {
	Action WizardAction `json:"action" validate:"required,oneof=next prev skip goto reset"`
	Step   int          `json:"step,omitempty"`
}

// WizardResult reports whether the cursor moved and where it is now.
type WizardResult struct {
	Moved  bool         `json:"moved"`
	Wizard wizard.State `json:"wizard"`
}

func sessionChecks(store *workspace.Store) wizard.Checks {
	return wizard.Checks{
		HasFile: func(context.Context) (bool, error) {
			return store.State().HasFile(), nil
		},
		HasFeedback: func(context.Context) (bool, error) {
			return len(store.State().Feedback) > 0, nil
		},
		HasAnalysis: func(context.Context) (bool, error) {
			t, err := store.State().ActiveTemplate()
			if err != nil {
				return false, err
			}
			return snapshot.HasMeaningfulTemplateData(&t), nil
		},
	}
}

// syncSteps disables the download step until the active report has content.
func (s *Session) syncSteps(state workspace.State) {
	if s.stepper == nil || s.stepper.Current() == wizard.StepDownload {
		return
	}
	ready := false
	if t, err := state.ActiveTemplate(); err == nil {
		ready = snapshot.HasMeaningfulTemplateData(&t)
	}
	_ = s.stepper.SetDisabled(wizard.StepDownload, !ready)
}

// Wizard applies a stepper transition.
func (s *Service) Wizard(ctx context.Context, sessionID string, req WizardRequest) (WizardResult, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return WizardResult{}, err
	}

	moved := false
	switch req.Action {
	case WizardNext:
		moved, err = sess.stepper.Next(ctx)
	case WizardSkip:
		moved, err = sess.stepper.Skip(ctx)
	case WizardPrev:
		moved = sess.stepper.Prev()
	case WizardGoTo:
		before := sess.stepper.Current()
		err = sess.stepper.GoTo(req.Step)
		moved = err == nil && before != sess.stepper.Current()
	case WizardReset:
		sess.stepper.Reset()
		moved = true
	default:
		err = fmt.Errorf("unknown wizard action %q", req.Action)
	}
	if err != nil {
		return WizardResult{Wizard: sess.stepper.State()}, err
	}
	return WizardResult{Moved: moved, Wizard: sess.stepper.State()}, nil
}

// ChoosePath selects which report the user builds: an existing report tab
// is selected, otherwise the report's template is created empty and its
// tab added.
func (s *Service) ChoosePath(_ context.Context, sessionID string, template workspace.TemplateID) (View, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return View{}, err
	}
	v, ok := snapshot.VariantFor(template)
	if !ok {
		return View{}, fmt.Errorf("%w: %s", ErrNoPath, template)
	}

	_, err = sess.store.Update(func(st workspace.State) (workspace.State, error) {
		if _, exists := st.Template(v.Template); !exists {
			st = st.CreateTemplate(v.Template)
		}
		st = st.EnsureTab(reportTab(v, st))
		return st.SelectTab(v.TabID)
	})
	if err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

// SelectTab selects a report tab and activates its template.
func (s *Service) SelectTab(_ context.Context, sessionID, tabID string) (View, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return View{}, err
	}
	if _, err := sess.store.Update(func(st workspace.State) (workspace.State, error) {
		return st.SelectTab(tabID)
	}); err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

// reportTab builds the tab of a report variant, with the sorted-evidence
// child once sorted results exist.
func reportTab(v snapshot.Variant, st workspace.State) workspace.Tab {
	children := []workspace.Tab{{ID: snapshot.TabInterviewFeedback, Label: "Interview Feedback"}}
	if sorted, ok := st.Sorted[v.Template]; ok && !sorted.IsEmpty() {
		children = append(children, workspace.Tab{ID: snapshot.TabSortedEvidence, Label: "Sorted Evidence"})
	}
	return workspace.Tab{ID: v.TabID, Label: v.Label, Template: v.Template, Children: children}
}

// showReport registers data as the template of a report variant, ensures
// the variant's tab and selects it.
func showReport(st workspace.State, template workspace.TemplateID, data types.OrderedAnalysis) (workspace.State, error) {
	st = st.WithTemplate(template, data)
	v, ok := snapshot.VariantFor(template)
	if !ok {
		return st.SetActive(template)
	}
	st = st.EnsureTab(reportTab(v, st))
	return st.SelectTab(v.TabID)
}
