package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-feedback/internal/editing"
	"github.com/jonathan/interview-feedback/internal/snapshot"
	"github.com/jonathan/interview-feedback/internal/types"
	"github.com/jonathan/interview-feedback/internal/workspace"
)

// Stage names a point in report generation reported to progress callbacks.
type Stage string

const (
	StageStarted    Stage = "started"
	StageGenerating Stage = "generating"
	StageConverting Stage = "converting"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Progress is one report generation update.
type Progress struct {
	Stage   Stage  `json:"stage"`
	Percent int    `json:"percent"`
	Message string `json:"message,omitempty"`
}

// ProgressFunc receives generation updates. It may be nil.
type ProgressFunc func(Progress)

func (f ProgressFunc) emit(stage Stage, percent int, message string) {
	if f != nil {
		f(Progress{Stage: stage, Percent: percent, Message: message})
	}
}

// Upload sends a transcript to the backend and records the returned file.
// Any snapshot previously saved for the file is then restored.
func (s *Service) Upload(ctx context.Context, sessionID, fileName string, content io.Reader) (View, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return View{}, err
	}

	fileID, err := s.backend.UploadTranscript(ctx, fileName, content)
	if err != nil {
		return View{}, s.fail(sess, "upload transcript", err)
	}

	if _, err := sess.store.Update(func(st workspace.State) (workspace.State, error) {
		return st.WithFile(fileID, fileName), nil
	}); err != nil {
		return View{}, err
	}
	s.logger.Info("Transcript uploaded",
		zap.String("session", sess.ID),
		zap.String("file", fileID),
		zap.String("name", fileName))

	if _, err := s.restoreLatest(ctx, sess); err != nil && !errors.Is(err, snapshot.ErrNotFound) {
		s.logger.Warn("Failed to restore snapshot", zap.String("session", sess.ID), zap.Error(err))
	}
	return sess.View(), nil
}

// LoadFeedback fetches the stakeholder feedback for the session's file.
func (s *Service) LoadFeedback(ctx context.Context, sessionID string) ([]types.StakeholderFeedback, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	fileID, err := requireFile(sess)
	if err != nil {
		return nil, err
	}

	feedback, err := s.backend.GetFeedbackAdvice(ctx, fileID)
	if err != nil {
		return nil, s.fail(sess, "load feedback", err)
	}
	if _, err := sess.store.Update(func(st workspace.State) (workspace.State, error) {
		if err := sameFile(st, fileID); err != nil {
			return st, err
		}
		return st.WithFeedback(feedback), nil
	}); err != nil {
		return nil, err
	}
	return feedback, nil
}

// GenerateReport asks the backend for the full report and opens it as the
// full-report template.
func (s *Service) GenerateReport(ctx context.Context, sessionID string, progress ProgressFunc) (View, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return View{}, err
	}
	fileID, err := requireFile(sess)
	if err != nil {
		return View{}, err
	}

	progress.emit(StageStarted, 0, "Starting report generation")
	progress.emit(StageGenerating, 10, "Analysing transcript")
	plain, err := s.backend.GenerateFullReport(ctx, fileID)
	if err != nil {
		progress.emit(StageFailed, 100, "Failed to generate report. Please try again.")
		return View{}, s.fail(sess, "generate report", err)
	}

	progress.emit(StageConverting, 80, "Preparing editable report")
	ordered := editing.ToOrderedWithIDs(plain, s.newID)
	if _, err := sess.store.Update(func(st workspace.State) (workspace.State, error) {
		if err := sameFile(st, fileID); err != nil {
			return st, err
		}
		return showReport(st, workspace.TemplateFullReport, ordered)
	}); err != nil {
		progress.emit(StageFailed, 100, err.Error())
		return View{}, err
	}

	progress.emit(StageDone, 100, "Report ready")
	return sess.View(), nil
}

// LoadEvidence fetches strength and development-area evidence in parallel
// and opens them as the AI-competencies template: one item per group, with
// empty content ready for generation.
func (s *Service) LoadEvidence(ctx context.Context, sessionID string, count int) (View, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return View{}, err
	}
	fileID, err := requireFile(sess)
	if err != nil {
		return View{}, err
	}
	if count <= 0 {
		count = DefaultEvidenceCount
	}

	var strengths, areas []types.EvidenceGroup
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		strengths, err = s.backend.GetStrengthEvidences(gctx, fileID, count)
		if err != nil {
			return fmt.Errorf("strengths: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		areas, err = s.backend.GetDevelopmentAreas(gctx, fileID, count)
		if err != nil {
			return fmt.Errorf("development areas: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return View{}, s.fail(sess, "load evidence", err)
	}

	if _, err := sess.store.Update(func(st workspace.State) (workspace.State, error) {
		if err := sameFile(st, fileID); err != nil {
			return st, err
		}
		data := types.EmptyAnalysis()
		if existing, ok := st.Template(workspace.TemplateAICompetencies); ok {
			data = existing
		}
		var err error
		if data, err = mergeGroups(data, types.SectionStrengths, strengths, s.newID); err != nil {
			return st, err
		}
		if data, err = mergeGroups(data, types.SectionAreasToTarget, areas, s.newID); err != nil {
			return st, err
		}
		return showReport(st, workspace.TemplateAICompetencies, data)
	}); err != nil {
		return View{}, err
	}
	return sess.View(), nil
}

// mergeGroups attaches group evidence to items with matching headings and
// appends an item for every group without one.
func mergeGroups(a types.OrderedAnalysis, kind types.SectionKind, groups []types.EvidenceGroup, newID editing.IDFunc) (types.OrderedAnalysis, error) {
	a, _ = editing.ApplySortedEvidence(a, kind, groups)
	for _, g := range groups {
		if strings.TrimSpace(g.Heading) == "" || hasHeadingFold(a.Section(kind), g.Heading) {
			continue
		}
		section := a.Section(kind).Clone()
		id := newID()
		section.Order = append(section.Order, id)
		section.Items[id] = types.Item{ID: id, Heading: g.Heading, Evidence: types.CloneEvidence(g.Evidence)}
		a = a.WithSection(kind, section)
	}
	return a, a.Section(kind).Validate()
}

func hasHeadingFold(section types.OrderedSection, heading string) bool {
	want := strings.TrimSpace(heading)
	for _, it := range section.Items {
		if strings.EqualFold(strings.TrimSpace(it.Heading), want) {
			return true
		}
	}
	return false
}

// RegenerateItem drafts new content for one item of the active report from
// its heading, evidence and current content.
func (s *Service) RegenerateItem(ctx context.Context, sessionID string, kind types.SectionKind, itemID string) (types.Item, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return types.Item{}, err
	}
	state := sess.store.State()
	if !state.HasFile() {
		return types.Item{}, ErrNoFile
	}
	active, err := state.ActiveTemplate()
	if err != nil {
		return types.Item{}, err
	}
	item, ok := active.Section(kind).Get(itemID)
	if !ok {
		return types.Item{}, fmt.Errorf("%w: %s in %s", editing.ErrItemNotFound, itemID, kind)
	}

	content, err := s.generator.GenerateContent(ctx, types.ContentRequest{
		FileID:   state.FileID,
		Section:  kind,
		Heading:  item.Heading,
		Existing: item.Content,
		Evidence: item.Evidence,
	})
	if err != nil {
		return types.Item{}, s.fail(sess, "generate content", err)
	}

	next, err := sess.store.Update(func(st workspace.State) (workspace.State, error) {
		if err := sameFile(st, state.FileID); err != nil {
			return st, err
		}
		return st.EditActive(func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) {
			return editing.SetContent(a, kind, itemID, content)
		})
	})
	if err != nil {
		return types.Item{}, err
	}
	updated, _ := next.ActiveTemplate()
	item, _ = updated.Section(kind).Get(itemID)
	return item, nil
}

// GenerateNextSteps replaces the active report's next steps with steps
// generated for its areas to target.
func (s *Service) GenerateNextSteps(ctx context.Context, sessionID string) ([]types.NextStep, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	state := sess.store.State()
	if !state.HasFile() {
		return nil, ErrNoFile
	}
	active, err := state.ActiveTemplate()
	if err != nil {
		return nil, err
	}
	plain, err := editing.FromOrdered(active)
	if err != nil {
		return nil, err
	}

	steps, err := s.generator.GenerateNextSteps(ctx, types.NextStepsRequest{
		FileID: state.FileID,
		Areas:  plain.AreasToTarget,
	})
	if err != nil {
		return nil, s.fail(sess, "generate next steps", err)
	}

	if _, err := sess.store.Update(func(st workspace.State) (workspace.State, error) {
		if err := sameFile(st, state.FileID); err != nil {
			return st, err
		}
		return st.EditActive(func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) {
			a.NextSteps = types.CloneSteps(steps)
			return a, nil
		})
	}); err != nil {
		return nil, err
	}
	return steps, nil
}

// SortEvidence asks the backend to sort the file's evidence under the
// headings of one section of the active report. The groups are attached to
// matching items and kept as the report's sorted-by-competency results,
// alongside the stakeholder grouping of the session's feedback.
func (s *Service) SortEvidence(ctx context.Context, sessionID string, kind types.SectionKind) (types.SortedBy, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return types.SortedBy{}, err
	}
	state := sess.store.State()
	if !state.HasFile() {
		return types.SortedBy{}, ErrNoFile
	}
	active, err := state.ActiveTemplate()
	if err != nil {
		return types.SortedBy{}, err
	}
	headings := make([]string, 0, active.Section(kind).Len())
	for _, it := range active.Section(kind).List() {
		headings = append(headings, it.Heading)
	}

	groups, err := s.backend.SortEvidence(ctx, state.FileID, kind, headings)
	if err != nil {
		return types.SortedBy{}, s.fail(sess, "sort evidence", err)
	}

	var sorted types.SortedBy
	_, err = sess.store.Update(func(st workspace.State) (workspace.State, error) {
		if err := sameFile(st, state.FileID); err != nil {
			return st, err
		}
		id := st.Active
		st, err := st.EditActive(func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) {
			a, _ = editing.ApplySortedEvidence(a, kind, groups)
			return a, nil
		})
		if err != nil {
			return st, err
		}

		sorted = st.Sorted[id].Clone()
		sorted.Competency = mergeSortedGroups(sorted.Competency, groups)
		sorted.Stakeholders = stakeholderGroups(st.Feedback)
		st = st.WithSorted(id, sorted)

		if v, ok := snapshot.VariantFor(id); ok {
			st = st.EnsureTab(reportTab(v, st))
		}
		return st, nil
	})
	if err != nil {
		return types.SortedBy{}, err
	}
	return sorted, nil
}

// mergeSortedGroups replaces groups by heading and appends new ones.
func mergeSortedGroups(existing, groups []types.EvidenceGroup) []types.EvidenceGroup {
	out := make([]types.EvidenceGroup, len(existing))
	copy(out, existing)
	for _, g := range groups {
		replaced := false
		for i := range out {
			if out[i].Heading == g.Heading {
				out[i] = types.EvidenceGroup{Heading: g.Heading, Evidence: types.CloneEvidence(g.Evidence)}
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, types.EvidenceGroup{Heading: g.Heading, Evidence: types.CloneEvidence(g.Evidence)})
		}
	}
	return out
}

// stakeholderGroups turns each stakeholder's feedback into an evidence group.
func stakeholderGroups(feedback []types.StakeholderFeedback) []types.EvidenceGroup {
	groups := make([]types.EvidenceGroup, 0, len(feedback))
	for _, f := range feedback {
		g := types.EvidenceGroup{Heading: f.Stakeholder}
		for _, line := range f.Feedback {
			g.Evidence = append(g.Evidence, types.Evidence{Feedback: line, Source: f.Stakeholder, Role: f.Role})
		}
		if len(g.Evidence) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// ImportReport uploads an edited .docx report and replaces the content of
// the active report with what the backend parsed from it. The report name
// is kept when the document carries none.
func (s *Service) ImportReport(ctx context.Context, sessionID, fileName string, content io.Reader) (View, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return View{}, err
	}
	fileID, err := requireFile(sess)
	if err != nil {
		return View{}, err
	}

	plain, err := s.backend.UploadUpdatedReport(ctx, fileName, content)
	if err != nil {
		return View{}, s.fail(sess, "import report", err)
	}
	imported := editing.ToOrderedWithIDs(plain, s.newID)

	if _, err := sess.store.Update(func(st workspace.State) (workspace.State, error) {
		if err := sameFile(st, fileID); err != nil {
			return st, err
		}
		return st.EditActive(func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) {
			if imported.Name == "" {
				imported.Name = a.Name
			}
			if imported.Date == "" {
				imported.Date = a.Date
			}
			imported.Advices = a.Advices
			return imported, nil
		})
	}); err != nil {
		return View{}, err
	}
	return sess.View(), nil
}
