// Package workspace holds the editor's per-session application state: the
// uploaded file, the named report templates, the active template pointer,
// sorted evidence and the navigation tabs. Every mutation is a reducer that
// returns a new State; Store serialises reducers so the last write wins
// explicitly.
package workspace

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/interview-feedback/internal/types"
)

// TemplateID names a report template slot.
type TemplateID string

const (
	// TemplateBase is the manually edited report
	TemplateBase TemplateID = "base"
	// TemplateFullReport is the generated full report
	TemplateFullReport TemplateID = "fullReport"
	// TemplateAICompetencies is the AI competency report
	TemplateAICompetencies TemplateID = "aiCompetencies"
	// TemplateCoachParagraph is the coach paragraph-style report
	TemplateCoachParagraph TemplateID = "coachParagraph"
	// TemplateCoachCompetencies is the coach competency-style report
	TemplateCoachCompetencies TemplateID = "coachCompetencies"
)

// TemplateIDs lists every known template slot.
var TemplateIDs = []TemplateID{
	TemplateBase,
	TemplateFullReport,
	TemplateAICompetencies,
	TemplateCoachParagraph,
	TemplateCoachCompetencies,
}

// ParseTemplateID validates a template id taken from a request.
func ParseTemplateID(s string) (TemplateID, error) {
	for _, id := range TemplateIDs {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown template: %q", s)
}

var (
	// ErrTemplateNotFound is returned when addressing an unregistered template
	ErrTemplateNotFound = errors.New("template not found")
	// ErrNoActiveTemplate is returned when no template is active
	ErrNoActiveTemplate = errors.New("no active template")
	// ErrTabNotFound is returned when selecting an unknown tab
	ErrTabNotFound = errors.New("tab not found")
)

// State is the complete editor state of one session. Treat values as
// immutable; reducers return modified copies.
type State struct {
	SessionID   string                               `json:"session_id"`
	UserID      string                               `json:"user_id,omitempty"`
	FileID      string                               `json:"file_id,omitempty"`
	FileName    string                               `json:"file_name,omitempty"`
	Templates   map[TemplateID]types.OrderedAnalysis `json:"templates"`
	Active      TemplateID                           `json:"active,omitempty"`
	Sorted      map[TemplateID]types.SortedBy        `json:"sorted,omitempty"`
	Feedback    []types.StakeholderFeedback          `json:"feedback,omitempty"`
	Tabs        []Tab                                `json:"tabs"`
	SelectedTab string                               `json:"selected_tab,omitempty"`
	Version     int64                                `json:"version"`
	UpdatedAt   time.Time                            `json:"updated_at"`
}

// New returns the initial state of a session: an empty base template,
// active, and no tabs.
func New(sessionID, userID string) State {
	return State{
		SessionID: sessionID,
		UserID:    userID,
		Templates: map[TemplateID]types.OrderedAnalysis{TemplateBase: types.EmptyAnalysis()},
		Active:    TemplateBase,
		Sorted:    map[TemplateID]types.SortedBy{},
		Tabs:      []Tab{},
	}
}

// Clone returns an independent deep copy.
func (s State) Clone() State {
	out := s
	out.Templates = make(map[TemplateID]types.OrderedAnalysis, len(s.Templates))
	for id, t := range s.Templates {
		out.Templates[id] = t.Clone()
	}
	out.Sorted = make(map[TemplateID]types.SortedBy, len(s.Sorted))
	for id, sb := range s.Sorted {
		out.Sorted[id] = sb.Clone()
	}
	if s.Feedback != nil {
		out.Feedback = make([]types.StakeholderFeedback, len(s.Feedback))
		copy(out.Feedback, s.Feedback)
	}
	out.Tabs = cloneTabs(s.Tabs)
	return out
}

// HasFile reports whether a transcript has been uploaded.
func (s State) HasFile() bool {
	return s.FileID != ""
}

// Template returns the template registered under id.
func (s State) Template(id TemplateID) (types.OrderedAnalysis, bool) {
	t, ok := s.Templates[id]
	return t, ok
}

// ActiveTemplate returns the template the active pointer refers to.
func (s State) ActiveTemplate() (types.OrderedAnalysis, error) {
	if s.Active == "" {
		return types.OrderedAnalysis{}, ErrNoActiveTemplate
	}
	t, ok := s.Templates[s.Active]
	if !ok {
		return types.OrderedAnalysis{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, s.Active)
	}
	return t, nil
}

// WithFile records an uploaded transcript. A different file discards the
// previous file's templates, sorted evidence, feedback and tabs.
func (s State) WithFile(fileID, fileName string) State {
	if s.FileID != "" && s.FileID != fileID {
		s = s.ResetToOriginal()
		s.Feedback = nil
	} else {
		s = s.Clone()
	}
	s.FileID = fileID
	s.FileName = fileName
	return s
}

// WithTemplate registers data under id, replacing any previous value.
func (s State) WithTemplate(id TemplateID, data types.OrderedAnalysis) State {
	s = s.Clone()
	s.Templates[id] = data.Clone()
	return s
}

// CreateTemplate registers an empty template under id unless one exists.
func (s State) CreateTemplate(id TemplateID) State {
	if _, ok := s.Templates[id]; ok {
		return s
	}
	return s.WithTemplate(id, types.EmptyAnalysis())
}

// RemoveTemplate drops the template under id. Removing the active template
// makes the base template active again.
func (s State) RemoveTemplate(id TemplateID) State {
	s = s.Clone()
	delete(s.Templates, id)
	delete(s.Sorted, id)
	if s.Active == id {
		s.Active = ""
		if _, ok := s.Templates[TemplateBase]; ok {
			s.Active = TemplateBase
		}
	}
	return s
}

// SetActive moves the active pointer to a registered template.
func (s State) SetActive(id TemplateID) (State, error) {
	if _, ok := s.Templates[id]; !ok {
		return s, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	s = s.Clone()
	s.Active = id
	return s, nil
}

// EditActive applies fn to the active template. On error the state is
// returned unchanged.
func (s State) EditActive(fn func(types.OrderedAnalysis) (types.OrderedAnalysis, error)) (State, error) {
	current, err := s.ActiveTemplate()
	if err != nil {
		return s, err
	}
	next, err := fn(current)
	if err != nil {
		return s, err
	}
	return s.WithTemplate(s.Active, next), nil
}

// WithSorted stores the sorted evidence belonging to template id.
func (s State) WithSorted(id TemplateID, sorted types.SortedBy) State {
	s = s.Clone()
	s.Sorted[id] = sorted.Clone()
	return s
}

// WithFeedback stores the stakeholder feedback fetched for the file.
func (s State) WithFeedback(feedback []types.StakeholderFeedback) State {
	s = s.Clone()
	s.Feedback = make([]types.StakeholderFeedback, len(feedback))
	copy(s.Feedback, feedback)
	return s
}

// ResetToOriginal drops every template edit, sorted evidence and tab,
// returning to a fresh base template. Session and file identity are kept.
func (s State) ResetToOriginal() State {
	fresh := New(s.SessionID, s.UserID)
	fresh.FileID = s.FileID
	fresh.FileName = s.FileName
	fresh.Feedback = s.Clone().Feedback
	fresh.Version = s.Version
	fresh.UpdatedAt = s.UpdatedAt
	return fresh
}
