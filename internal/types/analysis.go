package types

import (
	"fmt"
	"time"
)

// SectionKind names one of the two editable feedback sections.
type SectionKind string

const (
	// SectionStrengths holds the candidate's strengths
	SectionStrengths SectionKind = "strengths"
	// SectionAreasToTarget holds the development areas
	SectionAreasToTarget SectionKind = "areas_to_target"
)

// Sections lists the editable sections in display order.
var Sections = []SectionKind{SectionStrengths, SectionAreasToTarget}

// ParseSectionKind converts a path or request value into a SectionKind.
func ParseSectionKind(s string) (SectionKind, error) {
	switch SectionKind(s) {
	case SectionStrengths, SectionAreasToTarget:
		return SectionKind(s), nil
	default:
		return "", &SectionError{Section: s}
	}
}

// SectionError reports a section name that is neither strengths nor
// areas_to_target.
type SectionError struct {
	Section string
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("unknown section: %q", e.Section)
}

// Label returns the display title of the section.
func (k SectionKind) Label() string {
	if k == SectionAreasToTarget {
		return "Areas to Target"
	}
	return "Strengths"
}

// Evidence is a quoted excerpt attributed to a source, supporting a
// strength or an area item. It is never edited, only shown or reordered.
type Evidence struct {
	Feedback string `json:"feedback"`
	Source   string `json:"source"`
	Role     string `json:"role"`
}

// Advice is a stakeholder's piece of advice attached to a report.
type Advice struct {
	Stakeholder string `json:"stakeholder,omitempty"`
	Content     string `json:"content"`
}

// EvidenceGroup is a heading with the evidence the backend sorted under it.
type EvidenceGroup struct {
	Heading  string     `json:"heading"`
	Evidence []Evidence `json:"evidence"`
}

// SortedBy holds sorted-evidence results grouped by competency and by stakeholder.
type SortedBy struct {
	Competency   []EvidenceGroup `json:"competency,omitempty"`
	Stakeholders []EvidenceGroup `json:"stakeholders,omitempty"`
}

// IsEmpty reports whether neither grouping carries any group.
func (s SortedBy) IsEmpty() bool {
	return len(s.Competency) == 0 && len(s.Stakeholders) == 0
}

// Clone returns an independent copy.
func (s SortedBy) Clone() SortedBy {
	return SortedBy{
		Competency:   cloneGroups(s.Competency),
		Stakeholders: cloneGroups(s.Stakeholders),
	}
}

func cloneGroups(groups []EvidenceGroup) []EvidenceGroup {
	if groups == nil {
		return nil
	}
	out := make([]EvidenceGroup, len(groups))
	for i, g := range groups {
		out[i] = EvidenceGroup{Heading: g.Heading, Evidence: CloneEvidence(g.Evidence)}
	}
	return out
}

// CloneEvidence copies an evidence slice.
func CloneEvidence(ev []Evidence) []Evidence {
	if ev == nil {
		return nil
	}
	out := make([]Evidence, len(ev))
	copy(out, ev)
	return out
}

// StakeholderFeedback is the feedback and advice one stakeholder gave.
type StakeholderFeedback struct {
	Stakeholder string   `json:"stakeholder"`
	Role        string   `json:"role,omitempty"`
	Feedback    []string `json:"feedback"`
	Advice      []string `json:"advice,omitempty"`
}

// InterviewAnalysis is the plain report shape exchanged with the backend
// and used for document export.
type InterviewAnalysis struct {
	Name          string     `json:"name"`
	Date          string     `json:"date"`
	Strengths     HeadingMap `json:"strengths"`
	AreasToTarget HeadingMap `json:"areas_to_target"`
	NextSteps     []NextStep `json:"next_steps"`
}

// Section returns the heading map backing kind.
func (a InterviewAnalysis) Section(kind SectionKind) HeadingMap {
	if kind == SectionAreasToTarget {
		return a.AreasToTarget
	}
	return a.Strengths
}

// FormattedDate renders Date as "January 2, 2006" when it parses as an ISO
// date, and returns it unchanged otherwise.
func (a InterviewAnalysis) FormattedDate() string {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, a.Date); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return a.Date
}
