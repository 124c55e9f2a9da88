// Package snapshot defines persisted editor snapshots, decides whether a
// report carries meaningful data, and reconciles a workspace with a loaded
// snapshot.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/interview-feedback/internal/types"
	"github.com/jonathan/interview-feedback/internal/workspace"
)

// Trigger records what caused a snapshot to be written.
type Trigger string

const (
	// TriggerManual is a user-requested save
	TriggerManual Trigger = "manual"
	// TriggerAuto is a debounced autosave
	TriggerAuto Trigger = "auto"
)

// ParseTrigger validates a trigger value.
func ParseTrigger(s string) (Trigger, error) {
	switch Trigger(s) {
	case TriggerManual, TriggerAuto:
		return Trigger(s), nil
	default:
		return "", fmt.Errorf("unknown snapshot trigger: %q", s)
	}
}

// ErrNotFound is returned when no snapshot matches a lookup.
var ErrNotFound = errors.New("snapshot not found")

// ReportVariant is one report of a snapshot: its editable template and the
// evidence sorted for it.
type ReportVariant struct {
	Editable *types.OrderedAnalysis `json:"editable,omitempty"`
	SortedBy types.SortedBy         `json:"sorted_by"`
}

// Snapshot is a persisted copy of the reports of one file.
type Snapshot struct {
	ID                 string         `json:"id"`
	FileID             string         `json:"file_id"`
	UserID             string         `json:"user_id,omitempty"`
	Trigger            Trigger        `json:"trigger"`
	Version            int            `json:"version"`
	IsCurrent          bool           `json:"is_current"`
	CreatedAt          time.Time      `json:"created_at"`
	ManualReport       *ReportVariant `json:"manual_report,omitempty"`
	FullReport         *ReportVariant `json:"full_report,omitempty"`
	AICompetencyReport *ReportVariant `json:"ai_competency_report,omitempty"`
}

// Summary is the history listing entry of a snapshot.
type Summary struct {
	ID        string    `json:"id"`
	FileID    string    `json:"file_id"`
	Trigger   Trigger   `json:"trigger"`
	Version   int       `json:"version"`
	IsCurrent bool      `json:"is_current"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns the listing entry for s.
func (s *Snapshot) Summary() Summary {
	return Summary{
		ID:        s.ID,
		FileID:    s.FileID,
		Trigger:   s.Trigger,
		Version:   s.Version,
		IsCurrent: s.IsCurrent,
		CreatedAt: s.CreatedAt,
	}
}

// HasContent reports whether any variant carries meaningful data.
func (s *Snapshot) HasContent() bool {
	if s == nil {
		return false
	}
	for _, v := range Variants {
		if rv := v.Get(s); rv != nil && HasMeaningfulTemplateData(rv.Editable) {
			return true
		}
	}
	return false
}

// Variant binds a snapshot report slot to its workspace template and tab.
type Variant struct {
	Name     string
	Template workspace.TemplateID
	TabID    string
	Label    string
	Get      func(*Snapshot) *ReportVariant
	Set      func(*Snapshot, *ReportVariant)
}

// Child tab ids shown under a report tab.
const (
	TabInterviewFeedback = "interview-feedback"
	TabSortedEvidence    = "sorted-evidence"
)

// Variants lists the report slots of a snapshot in tab order.
var Variants = []Variant{
	{
		Name:     "manual",
		Template: workspace.TemplateBase,
		TabID:    "manual-report",
		Label:    "Manual Report",
		Get:      func(s *Snapshot) *ReportVariant { return s.ManualReport },
		Set:      func(s *Snapshot, rv *ReportVariant) { s.ManualReport = rv },
	},
	{
		Name:     "full",
		Template: workspace.TemplateFullReport,
		TabID:    "full-report",
		Label:    "Full Report",
		Get:      func(s *Snapshot) *ReportVariant { return s.FullReport },
		Set:      func(s *Snapshot, rv *ReportVariant) { s.FullReport = rv },
	},
	{
		Name:     "ai_competency",
		Template: workspace.TemplateAICompetencies,
		TabID:    "ai-competencies",
		Label:    "AI Competencies",
		Get:      func(s *Snapshot) *ReportVariant { return s.AICompetencyReport },
		Set:      func(s *Snapshot, rv *ReportVariant) { s.AICompetencyReport = rv },
	},
}

// VariantFor returns the report slot bound to a template.
func VariantFor(id workspace.TemplateID) (Variant, bool) {
	for _, v := range Variants {
		if v.Template == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Store persists snapshots keyed by file, user and snapshot id.
type Store interface {
	// Save writes snap as the newest, current version for its file and user
	// and returns the stored record with ID, Version and CreatedAt set.
	Save(ctx context.Context, snap *Snapshot) (*Snapshot, error)
	// Latest returns the current snapshot of a file, or ErrNotFound.
	Latest(ctx context.Context, fileID, userID string) (*Snapshot, error)
	Get(ctx context.Context, id string) (*Snapshot, error)
	// History lists a file's snapshots, newest first.
	History(ctx context.Context, fileID, userID string) ([]Summary, error)
	SetCurrent(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
