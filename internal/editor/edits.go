package editor

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-feedback/internal/editing"
	"github.com/jonathan/interview-feedback/internal/types"
	"github.com/jonathan/interview-feedback/internal/workspace"
)

// OpKind names an edit of the active report.
type OpKind string

const (
	OpAddItem         OpKind = "add_item"
	OpRenameItem      OpKind = "rename_item"
	OpSetContent      OpKind = "set_content"
	OpSetCompetencies OpKind = "set_competencies"
	OpDeleteItem      OpKind = "delete_item"
	OpMoveItem        OpKind = "move_item"
	OpAddTextStep     OpKind = "add_text_step"
	OpAddPointStep    OpKind = "add_point_step"
	OpDeleteStep      OpKind = "delete_step"
	OpUpdateStepText  OpKind = "update_step_text"
	OpUpdateMain      OpKind = "update_main"
	OpAddSubPoint     OpKind = "add_sub_point"
	OpUpdateSubPoint  OpKind = "update_sub_point"
	OpDeleteSubPoint  OpKind = "delete_sub_point"
	OpSetName         OpKind = "set_name"
	OpSetDate         OpKind = "set_date"
	OpReset           OpKind = "reset"
)

// Operation is one edit. Which fields are read depends on Op: item edits
// use Section and ItemID, step edits use Index and SubIndex.
type Operation struct {
	Op           OpKind            `json:"op" validate:"required"`
	Section      types.SectionKind `json:"section,omitempty"`
	ItemID       string            `json:"item_id,omitempty"`
	Heading      string            `json:"heading,omitempty"`
	Content      string            `json:"content,omitempty"`
	Competencies []string          `json:"competencies,omitempty"`
	Index        int               `json:"index,omitempty"`
	SubIndex     int               `json:"sub_index,omitempty"`
	Text         string            `json:"text,omitempty"`
	To           int               `json:"to,omitempty"`
}

// EditResult is the session after an edit, with the id of an added item.
type EditResult struct {
	View
	ItemID string `json:"item_id,omitempty"`
}

// defaultHeadings are the prefixes of headings given to new items.
var defaultHeadings = map[types.SectionKind]string{
	types.SectionStrengths:     "New Strength",
	types.SectionAreasToTarget: "New Area",
}

// Edit applies op to the active report of a session.
func (s *Service) Edit(_ context.Context, sessionID string, op Operation) (EditResult, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return EditResult{}, err
	}

	if op.Op == OpReset {
		if _, err := sess.store.Update(func(st workspace.State) (workspace.State, error) {
			return st.ResetToOriginal(), nil
		}); err != nil {
			return EditResult{}, err
		}
		return EditResult{View: sess.View()}, nil
	}

	if needsSection(op.Op) {
		if _, err := types.ParseSectionKind(string(op.Section)); err != nil {
			return EditResult{}, err
		}
	}

	var added string
	_, err = sess.store.Update(func(st workspace.State) (workspace.State, error) {
		return st.EditActive(func(a types.OrderedAnalysis) (types.OrderedAnalysis, error) {
			next, id, err := s.apply1(a, op)
			added = id
			return next, err
		})
	})
	if err != nil {
		return EditResult{}, err
	}
	return EditResult{View: sess.View(), ItemID: added}, nil
}

func needsSection(op OpKind) bool {
	switch op {
	case OpAddItem, OpRenameItem, OpSetContent, OpSetCompetencies, OpDeleteItem, OpMoveItem:
		return true
	}
	return false
}

// apply1 dispatches a single operation to the editing package.
func (s *Service) apply1(a types.OrderedAnalysis, op Operation) (types.OrderedAnalysis, string, error) {
	switch op.Op {
	case OpAddItem:
		heading := op.Heading
		if heading == "" {
			heading = defaultHeadings[op.Section]
		}
		return editing.AddItemWithID(a, op.Section, heading, s.newID)
	case OpRenameItem:
		next, err := editing.RenameItem(a, op.Section, op.ItemID, op.Heading)
		return next, "", err
	case OpSetContent:
		next, err := editing.SetContent(a, op.Section, op.ItemID, op.Content)
		return next, "", err
	case OpSetCompetencies:
		next, err := editing.SetCompetencyAlignment(a, op.Section, op.ItemID, op.Competencies)
		return next, "", err
	case OpDeleteItem:
		next, err := editing.DeleteItem(a, op.Section, op.ItemID)
		return next, "", err
	case OpMoveItem:
		next, err := editing.MoveItem(a, op.Section, op.ItemID, op.To)
		return next, "", err
	case OpAddTextStep:
		return editing.AddTextStep(a), "", nil
	case OpAddPointStep:
		return editing.AddPointStep(a), "", nil
	case OpDeleteStep:
		next, err := editing.DeleteStep(a, op.Index)
		return next, "", err
	case OpUpdateStepText:
		next, err := editing.UpdateStepText(a, op.Index, op.Text)
		return next, "", err
	case OpUpdateMain:
		next, err := editing.UpdateMain(a, op.Index, op.Text)
		return next, "", err
	case OpAddSubPoint:
		next, err := editing.AddSubPoint(a, op.Index)
		return next, "", err
	case OpUpdateSubPoint:
		next, err := editing.UpdateSubPoint(a, op.Index, op.SubIndex, op.Text)
		return next, "", err
	case OpDeleteSubPoint:
		next, err := editing.DeleteSubPoint(a, op.Index, op.SubIndex)
		return next, "", err
	case OpSetName:
		a.Name = op.Text
		return a, "", nil
	case OpSetDate:
		a.Date = op.Text
		return a, "", nil
	default:
		return a, "", fmt.Errorf("unknown edit operation %q", op.Op)
	}
}
