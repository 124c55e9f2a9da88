package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NextStepKind discriminates the two shapes a next step can take.
type NextStepKind string

const (
	// NextStepText is a freeform paragraph
	NextStepText NextStepKind = "text"
	// NextStepPoints is a headline with bullet points
	NextStepPoints NextStepKind = "points"
)

// NextStep is an action item in a report. Exactly one shape is populated,
// selected by Kind: Text for NextStepText, Main and SubPoints for NextStepPoints.
//
// On the wire a text step is a bare JSON string and a point step is a
// {"main", "sub_points"} object, matching the backend's contract.
type NextStep struct {
	Kind      NextStepKind
	Text      string
	Main      string
	SubPoints []string
}

// TextStep builds a freeform paragraph step.
func TextStep(text string) NextStep {
	return NextStep{Kind: NextStepText, Text: text}
}

// PointStep builds a headline step with bullet points.
func PointStep(main string, subPoints ...string) NextStep {
	points := make([]string, len(subPoints))
	copy(points, subPoints)
	return NextStep{Kind: NextStepPoints, Main: main, SubPoints: points}
}

// IsPoints reports whether the step carries a headline and bullet points.
func (s NextStep) IsPoints() bool {
	return s.Kind == NextStepPoints
}

// IsBlank reports whether the step has no non-whitespace text anywhere.
func (s NextStep) IsBlank() bool {
	if !s.IsPoints() {
		return strings.TrimSpace(s.Text) == ""
	}
	if strings.TrimSpace(s.Main) != "" {
		return false
	}
	for _, p := range s.SubPoints {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s NextStep) Clone() NextStep {
	out := s
	if s.SubPoints != nil {
		out.SubPoints = make([]string, len(s.SubPoints))
		copy(out.SubPoints, s.SubPoints)
	}
	return out
}

type pointStepWire struct {
	Main      string   `json:"main"`
	SubPoints []string `json:"sub_points"`
}

// MarshalJSON encodes text steps as strings and point steps as objects.
func (s NextStep) MarshalJSON() ([]byte, error) {
	if !s.IsPoints() {
		return json.Marshal(s.Text)
	}
	points := s.SubPoints
	if points == nil {
		points = []string{}
	}
	return json.Marshal(pointStepWire{Main: s.Main, SubPoints: points})
}

// UnmarshalJSON accepts either a JSON string or a {"main", "sub_points"} object.
func (s *NextStep) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty next step")
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("failed to decode text step: %w", err)
		}
		*s = TextStep(text)
		return nil
	case '{':
		var wire pointStepWire
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return fmt.Errorf("failed to decode point step: %w", err)
		}
		*s = PointStep(wire.Main, wire.SubPoints...)
		return nil
	default:
		return fmt.Errorf("next step must be a string or an object, got %s", string(trimmed))
	}
}

// CloneSteps deep-copies a slice of steps.
func CloneSteps(steps []NextStep) []NextStep {
	if steps == nil {
		return nil
	}
	out := make([]NextStep, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return out
}
