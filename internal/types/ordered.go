package types

import (
	"fmt"
	"strings"
)

// Item is one addressable entry of an ordered section. The ID is synthetic
// and survives heading renames.
type Item struct {
	ID                  string     `json:"id"`
	Heading             string     `json:"heading"`
	Content             string     `json:"content"`
	Evidence            []Evidence `json:"evidence,omitempty"`
	CompetencyAlignment []string   `json:"competencyAlignment,omitempty"`
}

// Clone returns an independent copy.
func (it Item) Clone() Item {
	out := it
	out.Evidence = CloneEvidence(it.Evidence)
	if it.CompetencyAlignment != nil {
		out.CompetencyAlignment = make([]string, len(it.CompetencyAlignment))
		copy(out.CompetencyAlignment, it.CompetencyAlignment)
	}
	return out
}

// OrderedSection keeps display order separately from item identity.
// Order holds exactly the key set of Items, without duplicates.
type OrderedSection struct {
	Order []string        `json:"order"`
	Items map[string]Item `json:"items"`
}

// NewOrderedSection returns an empty section ready for use.
func NewOrderedSection() OrderedSection {
	return OrderedSection{Order: []string{}, Items: map[string]Item{}}
}

// Len returns the number of items.
func (s OrderedSection) Len() int {
	return len(s.Order)
}

// Get returns the item with the given id.
func (s OrderedSection) Get(id string) (Item, bool) {
	it, ok := s.Items[id]
	return it, ok
}

// IndexOf returns the position of id in Order, or -1.
func (s OrderedSection) IndexOf(id string) int {
	for i, v := range s.Order {
		if v == id {
			return i
		}
	}
	return -1
}

// List returns the items in display order.
func (s OrderedSection) List() []Item {
	out := make([]Item, 0, len(s.Order))
	for _, id := range s.Order {
		if it, ok := s.Items[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// HasHeading reports whether any item other than exceptID uses heading.
// Headings compare after trimming surrounding whitespace.
func (s OrderedSection) HasHeading(heading, exceptID string) bool {
	want := strings.TrimSpace(heading)
	for id, it := range s.Items {
		if id != exceptID && strings.TrimSpace(it.Heading) == want {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (s OrderedSection) Clone() OrderedSection {
	out := OrderedSection{
		Order: make([]string, len(s.Order)),
		Items: make(map[string]Item, len(s.Items)),
	}
	copy(out.Order, s.Order)
	for id, it := range s.Items {
		out.Items[id] = it.Clone()
	}
	return out
}

// InvariantError reports an ordered section whose order and items disagree.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("section invariant violated: %s", e.Message)
}

// Validate checks that Order lists exactly the keys of Items, once each,
// and that every item's ID matches its key.
func (s OrderedSection) Validate() error {
	if len(s.Order) != len(s.Items) {
		return &InvariantError{Message: fmt.Sprintf("order has %d ids but items has %d", len(s.Order), len(s.Items))}
	}
	seen := make(map[string]bool, len(s.Order))
	for _, id := range s.Order {
		if seen[id] {
			return &InvariantError{Message: fmt.Sprintf("duplicate id %q in order", id)}
		}
		seen[id] = true
		it, ok := s.Items[id]
		if !ok {
			return &InvariantError{Message: fmt.Sprintf("id %q in order has no item", id)}
		}
		if it.ID != id {
			return &InvariantError{Message: fmt.Sprintf("item %q carries id %q", id, it.ID)}
		}
	}
	return nil
}

// OrderedAnalysis is the editable form of a report: each section keeps its
// own display order and stable item ids.
type OrderedAnalysis struct {
	Name          string         `json:"name"`
	Date          string         `json:"date"`
	Strengths     OrderedSection `json:"strengths"`
	AreasToTarget OrderedSection `json:"areas_to_target"`
	NextSteps     []NextStep     `json:"next_steps"`
	Advices       []Advice       `json:"advices,omitempty"`
}

// TemplatedData is the name the report templates use for OrderedAnalysis.
type TemplatedData = OrderedAnalysis

// EmptyAnalysis returns an analysis with empty sections and no next steps.
func EmptyAnalysis() OrderedAnalysis {
	return OrderedAnalysis{
		Strengths:     NewOrderedSection(),
		AreasToTarget: NewOrderedSection(),
		NextSteps:     []NextStep{},
	}
}

// Section returns the section named kind.
func (a OrderedAnalysis) Section(kind SectionKind) OrderedSection {
	if kind == SectionAreasToTarget {
		return a.AreasToTarget
	}
	return a.Strengths
}

// WithSection returns a copy of a with kind replaced by s.
func (a OrderedAnalysis) WithSection(kind SectionKind, s OrderedSection) OrderedAnalysis {
	if kind == SectionAreasToTarget {
		a.AreasToTarget = s
	} else {
		a.Strengths = s
	}
	return a
}

// Validate checks the invariant of both sections.
func (a OrderedAnalysis) Validate() error {
	for _, kind := range Sections {
		if err := a.Section(kind).Validate(); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
	}
	return nil
}

// Clone returns an independent deep copy.
func (a OrderedAnalysis) Clone() OrderedAnalysis {
	out := a
	out.Strengths = a.Strengths.Clone()
	out.AreasToTarget = a.AreasToTarget.Clone()
	out.NextSteps = CloneSteps(a.NextSteps)
	if a.Advices != nil {
		out.Advices = make([]Advice, len(a.Advices))
		copy(out.Advices, a.Advices)
	}
	return out
}
