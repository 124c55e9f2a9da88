// Package editing converts reports between their plain and ordered forms and
// provides the pure edit operations applied to the ordered form. Every
// operation returns a new value and leaves its input untouched.
package editing

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/interview-feedback/internal/types"
)

// IDFunc produces a fresh, unique item identifier.
type IDFunc func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// ToOrdered converts a plain analysis into the ordered form, assigning a
// fresh id to every heading in map order.
func ToOrdered(plain types.InterviewAnalysis) types.OrderedAnalysis {
	return ToOrderedWithIDs(plain, NewID)
}

// ToOrderedWithIDs is ToOrdered with a caller-supplied id source.
func ToOrderedWithIDs(plain types.InterviewAnalysis, newID IDFunc) types.OrderedAnalysis {
	steps := types.CloneSteps(plain.NextSteps)
	if steps == nil {
		steps = []types.NextStep{}
	}
	return types.OrderedAnalysis{
		Name:          plain.Name,
		Date:          plain.Date,
		Strengths:     sectionFromMap(plain.Strengths, newID),
		AreasToTarget: sectionFromMap(plain.AreasToTarget, newID),
		NextSteps:     steps,
	}
}

func sectionFromMap(m types.HeadingMap, newID IDFunc) types.OrderedSection {
	section := types.NewOrderedSection()
	for _, e := range m {
		id := newID()
		section.Order = append(section.Order, id)
		section.Items[id] = types.Item{ID: id, Heading: e.Heading, Content: e.Content}
	}
	return section
}

// FromOrdered converts the ordered form back into the plain analysis used
// for backend calls and export. Headings must be unique within a section
// after trimming surrounding whitespace; a collision returns *DuplicateHeadingError rather than dropping content.
func FromOrdered(ordered types.OrderedAnalysis) (types.InterviewAnalysis, error) {
	strengths, err := mapFromSection(types.SectionStrengths, ordered.Strengths)
	if err != nil {
		return types.InterviewAnalysis{}, err
	}
	areas, err := mapFromSection(types.SectionAreasToTarget, ordered.AreasToTarget)
	if err != nil {
		return types.InterviewAnalysis{}, err
	}

	steps := types.CloneSteps(ordered.NextSteps)
	if steps == nil {
		steps = []types.NextStep{}
	}

	return types.InterviewAnalysis{
		Name:          ordered.Name,
		Date:          ordered.Date,
		Strengths:     strengths,
		AreasToTarget: areas,
		NextSteps:     steps,
	}, nil
}

func mapFromSection(kind types.SectionKind, section types.OrderedSection) (types.HeadingMap, error) {
	if err := section.Validate(); err != nil {
		return nil, err
	}

	out := make(types.HeadingMap, 0, len(section.Order))
	seen := make(map[string]bool, len(section.Order))
	for _, id := range section.Order {
		it := section.Items[id]
		// Same comparison as OrderedSection.HasHeading.
		key := strings.TrimSpace(it.Heading)
		if seen[key] {
			return nil, &DuplicateHeadingError{Section: kind, Heading: it.Heading}
		}
		seen[key] = true
		out = append(out, types.HeadingEntry{Heading: it.Heading, Content: it.Content})
	}
	return out, nil
}
