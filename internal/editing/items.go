package editing

import (
	"fmt"
	"strings"

	"github.com/jonathan/interview-feedback/internal/types"
)

// NextDefaultHeading returns "<prefix> N" for the smallest N >= 1 that no
// item of the section uses yet.
func NextDefaultHeading(section types.OrderedSection, prefix string) string {
	prefix = strings.TrimSpace(prefix)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s %d", prefix, n)
		if !section.HasHeading(candidate, "") {
			return candidate
		}
	}
}

// AddItem prepends a new, empty item to the section, titled from
// defaultHeading with a counter suffix. It returns the new analysis and the
// new item's id.
func AddItem(a types.OrderedAnalysis, kind types.SectionKind, defaultHeading string) (types.OrderedAnalysis, string, error) {
	return AddItemWithID(a, kind, defaultHeading, NewID)
}

// AddItemWithID is AddItem with a caller-supplied id source.
func AddItemWithID(a types.OrderedAnalysis, kind types.SectionKind, defaultHeading string, newID IDFunc) (types.OrderedAnalysis, string, error) {
	if strings.TrimSpace(defaultHeading) == "" {
		return a, "", ErrEmptyHeading
	}

	section := a.Section(kind).Clone()
	id := newID()
	if _, exists := section.Items[id]; exists {
		return a, "", fmt.Errorf("generated id %q already exists in %s", id, kind)
	}

	section.Items[id] = types.Item{
		ID:      id,
		Heading: NextDefaultHeading(section, defaultHeading),
	}
	section.Order = append([]string{id}, section.Order...)

	return a.WithSection(kind, section), id, nil
}

// RenameItem replaces the heading of one item. Blank headings and headings
// already used by another item of the section are rejected.
func RenameItem(a types.OrderedAnalysis, kind types.SectionKind, id, heading string) (types.OrderedAnalysis, error) {
	if strings.TrimSpace(heading) == "" {
		return a, ErrEmptyHeading
	}
	if a.Section(kind).HasHeading(heading, id) {
		return a, &DuplicateHeadingError{Section: kind, Heading: strings.TrimSpace(heading)}
	}
	return updateItem(a, kind, id, func(it *types.Item) {
		it.Heading = heading
	})
}

// SetContent replaces the prose content of one item.
func SetContent(a types.OrderedAnalysis, kind types.SectionKind, id, content string) (types.OrderedAnalysis, error) {
	return updateItem(a, kind, id, func(it *types.Item) {
		it.Content = content
	})
}

// SetEvidence replaces the evidence attached to one item.
func SetEvidence(a types.OrderedAnalysis, kind types.SectionKind, id string, evidence []types.Evidence) (types.OrderedAnalysis, error) {
	return updateItem(a, kind, id, func(it *types.Item) {
		it.Evidence = types.CloneEvidence(evidence)
	})
}

// SetCompetencyAlignment replaces the competencies one item aligns with.
func SetCompetencyAlignment(a types.OrderedAnalysis, kind types.SectionKind, id string, competencies []string) (types.OrderedAnalysis, error) {
	return updateItem(a, kind, id, func(it *types.Item) {
		it.CompetencyAlignment = append([]string(nil), competencies...)
	})
}

// DeleteItem removes an item from both the order and the item set.
func DeleteItem(a types.OrderedAnalysis, kind types.SectionKind, id string) (types.OrderedAnalysis, error) {
	section := a.Section(kind)
	idx := section.IndexOf(id)
	if idx < 0 {
		return a, itemNotFound(kind, id)
	}

	section = section.Clone()
	section.Order = append(section.Order[:idx], section.Order[idx+1:]...)
	delete(section.Items, id)
	return a.WithSection(kind, section), nil
}

// MoveItem moves an item to position to in the display order.
func MoveItem(a types.OrderedAnalysis, kind types.SectionKind, id string, to int) (types.OrderedAnalysis, error) {
	section := a.Section(kind)
	from := section.IndexOf(id)
	if from < 0 {
		return a, itemNotFound(kind, id)
	}
	if to < 0 || to >= len(section.Order) {
		return a, &IndexError{Op: "move item", Index: to, Len: len(section.Order)}
	}
	if from == to {
		return a, nil
	}

	section = section.Clone()
	order := append(section.Order[:from], section.Order[from+1:]...)
	order = append(order[:to], append([]string{id}, order[to:]...)...)
	section.Order = order
	return a.WithSection(kind, section), nil
}

// ApplySortedEvidence attaches each group's evidence to the item whose
// heading matches the group heading (case-insensitive, trimmed). Items
// without a matching group keep their evidence. It returns the number of
// items updated.
func ApplySortedEvidence(a types.OrderedAnalysis, kind types.SectionKind, groups []types.EvidenceGroup) (types.OrderedAnalysis, int) {
	byHeading := make(map[string][]types.Evidence, len(groups))
	for _, g := range groups {
		byHeading[normalizeHeading(g.Heading)] = g.Evidence
	}

	section := a.Section(kind).Clone()
	updated := 0
	for id, it := range section.Items {
		ev, ok := byHeading[normalizeHeading(it.Heading)]
		if !ok {
			continue
		}
		it.Evidence = types.CloneEvidence(ev)
		section.Items[id] = it
		updated++
	}
	return a.WithSection(kind, section), updated
}

func normalizeHeading(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func updateItem(a types.OrderedAnalysis, kind types.SectionKind, id string, fn func(*types.Item)) (types.OrderedAnalysis, error) {
	section := a.Section(kind)
	if _, ok := section.Items[id]; !ok {
		return a, itemNotFound(kind, id)
	}

	section = section.Clone()
	it := section.Items[id]
	fn(&it)
	section.Items[id] = it
	return a.WithSection(kind, section), nil
}
