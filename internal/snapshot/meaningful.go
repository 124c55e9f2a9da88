package snapshot

import (
	"strings"

	"github.com/jonathan/interview-feedback/internal/types"
)

// HasMeaningfulTemplateData reports whether a template holds anything a
// user would want restored: a name, an item with a non-blank heading,
// content or evidence, a non-blank next step, or a non-blank advice.
func HasMeaningfulTemplateData(data *types.OrderedAnalysis) bool {
	if data == nil {
		return false
	}
	if !isBlank(data.Name) {
		return true
	}
	for _, kind := range types.Sections {
		for _, it := range data.Section(kind).Items {
			if itemHasContent(it) {
				return true
			}
		}
	}
	for _, step := range data.NextSteps {
		if !step.IsBlank() {
			return true
		}
	}
	for _, adv := range data.Advices {
		if !isBlank(adv.Content) {
			return true
		}
	}
	return false
}

func itemHasContent(it types.Item) bool {
	if !isBlank(it.Heading) || !isBlank(it.Content) {
		return true
	}
	for _, ev := range it.Evidence {
		if !isBlank(ev.Feedback) || !isBlank(ev.Source) || !isBlank(ev.Role) {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
