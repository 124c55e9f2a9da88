package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("feedback.json", "section-content")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "{{.Heading}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("feedback.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("feedback.json", "section-content")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Write about {{.Heading}} for {{.Name}}."
	data := map[string]string{
		"Heading": "Communication",
		"Name":    "Jane",
	}

	result := Format(template, data)
	assert.Equal(t, "Write about Communication for Jane.", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Heading: {{.Heading}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("feedback.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"section-content", "existing-content-hint", "next-steps"}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("feedback.json", "section-content")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("feedback.json", "section-content")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}

func TestRender(t *testing.T) {
	ClearCache()

	prompt, err := Render("feedback.json", "existing-content-hint", map[string]string{"Existing": "Draft text"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Draft text")
	assert.NotContains(t, prompt, "{{.Existing}}")
}

func TestFeedbackPromptsHavePlaceholders(t *testing.T) {
	ClearCache()

	tests := map[string][]string{
		"section-content":       {"{{.SectionLabel}}", "{{.Heading}}", "{{.Evidence}}", "{{.ExistingHint}}"},
		"existing-content-hint": {"{{.Existing}}"},
		"next-steps":            {"{{.Areas}}"},
	}
	for key, placeholders := range tests {
		prompt := MustGet("feedback.json", key)
		for _, p := range placeholders {
			assert.Contains(t, prompt, p, "prompt %s", key)
		}
	}
}
