package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/interview-feedback/internal/prompts"
	"github.com/jonathan/interview-feedback/internal/types"
)

const feedbackPrompts = "feedback.json"

// FeedbackGenerator drafts report content with an LLM.
type FeedbackGenerator struct {
	client Client
	tier   ModelTier
}

// NewFeedbackGenerator wraps client, drafting with the standard tier.
func NewFeedbackGenerator(client Client) *FeedbackGenerator {
	return &FeedbackGenerator{client: client, tier: TierStandard}
}

// GenerateContent drafts the paragraph for one strength or area heading,
// improving on req.Existing when it is set.
func (g *FeedbackGenerator) GenerateContent(ctx context.Context, req types.ContentRequest) (string, error) {
	hint := ""
	if strings.TrimSpace(req.Existing) != "" {
		var err error
		hint, err = prompts.Render(feedbackPrompts, "existing-content-hint", map[string]string{"Existing": req.Existing})
		if err != nil {
			return "", err
		}
	}

	prompt, err := prompts.Render(feedbackPrompts, "section-content", map[string]string{
		"SectionLabel": strings.ToLower(req.Section.Label()),
		"Heading":      req.Heading,
		"Evidence":     formatEvidence(req.Evidence),
		"ExistingHint": hint,
	})
	if err != nil {
		return "", err
	}

	text, err := g.client.GenerateContent(ctx, prompt, g.tier)
	if err != nil {
		return "", fmt.Errorf("failed to generate content for %q: %w", req.Heading, err)
	}
	return strings.TrimSpace(text), nil
}

// GenerateNextSteps drafts next steps for the given development areas.
func (g *FeedbackGenerator) GenerateNextSteps(ctx context.Context, req types.NextStepsRequest) ([]types.NextStep, error) {
	var areas strings.Builder
	for _, e := range req.Areas {
		fmt.Fprintf(&areas, "- %s: %s\n", e.Heading, e.Content)
	}

	prompt, err := prompts.Render(feedbackPrompts, "next-steps", map[string]string{"Areas": areas.String()})
	if err != nil {
		return nil, err
	}

	raw, err := g.client.GenerateJSON(ctx, prompt, g.tier)
	if err != nil {
		return nil, fmt.Errorf("failed to generate next steps: %w", err)
	}
	return ParseNextSteps(raw)
}

// ParseNextSteps decodes a model's JSON array of next steps. Blank entries
// are dropped.
func ParseNextSteps(raw string) ([]types.NextStep, error) {
	var steps []types.NextStep
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &steps); err != nil {
		return nil, fmt.Errorf("failed to parse next steps: %w", err)
	}
	out := make([]types.NextStep, 0, len(steps))
	for _, s := range steps {
		if !s.IsBlank() {
			out = append(out, s)
		}
	}
	return out, nil
}

func formatEvidence(evidence []types.Evidence) string {
	if len(evidence) == 0 {
		return "(no evidence quotes available)"
	}
	var sb strings.Builder
	for _, ev := range evidence {
		fmt.Fprintf(&sb, "- %q", ev.Feedback)
		switch {
		case ev.Source != "" && ev.Role != "":
			fmt.Fprintf(&sb, " (%s, %s)", ev.Source, ev.Role)
		case ev.Source != "":
			fmt.Fprintf(&sb, " (%s)", ev.Source)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
