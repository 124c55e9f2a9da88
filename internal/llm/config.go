// Package llm provides the model configuration and client used to draft
// report content locally when no remote backend generates it.
package llm

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short single-paragraph drafts
	TierLite ModelTier = "lite"
	// TierStandard is for structured output such as next-step lists
	TierStandard ModelTier = "standard"
	// TierAdvanced is for longer synthesis across many evidence quotes
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, currently the only one.
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider             `json:"provider" yaml:"provider"`
	Models      map[ModelTier]string `json:"models" yaml:"models"`
	Temperature float32              `json:"temperature" yaml:"temperature"`
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.4,
	}
}

// GetModel returns the model name for a tier, falling back to the standard
// and then the lite model.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of c with model assigned to tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
