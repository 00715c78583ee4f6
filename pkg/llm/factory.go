package llm

import (
	"fmt"

	"github.com/helmcode/actionplan/pkg/config"
)

// NewFromConfig builds the gateway client selected by cfg.LLM.Provider.
func NewFromConfig(cfg *config.Config) (LLM, error) {
	switch cfg.LLM.Provider {
	case config.ProviderRelay, "":
		if cfg.LLM.RelayURL == "" {
			return nil, fmt.Errorf("llm.relay_url is required for the relay provider")
		}
		return NewRelay(cfg.LLM.RelayURL, cfg.LLM.Model, cfg.LLM.Timeout), nil

	case config.ProviderClaude:
		if cfg.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		model := cfg.LLM.Model
		if model == "" {
			model = DefaultModel
		}
		return NewClaudeWithModel(cfg.Anthropic.APIKey, model, cfg.LLM.Timeout), nil

	default:
		return nil, fmt.Errorf("unsupported llm.provider: %s (supported: %s, %s)", cfg.LLM.Provider, config.ProviderRelay, config.ProviderClaude)
	}
}

// Describe returns a short provider/model label for status output.
func Describe(l LLM) string {
	switch c := l.(type) {
	case *Relay:
		return fmt.Sprintf("relay %s (%s)", c.baseURL, c.model)
	case *Claude:
		return fmt.Sprintf("claude direct (%s)", c.model)
	default:
		return fmt.Sprintf("%T", l)
	}
}
