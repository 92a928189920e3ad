package providers

import (
	"fmt"
	"time"

	"github.com/rulekb/rulekb/internal/config"
)

// NewClient builds an LLMClient from a resolved provider config.
func NewClient(name string, cfg config.LLMProviderCfg) (LLMClient, error) {
	switch cfg.Type {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider %s: api_key is empty (is the environment variable set?)", name)
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			RateLimit:  int(cfg.RateLimit),
			RetryDelay: 2 * time.Second,
		}), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("provider %s: unknown type %q", name, cfg.Type)
	}
}
