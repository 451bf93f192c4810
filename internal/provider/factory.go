package provider

import (
	"fmt"
	"log/slog"
	"sync"

	"netbot/internal/config"
	"netbot/internal/domain"
)

// Constructor builds a provider from its config entry.
type Constructor func(pc config.ProviderConfig, logger *slog.Logger) domain.Provider

// Factory creates and caches LLM providers from config.
type Factory struct {
	cfg          *config.Config
	logger       *slog.Logger
	constructors map[string]Constructor
	cache        map[string]domain.Provider
	mu           sync.Mutex
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	f := &Factory{
		cfg:          cfg,
		logger:       logger,
		constructors: make(map[string]Constructor),
		cache:        make(map[string]domain.Provider),
	}
	f.constructors["openai"] = func(pc config.ProviderConfig, logger *slog.Logger) domain.Provider {
		return NewOpenAI(OpenAIConfig{APIKey: pc.APIKey, APIBase: pc.APIBase, Model: pc.DefaultModel, Logger: logger})
	}
	f.constructors["ollama"] = func(pc config.ProviderConfig, logger *slog.Logger) domain.Provider {
		return NewOllama(OllamaConfig{APIBase: pc.APIBase, DefaultModel: pc.DefaultModel, Logger: logger})
	}
	return f
}

// Get returns the named provider, constructing it on first use. The
// provider must exist in config and be enabled.
func (f *Factory) Get(name string) (domain.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.cache[name]; ok {
		return p, nil
	}
	pc, ok := f.cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("no providers entry for %q", name)
	}
	if !pc.Enabled {
		return nil, fmt.Errorf("provider %q is disabled", name)
	}
	ctor, ok := f.constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider type %q", name)
	}

	p := ctor(pc, f.logger)
	f.cache[name] = p
	return p, nil
}

// DefaultProvider returns the provider named by general.defaultProvider.
func (f *Factory) DefaultProvider() (domain.Provider, error) {
	return f.Get(f.cfg.General.DefaultProvider)
}
