package provider

import (
	"testing"

	"netbot/internal/config"
)

func factoryConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Providers["openai"] = config.ProviderConfig{Enabled: true, APIKey: "sk-test"}
	cfg.Providers["ollama"] = config.ProviderConfig{Enabled: false}
	return cfg
}

func TestFactory_DefaultProvider(t *testing.T) {
	f := NewFactory(factoryConfig(), testLogger())

	p, err := f.DefaultProvider()
	if err != nil {
		t.Fatalf("DefaultProvider: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("expected openai, got %s", p.Name())
	}
}

func TestFactory_CachesInstances(t *testing.T) {
	f := NewFactory(factoryConfig(), testLogger())

	p1, err := f.Get("openai")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	p2, _ := f.Get("openai")
	if p1 != p2 {
		t.Fatal("expected cached provider instance")
	}
}

func TestFactory_DisabledProvider(t *testing.T) {
	f := NewFactory(factoryConfig(), testLogger())
	if _, err := f.Get("ollama"); err == nil {
		t.Fatal("expected error for disabled provider")
	}
}

func TestFactory_UnknownProvider(t *testing.T) {
	f := NewFactory(factoryConfig(), testLogger())
	if _, err := f.Get("claude"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
