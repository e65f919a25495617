package llm

import (
	"testing"
	"time"
)

func clearDiscoveryEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestSplitProviders(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"anthropic", []string{"anthropic"}},
		{"gemini,openai", []string{"gemini", "openai"}},
		{" gemini , openai ", []string{"gemini", "openai"}},
		{"gemini,,openai,", []string{"gemini", "openai"}},
		{",", nil},
	}

	for _, tc := range cases {
		got := splitProviders(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("splitProviders(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitProviders(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("QUIZFORGE_LLM_PROVIDERS", "")
	t.Setenv("QUIZFORGE_LLM_TIMEOUT", "")

	cfg := ConfigFromEnv()
	if len(cfg.Providers) != 1 || cfg.Providers[0] != "anthropic" {
		t.Errorf("default providers = %v, want [anthropic]", cfg.Providers)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("default timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("QUIZFORGE_LLM_PROVIDERS", "openai,gemini")
	t.Setenv("QUIZFORGE_OPENAI_API_KEY", "sk-test")
	t.Setenv("QUIZFORGE_OPENAI_MODEL", "gpt-test")
	t.Setenv("QUIZFORGE_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if len(cfg.Providers) != 2 || cfg.Providers[0] != "openai" || cfg.Providers[1] != "gemini" {
		t.Errorf("providers = %v, want [openai gemini]", cfg.Providers)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("openai key = %q, want sk-test", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-test" {
		t.Errorf("openai model = %q, want gpt-test", cfg.OpenAI.Model)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Timeout)
	}
}

func TestDiscoverConfig_NoneFound(t *testing.T) {
	clearDiscoveryEnv(t)

	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected discovery to fail with no keys set")
	}
}

func TestDiscoverConfig_PriorityOrder(t *testing.T) {
	clearDiscoveryEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "ant-key")
	t.Setenv("GEMINI_API_KEY", "gem-key")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected discovery to succeed")
	}
	if len(cfg.Providers) != 2 || cfg.Providers[0] != "gemini" || cfg.Providers[1] != "anthropic" {
		t.Fatalf("providers = %v, want [gemini anthropic]", cfg.Providers)
	}
	if cfg.Gemini.APIKey != "gem-key" {
		t.Errorf("gemini key = %q, want gem-key", cfg.Gemini.APIKey)
	}
	if cfg.Anthropic.APIKey != "ant-key" {
		t.Errorf("anthropic key = %q, want ant-key", cfg.Anthropic.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"no providers", func(c *Config) { c.Providers = nil }, true},
		{"anthropic without key", func(c *Config) { c.Providers = []string{"anthropic"} }, true},
		{"anthropic with key", func(c *Config) {
			c.Providers = []string{"anthropic"}
			c.Anthropic.APIKey = "k"
		}, false},
		{"openai without key", func(c *Config) { c.Providers = []string{"openai"} }, true},
		{"gemini without key", func(c *Config) { c.Providers = []string{"gemini"} }, true},
		{"openrouter without key", func(c *Config) { c.Providers = []string{"openrouter"} }, true},
		{"mock needs no key", func(c *Config) { c.Providers = []string{"mock"} }, false},
		{"unknown provider", func(c *Config) { c.Providers = []string{"oracle"} }, true},
		{"one missing key fails the set", func(c *Config) {
			c.Providers = []string{"mock", "openai"}
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
