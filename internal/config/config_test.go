package config

import (
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:  HTTPConfig{Port: 8080},
		Index: IndexConfig{URL: "http://localhost:9200"},
		AI:    AIConfig{APIKey: "test-key"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingIndexURL(t *testing.T) {
	cfg := validConfig()
	cfg.Index.URL = ""
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing index url")
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.AI.APIKey = ""
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestValidate_CacheEnabledWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.AI.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("embedding model default = %q", cfg.AI.Embedding.Model)
	}
	if cfg.AI.Embedding.Dimensions != 1536 {
		t.Errorf("embedding dimensions default = %d", cfg.AI.Embedding.Dimensions)
	}
	if cfg.AI.Generation.Model != "gpt-4o-mini" {
		t.Errorf("generation model default = %q", cfg.AI.Generation.Model)
	}
	if cfg.AI.RateLimit.MaxRequests != 60 || cfg.AI.RateLimit.WindowSec != 60 {
		t.Errorf("rate limit defaults = %d/%ds, want 60/60s",
			cfg.AI.RateLimit.MaxRequests, cfg.AI.RateLimit.WindowSec)
	}
	if cfg.Ask.DefaultTopK != 5 {
		t.Errorf("default top_k = %d, want 5", cfg.Ask.DefaultTopK)
	}
	if cfg.Index.Name != "info_hunter_knowledge" {
		t.Errorf("index name default = %q", cfg.Index.Name)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("IH_TEST_KEY", "secret")

	out := string(expandEnvVars([]byte("api_key: ${IH_TEST_KEY}\nurl: ${IH_MISSING:-http://fallback}")))
	want := "api_key: secret\nurl: http://fallback"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
