package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
		LLM:       LLMConfig{Model: "gpt-4o-mini"},
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
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingModels(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding model")
	}

	cfg = validConfig()
	cfg.LLM.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing llm model")
	}
}

func TestValidate_MaxLimitBelowDefault(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultLimit = 50
	cfg.Search.MaxLimit = 10
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_limit < default_limit")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Search.DefaultLimit != 20 {
		t.Errorf("default_limit = %d, want 20", cfg.Search.DefaultLimit)
	}
	if cfg.Search.MaxLimit != 100 {
		t.Errorf("max_limit = %d, want 100", cfg.Search.MaxLimit)
	}
	if cfg.Search.RerankWindow != 50 {
		t.Errorf("rerank_window = %d, want 50", cfg.Search.RerankWindow)
	}
	if cfg.Search.SnippetLen != 200 {
		t.Errorf("snippet_len = %d, want 200", cfg.Search.SnippetLen)
	}
	if cfg.LLM.RateMaxCalls != 30 || cfg.LLM.RateWindowSec != 60 {
		t.Errorf("rate defaults = %d/%d, want 30/60", cfg.LLM.RateMaxCalls, cfg.LLM.RateWindowSec)
	}
	if cfg.LLM.RerankEnabled == nil || !*cfg.LLM.RerankEnabled {
		t.Error("rerank should default to enabled")
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("dimensions = %d, want 384", cfg.Embedding.Dimensions)
	}
}

func TestExpandEnvVars(t *testing.T) {
	if err := os.Setenv("SYNAPSE_TEST_KEY", "secret"); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv("SYNAPSE_TEST_KEY")

	got := string(expandEnvVars([]byte("api_key: ${SYNAPSE_TEST_KEY}")))
	if got != "api_key: secret" {
		t.Errorf("got %q", got)
	}

	got = string(expandEnvVars([]byte("addr: ${SYNAPSE_MISSING:-localhost:6379}")))
	if got != "addr: localhost:6379" {
		t.Errorf("default substitution failed: %q", got)
	}
}
