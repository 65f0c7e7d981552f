package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "url without host",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "base URL",
		},
		{
			name: "statistics path without leading slash",
			mutate: func(cfg *Config) {
				cfg.StatisticsPath = "hagtolur/talnaefni/"
			},
			wantErr: "statistics path",
		},
		{
			name: "empty section heading",
			mutate: func(cfg *Config) {
				cfg.SectionHeading = ""
			},
			wantErr: "section heading",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "empty user agent",
			mutate: func(cfg *Config) {
				cfg.UserAgent = ""
			},
			wantErr: "user agent",
		},
		{
			name: "empty page links file",
			mutate: func(cfg *Config) {
				cfg.PageLinksFile = ""
			},
			wantErr: "page links",
		},
		{
			name: "empty cache dir",
			mutate: func(cfg *Config) {
				cfg.CacheDir = ""
			},
			wantErr: "cache directory",
		},
		{
			name: "negative page cache size",
			mutate: func(cfg *Config) {
				cfg.PageCacheSize = -1
			},
			wantErr: "page cache size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestRootURL(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.RootURL(); got != "https://www.sedlabanki.is/hagtolur/talnaefni/" {
		t.Fatalf("root url = %q", got)
	}

	cfg.BaseURL = "http://example.test/"
	cfg.StatisticsPath = "/hagtolur/"
	if got := cfg.RootURL(); got != "http://example.test/hagtolur/" {
		t.Fatalf("root url = %q, want trailing base slash folded", got)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TALNAEFNI_TEST_STR", "gildi")
	t.Setenv("TALNAEFNI_TEST_INT", "42")
	t.Setenv("TALNAEFNI_TEST_BOOL", "true")
	t.Setenv("TALNAEFNI_TEST_DUR", "45s")
	t.Setenv("TALNAEFNI_TEST_BAD", "hvorki né")

	if got, ok := EnvString("TALNAEFNI_TEST_STR"); !ok || got != "gildi" {
		t.Fatalf("EnvString = %q/%v", got, ok)
	}
	if _, ok := EnvString("TALNAEFNI_TEST_UNSET"); ok {
		t.Fatalf("unset variable reported as present")
	}

	if got, ok, err := EnvInt("TALNAEFNI_TEST_INT"); err != nil || !ok || got != 42 {
		t.Fatalf("EnvInt = %d/%v/%v", got, ok, err)
	}
	if _, _, err := EnvInt("TALNAEFNI_TEST_BAD"); err == nil {
		t.Fatalf("expected parse error for non-numeric value")
	}

	if got, ok, err := EnvBool("TALNAEFNI_TEST_BOOL"); err != nil || !ok || !got {
		t.Fatalf("EnvBool = %v/%v/%v", got, ok, err)
	}

	if got, ok, err := EnvDuration("TALNAEFNI_TEST_DUR"); err != nil || !ok || got != 45*time.Second {
		t.Fatalf("EnvDuration = %v/%v/%v", got, ok, err)
	}
	if _, ok, err := EnvDuration("TALNAEFNI_TEST_UNSET"); ok || err != nil {
		t.Fatalf("unset duration = %v/%v, want absent without error", ok, err)
	}
}
