package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type testSection struct {
	PAT             string        `mapstructure:"pat"`
	ModelID         string        `mapstructure:"model_id"`
	UseDefaultModel bool          `mapstructure:"use_default_model"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Clarifai      testSection `mapstructure:"clarifai"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info log level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func(env string) ServiceConfig {
		c := ServiceConfig{Name: "svc", Environment: env}
		c.Logging.ApplyDefaults()
		return c
	}
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid development", valid("development"), ""},
		{"valid production", valid("production"), ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
		{"invalid logging", ServiceConfig{Name: "svc", Environment: "staging"}, "config.logging"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: llmstream
environment: staging
clarifai:
  model_id: openai/chat-completion/models/gpt-4o
  timeout: 45s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("llmstream", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "llmstream" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Clarifai.ModelID != "openai/chat-completion/models/gpt-4o" {
		t.Errorf("model_id = %q", cfg.Clarifai.ModelID)
	}
	if cfg.Clarifai.Timeout != 45*time.Second {
		t.Errorf("timeout = %v", cfg.Clarifai.Timeout)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("clarifai:\n  model_id: a/b/models/c\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CLARIFAI_MODEL_ID", "x/y/models/z")
	t.Setenv("CLARIFAI_PAT", "secret")
	t.Setenv("CLARIFAI_USE_DEFAULT_MODEL", "true")

	var cfg testConfig
	if err := LoadConfig("llmstream", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Clarifai.ModelID != "x/y/models/z" {
		t.Errorf("expected env override, got %q", cfg.Clarifai.ModelID)
	}
	if cfg.Clarifai.PAT != "secret" {
		t.Errorf("expected PAT from env, got %q", cfg.Clarifai.PAT)
	}
	if !cfg.Clarifai.UseDefaultModel {
		t.Error("expected use_default_model from env")
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("CLARIFAI_PAT=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override existing variables; make sure none is set.
	t.Setenv("CLARIFAI_PAT", "")
	os.Unsetenv("CLARIFAI_PAT")

	var cfg testConfig
	if err := LoadConfig("llmstream", &cfg, WithEnvFile(envPath), WithFileSystem(&mockFS{files: map[string]bool{envPath: true}})); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Clarifai.PAT != "from-dotenv" {
		t.Errorf("expected PAT from .env, got %q", cfg.Clarifai.PAT)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("llmstream", &cfg,
		WithFileSystem(&mockFS{}),
		WithDefaults(map[string]any{"clarifai.timeout": "2m", "name": "llmstream"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Clarifai.Timeout != 2*time.Minute {
		t.Errorf("timeout = %v", cfg.Clarifai.Timeout)
	}
	if cfg.Name != "llmstream" {
		t.Errorf("name = %q", cfg.Name)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("llmstream", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadConfigNoFiles(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("llmstream", &cfg, WithFileSystem(&mockFS{})); err != nil {
		t.Fatalf("expected success with no files, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/llmstream/config.yml": true,
		"./.env":                     true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("llmstream", LoaderConfig{})
	if files.ConfigFile != "./cmd/llmstream/config.yml" {
		t.Errorf("config file = %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("env file = %q", files.EnvFile)
	}
}

func TestResolverUserConfigDir(t *testing.T) {
	want := filepath.Join("/home/u/.config", "llmstream", "config.yml")
	fs := &mockFS{files: map[string]bool{want: true}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("llmstream", LoaderConfig{})
	if files.ConfigFile != want {
		t.Errorf("config file = %q, want %q", files.ConfigFile, want)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("llmstream", LoaderConfig{ConfigFile: "/etc/x.yml", EnvFile: "/etc/x.env"})
	if files.ConfigFile != "/etc/x.yml" || files.EnvFile != "/etc/x.env" {
		t.Errorf("unexpected resolution %+v", files)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool        { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error      { return (&RealFileSystem{}).LoadEnv(path) }
func (m *mockFS) UserConfigDir() (string, error) { return "/home/u/.config", nil }

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("CLARIFAI_USE_DEFAULT_MODEL")
	want := map[string]bool{
		"clarifai_use_default_model": true,
		"clarifai.use.default.model": true,
		"clarifai.use_default_model": true,
		"clarifai.use.default_model": true,
	}
	if len(got) != len(want) {
		t.Fatalf("variants = %v", got)
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}
	if got := generateEnvKeyVariants("PATH"); len(got) != 1 || got[0] != "path" {
		t.Errorf("single-part key variants = %v", got)
	}
}

func TestStructKeys(t *testing.T) {
	keys := map[string]bool{}
	structKeys(reflect.TypeOf(testConfig{}), "", keys)
	for _, k := range []string{"name", "environment", "logging.level", "clarifai.pat", "clarifai.timeout", "clarifai.use_default_model"} {
		if !keys[k] {
			t.Errorf("missing key %q in %v", k, keys)
		}
	}
	if keys["service_config"] || keys["serviceconfig.name"] {
		t.Error("squashed struct must not add a prefix")
	}
}
