package clarifai

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/llmstream/validation"
)

const (
	// DefaultBaseURL is the Clarifai API root used when none is configured.
	DefaultBaseURL = "https://api.clarifai.com"

	defaultTimeout = 120 * time.Second
)

func init() {
	if err := validation.RegisterRule("clarifai_model", "must have the form user/app/models/name", ValidModelID); err != nil {
		panic(fmt.Sprintf("clarifai: register validation rule: %v", err))
	}
}

// Config configures the Clarifai backend.
type Config struct {
	// PAT is the personal access token sent as "Authorization: Key <PAT>".
	PAT string `yaml:"pat" mapstructure:"pat" validate:"required"`
	// ModelID is the four-segment model path user/app/models/name.
	ModelID string `yaml:"model_id" mapstructure:"model_id" validate:"omitempty,clarifai_model"`
	// BaseURL overrides DefaultBaseURL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	// UseDefaultModel permits falling back to DefaultModelID when ModelID is empty.
	UseDefaultModel bool `yaml:"use_default_model" mapstructure:"use_default_model"`
	// Timeout bounds one request. Defaults to 120s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"min=0"`
}

// ApplyDefaults fills zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the token, model id shape and base URL. A missing model id
// is reported by ResolveModel, not here.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// ConfigFromMap decodes a registry config map such as
// {"pat": "...", "model_id": "...", "timeout": "30s"}.
func ConfigFromMap(m map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(m); err != nil {
		return cfg, fmt.Errorf("decode clarifai config: %w", err)
	}
	return cfg, nil
}

// Map returns the config in the form ConfigFromMap and Factory accept.
func (c Config) Map() map[string]any {
	return map[string]any{
		"pat":               c.PAT,
		"model_id":          c.ModelID,
		"base_url":          c.BaseURL,
		"use_default_model": c.UseDefaultModel,
		"timeout":           c.Timeout,
	}
}
