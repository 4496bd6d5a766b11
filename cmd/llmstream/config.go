package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/llmstream/config"
	"github.com/kbukum/llmstream/llm/clarifai"
	"github.com/kbukum/llmstream/observability"
	"github.com/kbukum/llmstream/version"
)

// AppConfig is the llmstream config file layout.
//
//	name: llmstream
//	environment: production
//	logging:
//	  level: warn
//	clarifai:
//	  pat: ${CLARIFAI_PAT}
//	  model_id: openai/chat-completion/models/gpt-4o
//	telemetry:
//	  enabled: true
//	  endpoint: localhost:4318
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Clarifai  clarifai.Config      `yaml:"clarifai" mapstructure:"clarifai"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills the service and telemetry sections. Clarifai defaults
// are applied by the provider itself.
func (c *AppConfig) ApplyDefaults() {
	if c.Version == "" {
		c.Version = version.Short()
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.Version
	}
}

// Validate checks the service and telemetry sections. Provider settings are
// checked when a stream starts so that commands such as models work without
// credentials.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*AppConfig, error) {
	var opts []config.LoaderOption
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if path, _ := cmd.Flags().GetString("env-file"); path != "" {
		opts = append(opts, config.WithEnvFile(path))
	}
	opts = append(opts, config.WithDefaults(map[string]any{
		"name":                       version.Product,
		"environment":                "production",
		"logging.level":              "warn",
		"clarifai.use_default_model": true,
	}))

	cfg := &AppConfig{}
	if err := config.LoadConfig(version.Product, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
