package bootstrap

import (
	"github.com/kbukum/llmstream/config"
)

// Config is the constraint for application configuration types.
// Any struct that embeds config.ServiceConfig satisfies it through promoted
// methods, and may override ApplyDefaults and Validate to cover its own
// sections.
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Clarifai clarifai.Config `yaml:"clarifai" mapstructure:"clarifai"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
