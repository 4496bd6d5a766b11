// Package validation checks provider configuration before any request is made.
//
// Struct tag validation uses go-playground/validator. Field names in errors
// follow the mapstructure tag, so a message names the same key the user set
// in a config file or environment variable. Failures come back as
// CONFIGURATION_ERROR AppErrors with per-field details.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    PAT     string `mapstructure:"pat" validate:"required"`
//	    ModelID string `mapstructure:"model_id" validate:"required,clarifai_model"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("model_id", id).Custom(len(parts) == 4, "model_id", "must have four segments")
//	err := v.Validate()
package validation
