// Package config loads llmstream configuration from files and the environment.
//
// It uses Viper to read a YAML config file and godotenv to load a .env file,
// then binds every environment variable under several nested key spellings so
// CLARIFAI_PAT fills clarifai.pat without per-key wiring.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("llmstream", &cfg, config.WithEnvFile(".env"))
//
// Precedence, highest first: environment (including values loaded from .env),
// config file, defaults registered with WithDefaults.
package config
