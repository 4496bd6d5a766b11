// Package logger provides structured logging for llmstream using zerolog.
//
// Providers take a *Logger and tag it with their component name; every
// stream call adds the session id so a single request can be followed from
// payload construction to the last emitted chunk.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "llmstream").WithComponent("clarifai")
//	log.Info("stream finished", logger.Fields(logger.FieldChunks, 3))
package logger
