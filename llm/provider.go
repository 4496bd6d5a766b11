package llm

import (
	"context"

	"github.com/kbukum/llmstream/provider"
)

// Provider is the interface that model backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// ResolveModel returns the model a stream call will target. It is a pure
	// function of configuration.
	ResolveModel() (ModelDescriptor, error)

	// BuildRequest converts a system prompt and history into the backend's
	// native request payload without performing I/O.
	BuildRequest(systemPrompt string, history []Message) (any, error)

	// Stream sends the conversation to the backend and returns a lazy chunk
	// sequence. Configuration errors are returned before any network call.
	// Cancelling ctx ends the sequence without an error.
	Stream(ctx context.Context, systemPrompt string, history []Message) (provider.Iterator[Chunk], error)
}
