package llm

import "github.com/kbukum/llmstream/provider"

// NewRegistry creates a new provider registry for model backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
