package clarifai

import (
	"maps"
	"slices"

	"github.com/kbukum/llmstream/llm"
)

// DefaultModelID is used when no model id is configured and
// Config.UseDefaultModel is set.
const DefaultModelID = "deepseek-ai/deepseek-chat/models/DeepSeek-R1-Distill-Qwen-7B"

// DefaultModelInfo describes models missing from the catalog.
var DefaultModelInfo = llm.ModelInfo{
	ContextWindow: 32_768,
	MaxTokens:     8_192,
	Description:   "Clarifai-hosted model",
}

// Models is the catalog of known Clarifai model ids.
var Models = map[string]llm.ModelInfo{
	DefaultModelID: {
		ContextWindow: 32_768,
		MaxTokens:     8_192,
		Description:   "DeepSeek R1 distilled into Qwen 7B, emits <thinking> reasoning",
	},
	"qwen/qwenLM/models/Qwen3-30B-A3B-GGUF": {
		ContextWindow: 40_960,
		MaxTokens:     16_384,
		Description:   "Qwen3 30B mixture-of-experts",
	},
	"openai/chat-completion/models/gpt-4o": {
		ContextWindow:  128_000,
		MaxTokens:      16_384,
		SupportsImages: true,
		Description:    "OpenAI GPT-4o served through Clarifai",
	},
	"openai/chat-completion/models/gpt-4_1": {
		ContextWindow:  1_047_576,
		MaxTokens:      32_768,
		SupportsImages: true,
		Description:    "OpenAI GPT-4.1 served through Clarifai",
	},
	"anthropic/completion/models/claude-sonnet-4": {
		ContextWindow:       200_000,
		MaxTokens:           64_000,
		SupportsPromptCache: true,
		SupportsImages:      true,
		Description:         "Anthropic Claude Sonnet 4 served through Clarifai",
	},
	"gcp/generate/models/gemini-2_5-pro": {
		ContextWindow:  1_048_576,
		MaxTokens:      65_536,
		SupportsImages: true,
		Description:    "Google Gemini 2.5 Pro served through Clarifai",
	},
	"xai/chat-completion/models/grok-3": {
		ContextWindow: 131_072,
		MaxTokens:     16_384,
		Description:   "xAI Grok 3 served through Clarifai",
	},
}

// LookupModel returns catalog metadata for id, or DefaultModelInfo.
func LookupModel(id string) (llm.ModelInfo, bool) {
	if info, ok := Models[id]; ok {
		return info, true
	}
	return DefaultModelInfo, false
}

// ModelIDs returns the catalog ids in sorted order.
func ModelIDs() []string {
	return slices.Sorted(maps.Keys(Models))
}
