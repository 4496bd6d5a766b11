package llm

import "strings"

// Role identifies the speaker of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PartType identifies the kind of a content part.
type PartType string

const (
	PartText       PartType = "text"
	PartImage      PartType = "image"
	PartToolUse    PartType = "tool_use"
	PartToolResult PartType = "tool_result"
)

// ContentPart is one element of structured message content.
// Only text parts carry text that backends forward.
type ContentPart struct {
	Type PartType `json:"type"`
	Text string   `json:"text,omitempty"`
	// Data holds non-text payloads (image bytes, tool input) and is never
	// flattened into text.
	Data []byte `json:"data,omitempty"`
}

// Message is one turn of a conversation. Content is used when Parts is nil;
// otherwise Parts holds structured content.
type Message struct {
	Role    Role          `json:"role"`
	Content string        `json:"content,omitempty"`
	Parts   []ContentPart `json:"parts,omitempty"`
}

// UserMessage returns a plain-text user message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage returns a plain-text assistant message.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// Text returns the message's text. Structured content joins every part with
// a newline, non-text parts contributing an empty string.
func (m Message) Text() string {
	if m.Parts == nil {
		return m.Content
	}
	texts := make([]string, len(m.Parts))
	for i, p := range m.Parts {
		if p.Type == PartText {
			texts[i] = p.Text
		}
	}
	return strings.Join(texts, "\n")
}

// ChunkType is the semantic kind of an emitted chunk.
type ChunkType string

const (
	// ChunkText is literal passthrough content.
	ChunkText ChunkType = "text"
	// ChunkReasoning is content the backend marked as internal deliberation.
	ChunkReasoning ChunkType = "reasoning"
)

// Chunk is one unit of a classified output stream.
type Chunk struct {
	Type ChunkType `json:"type"`
	Text string    `json:"text"`
}

// TextChunk returns a text chunk.
func TextChunk(s string) Chunk { return Chunk{Type: ChunkText, Text: s} }

// ReasoningChunk returns a reasoning chunk.
func ReasoningChunk(s string) Chunk { return Chunk{Type: ChunkReasoning, Text: s} }

// String renders the chunk as "type: text" for logs and debugging.
func (c Chunk) String() string {
	return string(c.Type) + ": " + c.Text
}

// ModelInfo is the capability metadata of a model.
type ModelInfo struct {
	ContextWindow       int    `json:"context_window"`
	MaxTokens           int    `json:"max_tokens"`
	SupportsPromptCache bool   `json:"supports_prompt_cache"`
	SupportsImages      bool   `json:"supports_images"`
	Description         string `json:"description,omitempty"`
}

// ModelDescriptor identifies the model a stream call targets.
type ModelDescriptor struct {
	ID   string    `json:"id"`
	Info ModelInfo `json:"info"`
}
