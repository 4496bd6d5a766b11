package clarifai

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/llmstream/llm"
)

// StreamSession is the state of one Stream call. It is created when Stream
// is called and dropped when the chunk sequence ends.
type StreamSession struct {
	ID        string
	Model     llm.ModelDescriptor
	Path      ModelPath
	Payload   Payload
	StartedAt time.Time

	// Raw is the concatenated response text, set once the call succeeds.
	Raw string

	tokenizer *llm.Tokenizer
	toolCalls int
}

func newSession(model llm.ModelDescriptor, path ModelPath, payload Payload) *StreamSession {
	return &StreamSession{
		ID:        uuid.NewString(),
		Model:     model,
		Path:      path,
		Payload:   payload,
		StartedAt: time.Now(),
	}
}

// Cursor returns how far into Raw the tokenizer has consumed.
func (s *StreamSession) Cursor() int {
	if s.tokenizer == nil {
		return 0
	}
	return s.tokenizer.Offset()
}

// NextToolCallID returns a new tool-call id unique within the session.
func (s *StreamSession) NextToolCallID() string {
	s.toolCalls++
	return fmt.Sprintf("%s-call-%d", s.ID, s.toolCalls)
}

// ToolCalls returns how many tool-call ids the session has handed out.
func (s *StreamSession) ToolCalls() int { return s.toolCalls }
