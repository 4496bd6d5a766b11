// Package llm defines the streaming contract shared by every model backend.
//
// A backend turns a system prompt and an ordered conversation history into a
// lazy sequence of classified [Chunk] values. Consumers hold an [llm.Provider]
// and never a concrete backend type, so backends can be swapped by name
// through a [provider.Registry].
//
// # Chunks
//
// Backends that return one block of text run it through the [Tokenizer],
// which splits the text into plain "text" chunks and "reasoning" chunks taken
// from <thinking>, <task> and <environment_details> blocks. Fenced tool_code
// and tool_result blocks pass through verbatim as text.
//
// # Usage
//
//	reg := llm.NewRegistry()
//	clarifai.Register(reg)
//
//	p, err := reg.Create("clarifai", map[string]any{
//	    "pat":      os.Getenv("CLARIFAI_PAT"),
//	    "model_id": "openai/chat-completion/models/gpt-4o",
//	})
//
//	it, err := p.Stream(ctx, "You are terse.", []llm.Message{llm.UserMessage("hi")})
//	defer it.Close()
//	for {
//	    chunk, ok, err := it.Next(ctx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    fmt.Print(chunk.Text)
//	}
package llm
