// Package clarifai implements llm.Provider for models hosted on Clarifai.
//
// A conversation is flattened into one role-labelled text input and sent in a
// single POST to the model's outputs endpoint. The complete response is then
// split into text and reasoning chunks by llm.Tokenizer. Nothing is streamed
// on the wire; the chunk sequence is produced after the call returns.
//
//	p, err := clarifai.New(clarifai.Config{PAT: pat, ModelID: "openai/chat-completion/models/gpt-4o"})
//	it, err := p.Stream(ctx, "Be brief.", []llm.Message{llm.UserMessage("hello")})
//	defer it.Close()
//	for {
//		c, ok, err := it.Next(ctx)
//		...
//	}
package clarifai
