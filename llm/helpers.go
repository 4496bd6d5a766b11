package llm

import (
	"context"
	"slices"
	"strings"

	"github.com/kbukum/llmstream/provider"
)

// Collect drains a chunk iterator and closes it. Chunks received before an
// error are returned alongside the error.
func Collect(ctx context.Context, it provider.Iterator[Chunk]) ([]Chunk, error) {
	return provider.Collect(ctx, it)
}

// JoinText concatenates the text of chunks of the given types, in order.
// With no types given, every chunk is included.
func JoinText(chunks []Chunk, types ...ChunkType) string {
	var b strings.Builder
	for _, c := range chunks {
		if len(types) == 0 || slices.Contains(types, c.Type) {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}
