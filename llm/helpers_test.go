package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/llmstream/provider"
)

func TestCollect(t *testing.T) {
	it := provider.SliceIterator(TextChunk("a"), ReasoningChunk("b"))
	got, err := Collect(context.Background(), it)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 2 || got[1] != ReasoningChunk("b") {
		t.Errorf("got %v", got)
	}
}

func TestCollectPartial(t *testing.T) {
	boom := errors.New("boom")
	sent := false
	it := provider.IteratorFunc(func(context.Context) (Chunk, bool, error) {
		if !sent {
			sent = true
			return TextChunk("partial"), true, nil
		}
		return Chunk{}, false, boom
	}, nil)

	got, err := Collect(context.Background(), it)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(got) != 1 || got[0].Text != "partial" {
		t.Errorf("expected partial chunk before error, got %v", got)
	}
}

func TestJoinText(t *testing.T) {
	chunks := []Chunk{TextChunk("Hello "), ReasoningChunk("ponder"), TextChunk("world")}
	if got := JoinText(chunks); got != "Hello ponderworld" {
		t.Errorf("JoinText() = %q", got)
	}
	if got := JoinText(chunks, ChunkText); got != "Hello world" {
		t.Errorf("JoinText(text) = %q", got)
	}
	if got := JoinText(chunks, ChunkReasoning); got != "ponder" {
		t.Errorf("JoinText(reasoning) = %q", got)
	}
	if got := JoinText(nil); got != "" {
		t.Errorf("JoinText(nil) = %q", got)
	}
}

type stubProvider struct{ name string }

func (s stubProvider) Name() string                           { return s.name }
func (s stubProvider) IsAvailable(context.Context) bool       { return true }
func (s stubProvider) ResolveModel() (ModelDescriptor, error) { return ModelDescriptor{ID: "m"}, nil }
func (s stubProvider) BuildRequest(string, []Message) (any, error) {
	return nil, nil
}
func (s stubProvider) Stream(context.Context, string, []Message) (provider.Iterator[Chunk], error) {
	return provider.SliceIterator(TextChunk("hi")), nil
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFactory("stub", func(cfg map[string]any) (Provider, error) {
		return stubProvider{name: "stub"}, nil
	})

	p, err := reg.Create("stub", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	it, err := p.Stream(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	got, _ := Collect(context.Background(), it)
	if JoinText(got) != "hi" {
		t.Errorf("got %v", got)
	}
	if _, err := reg.Create("missing", nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}
