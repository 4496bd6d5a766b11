package llm

import (
	"iter"
	"strings"
)

type tagSpec struct{ name, open, close string }

func newTagSpec(name string) tagSpec {
	return tagSpec{name: name, open: "<" + name + ">", close: "</" + name + ">"}
}

// Tags whose inner content is emitted as a reasoning chunk, in match priority.
var reasoningTags = []tagSpec{newTagSpec("task"), newTagSpec("environment_details"), newTagSpec("thinking")}

// Markers introducing a fenced block that passes through as text, in match priority.
var fenceMarkers = []string{"tool_code", "tool_result"}

const (
	fence = "```"
	// toolPrefix is the common prefix of every fence marker.
	toolPrefix = "tool_"
)

// BlockKind identifies what a recognized block was.
type BlockKind int

const (
	BlockTag BlockKind = iota + 1
	BlockToolCode
	BlockToolResult
)

// Block is one recognized tag or fenced region of the scanned text.
type Block struct {
	Kind BlockKind
	// Name is the tag name or fence marker.
	Name string
	// Start and End delimit the whole block, delimiters included.
	Start, End int
	// Inner is the tag content or the fenced body, untrimmed.
	Inner string
}

// Tokenizer splits one complete response into chunks in a single
// left-to-right pass. It is not safe for concurrent use.
type Tokenizer struct {
	raw       string
	scan      *scanner
	lastIndex int
	pending   *Chunk
	blocks    int
	onBlock   func(Block)
}

// NewTokenizer returns a tokenizer over raw.
func NewTokenizer(raw string) *Tokenizer {
	return &Tokenizer{raw: raw, scan: newScanner(raw)}
}

// OnBlock registers fn to be called for every recognized block as it is
// consumed. It must be set before the first call to Next.
func (t *Tokenizer) OnBlock(fn func(Block)) *Tokenizer {
	t.onBlock = fn
	return t
}

// Offset returns the scan cursor: the index in the raw text up to which
// input has been consumed.
func (t *Tokenizer) Offset() int { return t.lastIndex }

// Blocks returns how many tag or fenced blocks have been recognized so far.
func (t *Tokenizer) Blocks() int { return t.blocks }

// Next returns the next chunk, or false when the input is exhausted.
func (t *Tokenizer) Next() (Chunk, bool) {
	if t.pending != nil {
		c := *t.pending
		t.pending = nil
		return c, true
	}
	if t.lastIndex >= len(t.raw) {
		return Chunk{}, false
	}

	b, ok := t.scan.findBlock(t.lastIndex)
	if !ok {
		c := TextChunk(t.raw[t.lastIndex:])
		t.lastIndex = len(t.raw)
		return c, true
	}

	t.blocks++
	if t.onBlock != nil {
		t.onBlock(b)
	}
	chunk := classify(t.raw, b)
	start := t.lastIndex
	t.lastIndex = b.End
	if b.Start > start {
		t.pending = &chunk
		return TextChunk(t.raw[start:b.Start]), true
	}
	return chunk, true
}

// All returns the remaining chunks as a range-over-func sequence.
func (t *Tokenizer) All() iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		for {
			c, ok := t.Next()
			if !ok || !yield(c) {
				return
			}
		}
	}
}

// Tokenize returns the chunks of raw as a sequence.
func Tokenize(raw string) iter.Seq[Chunk] {
	return NewTokenizer(raw).All()
}

func classify(raw string, b Block) Chunk {
	if b.Kind == BlockTag {
		return ReasoningChunk(strings.TrimSpace(b.Inner))
	}
	return TextChunk(raw[b.Start:b.End])
}

// scanner finds blocks in s. It remembers the next occurrence of every
// delimiter it has searched for, so a left-to-right scan reads each byte a
// bounded number of times no matter how many candidates fail.
type scanner struct {
	s       string
	memo    map[string]occurrence
	scanned int
}

// occurrence is the first index of a needle at or after from, or -1.
type occurrence struct{ from, at int }

func newScanner(s string) *scanner {
	return &scanner{s: s, memo: make(map[string]occurrence)}
}

// index returns the first index of needle at or after from, or -1.
func (sc *scanner) index(needle string, from int) int {
	if o, ok := sc.memo[needle]; ok && o.from <= from && (o.at < 0 || o.at >= from) {
		return o.at
	}
	at := strings.Index(sc.s[from:], needle)
	if at < 0 {
		sc.scanned += len(sc.s) - from
	} else {
		sc.scanned += at + len(needle)
		at += from
	}
	sc.memo[needle] = occurrence{from: from, at: at}
	return at
}

// findBlock returns the leftmost block starting at or after from. Blocks can
// only start at '<' or at a fence marker, so only those positions are tried.
func (sc *scanner) findBlock(from int) (Block, bool) {
	for i := from; i < len(sc.s); {
		c := sc.nextCandidate(i)
		if c < 0 {
			return Block{}, false
		}
		if b, ok := sc.blockAt(c); ok {
			return b, true
		}
		i = c + 1
	}
	return Block{}, false
}

func (sc *scanner) nextCandidate(from int) int {
	lt := sc.index("<", from)
	tool := sc.index(toolPrefix, from)
	switch {
	case lt < 0:
		return tool
	case tool < 0:
		return lt
	default:
		return min(lt, tool)
	}
}

func (sc *scanner) blockAt(i int) (Block, bool) {
	for _, tag := range reasoningTags {
		if b, ok := sc.matchTag(i, tag); ok {
			return b, true
		}
	}
	for _, marker := range fenceMarkers {
		if b, ok := sc.matchFence(i, marker); ok {
			return b, true
		}
	}
	return Block{}, false
}

// matchTag matches <tag>...</tag> at i, closing at the first </tag>.
func (sc *scanner) matchTag(i int, tag tagSpec) (Block, bool) {
	if !strings.HasPrefix(sc.s[i:], tag.open) {
		return Block{}, false
	}
	innerStart := i + len(tag.open)
	innerEnd := sc.index(tag.close, innerStart)
	if innerEnd < 0 {
		return Block{}, false
	}
	return Block{
		Kind:  BlockTag,
		Name:  tag.name,
		Start: i,
		End:   innerEnd + len(tag.close),
		Inner: sc.s[innerStart:innerEnd],
	}, true
}

// matchFence matches marker, optional whitespace, an opening fence with an
// optional word language tag and newline, then a body up to the first
// closing fence.
func (sc *scanner) matchFence(i int, marker string) (Block, bool) {
	s := sc.s
	if !strings.HasPrefix(s[i:], marker) {
		return Block{}, false
	}
	j := i + len(marker)
	for j < len(s) && isSpace(s[j]) {
		j++
	}
	if !strings.HasPrefix(s[j:], fence) {
		return Block{}, false
	}
	j += len(fence)

	closeAt := sc.index(fence, j)
	if closeAt < 0 {
		return Block{}, false
	}

	bodyStart := j
	for bodyStart < closeAt && isWord(s[bodyStart]) {
		bodyStart++
	}
	if bodyStart < closeAt && s[bodyStart] == '\n' {
		bodyStart++
	}

	kind := BlockToolCode
	if marker == "tool_result" {
		kind = BlockToolResult
	}
	return Block{
		Kind:  kind,
		Name:  marker,
		Start: i,
		End:   closeAt + len(fence),
		Inner: s[bodyStart:closeAt],
	}, true
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isWord(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
