package rag

import (
	"strings"
	"testing"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordTokenizer treats every whitespace-separated word as one token.
type wordTokenizer struct {
	vocab []string
	ids   map[string]int
}

func newWordTokenizer() *wordTokenizer {
	return &wordTokenizer{ids: map[string]int{}}
}

func (w *wordTokenizer) Encode(text string) []int {
	var out []int
	for _, f := range strings.Fields(text) {
		id, ok := w.ids[f]
		if !ok {
			id = len(w.vocab)
			w.ids[f] = id
			w.vocab = append(w.vocab, f)
		}
		out = append(out, id)
	}
	return out
}

func (w *wordTokenizer) Decode(tokens []int) string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = w.vocab[t]
	}
	return strings.Join(words, " ")
}

// runeTokenizer treats every rune as one token.
type runeTokenizer struct{}

func (runeTokenizer) Encode(text string) []int {
	out := make([]int, 0, len(text))
	for _, r := range text {
		out = append(out, int(r))
	}
	return out
}

func (runeTokenizer) Decode(tokens []int) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteRune(rune(t))
	}
	return b.String()
}

func TestRecursiveSplitter_SplitText(t *testing.T) {
	tests := []struct {
		name    string
		tk      Tokenizer
		size    int
		overlap int
		text    string
		want    []string
	}{
		{name: "empty", tk: newWordTokenizer(), size: 3, text: "  \n ", want: nil},
		{name: "fits in one", tk: newWordTokenizer(), size: 10, text: "Hello world.", want: []string{"Hello world."}},
		{
			name: "paragraphs first",
			tk:   newWordTokenizer(), size: 3,
			text: "a b c\n\nd e f",
			want: []string{"a b c", "d e f"},
		},
		{
			name: "sentences inside a paragraph",
			tk:   newWordTokenizer(), size: 2,
			text: "one two. three four.",
			want: []string{"one two.", "three four."},
		},
		{
			name: "small paragraphs are merged",
			tk:   newWordTokenizer(), size: 4,
			text: "a b\n\nc d\n\ne f",
			want: []string{"a b\n\nc d", "e f"},
		},
		{
			name: "token slicing without separators",
			tk:   runeTokenizer{}, size: 4,
			text: "abcdefghij",
			want: []string{"abcd", "efgh", "ij"},
		},
		{
			name: "word overlap",
			tk:   newWordTokenizer(), size: 4, overlap: 2,
			text: "a b c d e f",
			want: []string{"a b c d", "c d e f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRecursiveSplitter(tt.tk, tt.size, tt.overlap)
			assert.Equal(t, tt.want, s.SplitText(tt.text))
		})
	}
}

func TestRecursiveSplitter_TokenBound(t *testing.T) {
	var b strings.Builder
	for p := 0; p < 12; p++ {
		for s := 0; s < 40; s++ {
			b.WriteString("The quick brown fox jumps over the lazy dog number ")
			b.WriteString(strings.Repeat("x", s%7+1))
			b.WriteString(". ")
		}
		b.WriteString("\n\n")
	}
	b.WriteString(strings.Repeat("unbroken", 500))

	tk := newWordTokenizer()
	s := NewRecursiveSplitter(tk, 30, 0)
	chunks := s.SplitText(b.String())

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, countTokens(tk, c), 30)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestRecursiveSplitter_Split(t *testing.T) {
	pages := []core.Page{
		{Source: "a.pdf", Number: 1, Text: "one two\n\nthree four"},
		{Source: "a.pdf", Number: 2, Text: "five six"},
		{Source: "b.pdf", Number: 1, Text: "seven"},
		{Source: "b.pdf", Number: 2, Text: "   "},
	}

	s := NewRecursiveSplitter(newWordTokenizer(), 2, 0)
	segs := s.Split(pages)
	require.Len(t, segs, 4)

	assert.Equal(t, []int{0, 1, 2, 0}, []int{segs[0].Position, segs[1].Position, segs[2].Position, segs[3].Position})
	assert.Equal(t, 2, segs[2].Page)
	assert.Equal(t, "b.pdf", segs[3].Source)
	assert.Equal(t, 2, segs[0].TokenCount)

	again := s.Split(pages)
	for i := range segs {
		assert.Equal(t, segs[i].ID, again[i].ID, "ids are derived from provenance")
	}
	assert.NotEqual(t, segs[0].ID, segs[3].ID)
}

func TestRecursiveSplitter_Tiktoken(t *testing.T) {
	tk, err := NewTiktoken(DefaultEncoding)
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}

	text := strings.Repeat("Retrieval augmented generation answers questions from documents. ", 200) +
		"\n\n" + strings.Repeat("Контакт: jane@example.com ", 100)

	s := NewRecursiveSplitter(tk, DefaultChunkSize, DefaultChunkOverlap)
	chunks := s.SplitText(text)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, countTokens(tk, c), DefaultChunkSize)
	}
}
