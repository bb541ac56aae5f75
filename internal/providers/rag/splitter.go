package rag

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sandevgo/pdfchat/internal/core"
)

const (
	DefaultChunkSize    = 300
	DefaultChunkOverlap = 0
)

// DefaultSeparators go from coarse to fine: paragraph, line, sentence, word.
// Token slicing is applied after the last one.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " "}

var segmentNamespace = uuid.MustParse("6f1d2a4e-2f43-4d8a-9a39-5c3b8e0f7a11")

// RecursiveSplitter cuts text into pieces of at most ChunkSize tokens,
// preferring the coarsest separator that yields fitting pieces.
type RecursiveSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
	tokenizer    Tokenizer
}

func NewRecursiveSplitter(tk Tokenizer, chunkSize, chunkOverlap int) *RecursiveSplitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &RecursiveSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   DefaultSeparators,
		tokenizer:    tk,
	}
}

// Split turns pages into segments. Positions count segments per source
// across its pages, and the segment id is derived from source and position.
func (s *RecursiveSplitter) Split(pages []core.Page) []core.Segment {
	var segments []core.Segment
	positions := make(map[string]int)

	for _, page := range pages {
		for _, text := range s.SplitText(page.Text) {
			pos := positions[page.Source]
			positions[page.Source] = pos + 1

			segments = append(segments, core.Segment{
				ID:         segmentID(page.Source, pos),
				Source:     page.Source,
				Page:       page.Number,
				Position:   pos,
				Text:       text,
				TokenCount: countTokens(s.tokenizer, text),
			})
		}
	}
	return segments
}

func segmentID(source string, position int) string {
	return uuid.NewSHA1(segmentNamespace, []byte(fmt.Sprintf("%s#%d", source, position))).String()
}

// SplitText splits a single text. Blank pieces are dropped.
func (s *RecursiveSplitter) SplitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.split(text, s.Separators)
}

func (s *RecursiveSplitter) split(text string, separators []string) []string {
	if countTokens(s.tokenizer, text) <= s.ChunkSize {
		return s.emit(text)
	}

	sep, rest := "", []string(nil)
	for i, candidate := range separators {
		if strings.Contains(text, candidate) {
			sep, rest = candidate, separators[i+1:]
			break
		}
	}
	if sep == "" {
		return s.sliceTokens(text)
	}

	var (
		out    []string
		window []string
	)
	flush := func() {
		if len(window) == 0 {
			return
		}
		out = append(out, s.emit(strings.Join(window, ""))...)
		window = s.overlapTail(window)
	}

	for _, piece := range strings.SplitAfter(text, sep) {
		if piece == "" {
			continue
		}
		if countTokens(s.tokenizer, piece) > s.ChunkSize {
			flush()
			window = nil
			out = append(out, s.split(piece, rest)...)
			continue
		}
		candidate := strings.Join(append(window[:len(window):len(window)], piece), "")
		if countTokens(s.tokenizer, candidate) > s.ChunkSize {
			flush()
			candidate = strings.Join(append(window[:len(window):len(window)], piece), "")
			if countTokens(s.tokenizer, candidate) > s.ChunkSize {
				window = nil
			}
		}
		window = append(window, piece)
	}
	flush()

	return out
}

// overlapTail keeps the trailing pieces of window that fit in ChunkOverlap tokens.
func (s *RecursiveSplitter) overlapTail(window []string) []string {
	if s.ChunkOverlap == 0 {
		return nil
	}
	for start := 0; start < len(window); start++ {
		tail := window[start:]
		if countTokens(s.tokenizer, strings.Join(tail, "")) <= s.ChunkOverlap {
			return append([]string(nil), tail...)
		}
	}
	return nil
}

// emit trims text and re-checks the bound, since joining pieces can change
// how a BPE tokenizer merges across the boundaries.
func (s *RecursiveSplitter) emit(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if countTokens(s.tokenizer, text) > s.ChunkSize {
		return s.sliceTokens(text)
	}
	return []string{text}
}

// sliceTokens is the last resort: fixed windows over the token sequence.
// A window shrinks until its decoded text re-encodes within the bound.
func (s *RecursiveSplitter) sliceTokens(text string) []string {
	tokens := s.tokenizer.Encode(text)

	var out []string
	for i := 0; i < len(tokens); {
		end := min(i+s.ChunkSize, len(tokens))
		chunk := s.tokenizer.Decode(tokens[i:end])
		for end-i > 1 && countTokens(s.tokenizer, chunk) > s.ChunkSize {
			end--
			chunk = s.tokenizer.Decode(tokens[i:end])
		}
		if trimmed := strings.TrimSpace(chunk); trimmed != "" {
			out = append(out, trimmed)
		}
		i = end
	}
	return out
}
