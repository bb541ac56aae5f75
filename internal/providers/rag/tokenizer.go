package rag

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const DefaultEncoding = "cl100k_base"

// Tokenizer maps text to model tokens and back.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

var (
	encMu     sync.Mutex
	encodings = map[string]*tiktoken.Tiktoken{}
)

type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken loads the named BPE encoding once per process. The first call
// may download the vocabulary into the tiktoken cache.
func NewTiktoken(encoding string) (Tokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	encMu.Lock()
	defer encMu.Unlock()

	enc, ok := encodings[encoding]
	if !ok {
		var err error
		enc, err = tiktoken.GetEncoding(encoding)
		if err != nil {
			return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
		}
		encodings[encoding] = enc
	}
	return &tiktokenTokenizer{enc: enc}, nil
}

func (t *tiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *tiktokenTokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

func countTokens(tk Tokenizer, text string) int {
	return len(tk.Encode(text))
}
