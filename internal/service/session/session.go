package session

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/index"
	"github.com/sandevgo/pdfchat/internal/service/ingest"
	"github.com/sandevgo/pdfchat/internal/service/memory"
	"github.com/sandevgo/pdfchat/internal/service/pipeline"
	"github.com/sandevgo/pdfchat/pkg/log"
)

// Session owns one index and one conversation. Questions are answered one
// at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	comps     *Components
	idx       *index.Index
	pipeline  *pipeline.Pipeline
	conv      memory.Conversation
	documents []string
	last      *pipeline.Result
}

func newSession(id string, comps *Components, idx *index.Index, documents []string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		comps:     comps,
		idx:       idx,
		pipeline:  comps.NewPipeline(idx),
		conv:      memory.New(),
		documents: documents,
	}
}

func (s *Session) Ask(ctx context.Context, question string) (pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = log.WithFields(ctx, map[string]string{"session": s.ID})
	res, err := s.pipeline.Run(ctx, question, s.conv)
	if err != nil {
		return pipeline.Result{}, err
	}

	s.conv = res.Memory
	s.last = &res
	return res, nil
}

// Reingest replaces the index. On failure the current index stays in use.
// The conversation is kept.
func (s *Session) Reingest(ctx context.Context, sources []ingest.Source) error {
	idx, err := s.comps.Ingester.Ingest(ctx, sources)
	if err != nil {
		return err
	}

	s.mu.Lock()
	old := s.idx
	s.idx = idx
	s.pipeline = s.comps.NewPipeline(idx)
	s.documents = ingest.Names(sources)
	s.last = nil
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", s.ID).Msg("failed to close replaced index")
	}
	return nil
}

// Reset starts a fresh conversation over the same documents.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv = memory.New()
	s.last = nil
}

func (s *Session) History() memory.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv
}

// LastResult is the most recent successful answer, if any.
func (s *Session) LastResult() (pipeline.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return pipeline.Result{}, false
	}
	return *s.last, true
}

func (s *Session) Documents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.documents...)
}

func (s *Session) Segments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Size()
}

func (s *Session) Turns() []core.Turn {
	return s.History().Turns()
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Close()
}
