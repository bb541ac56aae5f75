package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/service/ingest"
	"github.com/sandevgo/pdfchat/pkg/log"
)

const DefaultTTL = 6 * time.Hour

// Manager keeps live sessions keyed by opaque handles. Idle sessions expire
// after the TTL and their index is released.
type Manager struct {
	cache   *cache.Cache
	builder Builder
}

func NewManager(builder Builder, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := cache.New(ttl, ttl/4)
	c.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*Session); ok {
			_ = s.Close()
		}
	})
	return &Manager{cache: c, builder: builder}
}

// Initialize ingests pdfs and opens a session over them.
func (m *Manager) Initialize(ctx context.Context, pdfs []ingest.Source, creds Credentials) (string, error) {
	comps, err := m.builder.Build(ctx, creds)
	if err != nil {
		return "", fmt.Errorf("build session: %w", err)
	}

	idx, err := comps.Ingester.Ingest(ctx, pdfs)
	if err != nil {
		return "", err
	}

	s := newSession(uuid.NewString(), comps, idx, ingest.Names(pdfs))
	m.cache.Set(s.ID, s, cache.DefaultExpiration)

	log.FromCtx(ctx).Info().
		Str("session", s.ID).
		Int("segments", idx.Size()).
		Msg("session initialized")

	return s.ID, nil
}

// Get returns the session and extends its lifetime. A session closed
// concurrently is not put back.
func (m *Manager) Get(handle string) (*Session, error) {
	v, found := m.cache.Get(handle)
	if !found {
		return nil, core.ErrSessionNotFound
	}
	if err := m.cache.Replace(handle, v, cache.DefaultExpiration); err != nil {
		return nil, core.ErrSessionNotFound
	}
	return v.(*Session), nil
}

func (m *Manager) Ask(ctx context.Context, handle, question string) (string, error) {
	s, err := m.Get(handle)
	if err != nil {
		return "", err
	}
	res, err := s.Ask(ctx, question)
	if err != nil {
		return "", err
	}
	return res.Answer, nil
}

func (m *Manager) Reingest(ctx context.Context, handle string, pdfs []ingest.Source) error {
	s, err := m.Get(handle)
	if err != nil {
		return err
	}
	return s.Reingest(ctx, pdfs)
}

func (m *Manager) Reset(handle string) error {
	s, err := m.Get(handle)
	if err != nil {
		return err
	}
	s.Reset()
	return nil
}

func (m *Manager) History(handle string) ([]core.Turn, error) {
	s, err := m.Get(handle)
	if err != nil {
		return nil, err
	}
	return s.Turns(), nil
}

// Close ends a session and releases its index.
func (m *Manager) Close(handle string) error {
	if _, found := m.cache.Get(handle); !found {
		return core.ErrSessionNotFound
	}
	m.cache.Delete(handle)
	return nil
}

func (m *Manager) Len() int {
	return m.cache.ItemCount()
}

func (m *Manager) Start(ctx context.Context) error {
	return nil
}

// Shutdown closes every live session.
func (m *Manager) Shutdown(ctx context.Context) error {
	for handle := range m.cache.Items() {
		m.cache.Delete(handle)
	}
	return nil
}
