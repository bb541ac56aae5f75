package index

import (
	"context"
	"fmt"
	"sync"

	"github.com/sandevgo/pdfchat/internal/core"
)

// DocStore holds segment text and provenance keyed by segment id.
type DocStore interface {
	Put(ctx context.Context, segments []core.Segment) error
	Get(ctx context.Context, ids []string) ([]core.Segment, error)
	All(ctx context.Context) ([]core.Segment, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// MemoryStore is a map-backed DocStore.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]core.Segment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]core.Segment)}
}

func (m *MemoryStore) Put(_ context.Context, segments []core.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, seg := range segments {
		if _, ok := m.byID[seg.ID]; ok {
			return fmt.Errorf("duplicate segment id %s", seg.ID)
		}
	}
	for _, seg := range segments {
		m.byID[seg.ID] = seg
		m.order = append(m.order, seg.ID)
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, ids []string) ([]core.Segment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Segment, 0, len(ids))
	for _, id := range ids {
		seg, ok := m.byID[id]
		if !ok {
			return nil, fmt.Errorf("segment %s not found", id)
		}
		out = append(out, seg)
	}
	return out, nil
}

func (m *MemoryStore) All(_ context.Context) ([]core.Segment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Segment, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order), nil
}

func (m *MemoryStore) Close() error {
	return nil
}
