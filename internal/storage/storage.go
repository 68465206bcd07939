package storage

import (
	"context"
	"sync"

	"github.com/roomcraft/roomcraft/internal/models"
)

// LayoutStore holds the single current layout. Replace overwrites it
// wholesale (last write wins) and Current returns a copy of it.
type LayoutStore interface {
	Replace(ctx context.Context, layout models.Layout) error
	Current(ctx context.Context) (models.Layout, error)
}

type MemoryStore struct {
	layout models.Layout
	mu     sync.RWMutex
}

func New() *MemoryStore {
	return &MemoryStore{
		layout: models.Layout{},
	}
}

func (s *MemoryStore) Replace(ctx context.Context, layout models.Layout) error {
	if layout == nil {
		layout = models.Layout{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout = layout.Clone()
	return nil
}

func (s *MemoryStore) Current(ctx context.Context) (models.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout.Clone(), nil
}
