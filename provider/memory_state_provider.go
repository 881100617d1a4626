package provider

import (
	"context"
	"sync"

	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
)

// MemoryStateProvider keeps the blob in process memory. Used by tests and
// throwaway sessions.
type MemoryStateProvider struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryStateProvider creates an empty in-memory provider
func NewMemoryStateProvider() *MemoryStateProvider {
	return &MemoryStateProvider{}
}

func (p *MemoryStateProvider) Load(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data == nil {
		return nil, providers.ErrStateNotFound
	}
	return append([]byte(nil), p.data...), nil
}

func (p *MemoryStateProvider) Save(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = append([]byte(nil), data...)
	p.saves++
	return nil
}

// Saves returns how many times Save was called
func (p *MemoryStateProvider) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

func (p *MemoryStateProvider) Close() error {
	return nil
}
