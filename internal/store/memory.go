package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryKV is an in-process key/value store with the same contract as
// SettingsRepository. It is safe for concurrent use.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]Setting
	now    func() time.Time
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]Setting), now: time.Now}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return s.Value, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = Setting{Key: key, Value: value, UpdatedAt: m.now().UTC()}
	return nil
}

func (m *MemoryKV) SetMany(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	for k, v := range values {
		m.values[k] = Setting{Key: k, Value: v, UpdatedAt: now}
	}
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryKV) GetAll(ctx context.Context) ([]Setting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Setting, 0, len(m.values))
	for _, s := range m.values {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
