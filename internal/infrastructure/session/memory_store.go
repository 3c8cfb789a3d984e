// Package session implementa los almacenamientos clave/valor donde se persiste la sesión:
// memoria (tests y modo efímero), archivo JSON local y Redis.
package session

import (
	"context"
	"sync"

	"github.com/jhoicas/gestion-horarios/internal/domain/repository"
)

var _ repository.KeyValueStore = (*MemoryStore)(nil)

// MemoryStore guarda la sesión en memoria; se pierde al reiniciar el proceso.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore construye un store vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Get implementa repository.KeyValueStore.
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Write implementa repository.KeyValueStore.
func (m *MemoryStore) Write(_ context.Context, set map[string]string, remove ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range set {
		m.values[k] = v
	}
	for _, k := range remove {
		delete(m.values, k)
	}
	return nil
}
