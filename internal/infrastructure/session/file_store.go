package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/gestion-horarios/internal/domain/repository"
)

var _ repository.KeyValueStore = (*FileStore)(nil)

// FileStore persiste la sesión en un archivo JSON (permiso 0600) que sobrevive a reinicios,
// como el perfil del navegador. Cada Write reescribe el archivo completo mediante un archivo
// temporal y rename, así token y usuario cambian juntos.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore construye el store sobre path. El directorio se crea al escribir.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath devuelve ~/.config/gestion-horarios/session.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolver directorio home: %w", err)
	}
	return filepath.Join(home, ".config", "gestion-horarios", "session.json"), nil
}

// Path devuelve la ruta del archivo.
func (f *FileStore) Path() string { return f.path }

// Get implementa repository.KeyValueStore.
func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Write implementa repository.KeyValueStore.
func (f *FileStore) Write(_ context.Context, set map[string]string, remove ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return err
	}
	for k, v := range set {
		values[k] = v
	}
	for _, k := range remove {
		delete(values, k)
	}
	if len(values) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("session: eliminar %s: %w", f.path, err)
		}
		return nil
	}
	return f.write(values)
}

// read devuelve el contenido del archivo. Un archivo inexistente o corrupto equivale a vacío.
func (f *FileStore) read() (map[string]string, error) {
	values := map[string]string{}
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("session: leer %s: %w", f.path, err)
	}
	if err := json.Unmarshal(b, &values); err != nil {
		return map[string]string{}, nil
	}
	return values, nil
}

func (f *FileStore) write(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: crear directorio: %w", err)
	}
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("session: serializar: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("session: archivo temporal: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("session: escribir: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("session: permisos: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: cerrar: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("session: reemplazar %s: %w", f.path, err)
	}
	return nil
}
