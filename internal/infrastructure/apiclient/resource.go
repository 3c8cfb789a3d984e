package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/internal/domain/repository"
)

// Resource implementa repository.CatalogRepository para /{name}. Las respuestas se
// desenvuelven con data ?? body.
type Resource[T any] struct {
	c    *Client
	name string
}

// NewResource construye el repositorio de un recurso ("aulas", "materias", ...).
func NewResource[T any](c *Client, name string) *Resource[T] {
	return &Resource[T]{c: c, name: name}
}

var _ repository.CatalogRepository[struct{}] = (*Resource[struct{}])(nil)

// Name devuelve el nombre del recurso.
func (r *Resource[T]) Name() string { return r.name }

func (r *Resource[T]) itemPath(id string) string {
	return "/" + r.name + "/" + url.PathEscape(id)
}

// List implementa CatalogRepository.
func (r *Resource[T]) List(ctx context.Context, params url.Values) ([]T, error) {
	raw, err := r.c.do(ctx, request{method: http.MethodGet, path: "/" + r.name, query: params})
	if err != nil {
		return nil, err
	}
	data := unwrapData(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []T{}, nil
	}
	if data[0] != '[' {
		return nil, fmt.Errorf("apiclient: GET /%s: se esperaba una lista: %w", r.name, domain.ErrUnexpectedResponseShape)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("apiclient: GET /%s: decodificar: %w", r.name, err)
	}
	return out, nil
}

// GetByID implementa CatalogRepository.
func (r *Resource[T]) GetByID(ctx context.Context, id string) (*T, error) {
	raw, err := r.c.do(ctx, request{method: http.MethodGet, path: r.itemPath(id)})
	if err != nil {
		return nil, err
	}
	item, err := r.decodeItem(raw)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// Create implementa CatalogRepository. Si el backend no devuelve el registro creado el
// resultado es nil sin error.
func (r *Resource[T]) Create(ctx context.Context, payload any) (*T, error) {
	raw, err := r.c.do(ctx, request{method: http.MethodPost, path: "/" + r.name, body: payload})
	if err != nil {
		return nil, err
	}
	return r.decodeItem(raw)
}

// Update implementa CatalogRepository.
func (r *Resource[T]) Update(ctx context.Context, id string, payload any) (*T, error) {
	raw, err := r.c.do(ctx, request{method: http.MethodPut, path: r.itemPath(id), body: payload})
	if err != nil {
		return nil, err
	}
	return r.decodeItem(raw)
}

// Delete implementa CatalogRepository.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.c.do(ctx, request{method: http.MethodDelete, path: r.itemPath(id)})
	return err
}

// decodeItem devuelve nil si no hay registro, incluido un sobre con "data": null.
func (r *Resource[T]) decodeItem(raw []byte) (*T, error) {
	if nullData(raw) {
		return nil, nil
	}
	data := unwrapData(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || data[0] != '{' {
		return nil, nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("apiclient: /%s: decodificar: %w", r.name, err)
	}
	return &item, nil
}
