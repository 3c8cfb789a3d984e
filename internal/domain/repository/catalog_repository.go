package repository

import (
	"context"
	"net/url"
)

// CatalogRepository define el puerto CRUD de un recurso del backend (aulas, materias, ...).
// payload es el cuerpo JSON que se envía tal cual.
type CatalogRepository[T any] interface {
	List(ctx context.Context, params url.Values) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, payload any) (*T, error)
	Update(ctx context.Context, id string, payload any) (*T, error)
	Delete(ctx context.Context, id string) error
}
