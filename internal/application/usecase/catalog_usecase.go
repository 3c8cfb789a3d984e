package usecase

import (
	"context"
	"net/url"
	"strings"

	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	"github.com/jhoicas/gestion-horarios/internal/domain/repository"
)

// CatalogUseCase casos de uso CRUD de un catálogo del backend (aulas, materias, ...).
// Los registros se identifican solo por id: un registro sin id no se puede editar ni borrar.
type CatalogUseCase[T entity.Identifiable] struct {
	name string
	repo repository.CatalogRepository[T]
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase[T entity.Identifiable](name string, repo repository.CatalogRepository[T]) *CatalogUseCase[T] {
	return &CatalogUseCase[T]{name: name, repo: repo}
}

// Name devuelve el nombre del recurso.
func (uc *CatalogUseCase[T]) Name() string { return uc.name }

// List lista los registros; filters se reenvía como query string.
func (uc *CatalogUseCase[T]) List(ctx context.Context, filters url.Values) ([]T, error) {
	items, err := uc.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Count devuelve cuántos registros hay.
func (uc *CatalogUseCase[T]) Count(ctx context.Context) (int, error) {
	items, err := uc.repo.List(ctx, nil)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// GetByID obtiene un registro.
func (uc *CatalogUseCase[T]) GetByID(ctx context.Context, id entity.ID) (*T, error) {
	key, err := requireID(id)
	if err != nil {
		return nil, err
	}
	return uc.repo.GetByID(ctx, key)
}

// Create aplica los valores por defecto del formulario y crea el registro.
func (uc *CatalogUseCase[T]) Create(ctx context.Context, in dto.PayloadBuilder) (*T, error) {
	payload, err := in.Payload()
	if err != nil {
		return nil, err
	}
	return uc.repo.Create(ctx, payload)
}

// Update actualiza el registro id.
func (uc *CatalogUseCase[T]) Update(ctx context.Context, id entity.ID, in dto.PayloadBuilder) (*T, error) {
	key, err := requireID(id)
	if err != nil {
		return nil, err
	}
	payload, err := in.Payload()
	if err != nil {
		return nil, err
	}
	return uc.repo.Update(ctx, key, payload)
}

// Delete elimina el registro id.
func (uc *CatalogUseCase[T]) Delete(ctx context.Context, id entity.ID) error {
	key, err := requireID(id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, key)
}

// DeleteItem elimina un registro ya cargado; falla con ErrMissingIdentifier si no trae id.
// Una materia con sigla pero sin id no se elimina usando la sigla.
func (uc *CatalogUseCase[T]) DeleteItem(ctx context.Context, item T) error {
	return uc.Delete(ctx, item.Identifier())
}

func requireID(id entity.ID) (string, error) {
	key := strings.TrimSpace(string(id))
	if key == "" || key == "undefined" || key == "null" {
		return "", domain.ErrMissingIdentifier
	}
	return key, nil
}

// Catalogs agrupa los seis catálogos.
type Catalogs struct {
	Aulas     *CatalogUseCase[entity.Aula]
	Materias  *CatalogUseCase[entity.Materia]
	Docentes  *CatalogUseCase[entity.Docente]
	Grupos    *CatalogUseCase[entity.Grupo]
	Horarios  *CatalogUseCase[entity.Horario]
	Gestiones *CatalogUseCase[entity.Gestion]
}
