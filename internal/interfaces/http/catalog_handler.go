package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/application/usecase"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
)

// CatalogHandler CRUD de un catálogo. T es la entidad; R el formulario de alta/edición.
type CatalogHandler[T entity.Identifiable, R dto.PayloadBuilder] struct {
	uc *usecase.CatalogUseCase[T]
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler[T entity.Identifiable, R dto.PayloadBuilder](uc *usecase.CatalogUseCase[T]) *CatalogHandler[T, R] {
	return &CatalogHandler[T, R]{uc: uc}
}

// Register monta GET /, GET /:id, POST /, PUT /:id y DELETE /:id.
func (h *CatalogHandler[T, R]) Register(r fiber.Router) {
	r.Get("/", h.List)
	r.Get("/:id", h.GetByID)
	r.Post("/", h.Create)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

// List lista los registros; la query string se reenvía al backend.
func (h *CatalogHandler[T, R]) List(c *fiber.Ctx) error {
	filters := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		filters.Add(string(k), string(v))
	})
	items, err := h.uc.List(c.UserContext(), filters)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ListResponse[T]{Data: items, Total: len(items)})
}

// GetByID obtiene un registro.
func (h *CatalogHandler[T, R]) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetByID(c.UserContext(), entity.ID(c.Params("id")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemResponse[*T]{Data: item})
}

// Create crea un registro con los valores por defecto del formulario.
func (h *CatalogHandler[T, R]) Create(c *fiber.Ctx) error {
	var in R
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ItemResponse[*T]{Data: item, Message: "Registro creado"})
}

// Update actualiza un registro.
func (h *CatalogHandler[T, R]) Update(c *fiber.Ctx) error {
	var in R
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Update(c.UserContext(), entity.ID(c.Params("id")), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemResponse[*T]{Data: item, Message: "Registro actualizado"})
}

// Delete elimina un registro.
func (h *CatalogHandler[T, R]) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), entity.ID(c.Params("id"))); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Registro eliminado"})
}
