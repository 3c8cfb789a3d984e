package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-horarios/internal/application/schedule"
)

// HorarioHandler horario semanal del docente con sesión.
type HorarioHandler struct {
	uc *schedule.UseCase
}

// NewHorarioHandler construye el handler.
func NewHorarioHandler(uc *schedule.UseCase) *HorarioHandler {
	return &HorarioHandler{uc: uc}
}

// Get godoc
// @Summary      Mi horario
// @Tags         horario
// @Produce      json
// @Success      200  {object}  dto.ScheduleDTO
// @Router       /horario [get]
func (h *HorarioHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.ForCurrentUser(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF descarga el horario en PDF.
// GET /horario/pdf
func (h *HorarioHandler) PDF(c *fiber.Ctx) error {
	b, err := h.uc.ExportPDF(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="horario.pdf"`)
	return c.Send(b)
}
