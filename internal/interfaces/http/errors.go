package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/pkg/logger"
)

// LoginPath es la vista a la que se envía al usuario sin sesión válida.
const LoginPath = "/login"

// redirectToLogin responde 303 See Other hacia el login.
func redirectToLogin(c *fiber.Ctx) error {
	return c.Redirect(LoginPath, fiber.StatusSeeOther)
}

// respondError traduce un error de dominio a la respuesta HTTP del shell.
// Un rechazo de credencial nunca se muestra como error: se convierte en la navegación al login.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr *domain.ValidationError
		httpErr       *domain.HTTPError
		fiberErr      *fiber.Error
	)
	switch {
	case errors.Is(err, domain.ErrAuthenticationRejected):
		return redirectToLogin(c)
	case errors.As(err, &validationErr):
		msg := validationErr.Message
		if msg == "" {
			msg = "Datos inválidos"
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: msg, Fields: validationErr.Fields,
		})
	case errors.Is(err, domain.ErrMissingIdentifier):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: domain.MessageOf(err, domain.ErrNotFound.Error())})
	case errors.As(err, &httpErr):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Code: "BACKEND_ERROR", Message: domain.MessageOf(err, "Error del servidor de horarios"),
		})
	case errors.Is(err, domain.ErrUnexpectedResponseShape):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UNEXPECTED_RESPONSE", Message: err.Error()})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// ErrorHandler es el manejador de errores de fiber para el shell.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if !errors.As(err, &fiberErr) && !errors.Is(err, domain.ErrAuthenticationRejected) {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		}
		return respondError(c, err)
	}
}
