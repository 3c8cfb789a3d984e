package http

import (
	"errors"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
)

// ClearSubscriber es la parte del session.Store que necesita la navegación forzada.
type ClearSubscriber interface {
	Subscribe(fn func(entity.ClearEvent)) (unsubscribe func())
}

// ForcedNavigation convierte en redirección al login la respuesta de cualquier petición durante
// la cual el backend rechazó la credencial. Cuenta las limpiezas con motivo "rejected"; si el
// contador cambió mientras se atendía la petición, la respuesta se reemplaza.
// Peticiones concurrentes pueden redirigir más de una vez; todas llevan a la misma vista.
type ForcedNavigation struct {
	rejections  atomic.Uint64
	unsubscribe func()
}

// NewForcedNavigation se suscribe a las limpiezas de sesión.
func NewForcedNavigation(store ClearSubscriber) *ForcedNavigation {
	n := &ForcedNavigation{}
	n.unsubscribe = store.Subscribe(func(ev entity.ClearEvent) {
		if ev.Reason == entity.ClearRejected {
			n.rejections.Add(1)
		}
	})
	return n
}

// Rejections devuelve cuántos rechazos se han observado.
func (n *ForcedNavigation) Rejections() uint64 { return n.rejections.Load() }

// Close cancela la suscripción.
func (n *ForcedNavigation) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
	}
}

// Middleware aplica la redirección.
func (n *ForcedNavigation) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		before := n.rejections.Load()
		err := c.Next()
		if n.rejections.Load() == before && !errors.Is(err, domain.ErrAuthenticationRejected) {
			return err
		}
		c.Response().Reset()
		return redirectToLogin(c)
	}
}
