package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/application/ports"
	"github.com/jhoicas/gestion-horarios/internal/domain"
)

var _ ports.AuthAPI = (*AuthAPI)(nil)

// AuthAPI implementa ports.AuthAPI sobre el Client.
type AuthAPI struct {
	c *Client
}

// NewAuthAPI construye el adaptador.
func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Login implementa ports.AuthAPI. No envía bearer.
func (a *AuthAPI) Login(ctx context.Context, body dto.BackendLoginBody) (map[string]any, error) {
	raw, err := a.c.do(ctx, request{method: http.MethodPost, path: "/login", body: body, anonymous: true})
	if err != nil {
		return nil, err
	}
	out, err := decodeObject(raw)
	if err != nil {
		// 2xx sin objeto JSON: no hay token que extraer.
		return nil, &domain.ShapeError{Message: domain.MsgUnexpectedLogin}
	}
	return out, nil
}

// Logout implementa ports.AuthAPI. La respuesta se descarta.
func (a *AuthAPI) Logout(ctx context.Context) error {
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: "/logout"})
	return err
}

// Me implementa ports.AuthAPI.
func (a *AuthAPI) Me(ctx context.Context) (map[string]any, error) {
	raw, err := a.c.do(ctx, request{method: http.MethodGet, path: "/me"})
	if err != nil {
		return nil, err
	}
	out, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("apiclient: GET /me: %w", domain.ErrUnexpectedResponseShape)
	}
	return out, nil
}
