package jwt

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims son los claims que suele emitir el backend de horarios. Los campos propios son
// opcionales; el backend puede enviar un token opaco que no sea JWT.
type Claims struct {
	jwt.RegisteredClaims
	UserID any    `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	Tipo   string `json:"tipo,omitempty"`
}

// Info resume un token para mostrarlo en el estado de la sesión.
// Es solo informativo: el cliente no verifica la firma y nunca decide acceso con esto.
type Info struct {
	Subject   string     `json:"subject,omitempty"`
	Issuer    string     `json:"issuer,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

// IsJWT indica si el token tiene la forma header.payload.firma.
func IsJWT(token string) bool {
	return strings.Count(token, ".") == 2
}

// Inspect lee los claims sin verificar la firma (el secreto lo tiene solo el backend).
// Retorna error si el token no es un JWT bien formado.
func Inspect(tokenString string, now time.Time) (*Info, error) {
	if !IsJWT(tokenString) {
		return nil, fmt.Errorf("jwt: el token no tiene formato JWT")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	info := &Info{Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.IssuedAt != nil {
		t := claims.IssuedAt.Time
		info.IssuedAt = &t
	}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		info.ExpiresAt = &t
		info.Expired = !now.Before(t)
	}
	return info, nil
}
