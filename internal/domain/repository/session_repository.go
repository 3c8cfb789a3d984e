package repository

import "context"

// KeyValueStore es el almacenamiento persistente de la sesión (equivalente al localStorage del
// navegador). Las implementaciones deben aplicar cada Write de forma atómica: o se escriben y
// borran todas las claves indicadas, o ninguna.
type KeyValueStore interface {
	// Get devuelve el valor y si existía. Una clave inexistente no es error.
	Get(ctx context.Context, key string) (string, bool, error)
	// Write asigna set y elimina remove en una sola operación.
	Write(ctx context.Context, set map[string]string, remove ...string) error
}
