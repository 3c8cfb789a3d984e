package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Claves canónicas con las que se persiste el usuario normalizado (compatibles con el blob
// user_data que ya guardaban los clientes existentes).
const (
	keyRawType     = "type"
	keyShortRole   = "_role"
	keyDisplayRole = "rol"
	keyName        = "nombre"
	keyEmail       = "correo"
)

// User es el usuario normalizado. Los campos vacíos equivalen a "ausente".
// Extra conserva, sin tocar, todos los demás campos que envió el backend.
type User struct {
	RawType     string // tipo/rol tal como llegó del backend
	ShortRole   Role   // derivado de RawType con ClassifyRole, nunca asignado por el backend
	DisplayRole string // "Administrador", "Docente" o RawType
	Name        string
	Email       string
	Extra       map[string]any
}

// ID devuelve el identificador del usuario si el backend lo envió.
func (u *User) ID() string {
	if u == nil || u.Extra == nil {
		return ""
	}
	s, _ := StringOf(u.Extra["id"])
	return s
}

// DisplayName es el nombre que se muestra en la barra de navegación: nombre o, si falta, correo.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// RoleSource devuelve el primer campo con forma de rol disponible en un usuario guardado,
// para volver a clasificarlo cuando falta el rol corto.
func (u *User) RoleSource() string {
	if u == nil {
		return ""
	}
	if u.RawType != "" {
		return u.RawType
	}
	if u.DisplayRole != "" {
		return u.DisplayRole
	}
	s, _ := StringOf(u.Extra["role"])
	return s
}

// MarshalJSON serializa los campos extra y encima las claves canónicas.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+5)
	for k, v := range u.Extra {
		out[k] = v
	}
	for k, v := range map[string]string{
		keyRawType:     u.RawType,
		keyShortRole:   string(u.ShortRole),
		keyDisplayRole: u.DisplayRole,
		keyName:        u.Name,
		keyEmail:       u.Email,
	} {
		if v != "" {
			out[k] = v
		} else {
			delete(out, k)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON lee la forma persistida. Los números se conservan como json.Number.
func (u *User) UnmarshalJSON(data []byte) error {
	raw := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	take := func(key string) string {
		v, ok := raw[key]
		if !ok {
			return ""
		}
		delete(raw, key)
		s, _ := StringOf(v)
		return s
	}

	*u = User{
		RawType:     take(keyRawType),
		ShortRole:   Role(take(keyShortRole)),
		DisplayRole: take(keyDisplayRole),
		Name:        take(keyName),
		Email:       take(keyEmail),
	}
	if len(raw) > 0 {
		u.Extra = raw
	}
	return nil
}

// StringOf convierte un valor JSON escalar "presente" en texto. Cadenas vacías, cero, false y
// null cuentan como ausentes, igual que en los clientes web originales.
func StringOf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		f, err := t.Float64()
		if err == nil && f == 0 {
			return "", false
		}
		return t.String(), true
	case float64:
		if t == 0 {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		if t == 0 {
			return "", false
		}
		return strconv.Itoa(t), true
	case bool:
		if !t {
			return "", false
		}
		return "true", true
	default:
		return "", false
	}
}
