package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ID identifica un recurso del backend. El backend lo envía como número o como cadena.
type ID string

// UnmarshalJSON acepta número, cadena o null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emite número cuando el identificador es entero y cadena en otro caso.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String implementa fmt.Stringer.
func (id ID) String() string { return string(id) }

// FlexInt es un entero que el backend puede enviar como número o como cadena numérica.
type FlexInt int

// UnmarshalJSON acepta 30, "30", "" y null (los dos últimos como cero).
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = FlexInt(f)
	return nil
}

// FlexBool acepta true/false, 1/0 y sus formas como cadena.
type FlexBool bool

// UnmarshalJSON interpreta "1", "true", 1 y true como verdadero.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	switch s {
	case "1", "true", "si", "sí":
		*b = true
	default:
		*b = false
	}
	return nil
}

// Ref es una referencia anidada a otro recurso (p. ej. "materia": {"sigla": ...}).
type Ref struct {
	ID     ID     `json:"id,omitempty"`
	Sigla  string `json:"sigla,omitempty"`
	Codigo string `json:"codigo,omitempty"`
	Nombre string `json:"nombre,omitempty"`
}

// Identifiable lo implementan todas las entidades de catálogo.
type Identifiable interface {
	Identifier() ID
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
