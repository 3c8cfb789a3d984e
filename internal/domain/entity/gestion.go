package entity

// Gestion es un periodo académico (p. ej. "2-2025").
type Gestion struct {
	ID     ID       `json:"id"`
	Codigo string   `json:"codigo,omitempty"`
	Nombre string   `json:"nombre,omitempty"`
	Activo FlexBool `json:"activo"`
}

// Identifier implementa Identifiable.
func (g Gestion) Identifier() ID { return g.ID }
