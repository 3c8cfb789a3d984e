package entity

// Materia es una asignatura del plan de estudios. Sigla es su código académico, no su
// identificador: editar o eliminar requiere ID.
type Materia struct {
	ID       ID      `json:"id"`
	Sigla    string  `json:"sigla,omitempty"`
	Nombre   string  `json:"nombre,omitempty"`
	Nivel    string  `json:"nivel,omitempty"`
	Semestre FlexInt `json:"semestre,omitempty"`
	Creditos FlexInt `json:"creditos,omitempty"`
	Estado   string  `json:"estado,omitempty"`
}

// Identifier implementa Identifiable.
func (m Materia) Identifier() ID { return m.ID }
