package entity

// Grupo es una oferta de una materia en una gestión.
type Grupo struct {
	ID           ID      `json:"id"`
	MateriaSigla string  `json:"materia_sigla,omitempty"`
	GestionID    ID      `json:"gestion_id,omitempty"`
	Nombre       string  `json:"nombre,omitempty"`
	Turno        string  `json:"turno,omitempty"`
	CupoMaximo   FlexInt `json:"cupo_maximo,omitempty"`
	CupoActual   FlexInt `json:"cupo_actual,omitempty"`
	Estado       string  `json:"estado,omitempty"`
	Modalidad    string  `json:"modalidad,omitempty"`
	Materia      *Ref    `json:"materia,omitempty"`
	Gestion      *Ref    `json:"gestion,omitempty"`
}

// Identifier implementa Identifiable.
func (g Grupo) Identifier() ID { return g.ID }

// Sigla devuelve la sigla de la materia, plana o anidada.
func (g Grupo) Sigla() string {
	if g.MateriaSigla != "" {
		return g.MateriaSigla
	}
	if g.Materia != nil {
		return g.Materia.Sigla
	}
	return ""
}

// GestionRef devuelve el identificador de la gestión, plano o anidado.
func (g Grupo) GestionRef() ID {
	if g.GestionID != "" {
		return g.GestionID
	}
	if g.Gestion != nil {
		return g.Gestion.ID
	}
	return ""
}
