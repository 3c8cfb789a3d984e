package entity

// Horario asigna un grupo, un aula y un docente a una franja de un día.
type Horario struct {
	ID            ID     `json:"id"`
	GrupoID       ID     `json:"grupo_id,omitempty"`
	AulaID        ID     `json:"aula_id,omitempty"`
	DocenteID     ID     `json:"docente_id,omitempty"`
	Dia           string `json:"dia,omitempty"`
	DiaSemana     string `json:"dia_semana,omitempty"`
	HoraInicio    string `json:"hora_inicio,omitempty"`
	HoraFin       string `json:"hora_fin,omitempty"`
	MateriaNombre string `json:"materia_nombre,omitempty"`
	MateriaSigla  string `json:"materia_sigla,omitempty"`
	AulaCodigo    string `json:"aula_codigo,omitempty"`
	TipoClase     string `json:"tipo_clase,omitempty"`
	Modalidad     string `json:"modalidad,omitempty"`
	Materia       *Ref   `json:"materia,omitempty"`
	Aula          *Ref   `json:"aula,omitempty"`
	Grupo         *Ref   `json:"grupo,omitempty"`
	Docente       *Ref   `json:"docente,omitempty"`
}

// Identifier implementa Identifiable.
func (h Horario) Identifier() ID { return h.ID }

// Franja devuelve "hora_inicio - hora_fin".
func (h Horario) Franja() string { return h.HoraInicio + " - " + h.HoraFin }

// DiaLabel devuelve el día de la semana, en cualquiera de sus dos nombres.
func (h Horario) DiaLabel() string { return firstNonEmpty(h.DiaSemana, h.Dia) }

// Asignatura devuelve el nombre de la materia, anidado o su sigla como último recurso.
func (h Horario) Asignatura() string {
	var nested string
	if h.Materia != nil {
		nested = h.Materia.Nombre
	}
	return firstNonEmpty(h.MateriaNombre, nested, h.MateriaSigla)
}

// AulaLabel devuelve el código del aula o su identificador.
func (h Horario) AulaLabel() string {
	var nested string
	if h.Aula != nil {
		nested = h.Aula.Codigo
	}
	return firstNonEmpty(h.AulaCodigo, nested, string(h.AulaID))
}

// Tipo devuelve el tipo de clase, la modalidad o "-".
func (h Horario) Tipo() string { return firstNonEmpty(h.TipoClase, h.Modalidad, "-") }
