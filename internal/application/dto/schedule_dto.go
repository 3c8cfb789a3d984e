package dto

// ScheduleRowDTO una fila del horario del docente.
type ScheduleRowDTO struct {
	ID         string `json:"id"`
	Franja     string `json:"franja"`
	Dia        string `json:"dia"`
	Asignatura string `json:"asignatura"`
	Aula       string `json:"aula"`
	Tipo       string `json:"tipo"`
}

// ScheduleDTO respuesta de GET /horario.
type ScheduleDTO struct {
	Docente string           `json:"docente"`
	Rows    []ScheduleRowDTO `json:"rows"`
}
