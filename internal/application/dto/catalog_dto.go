package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jhoicas/gestion-horarios/internal/domain"
)

// FormValue es un campo de formulario: el cliente puede enviarlo como número o como texto.
// Se guarda siempre como texto sin espacios en los extremos.
type FormValue string

// UnmarshalJSON acepta cadenas, números, booleanos y null.
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(strings.TrimSpace(s))
		return nil
	}
	*v = FormValue(data)
	return nil
}

// fieldErrors acumula errores de conversión por campo.
type fieldErrors map[string][]string

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &domain.ValidationError{Message: "Datos inválidos", Fields: f}
}

// number convierte v a entero; vacío da def. Valores no numéricos se registran en errs.
func (f fieldErrors) number(field string, v FormValue, def int64) int64 {
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(string(v), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		f[field] = append(f[field], "debe ser un número")
		return 0
	}
	return int64(n)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// PayloadBuilder convierte una entrada de formulario en el cuerpo que espera el backend.
type PayloadBuilder interface {
	Payload() (any, error)
}

// ── Aulas ──

// AulaRequest formulario de aula.
type AulaRequest struct {
	Codigo    string    `json:"codigo"`
	Capacidad FormValue `json:"capacidad"`
	Tipo      string    `json:"tipo"`
	Estado    string    `json:"estado"`
}

// AulaPayload cuerpo para POST/PUT /aulas.
type AulaPayload struct {
	Codigo    string `json:"codigo"`
	Capacidad int64  `json:"capacidad"`
	Tipo      string `json:"tipo"`
	Estado    string `json:"estado"`
}

// Payload aplica los valores por defecto del formulario: tipo "Teoría", estado "activo".
func (r AulaRequest) Payload() (any, error) {
	errs := fieldErrors{}
	p := AulaPayload{
		Codigo:    r.Codigo,
		Capacidad: errs.number("capacidad", r.Capacidad, 0),
		Tipo:      orDefault(r.Tipo, "Teoría"),
		Estado:    orDefault(r.Estado, "activo"),
	}
	return p, errs.err()
}

// ── Materias ──

// MateriaRequest formulario de materia.
type MateriaRequest struct {
	Sigla    string    `json:"sigla"`
	Nombre   string    `json:"nombre"`
	Nivel    string    `json:"nivel"`
	Semestre FormValue `json:"semestre"`
	Creditos FormValue `json:"creditos"`
	Estado   string    `json:"estado"`
}

// MateriaPayload cuerpo para POST/PUT /materias.
type MateriaPayload struct {
	Sigla    string `json:"sigla"`
	Nombre   string `json:"nombre"`
	Nivel    string `json:"nivel"`
	Semestre int64  `json:"semestre"`
	Creditos int64  `json:"creditos"`
	Estado   string `json:"estado"`
}

// Payload aplica nivel "Pregrado", semestre 1, créditos 4 y estado "activo" por defecto.
func (r MateriaRequest) Payload() (any, error) {
	errs := fieldErrors{}
	p := MateriaPayload{
		Sigla:    r.Sigla,
		Nombre:   r.Nombre,
		Nivel:    orDefault(r.Nivel, "Pregrado"),
		Semestre: errs.number("semestre", r.Semestre, 1),
		Creditos: errs.number("creditos", r.Creditos, 4),
		Estado:   orDefault(r.Estado, "activo"),
	}
	return p, errs.err()
}

// ── Docentes ──

// DocenteRequest formulario de docente.
type DocenteRequest struct {
	UsuarioID    FormValue `json:"usuario_id"`
	CI           string    `json:"ci"`
	Nombreci     string    `json:"nombreci"`
	Especialidad string    `json:"especialidad"`
	Telefono     string    `json:"telefono"`
}

// DocentePayload cuerpo para POST/PUT /docentes. UsuarioID es null cuando no se asoció usuario.
type DocentePayload struct {
	UsuarioID    *int64 `json:"usuario_id"`
	CI           string `json:"ci"`
	Nombreci     string `json:"nombreci"`
	Especialidad string `json:"especialidad"`
	Telefono     string `json:"telefono"`
}

// Payload envía usuario_id null si viene vacío.
func (r DocenteRequest) Payload() (any, error) {
	errs := fieldErrors{}
	p := DocentePayload{
		CI:           r.CI,
		Nombreci:     r.Nombreci,
		Especialidad: r.Especialidad,
		Telefono:     r.Telefono,
	}
	if r.UsuarioID != "" {
		id := errs.number("usuario_id", r.UsuarioID, 0)
		p.UsuarioID = &id
	}
	return p, errs.err()
}

// ── Grupos ──

// GrupoRequest formulario de grupo.
type GrupoRequest struct {
	MateriaSigla string    `json:"materia_sigla"`
	GestionID    FormValue `json:"gestion_id"`
	Nombre       string    `json:"nombre"`
	Turno        string    `json:"turno"`
	CupoMaximo   FormValue `json:"cupo_maximo"`
	CupoActual   FormValue `json:"cupo_actual"`
	Estado       string    `json:"estado"`
	Modalidad    string    `json:"modalidad"`
}

// GrupoPayload cuerpo para POST/PUT /grupos.
type GrupoPayload struct {
	MateriaSigla string `json:"materia_sigla"`
	GestionID    int64  `json:"gestion_id"`
	Nombre       string `json:"nombre"`
	Turno        string `json:"turno"`
	CupoMaximo   int64  `json:"cupo_maximo"`
	CupoActual   int64  `json:"cupo_actual"`
	Estado       string `json:"estado"`
	Modalidad    string `json:"modalidad"`
}

// Payload aplica turno "Mañana", cupo 30/0, estado "activo" y modalidad "Presencial".
func (r GrupoRequest) Payload() (any, error) {
	errs := fieldErrors{}
	p := GrupoPayload{
		MateriaSigla: r.MateriaSigla,
		GestionID:    errs.number("gestion_id", r.GestionID, 0),
		Nombre:       r.Nombre,
		Turno:        orDefault(r.Turno, "Mañana"),
		CupoMaximo:   errs.number("cupo_maximo", r.CupoMaximo, 30),
		CupoActual:   errs.number("cupo_actual", r.CupoActual, 0),
		Estado:       orDefault(r.Estado, "activo"),
		Modalidad:    orDefault(r.Modalidad, "Presencial"),
	}
	return p, errs.err()
}

// ── Horarios ──

// HorarioRequest formulario de horario.
type HorarioRequest struct {
	GrupoID    FormValue `json:"grupo_id"`
	AulaID     FormValue `json:"aula_id"`
	DocenteID  FormValue `json:"docente_id"`
	Dia        string    `json:"dia"`
	HoraInicio string    `json:"hora_inicio"`
	HoraFin    string    `json:"hora_fin"`
}

// HorarioPayload cuerpo para POST/PUT /horarios.
type HorarioPayload struct {
	GrupoID    int64  `json:"grupo_id"`
	AulaID     int64  `json:"aula_id"`
	DocenteID  int64  `json:"docente_id"`
	Dia        string `json:"dia"`
	HoraInicio string `json:"hora_inicio"`
	HoraFin    string `json:"hora_fin"`
}

// Payload aplica "Lunes" de 08:00 a 09:30 por defecto.
func (r HorarioRequest) Payload() (any, error) {
	errs := fieldErrors{}
	p := HorarioPayload{
		GrupoID:    errs.number("grupo_id", r.GrupoID, 0),
		AulaID:     errs.number("aula_id", r.AulaID, 0),
		DocenteID:  errs.number("docente_id", r.DocenteID, 0),
		Dia:        orDefault(r.Dia, "Lunes"),
		HoraInicio: orDefault(r.HoraInicio, "08:00"),
		HoraFin:    orDefault(r.HoraFin, "09:30"),
	}
	return p, errs.err()
}

// ── Gestiones ──

// GestionRequest formulario de gestión. Activo ausente equivale a true.
type GestionRequest struct {
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
	Activo *bool  `json:"activo"`
}

// GestionPayload cuerpo para POST/PUT /gestiones.
type GestionPayload struct {
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}

// Payload implementa PayloadBuilder.
func (r GestionRequest) Payload() (any, error) {
	activo := true
	if r.Activo != nil {
		activo = *r.Activo
	}
	return GestionPayload{Codigo: r.Codigo, Nombre: r.Nombre, Activo: activo}, nil
}
