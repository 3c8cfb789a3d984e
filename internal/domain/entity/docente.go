package entity

// Docente es el perfil académico asociado (opcionalmente) a un usuario.
type Docente struct {
	ID           ID     `json:"id"`
	UsuarioID    ID     `json:"usuario_id,omitempty"`
	CI           string `json:"ci,omitempty"`
	Nombreci     string `json:"nombreci,omitempty"`
	Nombre       string `json:"nombre,omitempty"`
	Especialidad string `json:"especialidad,omitempty"`
	Telefono     string `json:"telefono,omitempty"`
	Usuario      *Ref   `json:"usuario,omitempty"`
}

// Identifier implementa Identifiable.
func (d Docente) Identifier() ID { return d.ID }

// Label devuelve el nombre visible del docente.
func (d Docente) Label() string {
	var usuario string
	if d.Usuario != nil {
		usuario = d.Usuario.Nombre
	}
	return firstNonEmpty(d.Nombre, d.Nombreci, usuario, string(d.ID))
}
