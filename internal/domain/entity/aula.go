package entity

// Aula representa un ambiente físico donde se dictan clases.
type Aula struct {
	ID        ID      `json:"id"`
	Codigo    string  `json:"codigo,omitempty"`
	Code      string  `json:"code,omitempty"` // nombre alterno usado por backends antiguos
	Capacidad FlexInt `json:"capacidad,omitempty"`
	Tipo      string  `json:"tipo,omitempty"`
	Estado    string  `json:"estado,omitempty"`
}

// Identifier implementa Identifiable.
func (a Aula) Identifier() ID { return a.ID }

// Label devuelve el código del aula o, si falta, su identificador.
func (a Aula) Label() string {
	return firstNonEmpty(a.Codigo, a.Code, string(a.ID))
}
