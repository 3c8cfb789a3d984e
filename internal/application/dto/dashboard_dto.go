package dto

// DashboardSummaryDTO respuesta de GET /admin: totales de cada catálogo.
// Un recurso que no se pudo cargar cuenta como 0 y se lista en Unavailable.
type DashboardSummaryDTO struct {
	Aulas       int      `json:"aulas"`
	Materias    int      `json:"materias"`
	Docentes    int      `json:"docentes"`
	Grupos      int      `json:"grupos"`
	Horarios    int      `json:"horarios"`
	Unavailable []string `json:"unavailable,omitempty"`
}
