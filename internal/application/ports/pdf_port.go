package ports

import "github.com/jhoicas/gestion-horarios/internal/application/dto"

// SchedulePDFGenerator genera el PDF del horario semanal de un docente.
type SchedulePDFGenerator interface {
	GenerateSchedulePDF(schedule *dto.ScheduleDTO) ([]byte, error)
}
