// Package schedule arma el horario semanal del docente con sesión activa.
package schedule

import (
	"context"
	"errors"
	"net/url"

	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/application/ports"
	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	"github.com/jhoicas/gestion-horarios/pkg/logger"
)

// HorarioLister lista horarios con filtros.
type HorarioLister interface {
	List(ctx context.Context, filters url.Values) ([]entity.Horario, error)
}

// UserSource entrega el usuario de la sesión.
type UserSource interface {
	UserData(ctx context.Context) *entity.User
}

// UseCase casos de uso del horario del docente.
type UseCase struct {
	horarios HorarioLister
	users    UserSource
	pdf      ports.SchedulePDFGenerator
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. pdf puede ser nil si no se exporta.
func NewUseCase(horarios HorarioLister, users UserSource, pdf ports.SchedulePDFGenerator, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{horarios: horarios, users: users, pdf: pdf, log: log.Component("schedule")}
}

// ForCurrentUser consulta /horarios?docente_id=<id del usuario>. Sin id de usuario el horario
// está vacío. Un error del backend deja la tabla vacía; solo un rechazo de credencial se devuelve.
func (uc *UseCase) ForCurrentUser(ctx context.Context) (*dto.ScheduleDTO, error) {
	u := uc.users.UserData(ctx)
	out := &dto.ScheduleDTO{Docente: u.DisplayName(), Rows: []dto.ScheduleRowDTO{}}

	id := u.ID()
	if id == "" {
		return out, nil
	}

	items, err := uc.horarios.List(ctx, url.Values{"docente_id": {id}})
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationRejected) {
			return nil, err
		}
		uc.log.Warn().Err(err).Str("docente_id", id).Msg("error cargando horarios")
		return out, nil
	}
	for _, h := range items {
		out.Rows = append(out.Rows, ToRow(h))
	}
	return out, nil
}

// ExportPDF genera el PDF del horario del usuario actual.
func (uc *UseCase) ExportPDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, errors.New("schedule: generador de PDF no configurado")
	}
	s, err := uc.ForCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateSchedulePDF(s)
}

// ToRow convierte un horario en la fila que se muestra.
func ToRow(h entity.Horario) dto.ScheduleRowDTO {
	return dto.ScheduleRowDTO{
		ID:         string(h.ID),
		Franja:     h.Franja(),
		Dia:        h.DiaLabel(),
		Asignatura: h.Asignatura(),
		Aula:       h.AulaLabel(),
		Tipo:       h.Tipo(),
	}
}
