// Package analytics contiene los casos de uso del panel de administración.
package analytics

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/pkg/logger"
)

// Counter cuenta los registros de un catálogo. *usecase.CatalogUseCase lo implementa.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardUseCase genera los totales del panel de administración.
type DashboardUseCase struct {
	aulas, materias, docentes, grupos, horarios Counter
	log                                         *logger.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(aulas, materias, docentes, grupos, horarios Counter, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{
		aulas: aulas, materias: materias, docentes: docentes, grupos: grupos, horarios: horarios,
		log: log.Component("dashboard"),
	}
}

// GetSummary carga los cinco totales en paralelo. Un catálogo que falla cuenta como 0 y se
// informa en Unavailable; el panel nunca falla por eso. Un rechazo de credencial sí se
// devuelve, porque la sesión ya no es válida.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	out := &dto.DashboardSummaryDTO{}

	var (
		g        errgroup.Group
		mu       sync.Mutex
		rejected bool
	)
	count := func(name string, c Counter, dst *int) {
		g.Go(func() error {
			n, err := c.Count(ctx)
			if err != nil {
				uc.log.Warn().Err(err).Str("resource", name).Msg("no se pudo contar; se usa 0")
				mu.Lock()
				out.Unavailable = append(out.Unavailable, name)
				if errors.Is(err, domain.ErrAuthenticationRejected) {
					rejected = true
				}
				mu.Unlock()
				return nil
			}
			*dst = n
			return nil
		})
	}

	count("aulas", uc.aulas, &out.Aulas)
	count("materias", uc.materias, &out.Materias)
	count("docentes", uc.docentes, &out.Docentes)
	count("grupos", uc.grupos, &out.Grupos)
	count("horarios", uc.horarios, &out.Horarios)
	_ = g.Wait()

	if rejected {
		return nil, domain.ErrAuthenticationRejected
	}
	sort.Strings(out.Unavailable)
	return out, nil
}
