// Package pdf genera el horario semanal del docente en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: "Mi Horario" + docente   │  Fecha de emisión       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Hora | Día | Asignatura | Aula | Tipo               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de clases                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"sort"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/application/ports"
)

var _ ports.SchedulePDFGenerator = (*MarotoScheduleGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// dayOrder ordena las filas de lunes a domingo; días desconocidos van al final.
var dayOrder = map[string]int{
	"lunes": 1, "martes": 2, "miercoles": 3, "miércoles": 3, "jueves": 4,
	"viernes": 5, "sabado": 6, "sábado": 6, "domingo": 7,
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoScheduleGenerator implementa ports.SchedulePDFGenerator usando Maroto v2.
type MarotoScheduleGenerator struct {
	now func() time.Time
}

// NewMarotoScheduleGenerator construye el generador.
func NewMarotoScheduleGenerator() *MarotoScheduleGenerator {
	return &MarotoScheduleGenerator{now: time.Now}
}

// GenerateSchedulePDF genera el PDF y devuelve sus bytes.
func (g *MarotoScheduleGenerator) GenerateSchedulePDF(s *dto.ScheduleDTO) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("pdf: horario nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Horario docente", true).
		WithAuthor(nonEmpty(s.Docente, "Gestión de Horarios"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s.Docente, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	rows := sortedRows(s.Rows)
	if len(rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay horarios asignados.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	for _, r := range tableDetailRows(rows) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(rows)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(docente string, now time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("Mi Horario", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(docente, "—"), props.Text{
				Size: 10, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Emitido: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla.
func tableHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Left,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Hora", 2),
		h("Día", 2),
		h("Asignatura", 4),
		h("Aula", 2),
		h("Tipo", 2),
	)
}

// tableDetailRows: una fila por clase.
func tableDetailRows(rows []dto.ScheduleRowDTO) []core.Row {
	cell := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(nonEmpty(s, "-"), props.Text{Size: 8, Top: 1, Left: 1}))
	}
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, row.New(7).Add(
			cell(r.Franja, 2),
			cell(r.Dia, 2),
			cell(r.Asignatura, 4),
			cell(r.Aula, 2),
			cell(r.Tipo, 2),
		))
	}
	return result
}

func footerRow(total int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Total de clases: %d", total), props.Text{
			Size: 8, Align: align.Right, Top: 2, Color: colorGray,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// sortedRows ordena por día de la semana y hora de inicio sin modificar la entrada.
func sortedRows(in []dto.ScheduleRowDTO) []dto.ScheduleRowDTO {
	out := append([]dto.ScheduleRowDTO(nil), in...)
	rank := func(day string) int {
		if n, ok := dayOrder[strings.ToLower(strings.TrimSpace(day))]; ok {
			return n
		}
		return len(dayOrder) + 1
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].Dia), rank(out[j].Dia)
		if ri != rj {
			return ri < rj
		}
		return out[i].Franja < out[j].Franja
	})
	return out
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
