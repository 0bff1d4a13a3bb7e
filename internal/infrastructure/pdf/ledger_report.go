// Package pdf genera el reporte mensual del ledger de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + periodo      │  fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Tipo | Transacciones | Unidades | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: # | Fecha | Tipo | Estado | Prod. | Cant | Total   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var typeLabels = map[entity.TransactionType]string{
	entity.TransactionPurchase:         "Compra",
	entity.TransactionSale:             "Venta",
	entity.TransactionReturnToSupplier: "Devolución a proveedor",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ledger.ReportGenerator = (*LedgerReportGenerator)(nil)

// LedgerReportGenerator implementa ledger.ReportGenerator usando Maroto v2.
type LedgerReportGenerator struct {
	title string
	now   func() time.Time
}

// NewLedgerReportGenerator construye el generador. title aparece en el encabezado y en los metadatos del PDF.
func NewLedgerReportGenerator(title string) *LedgerReportGenerator {
	if title == "" {
		title = "Ledger de inventario"
	}
	return &LedgerReportGenerator{title: title, now: time.Now}
}

// GeneratePeriodReport genera el PDF y devuelve sus bytes.
func (g *LedgerReportGenerator) GeneratePeriodReport(
	ctx context.Context,
	summary *ledger.PeriodSummary,
	items []*entity.Transaction,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, summary, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("RESUMEN DEL PERIODO"))
	m.AddRows(summaryHeaderRow())
	m.AddRows(summaryRows(summary)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionRow(fmt.Sprintf("DETALLE (%d transacciones)", len(items))))
	if len(items) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin transacciones en el periodo.", props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	} else {
		m.AddRows(detailHeaderRow())
		m.AddRows(detailRows(items)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, s *ledger.PeriodSummary, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Periodo: %02d/%04d", s.Month, s.Year), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func sectionRow(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func summaryHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Tipo", 5, align.Left),
		h("Transacciones", 2, align.Right),
		h("Unidades", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func summaryRows(s *ledger.PeriodSummary) []core.Row {
	cell := func(v string, size int, a align.Type, bold bool) core.Col {
		p := props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}
		if bold {
			p.Style = fontstyle.Bold
		}
		return col.New(size).Add(text.New(v, p))
	}
	rows := make([]core.Row, 0, len(s.ByType)+1)
	for _, t := range s.ByType {
		rows = append(rows, row.New(6).Add(
			cell(typeLabel(t.Type), 5, align.Left, false),
			cell(strconv.FormatInt(t.Count, 10), 2, align.Right, false),
			cell(strconv.FormatInt(t.Units, 10), 2, align.Right, false),
			cell("$"+formatMoney(t.TotalPrice), 3, align.Right, false),
		))
	}
	rows = append(rows, row.New(7).Add(
		cell("TOTAL", 5, align.Left, true),
		cell(strconv.FormatInt(s.Count, 10), 2, align.Right, true),
		cell(strconv.FormatInt(s.Units, 10), 2, align.Right, true),
		cell("$"+formatMoney(s.TotalPrice), 3, align.Right, true),
	))
	return rows
}

func detailHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("#", 1, align.Left),
		h("Fecha", 2, align.Left),
		h("Tipo", 3, align.Left),
		h("Estado", 2, align.Left),
		h("Prod.", 1, align.Right),
		h("Cant.", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

func detailRows(items []*entity.Transaction) []core.Row {
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	rows := make([]core.Row, 0, len(items))
	for _, t := range items {
		rows = append(rows, row.New(5).Add(
			cell(strconv.FormatInt(t.ID, 10), 1, align.Left),
			cell(t.CreatedAt.UTC().Format("02/01/2006"), 2, align.Left),
			cell(typeLabel(t.Type), 3, align.Left),
			cell(string(t.Status), 2, align.Left),
			cell(strconv.FormatInt(t.ProductID, 10), 1, align.Right),
			cell(strconv.Itoa(t.TotalProducts), 1, align.Right),
			cell("$"+formatMoney(t.TotalPrice), 2, align.Right),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func typeLabel(t entity.TransactionType) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// formatMoney formatea con dos decimales, puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
