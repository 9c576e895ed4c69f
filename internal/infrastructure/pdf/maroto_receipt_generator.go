// Package pdf genera el comprobante de venta en papel térmico de 80 mm.
//
// Layout:
//
//	┌──────────────────────────────┐
//	│  NOMBRE DEL NEGOCIO          │
//	│  lema / dirección            │
//	│ - - - - - - - - - - - - - -  │
//	│  No / Tgl / Plgn / Ksr       │
//	│ - - - - - - - - - - - - - -  │
//	│  Plato                       │
//	│  cant x precio      subtotal │
//	│ ──────────────────────────── │
//	│  TOTAL / BAYAR / KEMBALI     │
//	│  QR con el número + saludo   │
//	└──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/pkg/money"
)

const (
	paperWidthMM = 80.0
	marginMM     = 4.0
	dateLayout   = "02/01/2006 15:04"
)

var colorGray = &props.Color{Red: 90, Green: 90, Blue: 90}

var _ ports.ReceiptPDFGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa ports.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceiptPDF genera el comprobante y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(_ context.Context, header ports.ReceiptHeader, order entity.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(paperWidthMM, pageHeight(order)).
		WithLeftMargin(marginMM).WithRightMargin(marginMM).
		WithTopMargin(marginMM).WithBottomMargin(marginMM).
		WithDefaultFont(&props.Font{Family: "courier", Size: 8}).
		WithTitle("Struk "+order.Number, true).
		WithAuthor(header.ShopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRows(header)...)
	m.AddRows(dashed())
	m.AddRows(metaRows(order)...)
	m.AddRows(dashed())
	m.AddRows(lineRows(order.Items)...)
	m.AddRows(line.NewRow(2, props.Line{Thickness: 0.3}))
	m.AddRows(totalRows(order)...)
	m.AddRows(footerRows(order)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// pageHeight alto del rollo según la cantidad de líneas.
func pageHeight(order entity.Order) float64 {
	return 130 + float64(len(order.Items))*9
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRows(h ports.ReceiptHeader) []core.Row {
	center := func(s string, size float64, style fontstyle.Type) core.Row {
		return row.New(size/2 + 2).Add(col.New(12).Add(text.New(s, props.Text{
			Size: size, Style: style, Align: align.Center,
		})))
	}
	rows := []core.Row{center(h.ShopName, 13, fontstyle.Bold)}
	if h.Tagline != "" {
		rows = append(rows, center(h.Tagline, 8, fontstyle.Normal))
	}
	if h.Address != "" {
		rows = append(rows, center(h.Address, 7, fontstyle.Normal))
	}
	return rows
}

func metaRows(o entity.Order) []core.Row {
	meta := func(label, value string) core.Row {
		return row.New(4).Add(col.New(12).Add(text.New(label+": "+value, props.Text{Size: 8})))
	}
	return []core.Row{
		meta("No", o.Number),
		meta("Tgl", o.CreatedAt().Format(dateLayout)),
		meta("Plgn", o.CustomerName),
		meta("Ksr", o.CashierName),
	}
}

func lineRows(lines []entity.OrderLine) []core.Row {
	rows := make([]core.Row, 0, len(lines)*2)
	for _, l := range lines {
		rows = append(rows,
			row.New(4).Add(col.New(12).Add(text.New(l.Name, props.Text{Size: 8, Style: fontstyle.Bold}))),
			row.New(5).Add(
				col.New(7).Add(text.New(fmt.Sprintf("%d x %s", l.Quantity, money.Format(l.Price)), props.Text{Size: 8})),
				col.New(5).Add(text.New(money.Format(l.Subtotal()), props.Text{Size: 8, Align: align.Right})),
			),
		)
	}
	return rows
}

func totalRows(o entity.Order) []core.Row {
	pair := func(label, value string, style fontstyle.Type) core.Row {
		return row.New(5).Add(
			col.New(5).Add(text.New(label, props.Text{Size: 9, Style: style})),
			col.New(7).Add(text.New(value, props.Text{Size: 9, Style: style, Align: align.Right})),
		)
	}
	return []core.Row{
		pair("TOTAL", money.Rupiah(o.Total), fontstyle.Bold),
		pair("BAYAR", money.Format(o.AmountPaid), fontstyle.Normal),
		pair("KEMBALI", money.Format(o.Change), fontstyle.Normal),
	}
}

func footerRows(o entity.Order) []core.Row {
	return []core.Row{
		row.New(4),
		row.New(22).Add(col.New(12).Add(code.NewQr(o.Number, props.Rect{Percent: 100, Center: true}))),
		row.New(5).Add(col.New(12).Add(text.New("Terima Kasih!", props.Text{
			Size: 8, Style: fontstyle.Italic, Align: align.Center, Top: 1,
		}))),
		row.New(4).Add(col.New(12).Add(text.New("Selamat Berlayar Kembali", props.Text{
			Size: 8, Align: align.Center, Color: colorGray,
		}))),
	}
}

func dashed() core.Row {
	return line.NewRow(3, props.Line{Style: linestyle.Dashed, Thickness: 0.2})
}
