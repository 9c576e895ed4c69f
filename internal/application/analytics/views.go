// Package analytics calcula las vistas derivadas del ledger: ventanas de tiempo,
// ingresos, ticket promedio, platos más vendidos e historial del día.
// Todas son funciones puras sobre una copia de los pedidos.
package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warung-pos/internal/domain/entity"
)

// TopItemsLimit cantidad de platos en el ranking del dashboard.
const TopItemsLimit = 8

// TimeRange ventana del dashboard.
type TimeRange string

const (
	RangeDaily   TimeRange = "daily"
	RangeWeekly  TimeRange = "weekly"
	RangeMonthly TimeRange = "monthly"
)

// ParseRange interpreta el parámetro de consulta; un valor desconocido se trata como mensual.
func ParseRange(s string) TimeRange {
	switch TimeRange(strings.ToLower(strings.TrimSpace(s))) {
	case RangeDaily:
		return RangeDaily
	case RangeWeekly:
		return RangeWeekly
	default:
		return RangeMonthly
	}
}

// Window duración de la ventana: 1, 7 o 30 días.
func (r TimeRange) Window() time.Duration {
	switch r {
	case RangeDaily:
		return 24 * time.Hour
	case RangeWeekly:
		return 7 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// TopItem plato agregado por nombre.
type TopItem struct {
	Name       string
	Quantity   int
	Percentage decimal.Decimal // 0–100, dos decimales
}

// Summary resumen del dashboard para una ventana.
type Summary struct {
	Range              TimeRange
	Revenue            decimal.Decimal
	OrderCount         int
	AverageTransaction decimal.Decimal
	TopItems           []TopItem
}

// WindowFilter conserva los pedidos con now − timestamp < ventana (estricto, en milisegundos).
func WindowFilter(orders []entity.Order, r TimeRange, now time.Time) []entity.Order {
	windowMs := r.Window().Milliseconds()
	nowMs := now.UnixMilli()
	out := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		if nowMs-o.Timestamp < windowMs {
			out = append(out, o)
		}
	}
	return out
}

// RevenueTotal Σ total de los pedidos.
func RevenueTotal(orders []entity.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Total)
	}
	return sum
}

// AverageTransaction ingreso / cantidad de pedidos; 0 sin pedidos.
func AverageTransaction(orders []entity.Order) decimal.Decimal {
	if len(orders) == 0 {
		return decimal.Zero
	}
	return RevenueTotal(orders).Div(decimal.NewFromInt(int64(len(orders))))
}

// TopItems agrupa las líneas por nombre de plato, ordena por cantidad descendente
// conservando el orden de aparición en los empates, y devuelve los primeros limit.
func TopItems(orders []entity.Order, limit int) []TopItem {
	index := map[string]int{}
	var items []TopItem
	totalQty := 0
	for _, o := range orders {
		for _, l := range o.Items {
			totalQty += l.Quantity
			i, ok := index[l.Name]
			if !ok {
				i = len(items)
				index[l.Name] = i
				items = append(items, TopItem{Name: l.Name})
			}
			items[i].Quantity += l.Quantity
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Quantity > items[j].Quantity })
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	for i := range items {
		items[i].Percentage = percentage(items[i].Quantity, totalQty)
	}
	return items
}

func percentage(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part) * 100).Div(decimal.NewFromInt(int64(total))).Round(2)
}

// DailyScopedHistory el OWNER ve todo el ledger; el resto solo los pedidos
// cuya fecha local (año, mes, día) coincide con la de now.
func DailyScopedHistory(orders []entity.Order, isOwner bool, now time.Time) []entity.Order {
	if isOwner {
		return orders
	}
	y, m, d := now.Date()
	out := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		oy, om, od := time.UnixMilli(o.Timestamp).In(now.Location()).Date()
		if oy == y && om == m && od == d {
			out = append(out, o)
		}
	}
	return out
}

// Summarize filtra por ventana y calcula ingresos, ticket promedio y ranking.
func Summarize(orders []entity.Order, r TimeRange, now time.Time) Summary {
	filtered := WindowFilter(orders, r, now)
	return Summary{
		Range:              r,
		Revenue:            RevenueTotal(filtered),
		OrderCount:         len(filtered),
		AverageTransaction: AverageTransaction(filtered),
		TopItems:           TopItems(filtered, TopItemsLimit),
	}
}

// LineSummary resumen de las líneas para el historial, ej: "Nasi Goreng (2), Es Teh (1)".
func LineSummary(o entity.Order) string {
	parts := make([]string, 0, len(o.Items))
	for _, l := range o.Items {
		parts = append(parts, fmt.Sprintf("%s (%d)", l.Name, l.Quantity))
	}
	return strings.Join(parts, ", ")
}
