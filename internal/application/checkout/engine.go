// Package checkout contiene el carrito de la terminal y el cobro que lo convierte en pedido.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/pkg/logger"
	"github.com/jhoicas/warung-pos/pkg/metrics"
)

// OrderNumberPrefix prefijo del número visible del comprobante.
const OrderNumberPrefix = "WK-"

// DefaultSettleTimeout plazo máximo para que el ledger confirme un cobro.
const DefaultSettleTimeout = 10 * time.Second

// State etapa del checkout: Empty → Building → Ready; cobrar vuelve a Empty.
type State string

const (
	StateEmpty    State = "EMPTY"
	StateBuilding State = "BUILDING"
	StateReady    State = "READY"
)

// OrderAppender destino de los pedidos cobrados (el ledger).
type OrderAppender interface {
	Append(ctx context.Context, order entity.Order) (string, error)
}

// Identity sesión activa de la terminal.
type Identity interface {
	Current() (entity.Account, bool)
}

// Cart vista de solo lectura del checkout.
type Cart struct {
	State         State
	Lines         []entity.OrderLine
	CustomerLabel string
	Tendered      decimal.Decimal
	Subtotal      decimal.Decimal
	Change        decimal.Decimal
	CanSettle     bool
}

// Option configura el Engine.
type Option func(*Engine)

// WithClock reemplaza el reloj usado para el timestamp del pedido.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTerminalID marca los pedidos con la caja que los cobró.
func WithTerminalID(id string) Option {
	return func(e *Engine) { e.terminalID = id }
}

// WithSettleTimeout acota la espera del ledger durante Settle; d <= 0 conserva el valor por defecto.
func WithSettleTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.settleTimeout = d
		}
	}
}

// Engine carrito en memoria de una terminal. No se persiste: se pierde al reiniciar o al cerrar sesión.
type Engine struct {
	ledger     OrderAppender
	session    Identity
	log        *logger.Logger
	now        func() time.Time
	terminalID string

	settleTimeout time.Duration

	mu            sync.Mutex
	lines         []entity.OrderLine
	customerLabel string
	tendered      decimal.Decimal
}

// NewEngine construye un checkout vacío.
func NewEngine(ledger OrderAppender, session Identity, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		ledger:   ledger,
		session:  session,
		log:      log.Component("checkout"),
		now:      time.Now,
		tendered: decimal.Zero,

		settleTimeout: DefaultSettleTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddItem suma una unidad del plato. Si ya está en el carrito incrementa su cantidad;
// si no, agrega una línea copiando nombre y precio actuales.
func (e *Engine) AddItem(item entity.MenuItem) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lines {
		if e.lines[i].ItemID == item.ID {
			e.lines[i].Quantity++
			return
		}
	}
	e.lines = append(e.lines, entity.OrderLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})
}

// AdjustQuantity suma delta a la cantidad de la línea, sin bajar de 1. Un id desconocido no hace nada.
func (e *Engine) AdjustQuantity(itemID string, delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lines {
		if e.lines[i].ItemID == itemID {
			q := e.lines[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			e.lines[i].Quantity = q
			return
		}
	}
}

// SetCustomerLabel nombre del cliente o número de mesa.
func (e *Engine) SetCustomerLabel(label string) {
	e.mu.Lock()
	e.customerLabel = label
	e.mu.Unlock()
}

// SetTendered monto entregado por el cliente; no puede ser negativo.
func (e *Engine) SetTendered(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: monto pagado negativo", domain.ErrValidation)
	}
	e.mu.Lock()
	e.tendered = amount
	e.mu.Unlock()
	return nil
}

// Subtotal Σ precio × cantidad; 0 con el carrito vacío.
func (e *Engine) Subtotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return subtotal(e.lines)
}

// CanSettle el carrito tiene importe, cliente y pago suficiente.
func (e *Engine) CanSettle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canSettleLocked(subtotal(e.lines))
}

// State etapa actual del checkout.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked(subtotal(e.lines))
}

// Snapshot copia consistente del carrito y sus importes derivados.
func (e *Engine) Snapshot() Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := subtotal(e.lines)
	return Cart{
		State:         e.stateLocked(sub),
		Lines:         append([]entity.OrderLine(nil), e.lines...),
		CustomerLabel: e.customerLabel,
		Tendered:      e.tendered,
		Subtotal:      sub,
		Change:        ComputeChange(e.tendered, sub),
		CanSettle:     e.canSettleLocked(sub),
	}
}

// Reset abandona el carrito (fin de sesión).
func (e *Engine) Reset() {
	e.mu.Lock()
	e.clearLocked()
	e.mu.Unlock()
}

// Settle cobra el carrito: arma el pedido y lo agrega al ledger.
//
// Si el carrito no está listo devuelve (nil, nil) sin efectos. El carrito se vacía solo
// cuando el ledger confirma el alta; si falla se conserva intacto para reintentar.
func (e *Engine) Settle(ctx context.Context) (*entity.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := subtotal(e.lines)
	if !e.canSettleLocked(sub) {
		metrics.Settlements.WithLabelValues(metrics.OutcomeNotReady).Inc()
		return nil, nil
	}
	cashier, ok := e.session.Current()
	if !ok {
		return nil, domain.ErrNoSession
	}

	now := e.now()
	order := entity.Order{
		Number:       fmt.Sprintf("%s%d", OrderNumberPrefix, now.UnixMilli()),
		CustomerName: strings.TrimSpace(e.customerLabel),
		Items:        append([]entity.OrderLine(nil), e.lines...),
		Total:        sub,
		AmountPaid:   e.tendered,
		Change:       ComputeChange(e.tendered, sub),
		Timestamp:    now.UnixMilli(),
		CashierID:    cashier.ID,
		CashierName:  cashier.Name,
		TerminalID:   e.terminalID,
	}

	// El carrito queda bloqueado mientras tanto; un store colgado no puede retenerlo sin límite.
	appendCtx, cancel := context.WithTimeout(ctx, e.settleTimeout)
	defer cancel()
	key, err := e.ledger.Append(appendCtx, order)
	if err != nil {
		metrics.Settlements.WithLabelValues(metrics.OutcomeFailed).Inc()
		e.log.Warn().Err(err).Str("number", order.Number).Msg("cobro no registrado, se conserva el carrito")
		return nil, err
	}
	order.ID = key
	e.clearLocked()
	metrics.Settlements.WithLabelValues(metrics.OutcomeSettled).Inc()
	e.log.Info().Str("id", key).Str("number", order.Number).Str("cashier", cashier.Username).Msg("cobro registrado")
	return &order, nil
}

// ComputeChange vuelto = max(0, pagado − subtotal).
func ComputeChange(tendered, subtotal decimal.Decimal) decimal.Decimal {
	change := tendered.Sub(subtotal)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

func subtotal(lines []entity.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (e *Engine) canSettleLocked(sub decimal.Decimal) bool {
	return sub.IsPositive() &&
		strings.TrimSpace(e.customerLabel) != "" &&
		e.tendered.GreaterThanOrEqual(sub)
}

func (e *Engine) stateLocked(sub decimal.Decimal) State {
	switch {
	case len(e.lines) == 0:
		return StateEmpty
	case e.canSettleLocked(sub):
		return StateReady
	default:
		return StateBuilding
	}
}

func (e *Engine) clearLocked() {
	e.lines = nil
	e.customerLabel = ""
	e.tendered = decimal.Zero
}
