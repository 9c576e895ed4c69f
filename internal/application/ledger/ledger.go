// Package ledger mantiene la colección de pedidos cobrados: solo agrega, nunca edita ni borra.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

// Ledger proyección local de orders/, expuesta de la más reciente a la más antigua.
type Ledger struct {
	store ports.StoreClient
	log   *logger.Logger

	mu     sync.RWMutex
	orders []entity.Order
	unsub  ports.Unsubscribe
}

// NewLedger construye el ledger; no sincroniza hasta Start.
func NewLedger(store ports.StoreClient, log *logger.Logger) *Ledger {
	return &Ledger{store: store, log: log.Component("ledger")}
}

// Start abre la suscripción a orders/.
func (l *Ledger) Start(ctx context.Context) error {
	unsub, err := l.store.Subscribe(ctx, ports.PathOrders, l.onOrders)
	if err != nil {
		return fmt.Errorf("suscribir pedidos: %w", err)
	}
	l.mu.Lock()
	l.unsub = unsub
	l.mu.Unlock()
	return nil
}

// Stop cierra la suscripción.
func (l *Ledger) Stop() {
	l.mu.Lock()
	unsub := l.unsub
	l.unsub = nil
	l.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (l *Ledger) onOrders(snap ports.Snapshot) {
	orders, skipped, err := DecodeOrders(snap)
	if err != nil {
		l.log.Error().Err(err).Msg("snapshot de pedidos inválido")
		return
	}
	for _, key := range skipped {
		l.log.Warn().Str("key", key).Msg("pedido ignorado")
	}
	l.mu.Lock()
	l.orders = orders
	l.mu.Unlock()
	l.log.Debug().Int("orders", len(orders)).Msg("pedidos sincronizados")
}

// DecodeOrders convierte el snapshot de orders/ en pedidos, del más reciente al más antiguo.
// Con igual timestamp decide la clave generada, también descendente.
// Los registros que no se pueden decodificar se omiten y sus claves se devuelven en skipped.
func DecodeOrders(snap ports.Snapshot) (orders []entity.Order, skipped []string, err error) {
	children, err := snap.Children()
	if err != nil {
		return nil, nil, err
	}
	orders = make([]entity.Order, 0, len(children))
	for _, ch := range children {
		var o entity.Order
		if err := ch.Decode(&o); err != nil {
			skipped = append(skipped, ch.Key)
			continue
		}
		o.ID = ch.Key
		orders = append(orders, o)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Timestamp != orders[j].Timestamp {
			return orders[i].Timestamp > orders[j].Timestamp
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, skipped, nil
}

// Orders copia de los pedidos, del más reciente al más antiguo.
func (l *Ledger) Orders() []entity.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]entity.Order(nil), l.orders...)
}

// Get busca un pedido por su clave.
func (l *Ledger) Get(id string) (entity.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, o := range l.orders {
		if o.ID == id {
			return o, true
		}
	}
	return entity.Order{}, false
}

// Append guarda un pedido nuevo bajo una clave generada por el store y la devuelve.
func (l *Ledger) Append(ctx context.Context, order entity.Order) (string, error) {
	if len(order.Items) == 0 {
		return "", fmt.Errorf("%w: pedido sin líneas", domain.ErrValidation)
	}
	key, err := l.store.AppendUnder(ctx, ports.PathOrders, order)
	if err != nil {
		return "", fmt.Errorf("registrar pedido %s: %w", order.Number, err)
	}
	l.log.Info().Str("id", key).Str("number", order.Number).Str("total", order.Total.String()).Msg("pedido registrado")
	return key, nil
}
