package postgres

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/pkg/metrics"
)

// Pausas entre intentos de reconexión de una suscripción caída.
const (
	resubscribeInitial = 500 * time.Millisecond
	resubscribeMax     = 30 * time.Second
)

// subscription una suscripción viva: colección/clave observada y su handler.
type subscription struct {
	store      *DocumentStore
	path       string
	collection string
	key        string
	onChange   ports.ChangeHandler
}

// Subscribe implementa ports.StoreClient. Retiene una conexión del pool con LISTEN
// hasta que se cancela; el estado se relee completo en cada aviso de la colección.
// Si la conexión se cae, reconecta con espera exponencial y entrega un snapshot completo.
func (s *DocumentStore) Subscribe(ctx context.Context, path string, onChange ports.ChangeHandler) (ports.Unsubscribe, error) {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return nil, err
	}
	sub := &subscription{store: s, path: path, collection: collection, key: key, onChange: onChange}

	subCtx, cancel := context.WithCancel(ctx)
	conn, err := sub.listen(subCtx)
	if err != nil {
		cancel()
		metrics.ObserveStore(driver, "subscribe", err)
		return nil, err
	}
	metrics.ObserveStore(driver, "subscribe", nil)

	go sub.run(subCtx, conn)

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

// listen toma una conexión, ejecuta LISTEN y entrega el estado actual.
// LISTEN va antes de la lectura para no perder cambios entre ambas.
func (sub *subscription) listen(ctx context.Context) (*pgxpool.Conn, error) {
	s := sub.store
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, storeError(err)
	}
	snap, err := s.read(ctx, s.pool, sub.collection, sub.key)
	if err != nil {
		release(conn)
		return nil, err
	}
	if ctx.Err() != nil {
		release(conn)
		return nil, ctx.Err()
	}
	sub.onChange(snap)
	return conn, nil
}

// run atiende avisos hasta que se cancela ctx, reconectando cuando la conexión falla.
func (sub *subscription) run(ctx context.Context, conn *pgxpool.Conn) {
	log := sub.store.log
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = resubscribeInitial
	bo.MaxInterval = resubscribeMax

	for {
		err := sub.wait(ctx, conn)
		release(conn)
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Str("path", sub.path).Msg("suscripción interrumpida, reconectando")
		metrics.ObserveStore(driver, "resubscribe", err)

		bo.Reset()
		for {
			timer := time.NewTimer(bo.NextBackOff())
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			conn, err = sub.listen(ctx)
			if err == nil {
				break
			}
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Str("path", sub.path).Msg("reconexión fallida")
		}
		metrics.ObserveStore(driver, "resubscribe", nil)
		log.Info().Str("path", sub.path).Msg("suscripción restablecida")
	}
}

// wait entrega un snapshot por cada aviso que afecta a la ruta; vuelve al fallar la conexión.
func (sub *subscription) wait(ctx context.Context, conn *pgxpool.Conn) error {
	s := sub.store
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if !affects(n.Payload, sub.collection, sub.key) {
			continue
		}
		snap, err := s.read(ctx, s.pool, sub.collection, sub.key)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn().Err(err).Str("path", sub.path).Msg("no se pudo releer tras un aviso")
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		sub.onChange(snap)
	}
}

// release quita el LISTEN y devuelve la conexión; el pool descarta las conexiones cerradas.
func release(conn *pgxpool.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _ = conn.Exec(ctx, "UNLISTEN *")
	conn.Release()
}

// affects indica si la ruta modificada (payload) afecta a la suscripción.
func affects(payload, collection, key string) bool {
	changedCollection, changedKey, _ := strings.Cut(payload, "/")
	if changedCollection != collection {
		return false
	}
	return key == "" || changedKey == "" || changedKey == key
}
