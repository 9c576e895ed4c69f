package redisstore

import (
	"context"
	"sync"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/pkg/metrics"
)

// Subscribe implementa ports.StoreClient. Se suscribe al canal de la colección antes de
// leer el estado inicial, así ningún cambio queda entre la lectura y el primer aviso.
// Los avisos se procesan en una sola goroutine, de a uno.
func (s *Store) Subscribe(ctx context.Context, path string, onChange ports.ChangeHandler) (ports.Unsubscribe, error) {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	pubsub := s.client.Subscribe(subCtx, s.channel(collection))
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		_ = pubsub.Close()
		metrics.ObserveStore(driver, "subscribe", err)
		return nil, connectivity(err)
	}

	initial, err := s.read(subCtx, collection, key)
	if err != nil {
		cancel()
		_ = pubsub.Close()
		metrics.ObserveStore(driver, "subscribe", err)
		return nil, err
	}
	metrics.ObserveStore(driver, "subscribe", nil)
	onChange(initial)

	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if key != "" && msg.Payload != "" && msg.Payload != key {
					continue
				}
				snap, err := s.read(subCtx, collection, key)
				if err != nil {
					if subCtx.Err() != nil {
						return
					}
					s.log.Warn().Err(err).Str("path", path).Msg("no se pudo releer tras un aviso")
					continue
				}
				if subCtx.Err() != nil {
					return
				}
				onChange(snap)
			}
		}
	}()

	s.log.Debug().Str("path", path).Msg("suscripción abierta")
	var once sync.Once
	return func() { once.Do(cancel) }, nil
}
