// Package memory implementa el store en tiempo real en memoria del proceso.
// Sirve para una terminal aislada (demo, desarrollo) y para las pruebas de la capa de aplicación.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/pkg/metrics"
)

const driver = "memory"

var _ ports.StoreClient = (*Store)(nil)

type subscription struct {
	collection string
	key        string // vacío: suscripción a la colección completa
	onChange   ports.ChangeHandler
	active     atomic.Bool
}

type delivery struct {
	sub  *subscription
	snap ports.Snapshot
}

// Store mapa colección -> clave -> JSON. Las notificaciones se entregan de forma
// síncrona y en el orden de las mutaciones; un callback no debe escribir en el store.
type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	data     map[string]map[string]json.RawMessage
	subs     []*subscription
	offline  bool
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{data: make(map[string]map[string]json.RawMessage)}
}

// SetOffline simula la pérdida de conexión: toda operación devuelve domain.ErrConnectivity.
func (s *Store) SetOffline(offline bool) {
	s.mu.Lock()
	s.offline = offline
	s.mu.Unlock()
}

// ReadOnce implementa ports.StoreClient.
func (s *Store) ReadOnce(ctx context.Context, path string) (ports.Snapshot, error) {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return ports.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		metrics.ObserveStore(driver, "read", err)
		return ports.Snapshot{}, err
	}
	snap, err := s.snapshotLocked(collection, key)
	metrics.ObserveStore(driver, "read", err)
	return snap, err
}

// WriteAt implementa ports.StoreClient. Sobre una colección, value debe ser un objeto {clave: hijo}.
func (s *Store) WriteAt(ctx context.Context, path string, value any) error {
	err := s.mutate(ctx, path, func(collection, key string) error {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		if key != "" {
			s.collectionLocked(collection)[key] = raw
			return nil
		}
		var children map[string]json.RawMessage
		if err := json.Unmarshal(raw, &children); err != nil {
			return fmt.Errorf("%w: una colección solo admite un objeto", domain.ErrValidation)
		}
		s.data[collection] = children
		return nil
	})
	metrics.ObserveStore(driver, "write", err)
	return err
}

// MergeAt implementa ports.StoreClient. Sobre una colección, cada campo es un hijo completo.
func (s *Store) MergeAt(ctx context.Context, path string, fields map[string]any) error {
	err := s.mutate(ctx, path, func(collection, key string) error {
		col := s.collectionLocked(collection)
		if key == "" {
			for k, v := range fields {
				raw, err := json.Marshal(v)
				if err != nil {
					return fmt.Errorf("%w: %v", domain.ErrValidation, err)
				}
				col[k] = raw
			}
			return nil
		}
		merged, err := ports.MergeFields(col[key], fields)
		if err != nil {
			return err
		}
		col[key] = merged
		return nil
	})
	metrics.ObserveStore(driver, "merge", err)
	return err
}

// RemoveAt implementa ports.StoreClient.
func (s *Store) RemoveAt(ctx context.Context, path string) error {
	err := s.mutate(ctx, path, func(collection, key string) error {
		if key == "" {
			delete(s.data, collection)
			return nil
		}
		delete(s.data[collection], key)
		return nil
	})
	metrics.ObserveStore(driver, "remove", err)
	return err
}

// AppendUnder implementa ports.StoreClient. Las claves son UUIDv7: ordenan por momento de creación.
func (s *Store) AppendUnder(ctx context.Context, path string, value any) (string, error) {
	var generated string
	err := s.mutate(ctx, path, func(collection, key string) error {
		if key != "" {
			return fmt.Errorf("%w: append solo sobre una colección", domain.ErrValidation)
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generar clave: %w", err)
		}
		generated = id.String()
		s.collectionLocked(collection)[generated] = raw
		return nil
	})
	metrics.ObserveStore(driver, "append", err)
	if err != nil {
		return "", err
	}
	return generated, nil
}

// Subscribe implementa ports.StoreClient.
func (s *Store) Subscribe(ctx context.Context, path string, onChange ports.ChangeHandler) (ports.Unsubscribe, error) {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if err := s.check(ctx); err != nil {
		s.mu.Unlock()
		metrics.ObserveStore(driver, "subscribe", err)
		return nil, err
	}
	sub := &subscription{collection: collection, key: key, onChange: onChange}
	sub.active.Store(true)
	s.subs = append(s.subs, sub)
	snap, err := s.snapshotLocked(collection, key)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.handoff([]delivery{{sub: sub, snap: snap}})
	metrics.ObserveStore(driver, "subscribe", nil)

	return func() {
		if !sub.active.Swap(false) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, other := range s.subs {
			if other == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
	}, nil
}

// mutate aplica fn bajo el lock y notifica a los suscriptores de la colección afectada.
func (s *Store) mutate(ctx context.Context, path string, fn func(collection, key string) error) error {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if err := s.check(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := fn(collection, key); err != nil {
		s.mu.Unlock()
		return err
	}
	if col, ok := s.data[collection]; ok && len(col) == 0 {
		delete(s.data, collection)
	}

	var pending []delivery
	for _, sub := range s.subs {
		if sub.collection != collection || (sub.key != "" && key != "" && sub.key != key) {
			continue
		}
		snap, err := s.snapshotLocked(sub.collection, sub.key)
		if err != nil {
			continue
		}
		pending = append(pending, delivery{sub: sub, snap: snap})
	}
	s.handoff(pending)
	return nil
}

// handoff toma notifyMu antes de soltar mu: las entregas respetan el orden de las mutaciones.
func (s *Store) handoff(pending []delivery) {
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	for _, d := range pending {
		if d.sub.active.Load() {
			d.sub.onChange(d.snap)
		}
	}
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
	}
	if s.offline {
		return fmt.Errorf("%w: store en memoria fuera de línea", domain.ErrConnectivity)
	}
	return nil
}

func (s *Store) collectionLocked(collection string) map[string]json.RawMessage {
	col, ok := s.data[collection]
	if !ok || col == nil {
		col = make(map[string]json.RawMessage)
		s.data[collection] = col
	}
	return col
}

func (s *Store) snapshotLocked(collection, key string) (ports.Snapshot, error) {
	col := s.data[collection]
	if key != "" {
		raw, ok := col[key]
		if !ok {
			return ports.Snapshot{Path: ports.ChildPath(collection, key)}, nil
		}
		return ports.Snapshot{Path: ports.ChildPath(collection, key), Exists: true, Value: cloneRaw(raw)}, nil
	}
	return ports.CollectionSnapshot(collection, col)
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}
