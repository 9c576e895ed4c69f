// Package redisstore implementa el store en tiempo real sobre Redis.
//
// Cada colección es un hash "<prefix>:<colección>" (campo = clave, valor = JSON) y cada
// escritura publica la clave afectada en "<prefix>:changes:<colección>" dentro de la misma
// transacción MULTI/EXEC. Las suscripciones releen el estado completo en cada aviso.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/pkg/logger"
	"github.com/jhoicas/warung-pos/pkg/metrics"
)

const (
	driver          = "redis"
	maxMergeRetries = 3
)

var _ ports.StoreClient = (*Store)(nil)

// Store adaptador Redis de ports.StoreClient.
type Store struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

// NewStore construye el adaptador; el cliente lo cierra quien lo creó.
func NewStore(client *redis.Client, prefix string, log *logger.Logger) *Store {
	if prefix == "" {
		prefix = "warung"
	}
	return &Store{client: client, prefix: prefix, log: log.Component("redis-store")}
}

func (s *Store) hashKey(collection string) string { return s.prefix + ":" + collection }

func (s *Store) channel(collection string) string { return s.prefix + ":changes:" + collection }

// ReadOnce implementa ports.StoreClient.
func (s *Store) ReadOnce(ctx context.Context, path string) (ports.Snapshot, error) {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return ports.Snapshot{}, err
	}
	snap, err := s.read(ctx, collection, key)
	metrics.ObserveStore(driver, "read", err)
	return snap, err
}

func (s *Store) read(ctx context.Context, collection, key string) (ports.Snapshot, error) {
	if key != "" {
		val, err := s.client.HGet(ctx, s.hashKey(collection), key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ports.Snapshot{Path: ports.ChildPath(collection, key)}, nil
		}
		if err != nil {
			return ports.Snapshot{}, connectivity(err)
		}
		return ports.Snapshot{Path: ports.ChildPath(collection, key), Exists: true, Value: val}, nil
	}
	all, err := s.client.HGetAll(ctx, s.hashKey(collection)).Result()
	if err != nil {
		return ports.Snapshot{}, connectivity(err)
	}
	children := make(map[string]json.RawMessage, len(all))
	for k, v := range all {
		children[k] = json.RawMessage(v)
	}
	return ports.CollectionSnapshot(collection, children)
}

// WriteAt implementa ports.StoreClient. Sobre una colección reemplaza el hash completo.
func (s *Store) WriteAt(ctx context.Context, path string, value any) error {
	err := s.writeAt(ctx, path, value)
	metrics.ObserveStore(driver, "write", err)
	return err
}

func (s *Store) writeAt(ctx context.Context, path string, value any) error {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if key != "" {
		return s.exec(ctx, collection, key, func(pipe redis.Pipeliner) {
			pipe.HSet(ctx, s.hashKey(collection), key, string(raw))
		})
	}
	var children map[string]json.RawMessage
	if err := json.Unmarshal(raw, &children); err != nil {
		return fmt.Errorf("%w: una colección solo admite un objeto", domain.ErrValidation)
	}
	return s.exec(ctx, collection, "", func(pipe redis.Pipeliner) {
		pipe.Del(ctx, s.hashKey(collection))
		if len(children) > 0 {
			pipe.HSet(ctx, s.hashKey(collection), flatten(children)...)
		}
	})
}

// MergeAt implementa ports.StoreClient. La lectura-modificación-escritura de un hijo usa WATCH.
func (s *Store) MergeAt(ctx context.Context, path string, fields map[string]any) error {
	err := s.mergeAt(ctx, path, fields)
	metrics.ObserveStore(driver, "merge", err)
	return err
}

func (s *Store) mergeAt(ctx context.Context, path string, fields map[string]any) error {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return err
	}
	hash := s.hashKey(collection)
	if key == "" {
		children := make(map[string]json.RawMessage, len(fields))
		for k, v := range fields {
			raw, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			children[k] = raw
		}
		if len(children) == 0 {
			return nil
		}
		return s.exec(ctx, collection, "", func(pipe redis.Pipeliner) {
			pipe.HSet(ctx, hash, flatten(children)...)
		})
	}

	for attempt := 0; attempt < maxMergeRetries; attempt++ {
		err = s.client.Watch(ctx, func(tx *redis.Tx) error {
			current, err := tx.HGet(ctx, hash, key).Bytes()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			merged, err := ports.MergeFields(current, fields)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, hash, key, string(merged))
				pipe.Publish(ctx, s.channel(collection), key)
				return nil
			})
			return err
		}, hash)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil && !errors.Is(err, domain.ErrValidation) {
		return connectivity(err)
	}
	return err
}

// RemoveAt implementa ports.StoreClient.
func (s *Store) RemoveAt(ctx context.Context, path string) error {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return err
	}
	err = s.exec(ctx, collection, key, func(pipe redis.Pipeliner) {
		if key == "" {
			pipe.Del(ctx, s.hashKey(collection))
			return
		}
		pipe.HDel(ctx, s.hashKey(collection), key)
	})
	metrics.ObserveStore(driver, "remove", err)
	return err
}

// AppendUnder implementa ports.StoreClient con claves UUIDv7.
func (s *Store) AppendUnder(ctx context.Context, path string, value any) (string, error) {
	key, err := s.appendUnder(ctx, path, value)
	metrics.ObserveStore(driver, "append", err)
	return key, err
}

func (s *Store) appendUnder(ctx context.Context, path string, value any) (string, error) {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return "", err
	}
	if key != "" {
		return "", fmt.Errorf("%w: append solo sobre una colección", domain.ErrValidation)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generar clave: %w", err)
	}
	generated := id.String()
	if err := s.exec(ctx, collection, generated, func(pipe redis.Pipeliner) {
		pipe.HSet(ctx, s.hashKey(collection), generated, string(raw))
	}); err != nil {
		return "", err
	}
	return generated, nil
}

// exec ejecuta fn y el aviso de cambio en una sola transacción.
func (s *Store) exec(ctx context.Context, collection, changedKey string, fn func(pipe redis.Pipeliner)) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fn(pipe)
		pipe.Publish(ctx, s.channel(collection), changedKey)
		return nil
	})
	if err != nil {
		return connectivity(err)
	}
	return nil
}

func flatten(children map[string]json.RawMessage) []any {
	out := make([]any, 0, len(children)*2)
	for k, v := range children {
		out = append(out, k, string(v))
	}
	return out
}

func connectivity(err error) error {
	return fmt.Errorf("%w: redis: %v", domain.ErrConnectivity, err)
}
