package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/pkg/logger"
	"github.com/jhoicas/warung-pos/pkg/metrics"
)

const (
	driver = "postgres"
	// notifyChannel canal LISTEN/NOTIFY; el payload es la ruta modificada.
	notifyChannel = "store_changes"
)

var _ ports.StoreClient = (*DocumentStore)(nil)

// DocumentStore adaptador PostgreSQL de ports.StoreClient sobre la tabla documents.
type DocumentStore struct {
	pool *pgxpool.Pool
	tx   *TxRunner
	log  *logger.Logger
}

// NewDocumentStore construye el adaptador. Requiere EnsureSchema.
func NewDocumentStore(pool *pgxpool.Pool, log *logger.Logger) *DocumentStore {
	return &DocumentStore{pool: pool, tx: NewTxRunner(pool), log: log.Component("postgres-store")}
}

// ReadOnce implementa ports.StoreClient.
func (s *DocumentStore) ReadOnce(ctx context.Context, path string) (ports.Snapshot, error) {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return ports.Snapshot{}, err
	}
	snap, err := s.read(ctx, s.pool, collection, key)
	metrics.ObserveStore(driver, "read", err)
	return snap, err
}

func (s *DocumentStore) read(ctx context.Context, q Querier, collection, key string) (ports.Snapshot, error) {
	if key != "" {
		var value []byte
		err := q.QueryRow(ctx,
			`SELECT value FROM documents WHERE collection = $1 AND key = $2`,
			collection, key,
		).Scan(&value)
		if errors.Is(err, pgx.ErrNoRows) {
			return ports.Snapshot{Path: ports.ChildPath(collection, key)}, nil
		}
		if err != nil {
			return ports.Snapshot{}, storeError(err)
		}
		return ports.Snapshot{Path: ports.ChildPath(collection, key), Exists: true, Value: value}, nil
	}

	rows, err := q.Query(ctx,
		`SELECT key, value FROM documents WHERE collection = $1 ORDER BY key`,
		collection,
	)
	if err != nil {
		return ports.Snapshot{}, storeError(err)
	}
	defer rows.Close()
	children := map[string]json.RawMessage{}
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return ports.Snapshot{}, storeError(err)
		}
		children[k] = v
	}
	if err := rows.Err(); err != nil {
		return ports.Snapshot{}, storeError(err)
	}
	return ports.CollectionSnapshot(collection, children)
}

// WriteAt implementa ports.StoreClient. Sobre una colección reemplaza todas sus filas.
func (s *DocumentStore) WriteAt(ctx context.Context, path string, value any) error {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	err = s.tx.Run(ctx, func(q Querier) error {
		if key != "" {
			if err := upsert(ctx, q, collection, key, raw); err != nil {
				return err
			}
			return notify(ctx, q, path)
		}
		var children map[string]json.RawMessage
		if err := json.Unmarshal(raw, &children); err != nil {
			return fmt.Errorf("%w: una colección solo admite un objeto", domain.ErrValidation)
		}
		if _, err := q.Exec(ctx, `DELETE FROM documents WHERE collection = $1`, collection); err != nil {
			return err
		}
		for k, v := range children {
			if err := upsert(ctx, q, collection, k, v); err != nil {
				return err
			}
		}
		return notify(ctx, q, collection)
	})
	err = storeError(err)
	metrics.ObserveStore(driver, "write", err)
	return err
}

// MergeAt implementa ports.StoreClient con el operador jsonb ||, que reemplaza solo
// los campos de primer nivel indicados.
func (s *DocumentStore) MergeAt(ctx context.Context, path string, fields map[string]any) error {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return err
	}
	err = s.tx.Run(ctx, func(q Querier) error {
		if key == "" {
			for k, v := range fields {
				raw, err := json.Marshal(v)
				if err != nil {
					return fmt.Errorf("%w: %v", domain.ErrValidation, err)
				}
				if err := upsert(ctx, q, collection, k, raw); err != nil {
					return err
				}
			}
			return notify(ctx, q, collection)
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO documents (collection, key, value)
			VALUES ($1, $2, $3::jsonb)
			ON CONFLICT (collection, key)
			DO UPDATE SET value = documents.value || EXCLUDED.value, updated_at = now()`,
			collection, key, string(raw),
		); err != nil {
			return err
		}
		return notify(ctx, q, path)
	})
	err = storeError(err)
	metrics.ObserveStore(driver, "merge", err)
	return err
}

// RemoveAt implementa ports.StoreClient.
func (s *DocumentStore) RemoveAt(ctx context.Context, path string) error {
	collection, key, err := ports.SplitPath(path)
	if err != nil {
		return err
	}
	err = s.tx.Run(ctx, func(q Querier) error {
		var err error
		if key == "" {
			_, err = q.Exec(ctx, `DELETE FROM documents WHERE collection = $1`, collection)
		} else {
			_, err = q.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND key = $2`, collection, key)
		}
		if err != nil {
			return err
		}
		return notify(ctx, q, path)
	})
	err = storeError(err)
	metrics.ObserveStore(driver, "remove", err)
	return err
}

// AppendUnder implementa ports.StoreClient con claves UUIDv7.
func (s *DocumentStore) AppendUnder(ctx context.Context, path string, value any) (string, error) {
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
	err = s.tx.Run(ctx, func(q Querier) error {
		if err := upsert(ctx, q, collection, generated, raw); err != nil {
			return err
		}
		return notify(ctx, q, ports.ChildPath(collection, generated))
	})
	err = storeError(err)
	metrics.ObserveStore(driver, "append", err)
	if err != nil {
		return "", err
	}
	return generated, nil
}

func upsert(ctx context.Context, q Querier, collection, key string, raw []byte) error {
	_, err := q.Exec(ctx, `
		INSERT INTO documents (collection, key, value)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		collection, key, string(raw),
	)
	return err
}

func notify(ctx context.Context, q Querier, path string) error {
	_, err := q.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, path)
	return err
}
