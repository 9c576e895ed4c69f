// Package bootstrap abre el adaptador de store elegido en la configuración.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain/repository"
	"github.com/jhoicas/warung-pos/internal/infrastructure/memory"
	"github.com/jhoicas/warung-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/warung-pos/internal/infrastructure/redisstore"
	"github.com/jhoicas/warung-pos/pkg/config"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

// Store adaptador abierto y sus recursos.
type Store struct {
	Client  ports.StoreClient
	Revenue repository.RevenueRepository // nil salvo con postgres
	close   func()
}

// Close libera conexiones; seguro de llamar varias veces.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
		s.close = nil
	}
}

// OpenStore conecta con el driver configurado (memory, redis o postgres).
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("store en memoria: los datos no se comparten ni sobreviven al reinicio")
		return &Store{Client: memory.NewStore()}, nil

	case config.StoreDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Str("prefix", cfg.Redis.Prefix).Msg("store redis conectado")
		return &Store{
			Client: redisstore.NewStore(client, cfg.Redis.Prefix, log),
			close:  func() { _ = client.Close() },
		}, nil

	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("store postgres conectado")
		return &Store{
			Client:  postgres.NewDocumentStore(pool, log),
			Revenue: postgres.NewAnalyticsRepository(pool),
			close:   pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("store driver desconocido %q", cfg.Store.Driver)
	}
}
