package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/warung-pos/internal/application/auth"
	"github.com/jhoicas/warung-pos/internal/application/catalog"
	"github.com/jhoicas/warung-pos/internal/application/checkout"
	"github.com/jhoicas/warung-pos/internal/application/directory"
	"github.com/jhoicas/warung-pos/internal/application/ledger"
	"github.com/jhoicas/warung-pos/internal/application/seed"
	"github.com/jhoicas/warung-pos/internal/infrastructure/session"
	"github.com/jhoicas/warung-pos/pkg/config"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

// Terminal componentes de una caja ya conectados al store y con la sesión restaurada.
type Terminal struct {
	Store     *Store
	Directory *directory.Directory
	Catalog   *catalog.Catalog
	Ledger    *ledger.Ledger
	Sessions  *auth.SessionManager
	Engine    *checkout.Engine

	stops []func()
}

// StartTerminal abre el store, siembra si corresponde y arranca las suscripciones.
func StartTerminal(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Terminal, error) {
	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("conexión al store: %w", err)
	}
	t := &Terminal{
		Store:     store,
		Directory: directory.NewDirectory(store.Client, log),
		Catalog:   catalog.NewCatalog(store.Client, log),
		Ledger:    ledger.NewLedger(store.Client, log),
	}

	if cfg.Seed.OnStart {
		res, err := seed.Run(ctx, store.Client, t.Directory, cfg.Seed.DefaultSecret, log)
		switch {
		case err != nil:
			log.Error().Err(err).Msg("carga de datos de demostración")
		case res.Skipped:
			log.Debug().Msg("store con cuentas, no se siembra")
		default:
			log.Info().Int("accounts", res.Accounts).Int("items", res.Items).Msg("datos de demostración cargados")
		}
	}

	for _, c := range []interface {
		Start(context.Context) error
		Stop()
	}{t.Directory, t.Catalog, t.Ledger} {
		if err := c.Start(ctx); err != nil {
			t.Close()
			return nil, fmt.Errorf("suscripción al store: %w", err)
		}
		t.stops = append(t.stops, c.Stop)
	}

	t.Sessions = auth.NewSessionManager(t.Directory, session.NewFileStore(cfg.Session.FilePath), auth.SessionConfig{
		Secret: cfg.Session.Secret,
		Issuer: cfg.Session.Issuer,
		TTL:    time.Duration(cfg.Session.TTLHours) * time.Hour,
	}, log)
	if err := t.Sessions.Restore(); err != nil {
		log.Warn().Err(err).Msg("no se pudo leer la sesión guardada")
	}

	t.Engine = checkout.NewEngine(t.Ledger, t.Sessions, log, checkout.WithTerminalID(cfg.App.TerminalID))
	return t, nil
}

// Close detiene las suscripciones en orden inverso y libera el store.
func (t *Terminal) Close() {
	for i := len(t.stops) - 1; i >= 0; i-- {
		t.stops[i]()
	}
	t.stops = nil
	t.Store.Close()
}
