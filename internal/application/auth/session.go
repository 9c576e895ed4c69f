// Package auth contiene la sesión de la terminal: login contra el Directory,
// persistencia local firmada y lectura de la identidad activa.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/warung-pos/internal/application/directory"
	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/pkg/jwt"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

// SessionConfig firma del blob de sesión guardado en disco.
type SessionConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// AccountLookup búsqueda de cuentas por username (el Directory).
type AccountLookup interface {
	Lookup(ctx context.Context, username string) (entity.Account, error)
}

// SessionManager único escritor de la identidad activa; el resto de componentes solo la lee vía Current.
type SessionManager struct {
	accounts AccountLookup
	store    ports.SessionStore
	cfg      SessionConfig
	log      *logger.Logger

	mu      sync.RWMutex
	current *entity.Account
}

// NewSessionManager construye el gestor sin sesión; llamar Restore al arrancar.
func NewSessionManager(accounts AccountLookup, store ports.SessionStore, cfg SessionConfig, log *logger.Logger) *SessionManager {
	return &SessionManager{accounts: accounts, store: store, cfg: cfg, log: log.Component("session")}
}

// Restore lee la sesión durable una vez. Un blob alterado, vencido o ilegible se descarta.
func (m *SessionManager) Restore() error {
	blob, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("leer sesión: %w", err)
	}
	if len(blob) == 0 {
		return nil
	}
	id, err := jwt.Parse(m.cfg.Secret, m.cfg.Issuer, string(blob))
	if err == nil && !entity.Role(id.Role).Valid() {
		err = fmt.Errorf("rol %q desconocido", id.Role)
	}
	if err != nil {
		m.log.Warn().Err(err).Msg("sesión guardada inválida, se descarta")
		if clearErr := m.store.Clear(); clearErr != nil {
			m.log.Warn().Err(clearErr).Msg("no se pudo borrar la sesión inválida")
		}
		return nil
	}
	acc := entity.Account{ID: id.AccountID, Username: id.Username, Name: id.Name, Role: entity.Role(id.Role)}
	m.set(&acc)
	m.log.Info().Str("username", acc.Username).Msg("sesión restaurada")
	return nil
}

// Login valida credenciales contra el Directory y persiste la sesión.
// Devuelve domain.ErrNotFound si la cuenta no existe y domain.ErrBadCredential si la contraseña no coincide.
func (m *SessionManager) Login(ctx context.Context, username, secret string) (entity.Account, error) {
	acc, err := m.accounts.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return entity.Account{}, domain.ErrNotFound
		}
		return entity.Account{}, err
	}
	if !directory.VerifySecret(acc.Secret, secret) {
		return entity.Account{}, domain.ErrBadCredential
	}
	acc = acc.WithoutSecret()

	token, err := jwt.Generate(m.cfg.Secret, m.cfg.Issuer, jwt.Identity{
		AccountID: acc.ID,
		Username:  acc.Username,
		Name:      acc.Name,
		Role:      string(acc.Role),
	}, m.cfg.TTL)
	if err != nil {
		return entity.Account{}, fmt.Errorf("firmar sesión: %w", err)
	}
	if err := m.store.Save([]byte(token)); err != nil {
		// La sesión sigue activa en memoria; solo se pierde al reiniciar.
		m.log.Warn().Err(err).Msg("no se pudo guardar la sesión")
	}
	m.set(&acc)
	m.log.Info().Str("username", acc.Username).Str("role", string(acc.Role)).Msg("login")
	return acc, nil
}

// Logout borra la sesión sin confirmación; no hay invalidación remota.
func (m *SessionManager) Logout() error {
	m.mu.Lock()
	prev := m.current
	m.current = nil
	m.mu.Unlock()
	if prev != nil {
		m.log.Info().Str("username", prev.Username).Msg("logout")
	}
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("borrar sesión: %w", err)
	}
	return nil
}

// Current identidad activa (sin contraseña).
func (m *SessionManager) Current() (entity.Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return entity.Account{}, false
	}
	return *m.current, true
}

func (m *SessionManager) set(acc *entity.Account) {
	m.mu.Lock()
	m.current = acc
	m.mu.Unlock()
}
