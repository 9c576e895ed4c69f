// Package directory mantiene las cuentas del personal sincronizadas con el store compartido.
package directory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

// Directory proyección local de users/ más las altas, ediciones y bajas del OWNER.
type Directory struct {
	store ports.StoreClient
	log   *logger.Logger

	mu       sync.RWMutex
	accounts []entity.Account // sin contraseñas
	unsub    ports.Unsubscribe
}

// NewDirectory construye el directorio; no sincroniza hasta Start.
func NewDirectory(store ports.StoreClient, log *logger.Logger) *Directory {
	return &Directory{store: store, log: log.Component("directory")}
}

// Start abre la suscripción a users/.
func (d *Directory) Start(ctx context.Context) error {
	unsub, err := d.store.Subscribe(ctx, ports.PathUsers, d.onUsers)
	if err != nil {
		return fmt.Errorf("suscribir cuentas: %w", err)
	}
	d.mu.Lock()
	d.unsub = unsub
	d.mu.Unlock()
	return nil
}

// Stop cierra la suscripción.
func (d *Directory) Stop() {
	d.mu.Lock()
	unsub := d.unsub
	d.unsub = nil
	d.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (d *Directory) onUsers(snap ports.Snapshot) {
	children, err := snap.Children()
	if err != nil {
		d.log.Error().Err(err).Msg("snapshot de cuentas inválido")
		return
	}
	accounts := make([]entity.Account, 0, len(children))
	for _, ch := range children {
		var a entity.Account
		if err := ch.Decode(&a); err != nil {
			d.log.Warn().Err(err).Str("key", ch.Key).Msg("cuenta ignorada")
			continue
		}
		a.Username = ch.Key
		accounts = append(accounts, a.WithoutSecret())
	}
	d.mu.Lock()
	d.accounts = accounts
	d.mu.Unlock()
}

// Accounts copia de las cuentas sincronizadas, sin contraseñas.
func (d *Directory) Accounts() []entity.Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]entity.Account(nil), d.accounts...)
}

// Lookup lee users/{username} directamente del store, contraseña incluida.
// Se usa en el login, que no debe depender de que la proyección ya esté sincronizada.
func (d *Directory) Lookup(ctx context.Context, username string) (entity.Account, error) {
	key := entity.NormalizeUsername(username)
	if key == "" {
		return entity.Account{}, domain.ErrNotFound
	}
	snap, err := d.store.ReadOnce(ctx, ports.ChildPath(ports.PathUsers, key))
	if err != nil {
		return entity.Account{}, fmt.Errorf("leer cuenta: %w", err)
	}
	if !snap.Exists {
		return entity.Account{}, domain.ErrNotFound
	}
	var a entity.Account
	if err := snap.Decode(&a); err != nil {
		return entity.Account{}, err
	}
	a.Username = key
	return a, nil
}

// Create registra una cuenta nueva. El username queda en minúsculas y no puede repetirse.
func (d *Directory) Create(ctx context.Context, in dto.CreateAccountRequest) (entity.Account, error) {
	key := entity.NormalizeUsername(in.Username)
	name := strings.TrimSpace(in.Name)
	role := entity.Role(in.Role)
	switch {
	case key == "" || strings.Contains(key, "/"):
		return entity.Account{}, fmt.Errorf("%w: username inválido", domain.ErrValidation)
	case name == "":
		return entity.Account{}, fmt.Errorf("%w: nombre requerido", domain.ErrValidation)
	case in.Secret == "":
		return entity.Account{}, fmt.Errorf("%w: contraseña requerida", domain.ErrValidation)
	case !role.Valid():
		return entity.Account{}, fmt.Errorf("%w: rol %q", domain.ErrValidation, in.Role)
	}

	snap, err := d.store.ReadOnce(ctx, ports.ChildPath(ports.PathUsers, key))
	if err != nil {
		return entity.Account{}, fmt.Errorf("leer cuenta: %w", err)
	}
	if snap.Exists {
		return entity.Account{}, fmt.Errorf("%w: username %q", domain.ErrDuplicate, key)
	}

	hash, err := HashSecret(in.Secret)
	if err != nil {
		return entity.Account{}, err
	}
	acc := entity.Account{
		ID:       "u-" + uuid.New().String(),
		Username: key,
		Name:     name,
		Role:     role,
		Secret:   hash,
	}
	if err := d.store.WriteAt(ctx, ports.ChildPath(ports.PathUsers, key), acc); err != nil {
		return entity.Account{}, fmt.Errorf("guardar cuenta: %w", err)
	}
	d.log.Info().Str("username", key).Str("role", string(role)).Msg("cuenta registrada")
	return acc.WithoutSecret(), nil
}

// Update edita nombre y rol; la contraseña solo cambia si se envía una nueva.
func (d *Directory) Update(ctx context.Context, username string, in dto.UpdateAccountRequest) error {
	key := entity.NormalizeUsername(username)
	if _, err := d.Lookup(ctx, key); err != nil {
		return err
	}
	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return fmt.Errorf("%w: nombre requerido", domain.ErrValidation)
		}
		fields["name"] = name
	}
	if in.Role != nil {
		role := entity.Role(*in.Role)
		if !role.Valid() {
			return fmt.Errorf("%w: rol %q", domain.ErrValidation, *in.Role)
		}
		if key == entity.ProtectedUsername && role != entity.RoleOwner {
			return fmt.Errorf("%w: %s debe seguir siendo OWNER", domain.ErrProtectedAccount, key)
		}
		fields["role"] = role
	}
	if in.Secret != "" {
		hash, err := HashSecret(in.Secret)
		if err != nil {
			return err
		}
		fields["password"] = hash
	}
	if len(fields) == 0 {
		return nil
	}
	if err := d.store.MergeAt(ctx, ports.ChildPath(ports.PathUsers, key), fields); err != nil {
		return fmt.Errorf("editar cuenta: %w", err)
	}
	return nil
}

// Remove elimina una cuenta. La cuenta admin está protegida.
func (d *Directory) Remove(ctx context.Context, username string) error {
	key := entity.NormalizeUsername(username)
	if key == entity.ProtectedUsername {
		return domain.ErrProtectedAccount
	}
	if _, err := d.Lookup(ctx, key); err != nil {
		return err
	}
	if err := d.store.RemoveAt(ctx, ports.ChildPath(ports.PathUsers, key)); err != nil {
		return fmt.Errorf("eliminar cuenta: %w", err)
	}
	d.log.Info().Str("username", key).Msg("cuenta eliminada")
	return nil
}
