package directory_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warung-pos/internal/application/directory"
	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/internal/infrastructure/memory"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

func newDirectory(t *testing.T) (*directory.Directory, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	d := directory.NewDirectory(store, logger.Nop())
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(d.Stop)
	return d, store
}

func TestDirectory_Create_UsernameEnMinusculasYHash(t *testing.T) {
	d, store := newDirectory(t)
	ctx := context.Background()

	acc, err := d.Create(ctx, dto.CreateAccountRequest{Username: " Kasir1 ", Name: "Budi Kasir", Role: "CASHIER", Secret: "123"})
	require.NoError(t, err)
	assert.Equal(t, "kasir1", acc.Username)
	assert.Empty(t, acc.Secret)
	assert.True(t, strings.HasPrefix(acc.ID, "u-"))

	snap, err := store.ReadOnce(ctx, "users/kasir1")
	require.NoError(t, err)
	require.True(t, snap.Exists)
	var stored entity.Account
	require.NoError(t, snap.Decode(&stored))
	assert.NotEqual(t, "123", stored.Secret)
	assert.True(t, directory.VerifySecret(stored.Secret, "123"))

	accounts := d.Accounts()
	require.Len(t, accounts, 1)
	assert.Empty(t, accounts[0].Secret, "la proyección nunca guarda contraseñas")
}

func TestDirectory_Create_Duplicado(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()
	_, err := d.Create(ctx, dto.CreateAccountRequest{Username: "kasir1", Name: "Budi", Role: "CASHIER", Secret: "123"})
	require.NoError(t, err)

	_, err = d.Create(ctx, dto.CreateAccountRequest{Username: "KASIR1", Name: "Otro", Role: "CASHIER", Secret: "456"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestDirectory_Create_Validacion(t *testing.T) {
	d, _ := newDirectory(t)
	cases := []dto.CreateAccountRequest{
		{Username: "", Name: "A", Role: "CASHIER", Secret: "1"},
		{Username: "a/b", Name: "A", Role: "CASHIER", Secret: "1"},
		{Username: "a", Name: " ", Role: "CASHIER", Secret: "1"},
		{Username: "a", Name: "A", Role: "CASHIER", Secret: ""},
		{Username: "a", Name: "A", Role: "MANAGER", Secret: "1"},
	}
	for _, in := range cases {
		_, err := d.Create(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrValidation), "%+v", in)
	}
}

func TestDirectory_Remove_AdminProtegido(t *testing.T) {
	d, store := newDirectory(t)
	ctx := context.Background()
	_, err := d.Create(ctx, dto.CreateAccountRequest{Username: "admin", Name: "Sang Kapten", Role: "OWNER", Secret: "123"})
	require.NoError(t, err)

	err = d.Remove(ctx, "ADMIN")
	assert.True(t, errors.Is(err, domain.ErrProtectedAccount))

	snap, err := store.ReadOnce(ctx, ports.ChildPath(ports.PathUsers, "admin"))
	require.NoError(t, err)
	assert.True(t, snap.Exists)
}

func TestDirectory_Remove(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()
	_, err := d.Create(ctx, dto.CreateAccountRequest{Username: "kasir1", Name: "Budi", Role: "CASHIER", Secret: "123"})
	require.NoError(t, err)

	require.NoError(t, d.Remove(ctx, "kasir1"))
	assert.Empty(t, d.Accounts())
	assert.True(t, errors.Is(d.Remove(ctx, "kasir1"), domain.ErrNotFound))
}

func TestDirectory_Update_ConservaContraseñaSiNoSeEnvia(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()
	_, err := d.Create(ctx, dto.CreateAccountRequest{Username: "kasir1", Name: "Budi", Role: "CASHIER", Secret: "123"})
	require.NoError(t, err)

	name := "Budi Santoso"
	role := "OWNER"
	require.NoError(t, d.Update(ctx, "kasir1", dto.UpdateAccountRequest{Name: &name, Role: &role}))

	acc, err := d.Lookup(ctx, "kasir1")
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", acc.Name)
	assert.Equal(t, entity.RoleOwner, acc.Role)
	assert.True(t, directory.VerifySecret(acc.Secret, "123"))

	require.NoError(t, d.Update(ctx, "kasir1", dto.UpdateAccountRequest{Secret: "nueva"}))
	acc, err = d.Lookup(ctx, "kasir1")
	require.NoError(t, err)
	assert.True(t, directory.VerifySecret(acc.Secret, "nueva"))
	assert.False(t, directory.VerifySecret(acc.Secret, "123"))
}

func TestDirectory_Update_AdminNoPierdeRolOwner(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()
	_, err := d.Create(ctx, dto.CreateAccountRequest{Username: "admin", Name: "Sang Kapten", Role: "OWNER", Secret: "123"})
	require.NoError(t, err)

	role := "CASHIER"
	err = d.Update(ctx, "admin", dto.UpdateAccountRequest{Role: &role})
	assert.True(t, errors.Is(err, domain.ErrProtectedAccount))
}

func TestDirectory_Lookup_NoExiste(t *testing.T) {
	d, _ := newDirectory(t)
	_, err := d.Lookup(context.Background(), "nadie")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerifySecret_TextoPlanoHeredado(t *testing.T) {
	assert.True(t, directory.VerifySecret("123", "123"))
	assert.False(t, directory.VerifySecret("123", "1234"))
	assert.False(t, directory.VerifySecret("", ""))

	hash, err := directory.HashSecret("123")
	require.NoError(t, err)
	assert.True(t, directory.VerifySecret(hash, "123"))
	assert.False(t, directory.VerifySecret(hash, "124"))
}
