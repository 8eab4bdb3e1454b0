package userservice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/service/userservice"
)

func newStore() *userservice.CredentialStore {
	return userservice.NewCredentialStore(bcrypt.MinCost)
}

func TestRegister_ThenVerify(t *testing.T) {
	store := newStore()

	cred, err := store.Register(" Ana@Loja.com ", "u-1", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", cred.UID)
	assert.NotEqual(t, "secret1", cred.Hash)

	got, ok := store.Verify("ana@loja.com", "secret1")
	assert.True(t, ok)
	assert.Equal(t, "u-1", got.UID)

	_, ok = store.Verify("ana@loja.com", "wrongpass")
	assert.False(t, ok)
}

func TestRegister_Duplicate(t *testing.T) {
	store := newStore()
	_, err := store.Register("a@b.com", "u-1", "secret1")
	require.NoError(t, err)

	_, err = store.Register("A@B.com", "u-2", "secret2")
	assert.Equal(t, apperror.CategoryDuplicateAccount, apperror.CategoryOf(err))
}

func TestRegister_PasswordTooLong(t *testing.T) {
	_, err := newStore().Register("a@b.com", "u-1", strings.Repeat("x", 80))
	assert.Equal(t, apperror.CategoryValidation, apperror.CategoryOf(err))
}

func TestAbsorb_SkipsBlankEmailOrHash(t *testing.T) {
	store := newStore()
	hash, err := store.Hash("secret1")
	require.NoError(t, err)

	n := store.Absorb([]domain.CustomerRecord{
		{UID: "u-1", Email: "a@b.com", PasswordHash: hash},
		{UID: "u-2", Email: "", PasswordHash: hash},
		{UID: "u-3", Email: "c@d.com", PasswordHash: ""},
	})

	assert.Equal(t, 1, n)
	_, ok := store.Verify("a@b.com", "secret1")
	assert.True(t, ok)
	_, ok = store.Lookup("c@d.com")
	assert.False(t, ok)
}

func TestSet_Overwrites(t *testing.T) {
	store := newStore()
	_, err := store.Register("a@b.com", "u-1", "secret1")
	require.NoError(t, err)

	hash, err := store.Hash("novasenha")
	require.NoError(t, err)
	store.Set("a@b.com", "u-1", hash)

	_, ok := store.Verify("a@b.com", "secret1")
	assert.False(t, ok)
	_, ok = store.Verify("a@b.com", "novasenha")
	assert.True(t, ok)
}

func TestMatches_EmptyHash(t *testing.T) {
	assert.False(t, userservice.Matches("", "anything"))
}
