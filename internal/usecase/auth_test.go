package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
	testhelpers "github.com/polkiloo/atmterminal/internal/test"
)

func newAuthFixture() *AuthUseCase {
	number := int64(1001)
	users := testhelpers.NewUserRepositoryStub(
		model.User{Login: "alice", PinCode: "hash:12345", Name: "Alice", Role: model.RoleCustomer, AccountNumber: &number},
		model.User{Login: "root", PinCode: "hash:00000", Name: "Root", Role: model.RoleAdministrator},
	)
	return NewAuthUseCase(users, testhelpers.PinHasherStub{})
}

func TestAuthenticateSuccess(t *testing.T) {
	uc := newAuthFixture()

	usr, err := uc.Authenticate(context.Background(), "alice", "12345")
	require.NoError(t, err)
	assert.True(t, usr.IsCustomer())
	require.NotNil(t, usr.AccountNumber)
	assert.Equal(t, int64(1001), *usr.AccountNumber)

	admin, err := uc.Authenticate(context.Background(), "root", "00000")
	require.NoError(t, err)
	assert.True(t, admin.IsAdministrator())
	assert.Nil(t, admin.AccountNumber)
}

func TestAuthenticateRejectsMalformedPinBeforeLookup(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	users.Err = errors.New("storage must not be touched")
	uc := NewAuthUseCase(users, testhelpers.PinHasherStub{})

	_, err := uc.Authenticate(context.Background(), "alice", "12a4")
	assert.ErrorIs(t, err, domainErrors.ErrMalformedPin)
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	uc := newAuthFixture()

	_, err := uc.Authenticate(context.Background(), "alice", "54321")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)

	_, err = uc.Authenticate(context.Background(), "nobody", "12345")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)

	_, err = uc.Authenticate(context.Background(), "   ", "12345")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
}

func TestAuthenticateMatchesLoginExactly(t *testing.T) {
	uc := newAuthFixture()

	for _, login := range []string{" alice", "alice ", "Alice", "ALICE"} {
		_, err := uc.Authenticate(context.Background(), login, "12345")
		assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials, "login %q", login)
	}
}

func TestAuthenticatePropagatesStorageFaults(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	fault := domainErrors.NewStorageError("find user", errors.New("connection reset"))
	users.Err = fault
	uc := NewAuthUseCase(users, testhelpers.PinHasherStub{})

	_, err := uc.Authenticate(context.Background(), "alice", "12345")
	assert.ErrorIs(t, err, domainErrors.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, domainErrors.ErrInvalidCredentials)
}
