package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
	"github.com/polkiloo/atmterminal/internal/domain/repository"
	pkgAuth "github.com/polkiloo/atmterminal/internal/pkg/auth"
)

// AuthUseCase resolves login and PIN into an ATM user.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PinHasher
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PinHasher) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher}
}

// Authenticate validates the PIN format before touching storage. Unknown
// logins and wrong PINs are indistinguishable to the caller.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, pin string) (*model.User, error) {
	if err := ValidatePin(pin); err != nil {
		return nil, err
	}

	if login == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := u.hasher.Compare(usr.PinCode, pin); err != nil {
		return nil, domainErrors.ErrInvalidCredentials
	}

	return usr, nil
}
