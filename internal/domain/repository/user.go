package repository

import (
	"context"

	"github.com/polkiloo/atmterminal/internal/domain/model"
)

// UserRepository describes persistence operations for ATM users.
type UserRepository interface {
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	// EnsureAdministrator stores admin unless the login is taken and returns the stored user.
	EnsureAdministrator(ctx context.Context, admin model.User) (*model.User, error)
}
