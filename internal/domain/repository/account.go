package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/atmterminal/internal/domain/model"
)

// AccountRepository describes persistence operations with accounts.
// Absence is reported as errors.ErrNotFound, never as a nil result.
type AccountRepository interface {
	Find(ctx context.Context, number int64) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	// Create stores the account, the customer user and their link atomically
	// and returns the generated account number.
	Create(ctx context.Context, customer model.User, account model.Account) (int64, error)
	Update(ctx context.Context, account model.Account) error
	// ApplyBalanceChange adds delta to an Active account unless the result would be negative.
	ApplyBalanceChange(ctx context.Context, number int64, delta decimal.Decimal) (*model.Account, error)
	Delete(ctx context.Context, number int64) error
}
