package app

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
	"github.com/polkiloo/atmterminal/internal/usecase"
)

// ATMFacade groups the use cases behind the operations offered to the console.
type ATMFacade struct {
	auth     *usecase.AuthUseCase
	ledger   *usecase.LedgerUseCase
	accounts *usecase.AccountUseCase
}

func NewATMFacade(auth *usecase.AuthUseCase, ledger *usecase.LedgerUseCase, accounts *usecase.AccountUseCase) *ATMFacade {
	return &ATMFacade{auth: auth, ledger: ledger, accounts: accounts}
}

func (f *ATMFacade) Login(ctx context.Context, login, pin string) (*model.User, error) {
	return f.auth.Authenticate(ctx, login, pin)
}

// CustomerAccount loads the account linked to a customer.
func (f *ATMFacade) CustomerAccount(ctx context.Context, user model.User) (*model.Account, error) {
	if !user.IsCustomer() || user.AccountNumber == nil {
		return nil, &domainErrors.OperationError{Op: "find account", Err: domainErrors.ErrNotFound}
	}
	return f.accounts.FindAccount(ctx, *user.AccountNumber)
}

// Withdraw reloads the account so the ledger checks run against current state.
func (f *ATMFacade) Withdraw(ctx context.Context, number int64, amount decimal.Decimal) (*model.Account, error) {
	account, err := f.accounts.FindAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	return f.ledger.Withdraw(ctx, *account, amount)
}

func (f *ATMFacade) Deposit(ctx context.Context, number int64, amount decimal.Decimal) (*model.Account, error) {
	account, err := f.accounts.FindAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	return f.ledger.Deposit(ctx, *account, amount)
}

func (f *ATMFacade) Balance(ctx context.Context, number int64) (decimal.Decimal, error) {
	return f.ledger.Balance(ctx, number)
}

// MiniStatement returns up to limit most recent transactions. A non-positive limit returns all.
func (f *ATMFacade) MiniStatement(ctx context.Context, number int64, limit int) ([]model.Transaction, error) {
	items, err := f.ledger.Statement(ctx, number)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *ATMFacade) CreateAccount(ctx context.Context, in usecase.NewCustomerAccount) (int64, error) {
	return f.accounts.CreateCustomerAccount(ctx, in)
}

func (f *ATMFacade) UpdateAccount(ctx context.Context, number int64, upd usecase.AccountUpdate) (*model.Account, error) {
	return f.accounts.UpdateAccountInfo(ctx, number, upd)
}

func (f *ATMFacade) DeleteAccount(ctx context.Context, number int64) error {
	return f.accounts.DeleteAccount(ctx, number)
}

func (f *ATMFacade) FindAccount(ctx context.Context, number int64) (*model.Account, error) {
	return f.accounts.FindAccount(ctx, number)
}

func (f *ATMFacade) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return f.accounts.ListAccounts(ctx)
}

func (f *ATMFacade) ProvisionAdministrator(ctx context.Context, login, pin, name string) (*model.User, error) {
	return f.accounts.ProvisionAdministrator(ctx, login, pin, name)
}
