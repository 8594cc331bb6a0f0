package terminal

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
	"github.com/polkiloo/atmterminal/internal/usecase"
)

// facadeStub answers with canned results and records the calls that mutate state.
type facadeStub struct {
	users    map[string]model.User
	accounts map[int64]model.Account
	history  []model.Transaction

	loginErr    error
	accountErr  error
	withdrawErr error
	createErr   error
	listErr     error

	nextNumber int64

	withdrawn []decimal.Decimal
	deposited []decimal.Decimal
	created   []usecase.NewCustomerAccount
	updated   []usecase.AccountUpdate
	deleted   []int64
	limit     int
}

func newFacadeStub() *facadeStub {
	number := int64(1)
	return &facadeStub{
		users: map[string]model.User{
			"alice": {ID: 1, Login: "alice", Name: "Alice", Role: model.RoleCustomer, AccountNumber: &number},
			"root":  {ID: 2, Login: "root", Name: "Root", Role: model.RoleAdministrator},
		},
		accounts: map[int64]model.Account{
			1: {Number: 1, HolderName: "Alice", Balance: decimal.NewFromInt(1000), Status: model.AccountStatusActive},
		},
		nextNumber: 7,
	}
}

func (f *facadeStub) Login(_ context.Context, login, pin string) (*model.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if err := usecase.ValidatePin(pin); err != nil {
		return nil, err
	}
	u, ok := f.users[login]
	if !ok {
		return nil, domainErrors.ErrInvalidCredentials
	}
	return &u, nil
}

func (f *facadeStub) CustomerAccount(ctx context.Context, user model.User) (*model.Account, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	if user.AccountNumber == nil {
		return nil, domainErrors.ErrNotFound
	}
	return f.FindAccount(ctx, *user.AccountNumber)
}

func (f *facadeStub) Withdraw(_ context.Context, number int64, amount decimal.Decimal) (*model.Account, error) {
	if f.withdrawErr != nil {
		return nil, f.withdrawErr
	}
	a := f.accounts[number]
	if err := a.Withdraw(amount); err != nil {
		return nil, &domainErrors.OperationError{Op: "withdraw", AccountNumber: number, Amount: amount, Err: err}
	}
	f.accounts[number] = a
	f.withdrawn = append(f.withdrawn, amount)
	return &a, nil
}

func (f *facadeStub) Deposit(_ context.Context, number int64, amount decimal.Decimal) (*model.Account, error) {
	a := f.accounts[number]
	if err := a.Deposit(amount); err != nil {
		return nil, &domainErrors.OperationError{Op: "deposit", AccountNumber: number, Amount: amount, Err: err}
	}
	f.accounts[number] = a
	f.deposited = append(f.deposited, amount)
	return &a, nil
}

func (f *facadeStub) Balance(_ context.Context, number int64) (decimal.Decimal, error) {
	a, ok := f.accounts[number]
	if !ok {
		return decimal.Zero, domainErrors.ErrNotFound
	}
	return a.Balance, nil
}

func (f *facadeStub) MiniStatement(_ context.Context, _ int64, limit int) ([]model.Transaction, error) {
	f.limit = limit
	return f.history, nil
}

func (f *facadeStub) CreateAccount(_ context.Context, in usecase.NewCustomerAccount) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, in)
	return f.nextNumber, nil
}

func (f *facadeStub) UpdateAccount(_ context.Context, number int64, upd usecase.AccountUpdate) (*model.Account, error) {
	a, ok := f.accounts[number]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	f.updated = append(f.updated, upd)
	return &a, nil
}

func (f *facadeStub) DeleteAccount(_ context.Context, number int64) error {
	if _, ok := f.accounts[number]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(f.accounts, number)
	f.deleted = append(f.deleted, number)
	return nil
}

func (f *facadeStub) FindAccount(_ context.Context, number int64) (*model.Account, error) {
	a, ok := f.accounts[number]
	if !ok {
		return nil, &domainErrors.OperationError{Op: "find", AccountNumber: number, Err: domainErrors.ErrNotFound}
	}
	return &a, nil
}

func (f *facadeStub) ListAccounts(context.Context) ([]model.Account, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]model.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		result = append(result, a)
	}
	return result, nil
}
