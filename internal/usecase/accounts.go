package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
	"github.com/polkiloo/atmterminal/internal/domain/repository"
	pkgAuth "github.com/polkiloo/atmterminal/internal/pkg/auth"
)

// NewCustomerAccount carries the administrator input for account creation.
type NewCustomerAccount struct {
	Login           string
	Pin             string
	HolderName      string
	StartingBalance decimal.Decimal
	// Status defaults to Active when empty.
	Status model.AccountStatus
}

// AccountUpdate lists the fields an administrator may change. Nil or blank keeps the current value.
type AccountUpdate struct {
	HolderName *string
	Status     *model.AccountStatus
}

// AccountUseCase implements administrator account management.
type AccountUseCase struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
	hasher   pkgAuth.PinHasher
}

// NewAccountUseCase constructs AccountUseCase.
func NewAccountUseCase(users repository.UserRepository, accounts repository.AccountRepository, hasher pkgAuth.PinHasher) *AccountUseCase {
	return &AccountUseCase{users: users, accounts: accounts, hasher: hasher}
}

// CreateCustomerAccount registers a customer together with a new account and
// returns the assigned account number.
func (u *AccountUseCase) CreateCustomerAccount(ctx context.Context, in NewCustomerAccount) (int64, error) {
	fail := func(err error) error {
		return &domainErrors.OperationError{Op: "create account", Amount: in.StartingBalance, Err: err}
	}

	login := strings.TrimSpace(in.Login)
	if login == "" {
		return 0, fail(domainErrors.ErrInvalidLogin)
	}
	if err := ValidatePin(in.Pin); err != nil {
		return 0, fail(domainErrors.ErrInvalidPin)
	}
	holder := strings.TrimSpace(in.HolderName)
	if holder == "" {
		return 0, fail(domainErrors.ErrInvalidHolderName)
	}
	if err := validateStartingBalance(in.StartingBalance); err != nil {
		return 0, fail(err)
	}
	status := in.Status
	if status == "" {
		status = model.AccountStatusActive
	}
	if status != model.AccountStatusActive && status != model.AccountStatusDisabled {
		return 0, fail(domainErrors.ErrInvalidStatus)
	}

	if _, err := u.users.FindByLogin(ctx, login); err == nil {
		return 0, fail(domainErrors.ErrDuplicateLogin)
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return 0, fail(err)
	}

	pinCode, err := u.hasher.Hash(in.Pin)
	if err != nil {
		return 0, fail(err)
	}

	customer := model.User{Login: login, PinCode: pinCode, Name: holder, Role: model.RoleCustomer}
	account := model.Account{HolderName: holder, Balance: in.StartingBalance, Status: status}

	number, err := u.accounts.Create(ctx, customer, account)
	if err != nil {
		return 0, fail(err)
	}
	return number, nil
}

// UpdateAccountInfo changes holder name and status. Closed accounts keep their status.
func (u *AccountUseCase) UpdateAccountInfo(ctx context.Context, number int64, upd AccountUpdate) (*model.Account, error) {
	fail := func(err error) error {
		return &domainErrors.OperationError{Op: "update", AccountNumber: number, Err: err}
	}

	account, err := u.accounts.Find(ctx, number)
	if err != nil {
		return nil, fail(err)
	}

	if upd.HolderName != nil {
		if name := strings.TrimSpace(*upd.HolderName); name != "" {
			account.HolderName = name
		}
	}

	if upd.Status != nil && *upd.Status != "" {
		target := *upd.Status
		if !target.Valid() || target == model.AccountStatusClosed || account.Status == model.AccountStatusClosed {
			return nil, fail(domainErrors.ErrInvalidStatus)
		}
		account.Status = target
	}

	if err := u.accounts.Update(ctx, *account); err != nil {
		return nil, fail(err)
	}
	return account, nil
}

// DeleteAccount removes the account. The owning user record is kept.
func (u *AccountUseCase) DeleteAccount(ctx context.Context, number int64) error {
	if err := u.accounts.Delete(ctx, number); err != nil {
		return &domainErrors.OperationError{Op: "delete", AccountNumber: number, Err: err}
	}
	return nil
}

// FindAccount looks up an account by number.
func (u *AccountUseCase) FindAccount(ctx context.Context, number int64) (*model.Account, error) {
	account, err := u.accounts.Find(ctx, number)
	if err != nil {
		return nil, &domainErrors.OperationError{Op: "find", AccountNumber: number, Err: err}
	}
	return account, nil
}

// ListAccounts returns every account ordered by number.
func (u *AccountUseCase) ListAccounts(ctx context.Context) ([]model.Account, error) {
	accounts, err := u.accounts.List(ctx)
	if err != nil {
		return nil, &domainErrors.OperationError{Op: "list accounts", Err: err}
	}
	return accounts, nil
}

// ProvisionAdministrator makes sure an administrator with login exists.
func (u *AccountUseCase) ProvisionAdministrator(ctx context.Context, login, pin, name string) (*model.User, error) {
	fail := func(err error) error {
		return &domainErrors.OperationError{Op: "provision administrator", Err: err}
	}

	login = strings.TrimSpace(login)
	if login == "" {
		return nil, fail(domainErrors.ErrInvalidLogin)
	}
	if err := ValidatePin(pin); err != nil {
		return nil, fail(domainErrors.ErrInvalidPin)
	}

	pinCode, err := u.hasher.Hash(pin)
	if err != nil {
		return nil, fail(err)
	}

	admin, err := u.users.EnsureAdministrator(ctx, model.User{
		Login:   login,
		PinCode: pinCode,
		Name:    strings.TrimSpace(name),
		Role:    model.RoleAdministrator,
	})
	if err != nil {
		return nil, fail(err)
	}
	return admin, nil
}
