// Package memory keeps accounts, users and transactions in process memory.
// A single mutex serializes every operation, so each repository call is atomic.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
	"github.com/polkiloo/atmterminal/internal/domain/repository"
)

// Storage acts as repository facade backed by maps.
type Storage struct {
	mu sync.Mutex

	nextAccount int64
	nextUser    int64
	nextTx      int64

	accounts     map[int64]*model.Account
	users        map[string]*model.User
	transactions []model.Transaction

	now func() time.Time
}

type userRepository struct {
	storage *Storage
}

type accountRepository struct {
	storage *Storage
}

type transactionRepository struct {
	storage *Storage
}

// New creates an empty storage.
func New() *Storage {
	return &Storage{
		accounts: make(map[int64]*model.Account),
		users:    make(map[string]*model.User),
		now:      time.Now,
	}
}

// Close is a no-op kept for parity with the database backend.
func (s *Storage) Close() {}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Accounts() repository.AccountRepository {
	return &accountRepository{storage: s}
}

func (s *Storage) Transactions() repository.TransactionRepository {
	return &transactionRepository{storage: s}
}

func copyUser(u *model.User) *model.User {
	cp := *u
	if u.AccountNumber != nil {
		n := *u.AccountNumber
		cp.AccountNumber = &n
	}
	return &cp
}

// --- UserRepository implementation ---

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, domainErrors.NewStorageError("find user", err)
	}
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[login]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *userRepository) EnsureAdministrator(ctx context.Context, admin model.User) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, domainErrors.NewStorageError("ensure administrator", err)
	}
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[admin.Login]; ok {
		if !existing.IsAdministrator() {
			return nil, domainErrors.ErrDuplicateLogin
		}
		return copyUser(existing), nil
	}

	s.nextUser++
	admin.ID = s.nextUser
	admin.Role = model.RoleAdministrator
	admin.AccountNumber = nil
	s.users[admin.Login] = &admin
	return copyUser(&admin), nil
}

// --- AccountRepository implementation ---

func (r *accountRepository) Find(ctx context.Context, number int64) (*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, domainErrors.NewStorageError("find account", err)
	}
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[number]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *accountRepository) List(ctx context.Context) ([]model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, domainErrors.NewStorageError("list accounts", err)
	}
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	slices.SortFunc(out, func(a, b model.Account) int { return cmp.Compare(a.Number, b.Number) })
	return out, nil
}

func (r *accountRepository) Create(ctx context.Context, customer model.User, account model.Account) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, domainErrors.NewStorageError("create account", err)
	}
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.users[customer.Login]; taken {
		return 0, domainErrors.ErrDuplicateLogin
	}
	if account.Balance.IsNegative() || !account.Status.Valid() {
		return 0, &domainErrors.StorageError{Op: "create account", Kind: domainErrors.ErrConstraintViolated}
	}

	s.nextAccount++
	number := s.nextAccount
	account.Number = number
	s.accounts[number] = &account

	s.nextUser++
	customer.ID = s.nextUser
	customer.Role = model.RoleCustomer
	customer.AccountNumber = &number
	s.users[customer.Login] = &customer

	return number, nil
}

func (r *accountRepository) Update(ctx context.Context, account model.Account) error {
	if err := ctx.Err(); err != nil {
		return domainErrors.NewStorageError("update account", err)
	}
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.Number]; !ok {
		return domainErrors.ErrNotFound
	}
	if account.Balance.IsNegative() || !account.Status.Valid() {
		return &domainErrors.StorageError{Op: "update account", Kind: domainErrors.ErrConstraintViolated}
	}
	s.accounts[account.Number] = &account
	return nil
}

func (r *accountRepository) ApplyBalanceChange(ctx context.Context, number int64, delta decimal.Decimal) (*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, domainErrors.NewStorageError("apply balance change", err)
	}
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[number]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if !a.CanTransact() {
		return nil, domainErrors.ErrAccountInactive
	}
	next := a.Balance.Add(delta)
	if next.IsNegative() {
		return nil, domainErrors.ErrInsufficientFunds
	}
	if next.GreaterThan(model.MaxMoney) {
		return nil, &domainErrors.StorageError{Op: "apply balance change", Kind: domainErrors.ErrConstraintViolated}
	}
	a.Balance = next
	cp := *a
	return &cp, nil
}

// Delete removes the account and unlinks its customer. Users and
// transactions stay in place.
func (r *accountRepository) Delete(ctx context.Context, number int64) error {
	if err := ctx.Err(); err != nil {
		return domainErrors.NewStorageError("delete account", err)
	}
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[number]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.accounts, number)
	for _, u := range s.users {
		if u.AccountNumber != nil && *u.AccountNumber == number {
			u.AccountNumber = nil
		}
	}
	return nil
}

// --- TransactionRepository implementation ---

func (r *transactionRepository) Add(ctx context.Context, tx model.Transaction) (*model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, domainErrors.NewStorageError("add transaction", err)
	}
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if !tx.Amount.IsPositive() {
		return nil, &domainErrors.StorageError{Op: "add transaction", Kind: domainErrors.ErrConstraintViolated}
	}

	s.nextTx++
	tx.ID = s.nextTx
	tx.Date = s.now()
	s.transactions = append(s.transactions, tx)
	cp := tx
	return &cp, nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, number int64) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, domainErrors.NewStorageError("list transactions", err)
	}
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Transaction
	for _, tx := range s.transactions {
		if tx.AccountNumber == number {
			out = append(out, tx)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}
