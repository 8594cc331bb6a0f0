package test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
	"github.com/polkiloo/atmterminal/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub(users ...model.User) *UserRepositoryStub {
	s := &UserRepositoryStub{Users: make(map[string]*model.User), Next: 1}
	for _, u := range users {
		u := u
		if u.ID == 0 {
			u.ID = s.Next
		}
		s.Next = u.ID + 1
		s.Users[u.Login] = &u
	}
	return s
}

// FindByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// EnsureAdministrator stores admin unless the login is taken.
func (s *UserRepositoryStub) EnsureAdministrator(ctx context.Context, admin model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if existing, ok := s.Users[admin.Login]; ok {
		if !existing.IsAdministrator() {
			return nil, domainErrors.ErrDuplicateLogin
		}
		copied := *existing
		return &copied, nil
	}
	if s.Next == 0 {
		s.Next = 1
	}
	admin.ID = s.Next
	admin.AccountNumber = nil
	s.Next++
	s.Users[admin.Login] = &admin
	copied := admin
	return &copied, nil
}

// MockAccountRepository is a testify mock of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Find(ctx context.Context, number int64) (*model.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, customer model.User, account model.Account) (int64, error) {
	args := m.Called(ctx, customer, account)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, account model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) ApplyBalanceChange(ctx context.Context, number int64, delta decimal.Decimal) (*model.Account, error) {
	args := m.Called(ctx, number, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) Delete(ctx context.Context, number int64) error {
	args := m.Called(ctx, number)
	return args.Error(0)
}

// MockTransactionRepository is a testify mock of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Add(ctx context.Context, tx model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, number int64) ([]model.Transaction, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

var (
	_ repository.UserRepository        = (*UserRepositoryStub)(nil)
	_ repository.AccountRepository     = (*MockAccountRepository)(nil)
	_ repository.TransactionRepository = (*MockTransactionRepository)(nil)
)
