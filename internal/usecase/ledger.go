package usecase

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
	"github.com/polkiloo/atmterminal/internal/domain/repository"
)

// LedgerUseCase moves money in and out of accounts and records each movement.
type LedgerUseCase struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	logger       *slog.Logger
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(accounts repository.AccountRepository, transactions repository.TransactionRepository, logger *slog.Logger) *LedgerUseCase {
	return &LedgerUseCase{accounts: accounts, transactions: transactions, logger: logger}
}

// Withdraw takes amount from the account and returns its new state.
func (u *LedgerUseCase) Withdraw(ctx context.Context, account model.Account, amount decimal.Decimal) (*model.Account, error) {
	return u.apply(ctx, "withdraw", account, amount, model.TransactionWithdrawal)
}

// Deposit adds amount to the account and returns its new state.
func (u *LedgerUseCase) Deposit(ctx context.Context, account model.Account, amount decimal.Decimal) (*model.Account, error) {
	return u.apply(ctx, "deposit", account, amount, model.TransactionDeposit)
}

func (u *LedgerUseCase) apply(ctx context.Context, op string, account model.Account, amount decimal.Decimal, kind model.TransactionType) (*model.Account, error) {
	fail := func(err error) error {
		return &domainErrors.OperationError{Op: op, AccountNumber: account.Number, Amount: amount, Err: err}
	}

	if err := ValidateAmount(amount); err != nil {
		return nil, fail(err)
	}

	// Reject early on the caller's snapshot; storage re-checks against current state.
	snapshot := account
	delta := amount
	if kind == model.TransactionWithdrawal {
		if err := snapshot.Withdraw(amount); err != nil {
			return nil, fail(err)
		}
		delta = amount.Neg()
	} else if err := snapshot.Deposit(amount); err != nil {
		return nil, fail(err)
	}

	updated, err := u.accounts.ApplyBalanceChange(ctx, account.Number, delta)
	if err != nil {
		return nil, fail(err)
	}

	u.record(ctx, model.Transaction{
		AccountNumber: updated.Number,
		Type:          kind,
		Amount:        amount,
		BalanceAfter:  updated.Balance,
	})

	return updated, nil
}

// record appends to the transaction log. The balance change is already
// committed, so a failed append is logged and not reported to the caller.
func (u *LedgerUseCase) record(ctx context.Context, tx model.Transaction) {
	if _, err := u.transactions.Add(ctx, tx); err != nil {
		u.logger.WarnContext(ctx, "failed to record transaction",
			slog.Int64("account", tx.AccountNumber),
			slog.String("type", string(tx.Type)),
			slog.String("amount", tx.Amount.String()),
			slog.Any("error", err),
		)
	}
}

// Balance returns the current balance of the account.
func (u *LedgerUseCase) Balance(ctx context.Context, number int64) (decimal.Decimal, error) {
	account, err := u.accounts.Find(ctx, number)
	if err != nil {
		return decimal.Zero, &domainErrors.OperationError{Op: "balance", AccountNumber: number, Err: err}
	}
	return account.Balance, nil
}

// Statement returns the account transactions, newest first.
func (u *LedgerUseCase) Statement(ctx context.Context, number int64) ([]model.Transaction, error) {
	items, err := u.transactions.ListByAccount(ctx, number)
	if err != nil {
		return nil, &domainErrors.OperationError{Op: "statement", AccountNumber: number, Err: err}
	}
	return items, nil
}
