package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType describes the direction of a ledger movement.
type TransactionType string

const (
	TransactionWithdrawal TransactionType = "Withdrawal"
	TransactionDeposit    TransactionType = "Deposit"
)

// Transaction is an append-only record of a successful balance change.
type Transaction struct {
	ID            int64
	AccountNumber int64
	Type          TransactionType
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	Date          time.Time
}
