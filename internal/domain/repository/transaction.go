package repository

import (
	"context"

	"github.com/polkiloo/atmterminal/internal/domain/model"
)

// TransactionRepository provides access to the append-only transaction log.
type TransactionRepository interface {
	Add(ctx context.Context, tx model.Transaction) (*model.Transaction, error)
	ListByAccount(ctx context.Context, number int64) ([]model.Transaction, error)
}
