package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
	"github.com/polkiloo/atmterminal/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

const uniqueViolation = "23505"

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
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

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres storage ready", slog.String("host", cfg.ConnConfig.Host))
	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

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

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
            account_number BIGSERIAL PRIMARY KEY,
            holder_name TEXT NOT NULL,
            balance NUMERIC(18,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
            status TEXT NOT NULL CHECK (status IN ('Active', 'Disabled', 'Closed'))
        )`,
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            pin_code TEXT NOT NULL,
            name TEXT NOT NULL,
            user_type TEXT NOT NULL CHECK (user_type IN ('Customer', 'Administrator'))
        )`,
		`CREATE TABLE IF NOT EXISTS customer_accounts (
            user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            account_number BIGINT NOT NULL UNIQUE REFERENCES accounts(account_number) ON DELETE CASCADE
        )`,
		`CREATE TABLE IF NOT EXISTS transactions (
            id BIGSERIAL PRIMARY KEY,
            account_number BIGINT NOT NULL,
            transaction_type TEXT NOT NULL CHECK (transaction_type IN ('Withdrawal', 'Deposit')),
            amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
            transaction_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            balance_after NUMERIC(18,2) NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_number, transaction_date DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// storageError converts a driver error into the domain storage fault.
// Domain errors produced inside a transaction pass through unchanged.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *domainErrors.StorageError
	if errors.As(err, &se) {
		return err
	}
	switch domainErrors.KindOf(err) {
	case domainErrors.KindDomain, domainErrors.KindValidation:
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isDataRejection(pgErr.Code) {
		return &domainErrors.StorageError{Op: op, Kind: domainErrors.ErrConstraintViolated, Err: err}
	}
	return domainErrors.NewStorageError(op, err)
}

// isDataRejection reports integrity violations (class 23) and data
// exceptions such as numeric overflow (class 22).
func isDataRejection(code string) bool {
	return strings.HasPrefix(code, "23") || strings.HasPrefix(code, "22")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func parseMoney(raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse money %q: %w", raw, err)
	}
	return v, nil
}

// --- UserRepository implementation ---

const selectUserByLogin = `SELECT u.id, u.login, u.pin_code, u.name, u.user_type, ca.account_number
                           FROM users u
                           LEFT JOIN customer_accounts ca ON ca.user_id = u.id
                           WHERE u.login=$1`

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var (
		u       model.User
		role    string
		account pgtype.Int8
	)
	err := r.storage.pool.QueryRow(ctx, selectUserByLogin, login).Scan(&u.ID, &u.Login, &u.PinCode, &u.Name, &role, &account)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, storageError("find user", err)
	}
	u.Role = model.Role(role)
	if account.Valid && u.Role == model.RoleCustomer {
		number := account.Int64
		u.AccountNumber = &number
	}
	return &u, nil
}

func (r *userRepository) EnsureAdministrator(ctx context.Context, admin model.User) (*model.User, error) {
	const query = `INSERT INTO users (login, pin_code, name, user_type) VALUES ($1, $2, $3, $4)
                   ON CONFLICT (login) DO NOTHING`
	if _, err := r.storage.pool.Exec(ctx, query, admin.Login, admin.PinCode, admin.Name, string(model.RoleAdministrator)); err != nil {
		return nil, storageError("ensure administrator", err)
	}

	stored, err := r.FindByLogin(ctx, admin.Login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NewStorageError("ensure administrator", err)
		}
		return nil, err
	}
	if !stored.IsAdministrator() {
		return nil, domainErrors.ErrDuplicateLogin
	}
	return stored, nil
}

// --- AccountRepository implementation ---

func scanAccount(row pgx.Row) (*model.Account, error) {
	var (
		a       model.Account
		balance string
		status  string
	)
	if err := row.Scan(&a.Number, &a.HolderName, &balance, &status); err != nil {
		return nil, err
	}
	var err error
	if a.Balance, err = parseMoney(balance); err != nil {
		return nil, err
	}
	a.Status = model.AccountStatus(status)
	return &a, nil
}

func (r *accountRepository) Find(ctx context.Context, number int64) (*model.Account, error) {
	const query = `SELECT account_number, holder_name, balance::text, status FROM accounts WHERE account_number=$1`
	a, err := scanAccount(r.storage.pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, storageError("find account", err)
	}
	return a, nil
}

func (r *accountRepository) List(ctx context.Context) ([]model.Account, error) {
	const query = `SELECT account_number, holder_name, balance::text, status FROM accounts ORDER BY account_number`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, storageError("list accounts", err)
	}
	defer rows.Close()

	var result []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, storageError("list accounts", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list accounts", err)
	}
	return result, nil
}

// Create inserts the account, the customer and the link in one transaction.
func (r *accountRepository) Create(ctx context.Context, customer model.User, account model.Account) (int64, error) {
	const (
		insertAccount = `INSERT INTO accounts (holder_name, balance, status) VALUES ($1, $2, $3) RETURNING account_number`
		insertUser    = `INSERT INTO users (login, pin_code, name, user_type) VALUES ($1, $2, $3, $4) RETURNING id`
		insertLink    = `INSERT INTO customer_accounts (user_id, account_number) VALUES ($1, $2)`
	)

	var number int64
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertAccount, account.HolderName, account.Balance.String(), string(account.Status)).Scan(&number); err != nil {
			return storageError("insert account", err)
		}

		var userID int64
		if err := tx.QueryRow(ctx, insertUser, customer.Login, customer.PinCode, customer.Name, string(model.RoleCustomer)).Scan(&userID); err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrDuplicateLogin
			}
			return storageError("insert customer", err)
		}

		if _, err := tx.Exec(ctx, insertLink, userID, number); err != nil {
			return storageError("link customer", err)
		}
		return nil
	})
	if err != nil {
		return 0, storageError("create account", err)
	}
	return number, nil
}

func (r *accountRepository) Update(ctx context.Context, account model.Account) error {
	const query = `UPDATE accounts SET holder_name=$2, balance=$3, status=$4 WHERE account_number=$1`
	tag, err := r.storage.pool.Exec(ctx, query, account.Number, account.HolderName, account.Balance.String(), string(account.Status))
	if err != nil {
		return storageError("update account", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// ApplyBalanceChange updates the balance with a single guarded statement.
// When nothing matches, the reason is read back in the same transaction.
func (r *accountRepository) ApplyBalanceChange(ctx context.Context, number int64, delta decimal.Decimal) (*model.Account, error) {
	const (
		updateQuery = `UPDATE accounts SET balance = balance + $2::numeric
                       WHERE account_number=$1 AND status='Active' AND balance + $2::numeric >= 0
                       RETURNING account_number, holder_name, balance::text, status`
		statusQuery = `SELECT status FROM accounts WHERE account_number=$1`
	)

	var updated *model.Account
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		a, err := scanAccount(tx.QueryRow(ctx, updateQuery, number, delta.String()))
		if err == nil {
			updated = a
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return storageError("apply balance change", err)
		}

		var status string
		if err := tx.QueryRow(ctx, statusQuery, number).Scan(&status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return storageError("apply balance change", err)
		}
		if model.AccountStatus(status) != model.AccountStatusActive {
			return domainErrors.ErrAccountInactive
		}
		return domainErrors.ErrInsufficientFunds
	})
	if err != nil {
		return nil, storageError("apply balance change", err)
	}
	return updated, nil
}

// Delete removes the account row. The customer link cascades, the user row
// and the transaction history stay.
func (r *accountRepository) Delete(ctx context.Context, number int64) error {
	const query = `DELETE FROM accounts WHERE account_number=$1`
	tag, err := r.storage.pool.Exec(ctx, query, number)
	if err != nil {
		return storageError("delete account", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- TransactionRepository implementation ---

func (r *transactionRepository) Add(ctx context.Context, tx model.Transaction) (*model.Transaction, error) {
	const query = `INSERT INTO transactions (account_number, transaction_type, amount, balance_after)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id, transaction_date`
	err := r.storage.pool.QueryRow(ctx, query, tx.AccountNumber, string(tx.Type), tx.Amount.String(), tx.BalanceAfter.String()).Scan(&tx.ID, &tx.Date)
	if err != nil {
		return nil, storageError("add transaction", err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, number int64) ([]model.Transaction, error) {
	const query = `SELECT id, account_number, transaction_type, amount::text, balance_after::text, transaction_date
                   FROM transactions WHERE account_number=$1 ORDER BY transaction_date DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query, number)
	if err != nil {
		return nil, storageError("list transactions", err)
	}
	defer rows.Close()

	var result []model.Transaction
	for rows.Next() {
		var (
			t            model.Transaction
			kind         string
			amount       string
			balanceAfter string
		)
		if err := rows.Scan(&t.ID, &t.AccountNumber, &kind, &amount, &balanceAfter, &t.Date); err != nil {
			return nil, storageError("list transactions", err)
		}
		t.Type = model.TransactionType(kind)
		if t.Amount, err = parseMoney(amount); err != nil {
			return nil, storageError("list transactions", err)
		}
		if t.BalanceAfter, err = parseMoney(balanceAfter); err != nil {
			return nil, storageError("list transactions", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list transactions", err)
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
