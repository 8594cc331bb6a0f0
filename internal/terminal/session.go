// Package terminal implements the interactive ATM console.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
	"github.com/polkiloo/atmterminal/internal/usecase"
)

// Facade exposes the ledger and administration operations used by the console.
type Facade interface {
	Login(ctx context.Context, login, pin string) (*model.User, error)
	CustomerAccount(ctx context.Context, user model.User) (*model.Account, error)
	Withdraw(ctx context.Context, number int64, amount decimal.Decimal) (*model.Account, error)
	Deposit(ctx context.Context, number int64, amount decimal.Decimal) (*model.Account, error)
	Balance(ctx context.Context, number int64) (decimal.Decimal, error)
	MiniStatement(ctx context.Context, number int64, limit int) ([]model.Transaction, error)
	CreateAccount(ctx context.Context, in usecase.NewCustomerAccount) (int64, error)
	UpdateAccount(ctx context.Context, number int64, upd usecase.AccountUpdate) (*model.Account, error)
	DeleteAccount(ctx context.Context, number int64) error
	FindAccount(ctx context.Context, number int64) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
}

const (
	miniStatementSize = 10
	dateLayout        = "01/02/2006"
)

// Session drives one console: a login loop followed by the menu of the
// authenticated role. It is not safe for concurrent use.
type Session struct {
	facade Facade
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
	lines  chan inputLine
}

type inputLine struct {
	text string
	err  error
}

// New constructs Session reading commands from in and writing to out.
func New(facade Facade, in io.Reader, out io.Writer, logger *slog.Logger) *Session {
	return &Session{
		facade: facade,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
		now:    time.Now,
	}
}

// Run serves users until input ends, a user declines to retry a failed
// login, or ctx is done. End of input is a normal exit.
func (s *Session) Run(ctx context.Context) error {
	err := s.loop(ctx)
	fmt.Fprintln(s.out, msgGoodbye)
	if err == nil || errors.Is(err, io.EOF) || ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Session) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, msgWelcome)
		fmt.Fprintln(s.out, msgSeparator)

		user, err := s.login(ctx)
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return err
		}
		if err != nil {
			fmt.Fprintln(s.out, describe(err))
			answer, err := s.prompt(ctx, msgTryAgain)
			if err != nil {
				return err
			}
			if !strings.EqualFold(answer, "y") {
				return nil
			}
			continue
		}

		if err := s.serve(ctx, user); err != nil {
			return err
		}
	}
}

func (s *Session) login(ctx context.Context) (*model.User, error) {
	login, err := s.prompt(ctx, "Enter login: ")
	if err != nil {
		return nil, err
	}
	pin, err := s.prompt(ctx, "Enter Pin code: ")
	if err != nil {
		return nil, err
	}

	user, err := s.facade.Login(ctx, login, pin)
	if err != nil {
		s.logger.WarnContext(ctx, "login failed",
			slog.String("login", login),
			slog.String("kind", domainErrors.KindOf(err).String()),
		)
		return nil, err
	}
	return user, nil
}

func (s *Session) serve(ctx context.Context, user *model.User) error {
	logger := s.logger.With(
		slog.String("session_id", uuid.NewString()),
		slog.String("login", user.Login),
		slog.String("role", string(user.Role)),
	)
	logger.InfoContext(ctx, "session started")
	defer logger.InfoContext(ctx, "session ended")

	switch {
	case user.IsAdministrator():
		return s.adminMenu(ctx, user, logger)
	case user.IsCustomer():
		return s.customerMenu(ctx, user, logger)
	}
	fmt.Fprintln(s.out, msgOperationFailed)
	return nil
}

// --- customer menu ---

type cashOperation struct {
	prompt  string
	success string
	label   string
	event   string
	apply   func(ctx context.Context, number int64, amount decimal.Decimal) (*model.Account, error)
}

func (s *Session) customerMenu(ctx context.Context, user *model.User, logger *slog.Logger) error {
	account, err := s.facade.CustomerAccount(ctx, *user)
	if err != nil {
		if domainErrors.KindOf(err) == domainErrors.KindStorage {
			s.report(ctx, logger, err)
			return nil
		}
		fmt.Fprintln(s.out, msgAccountMissing)
		return nil
	}
	number := account.Number

	withdraw := cashOperation{
		prompt:  "Enter the withdrawal amount: ",
		success: "Cash Successfully Withdrawn",
		label:   "Withdrawn",
		event:   "cash withdrawn",
		apply:   s.facade.Withdraw,
	}
	deposit := cashOperation{
		prompt:  "Enter the cash amount to deposit: ",
		success: "Cash Deposited Successfully.",
		label:   "Deposited",
		event:   "cash deposited",
		apply:   s.facade.Deposit,
	}

	for {
		fmt.Fprintln(s.out)
		fmt.Fprintf(s.out, "Welcome, %s\n", user.Name)
		fmt.Fprintln(s.out, msgSeparator)
		fmt.Fprintln(s.out, "1----Withdraw Cash")
		fmt.Fprintln(s.out, "2----Mini Statement")
		fmt.Fprintln(s.out, "3----Deposit Cash")
		fmt.Fprintln(s.out, "4----Display Balance")
		fmt.Fprintln(s.out, "5----Exit")

		choice, err := s.prompt(ctx, msgSelectOption)
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.moveCash(ctx, number, withdraw, logger)
		case "2":
			s.miniStatement(ctx, number, logger)
		case "3":
			err = s.moveCash(ctx, number, deposit, logger)
		case "4":
			s.displayBalance(ctx, number, logger)
		case "5":
			return nil
		default:
			fmt.Fprintln(s.out, msgInvalidOption)
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) moveCash(ctx context.Context, number int64, op cashOperation, logger *slog.Logger) error {
	line, err := s.prompt(ctx, op.prompt)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(line)
	if err != nil {
		fmt.Fprintln(s.out, msgInvalidAmountInput)
		return nil
	}

	account, err := op.apply(ctx, number, amount)
	if err != nil {
		s.report(ctx, logger, err)
		return nil
	}

	logger.InfoContext(ctx, op.event,
		slog.Int64("account", number),
		slog.String("amount", amount.String()),
	)
	fmt.Fprintln(s.out, op.success)
	fmt.Fprintf(s.out, "Account #%d\n", account.Number)
	fmt.Fprintf(s.out, "Date: %s\n", s.now().Format(dateLayout))
	fmt.Fprintf(s.out, "%s: %s\n", op.label, money(amount))
	fmt.Fprintf(s.out, "Balance: %s\n", money(account.Balance))
	return nil
}

func (s *Session) miniStatement(ctx context.Context, number int64, logger *slog.Logger) {
	items, err := s.facade.MiniStatement(ctx, number, miniStatementSize)
	if err != nil {
		s.report(ctx, logger, err)
		return
	}

	fmt.Fprintf(s.out, "Mini Statement - Account #%d\n", number)
	if len(items) == 0 {
		fmt.Fprintln(s.out, msgNoTransactions)
		return
	}
	fmt.Fprintf(s.out, "%-12s %-10s %12s %12s\n", "Date", "Type", "Amount", "Balance")
	for _, t := range items {
		fmt.Fprintf(s.out, "%-12s %-10s %12s %12s\n", t.Date.Format(dateLayout), t.Type, money(t.Amount), money(t.BalanceAfter))
	}
}

func (s *Session) displayBalance(ctx context.Context, number int64, logger *slog.Logger) {
	balance, err := s.facade.Balance(ctx, number)
	if err != nil {
		s.report(ctx, logger, err)
		return
	}
	fmt.Fprintf(s.out, "Account #%d\n", number)
	fmt.Fprintf(s.out, "Date: %s\n", s.now().Format(dateLayout))
	fmt.Fprintf(s.out, "Balance: %s\n", money(balance))
}

// --- administrator menu ---

func (s *Session) adminMenu(ctx context.Context, user *model.User, logger *slog.Logger) error {
	for {
		fmt.Fprintln(s.out)
		fmt.Fprintf(s.out, "Administrator Menu - %s\n", user.Name)
		fmt.Fprintln(s.out, msgSeparator)
		fmt.Fprintln(s.out, "1----Create New Account")
		fmt.Fprintln(s.out, "2----Delete Existing Account")
		fmt.Fprintln(s.out, "3----Update Account Information")
		fmt.Fprintln(s.out, "4----Search for Account")
		fmt.Fprintln(s.out, "5----List All Accounts")
		fmt.Fprintln(s.out, "6----Exit")

		choice, err := s.prompt(ctx, msgSelectOption)
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.createAccount(ctx, logger)
		case "2":
			err = s.deleteAccount(ctx, logger)
		case "3":
			err = s.updateAccount(ctx, logger)
		case "4":
			err = s.searchAccount(ctx, logger)
		case "5":
			s.listAccounts(ctx, logger)
		case "6":
			return nil
		default:
			fmt.Fprintln(s.out, msgInvalidOption)
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) createAccount(ctx context.Context, logger *slog.Logger) error {
	fmt.Fprintln(s.out, "Create New Account")
	fmt.Fprintln(s.out, "-----------------")

	login, err := s.prompt(ctx, "Login: ")
	if err != nil {
		return err
	}
	pin, err := s.prompt(ctx, "Pin Code: ")
	if err != nil {
		return err
	}
	if err := usecase.ValidatePin(pin); err != nil {
		fmt.Fprintln(s.out, describe(err))
		return nil
	}
	holder, err := s.prompt(ctx, "Holders Name: ")
	if err != nil {
		return err
	}
	rawBalance, err := s.prompt(ctx, "Starting Balance: ")
	if err != nil {
		return err
	}
	balance, err := decimal.NewFromString(rawBalance)
	if err != nil {
		fmt.Fprintln(s.out, msgInvalidBalanceInput)
		return nil
	}
	rawStatus, err := s.prompt(ctx, "Status (Active/Disabled): ")
	if err != nil {
		return err
	}
	var status model.AccountStatus
	if rawStatus != "" {
		if status, err = model.ParseAccountStatus(rawStatus); err != nil {
			fmt.Fprintln(s.out, describe(err))
			return nil
		}
	}

	number, err := s.facade.CreateAccount(ctx, usecase.NewCustomerAccount{
		Login:           login,
		Pin:             pin,
		HolderName:      holder,
		StartingBalance: balance,
		Status:          status,
	})
	if err != nil {
		s.report(ctx, logger, err)
		return nil
	}

	logger.InfoContext(ctx, "account created", slog.Int64("account", number), slog.String("customer", login))
	fmt.Fprintf(s.out, "Account Successfully Created -- the account number assigned is: %d\n", number)
	return nil
}

func (s *Session) deleteAccount(ctx context.Context, logger *slog.Logger) error {
	fmt.Fprintln(s.out, "Delete Existing Account")
	fmt.Fprintln(s.out, "----------------------")

	number, ok, err := s.promptAccountNumber(ctx, "Enter the account number to which you want to delete: ")
	if err != nil || !ok {
		return err
	}
	account, err := s.facade.FindAccount(ctx, number)
	if err != nil {
		s.report(ctx, logger, err)
		return nil
	}

	fmt.Fprintf(s.out, "You wish to delete the account held by %s. If this information is correct, please re-enter the account number: ", account.HolderName)
	confirm, err := s.readLine(ctx)
	if err != nil {
		return err
	}
	if n, parseErr := strconv.ParseInt(confirm, 10, 64); parseErr != nil || n != number {
		fmt.Fprintln(s.out, msgDeletionCancelled)
		return nil
	}

	if err := s.facade.DeleteAccount(ctx, number); err != nil {
		s.report(ctx, logger, err)
		return nil
	}
	logger.InfoContext(ctx, "account deleted", slog.Int64("account", number))
	fmt.Fprintln(s.out, "Account Deleted Successfully")
	return nil
}

func (s *Session) updateAccount(ctx context.Context, logger *slog.Logger) error {
	fmt.Fprintln(s.out, "Update Account Information")
	fmt.Fprintln(s.out, "-------------------------")

	number, ok, err := s.promptAccountNumber(ctx, "Enter the Account Number: ")
	if err != nil || !ok {
		return err
	}
	account, err := s.facade.FindAccount(ctx, number)
	if err != nil {
		s.report(ctx, logger, err)
		return nil
	}
	s.printAccount(account)

	holder, err := s.prompt(ctx, "New Holder Name (leave blank to keep current): ")
	if err != nil {
		return err
	}
	rawStatus, err := s.prompt(ctx, "New Status (Active/Disabled, leave blank to keep current): ")
	if err != nil {
		return err
	}

	var upd usecase.AccountUpdate
	if holder != "" {
		upd.HolderName = &holder
	}
	if rawStatus != "" {
		status, err := model.ParseAccountStatus(rawStatus)
		if err != nil {
			fmt.Fprintln(s.out, describe(err))
			return nil
		}
		upd.Status = &status
	}

	if _, err := s.facade.UpdateAccount(ctx, number, upd); err != nil {
		s.report(ctx, logger, err)
		return nil
	}
	logger.InfoContext(ctx, "account updated", slog.Int64("account", number))
	fmt.Fprintln(s.out, "Account Information Updated Successfully")
	return nil
}

func (s *Session) searchAccount(ctx context.Context, logger *slog.Logger) error {
	fmt.Fprintln(s.out, "Search for Account")
	fmt.Fprintln(s.out, "-----------------")

	number, ok, err := s.promptAccountNumber(ctx, "Enter Account number: ")
	if err != nil || !ok {
		return err
	}
	account, err := s.facade.FindAccount(ctx, number)
	if err != nil {
		s.report(ctx, logger, err)
		return nil
	}
	fmt.Fprintln(s.out, "The account information is:")
	s.printAccount(account)
	return nil
}

func (s *Session) listAccounts(ctx context.Context, logger *slog.Logger) {
	accounts, err := s.facade.ListAccounts(ctx)
	if err != nil {
		s.report(ctx, logger, err)
		return
	}
	if len(accounts) == 0 {
		fmt.Fprintln(s.out, msgNoAccounts)
		return
	}
	fmt.Fprintf(s.out, "%-10s %-24s %14s %-10s\n", "Account", "Holder", "Balance", "Status")
	for _, a := range accounts {
		fmt.Fprintf(s.out, "%-10d %-24s %14s %-10s\n", a.Number, a.HolderName, money(a.Balance), a.Status)
	}
}

func (s *Session) printAccount(a *model.Account) {
	fmt.Fprintf(s.out, "Account # %d\n", a.Number)
	fmt.Fprintf(s.out, "Holder: %s\n", a.HolderName)
	fmt.Fprintf(s.out, "Balance: %s\n", money(a.Balance))
	fmt.Fprintf(s.out, "Status: %s\n", a.Status)
}

// --- input helpers ---

// report prints the user-facing message for err. Storage faults are logged as errors.
func (s *Session) report(ctx context.Context, logger *slog.Logger, err error) {
	if domainErrors.KindOf(err) == domainErrors.KindStorage {
		logger.ErrorContext(ctx, "operation failed", slog.Any("error", err))
	} else {
		logger.DebugContext(ctx, "operation rejected", slog.Any("error", err))
	}
	fmt.Fprintln(s.out, describe(err))
}

func (s *Session) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)
	return s.readLine(ctx)
}

// readLine returns the next trimmed input line or ctx.Err() once ctx is done.
// Input is consumed by a background reader so a pending read never blocks shutdown.
func (s *Session) readLine(ctx context.Context) (string, error) {
	if s.lines == nil {
		s.lines = make(chan inputLine)
		go s.scan(ctx)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

// scan forwards input lines until the reader fails. A final line without a
// newline is delivered before the channel closes.
func (s *Session) scan(ctx context.Context) {
	defer close(s.lines)
	for {
		raw, err := s.in.ReadString('\n')
		if err == nil || raw != "" {
			if !s.deliver(ctx, inputLine{text: strings.TrimSpace(raw)}) {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.deliver(ctx, inputLine{err: err})
			}
			return
		}
	}
}

func (s *Session) deliver(ctx context.Context, l inputLine) bool {
	select {
	case s.lines <- l:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Session) promptAccountNumber(ctx context.Context, label string) (int64, bool, error) {
	line, err := s.prompt(ctx, label)
	if err != nil {
		return 0, false, err
	}
	number, err := strconv.ParseInt(line, 10, 64)
	if err != nil || number <= 0 {
		fmt.Fprintln(s.out, msgInvalidNumberInput)
		return 0, false, nil
	}
	return number, true, nil
}

func money(v decimal.Decimal) string {
	return v.StringFixed(model.CurrencyPlaces)
}
