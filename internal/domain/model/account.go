package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
)

// CurrencyPlaces is the number of fractional digits a monetary value may carry.
const CurrencyPlaces = 2

// MaxMoney is the largest amount or balance storage can hold, NUMERIC(18,2).
var MaxMoney = decimal.RequireFromString("9999999999999999.99")

// AccountStatus gates whether balance-mutating operations are permitted.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "Active"
	AccountStatusDisabled AccountStatus = "Disabled"
	// AccountStatusClosed is reserved: no operation moves an account into it.
	AccountStatusClosed AccountStatus = "Closed"
)

// ParseAccountStatus converts user or storage input into AccountStatus.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return AccountStatusActive, nil
	case "disabled":
		return AccountStatusDisabled, nil
	case "closed":
		return AccountStatusClosed, nil
	}
	return "", fmt.Errorf("unknown account status %q: %w", s, domainErrors.ErrInvalidStatus)
}

// Valid reports whether status is one of the known values.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusDisabled, AccountStatusClosed:
		return true
	}
	return false
}

// Account is a balance-bearing ledger record.
// Values handed out by repositories are detached copies.
type Account struct {
	Number     int64
	HolderName string
	Balance    decimal.Decimal
	Status     AccountStatus
}

// CanTransact reports whether withdrawals and deposits are allowed.
func (a Account) CanTransact() bool {
	return a.Status == AccountStatusActive
}

// Withdraw subtracts amount from the balance. The account is left untouched on error.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}
	if !a.CanTransact() {
		return domainErrors.ErrAccountInactive
	}
	if amount.GreaterThan(a.Balance) {
		return domainErrors.ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Deposit adds amount to the balance. The account is left untouched on error.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}
	if !a.CanTransact() {
		return domainErrors.ErrAccountInactive
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}
