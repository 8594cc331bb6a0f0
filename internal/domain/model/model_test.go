package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
)

func TestAccountStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   AccountStatus
		value string
	}{
		{"active", AccountStatusActive, "Active"},
		{"disabled", AccountStatusDisabled, "Disabled"},
		{"closed", AccountStatusClosed, "Closed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
			if !tc.got.Valid() {
				t.Fatalf("expected %s to be valid", tc.got)
			}
		})
	}

	if AccountStatus("Frozen").Valid() {
		t.Fatal("unexpected valid status")
	}
}

func TestParseAccountStatus(t *testing.T) {
	cases := map[string]AccountStatus{
		"active":     AccountStatusActive,
		" Disabled ": AccountStatusDisabled,
		"CLOSED":     AccountStatusClosed,
	}
	for in, want := range cases {
		got, err := ParseAccountStatus(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", in, want, got)
		}
	}

	if _, err := ParseAccountStatus("frozen"); !errors.Is(err, domainErrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestTransactionTypeValues(t *testing.T) {
	if string(TransactionWithdrawal) != "Withdrawal" || string(TransactionDeposit) != "Deposit" {
		t.Fatalf("unexpected transaction type values: %s %s", TransactionWithdrawal, TransactionDeposit)
	}
}

func TestUserRole(t *testing.T) {
	number := int64(7)
	customer := User{Role: RoleCustomer, AccountNumber: &number}
	admin := User{Role: RoleAdministrator}

	if !customer.IsCustomer() || customer.IsAdministrator() {
		t.Fatalf("unexpected customer role helpers: %+v", customer)
	}
	if !admin.IsAdministrator() || admin.IsCustomer() {
		t.Fatalf("unexpected admin role helpers: %+v", admin)
	}
}

func TestAccountWithdraw(t *testing.T) {
	cases := []struct {
		name    string
		status  AccountStatus
		balance int64
		amount  int64
		wantErr error
		want    int64
	}{
		{"success", AccountStatusActive, 1000, 400, nil, 600},
		{"whole balance", AccountStatusActive, 1000, 1000, nil, 0},
		{"zero amount", AccountStatusActive, 1000, 0, domainErrors.ErrInvalidAmount, 1000},
		{"negative amount", AccountStatusActive, 1000, -5, domainErrors.ErrInvalidAmount, 1000},
		{"insufficient", AccountStatusActive, 100, 101, domainErrors.ErrInsufficientFunds, 100},
		{"disabled", AccountStatusDisabled, 1000, 10, domainErrors.ErrAccountInactive, 1000},
		{"closed", AccountStatusClosed, 1000, 10, domainErrors.ErrAccountInactive, 1000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			acc := Account{Number: 1, Balance: decimal.NewFromInt(tc.balance), Status: tc.status}
			err := acc.Withdraw(decimal.NewFromInt(tc.amount))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if !acc.Balance.Equal(decimal.NewFromInt(tc.want)) {
				t.Fatalf("expected balance %d, got %s", tc.want, acc.Balance)
			}
		})
	}
}

func TestAccountDeposit(t *testing.T) {
	acc := Account{Number: 1, Balance: decimal.NewFromInt(1000), Status: AccountStatusActive}
	if err := acc.Deposit(decimal.NewFromInt(500)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected 1500, got %s", acc.Balance)
	}

	if err := acc.Deposit(decimal.Zero); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}

	acc.Status = AccountStatusDisabled
	if err := acc.Deposit(decimal.NewFromInt(1)); !errors.Is(err, domainErrors.ErrAccountInactive) {
		t.Fatalf("expected inactive, got %v", err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("balance changed on rejected deposit: %s", acc.Balance)
	}
}
