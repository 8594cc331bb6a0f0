package terminal

import (
	"errors"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
)

const (
	msgWelcome        = "Welcome to the ATM System"
	msgSeparator      = "------------------------"
	msgGoodbye        = "Thank you for using the ATM System. Goodbye!"
	msgTryAgain       = "Would you like to try again? (y/n) "
	msgSelectOption   = "\nPlease select an option: "
	msgInvalidOption  = "Invalid option. Please try again."
	msgAccountMissing = "Error: Account not found. Please contact an administrator."

	msgInvalidAmountInput  = "Invalid amount. Please enter a positive number."
	msgInvalidNumberInput  = "Error: Invalid account number."
	msgInvalidBalanceInput = "Error: Starting Balance must be a non-negative number."
	msgDeletionCancelled   = "Account deletion cancelled."
	msgNoTransactions      = "No transactions yet."
	msgNoAccounts          = "No accounts found."

	msgServiceUnavailable = "Service unavailable. Please try again later."
	msgOperationFailed    = "Error: Operation failed. Please try again."
)

// describe renders err as the message shown to the person at the terminal.
// Storage faults are checked first so a broken connection never reads as "not found".
func describe(err error) string {
	if domainErrors.KindOf(err) == domainErrors.KindStorage {
		return msgServiceUnavailable
	}

	switch {
	case errors.Is(err, domainErrors.ErrMalformedPin), errors.Is(err, domainErrors.ErrInvalidPin):
		return "Error: Pin Code must be a 5-digit number."
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return "Invalid login or pin code. Please try again."
	case errors.Is(err, domainErrors.ErrInvalidLogin):
		return "Error: Login must not be empty."
	case errors.Is(err, domainErrors.ErrDuplicateLogin):
		return "Error: Login already exists. Please choose a different login."
	case errors.Is(err, domainErrors.ErrInvalidHolderName):
		return "Error: Holder name must not be empty."
	case errors.Is(err, domainErrors.ErrInvalidBalance):
		return "Error: Starting Balance must be a non-negative number with at most two decimal places."
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		return "Invalid amount. Please enter a positive number with at most two decimal places."
	case errors.Is(err, domainErrors.ErrInvalidStatus):
		return "Error: Status must be Active or Disabled."
	case errors.Is(err, domainErrors.ErrInsufficientFunds):
		return "Withdrawal failed. Insufficient funds."
	case errors.Is(err, domainErrors.ErrAccountInactive):
		return "Operation failed. The account is not active."
	case errors.Is(err, domainErrors.ErrNotFound):
		return "Error: Account not found."
	}
	return msgOperationFailed
}
