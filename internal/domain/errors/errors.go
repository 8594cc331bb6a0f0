package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedPin       = errors.New("pin must be exactly 5 digits")
	ErrInvalidPin         = errors.New("invalid pin")
	ErrInvalidLogin       = errors.New("invalid login")
	ErrInvalidHolderName  = errors.New("invalid holder name")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidBalance     = errors.New("invalid balance")
	ErrInvalidStatus      = errors.New("invalid account status")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAccountInactive    = errors.New("account is not active")
	ErrDuplicateLogin     = errors.New("login already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrConstraintViolated = errors.New("storage constraint violated")
)

// Kind groups errors by how a caller is expected to react.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindDomain
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDomain:
		return "domain"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

// KindOf classifies err. Storage faults win over any sentinel they wrap.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var storageErr *StorageError
	if errors.As(err, &storageErr) ||
		errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrConstraintViolated) {
		return KindStorage
	}

	switch {
	case errors.Is(err, ErrMalformedPin),
		errors.Is(err, ErrInvalidPin),
		errors.Is(err, ErrInvalidLogin),
		errors.Is(err, ErrInvalidHolderName),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidBalance),
		errors.Is(err, ErrInvalidStatus):
		return KindValidation
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrAccountInactive),
		errors.Is(err, ErrDuplicateLogin):
		return KindDomain
	}
	return KindUnknown
}

// StorageError reports a repository fault. Kind is ErrStorageUnavailable or ErrConstraintViolated.
type StorageError struct {
	Op   string
	Kind error
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewStorageError wraps err as an unavailable-storage fault.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Kind: ErrStorageUnavailable, Err: err}
}

// OperationError carries the context of a failed ledger or admin operation.
type OperationError struct {
	Op            string
	AccountNumber int64
	Amount        decimal.Decimal
	Err           error
}

func (e *OperationError) Error() string {
	if e.AccountNumber == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Amount.IsZero() {
		return fmt.Sprintf("%s account %d: %v", e.Op, e.AccountNumber, e.Err)
	}
	return fmt.Sprintf("%s %s on account %d: %v", e.Op, e.Amount.String(), e.AccountNumber, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
