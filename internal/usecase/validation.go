package usecase

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/atmterminal/internal/domain/errors"
	"github.com/polkiloo/atmterminal/internal/domain/model"
)

// PinLength is the exact number of digits in a PIN code.
const PinLength = 5

// ValidatePin checks that pin consists of exactly PinLength ASCII digits.
func ValidatePin(pin string) error {
	if len(pin) != PinLength {
		return domainErrors.ErrMalformedPin
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return domainErrors.ErrMalformedPin
		}
	}
	return nil
}

// ValidateAmount checks that amount is positive, within model.MaxMoney and
// carries at most model.CurrencyPlaces fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(model.MaxMoney) || !hasCurrencyPrecision(amount) {
		return domainErrors.ErrInvalidAmount
	}
	return nil
}

func validateStartingBalance(balance decimal.Decimal) error {
	if balance.IsNegative() || balance.GreaterThan(model.MaxMoney) || !hasCurrencyPrecision(balance) {
		return domainErrors.ErrInvalidBalance
	}
	return nil
}

func hasCurrencyPrecision(v decimal.Decimal) bool {
	return v.Equal(v.Truncate(model.CurrencyPlaces))
}
