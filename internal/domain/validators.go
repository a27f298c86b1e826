package domain

import (
	"fmt"
	"regexp"
)

var codeRegex = regexp.MustCompile(`^[A-Za-z0-9\-]{3,32}$`)

// ValidateCurrencyKind checks that a currency kind names one of the two balances.
func ValidateCurrencyKind(kind CurrencyKind) error {
	if !kind.Valid() {
		return fmt.Errorf("invalid currency kind: %s", kind)
	}
	return nil
}

// ValidateQuantity checks that a purchase or removal quantity is positive.
func ValidateQuantity(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}
	return nil
}

// ValidateCodeFormat checks the shape of a redeem code before lookup.
func ValidateCodeFormat(code string) error {
	if code == "" {
		return fmt.Errorf("code is required")
	}
	if !codeRegex.MatchString(code) {
		return fmt.Errorf("invalid code format")
	}
	return nil
}
