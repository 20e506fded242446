package payments

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxAmountText     = 64
	maxAmountDigits   = 38
	maxAmountExponent = 32
)

var (
	ErrMissingField      = errors.New("missing field")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNonPositiveAmount = errors.New("non-positive amount")
)

type ValidationError struct {
	Reason error
	Field  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason.Error()
	}
	return "validation error: " + e.Reason.Error() + " (" + e.Field + ")"
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// Validate checks the fields in order and stops at the first failure.
// Emptiness is checked on the raw text; only the amount is trimmed, before
// parsing.
func Validate(in Input) (PaymentRequest, error) {
	switch {
	case in.Identifier == "":
		return PaymentRequest{}, &ValidationError{Reason: ErrMissingField, Field: "identifier"}
	case in.Reference == "":
		return PaymentRequest{}, &ValidationError{Reason: ErrMissingField, Field: "reference"}
	case in.Amount == "":
		return PaymentRequest{}, &ValidationError{Reason: ErrMissingField, Field: "amount"}
	}

	text := strings.TrimSpace(in.Amount)
	if len(text) > maxAmountText {
		return PaymentRequest{}, &ValidationError{Reason: ErrInvalidAmount, Field: "amount"}
	}

	amount, err := decimal.NewFromString(text)
	if err != nil || !inRange(amount) {
		return PaymentRequest{}, &ValidationError{Reason: ErrInvalidAmount, Field: "amount"}
	}

	if !amount.IsPositive() {
		return PaymentRequest{}, &ValidationError{Reason: ErrNonPositiveAmount, Field: "amount"}
	}

	return PaymentRequest{
		Identifier: in.Identifier,
		Reference:  in.Reference,
		Amount:     amount,
	}, nil
}

// inRange bounds the exponent and coefficient so that writing the amount out
// never produces more than a few dozen digits.
func inRange(amount decimal.Decimal) bool {
	exp := amount.Exponent()
	if exp > maxAmountExponent || exp < -maxAmountExponent {
		return false
	}
	coefficient := amount.Coefficient()
	return len(coefficient.Abs(coefficient).Text(10)) <= maxAmountDigits
}
