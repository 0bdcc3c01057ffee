// Package payment holds the canned payment validator that stands in
// for a real payment processor.  It accepts exactly one test card.
package payment

import (
	"errors"
	"strings"
)

// ErrInvalidPaymentMethod is returned when the submitted card does not
// match the accepted test card.  Handlers translate this into an HTTP
// 400 response; no state changes before validation succeeds.
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// Card is the payment information submitted with payOrder.
type Card struct {
	Number string `json:"number"`
	CVC    string `json:"cvc"`
	Expiry string `json:"expiry"`
}

// The single accepted test card.
const (
	validNumber = "4242424242424242"
	validCVC    = "123"
	validExpiry = "12/12"
)

// Validate checks the card against the canned acceptance rule.  Card
// numbers are compared ignoring spaces.
func Validate(card Card) error {
	number := strings.ReplaceAll(card.Number, " ", "")
	if number != validNumber || card.CVC != validCVC || card.Expiry != validExpiry {
		return ErrInvalidPaymentMethod
	}
	return nil
}
