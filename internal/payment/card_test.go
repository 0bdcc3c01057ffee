package payment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsTestCard(t *testing.T) {
	require.NoError(t, Validate(Card{Number: "4242424242424242", CVC: "123", Expiry: "12/12"}))
	// spaces in the card number are ignored
	require.NoError(t, Validate(Card{Number: "4242 4242 4242 4242", CVC: "123", Expiry: "12/12"}))
}

func TestValidateRejectsEverythingElse(t *testing.T) {
	cases := []Card{
		{Number: "4111111111111111", CVC: "123", Expiry: "12/12"},
		{Number: "4242424242424242", CVC: "999", Expiry: "12/12"},
		{Number: "4242424242424242", CVC: "123", Expiry: "01/30"},
		{},
	}
	for _, c := range cases {
		require.ErrorIs(t, Validate(c), ErrInvalidPaymentMethod)
	}
}
