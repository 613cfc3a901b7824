package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentMethod_Valid(t *testing.T) {
	for _, m := range AllPaymentMethods() {
		assert.True(t, m.Valid(), string(m))
	}
	assert.False(t, PaymentMethod("BITCOIN").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestPaymentMethod_RequiresCardDetails(t *testing.T) {
	assert.True(t, PaymentMethodCreditCard.RequiresCardDetails())
	assert.True(t, PaymentMethodDebitCard.RequiresCardDetails())
	assert.False(t, PaymentMethodPaypal.RequiresCardDetails())
	assert.False(t, PaymentMethodCash.RequiresCardDetails())
	assert.False(t, PaymentMethodBankTransfer.RequiresCardDetails())
}

func TestPaymentMethod_IsDigital(t *testing.T) {
	for _, m := range AllPaymentMethods() {
		assert.Equal(t, m != PaymentMethodCash, m.IsDigital(), string(m))
	}
}
