package types

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodPaypal       PaymentMethod = "PAYPAL"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

var allPaymentMethods = []PaymentMethod{
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodPaypal,
	PaymentMethodCash,
	PaymentMethodBankTransfer,
}

func AllPaymentMethods() []PaymentMethod {
	return allPaymentMethods
}

func (m PaymentMethod) Valid() bool {
	for _, v := range allPaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// RequiresCardDetails reports whether the method needs card data at checkout.
func (m PaymentMethod) RequiresCardDetails() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}

// IsDigital reports whether the method settles without physical exchange.
func (m PaymentMethod) IsDigital() bool {
	return m != PaymentMethodCash
}
