package models

type PaymentMethod string

const (
	PaymentCreditCard    PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard     PaymentMethod = "DEBIT_CARD"
	PaymentCash          PaymentMethod = "CASH"
	PaymentDigitalWallet PaymentMethod = "DIGITAL_WALLET"
	PaymentBankTransfer  PaymentMethod = "BANK_TRANSFER"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentDigitalWallet,
	PaymentBankTransfer,
}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type DiscountType string

const (
	DiscountAmount     DiscountType = "AMOUNT"
	DiscountPercentage DiscountType = "PERCENTAGE"
)

func (d DiscountType) Valid() bool {
	return d == DiscountAmount || d == DiscountPercentage
}
