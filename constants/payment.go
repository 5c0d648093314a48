package constants

import "strings"

type PaymentMethod string

const (
	CreditCard    PaymentMethod = "Credit Card"
	DebitCard     PaymentMethod = "Debit Card"
	Cash          PaymentMethod = "Cash"
	BankTransfer  PaymentMethod = "Bank Transfer"
	Check         PaymentMethod = "Check"
	DigitalWallet PaymentMethod = "Digital Wallet"
)

var allPaymentMethods = []PaymentMethod{
	CreditCard,
	DebitCard,
	Cash,
	BankTransfer,
	Check,
	DigitalWallet,
}

// PaymentMethods returns the allowed payment method enum as strings.
func PaymentMethods() []string {
	result := make([]string, len(allPaymentMethods))
	for i, pm := range allPaymentMethods {
		result[i] = string(pm)
	}
	return result
}

type DocumentType string

const (
	DocReceipt DocumentType = "Receipt"
	DocInvoice DocumentType = "Invoice"
	DocOther   DocumentType = "Other"
)

// DocumentTypes returns the allowed document type enum as strings.
func DocumentTypes() []string {
	return []string{string(DocReceipt), string(DocInvoice), string(DocOther)}
}

// CanonicalizePaymentMethod maps free-form model output onto the enum.
func CanonicalizePaymentMethod(input string) (PaymentMethod, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Cash, false
	}
	synonyms := map[string]PaymentMethod{
		"visa":       CreditCard,
		"mastercard": CreditCard,
		"amex":       CreditCard,
		"mb way":     DigitalWallet,
		"mbway":      DigitalWallet,
		"paypal":     DigitalWallet,
		"apple pay":  DigitalWallet,
		"google pay": DigitalWallet,
		"wire":       BankTransfer,
		"transfer":   BankTransfer,
		"cheque":     Check,
	}
	if pm, ok := synonyms[normalized]; ok {
		return pm, true
	}
	for _, pm := range allPaymentMethods {
		if normalized == strings.ToLower(string(pm)) {
			return pm, true
		}
	}
	return Cash, false
}
