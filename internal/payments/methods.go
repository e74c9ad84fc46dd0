package payments

import "strings"

// Method identifies a payment variant.
type Method string

const (
	MethodCreditCard   Method = "CREDIT_CARD"
	MethodPayPal       Method = "PAYPAL"
	MethodBankTransfer Method = "BANK_TRANSFER"
)

// ParseMethod normalizes a request tag. Unknown tags fall back to credit
// card, the historical default.
func ParseMethod(tag string) Method {
	switch Method(strings.ToUpper(strings.TrimSpace(tag))) {
	case MethodPayPal:
		return MethodPayPal
	case MethodBankTransfer:
		return MethodBankTransfer
	default:
		return MethodCreditCard
	}
}
