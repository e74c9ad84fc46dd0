package payments

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		tag    string
		method Method
	}{
		{"CREDIT_CARD", MethodCreditCard},
		{"paypal", MethodPayPal},
		{" bank_transfer ", MethodBankTransfer},
		{"BITCOIN", MethodCreditCard},
		{"", MethodCreditCard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.method, ParseMethod(tt.tag), "tag %q", tt.tag)
	}
}

func TestChargeTransactionPrefixes(t *testing.T) {
	tests := []struct {
		method    Method
		payerInfo string
		prefix    string
	}{
		{MethodCreditCard, "4111111111111111,123", "CC-"},
		{MethodPayPal, "alice@example.com", "PP-"},
		{MethodBankTransfer, "DE44500105175407324931", "BT-"},
	}
	for _, tt := range tests {
		gateway := NewGateway(tt.method)
		receipt, err := gateway.Charge(context.Background(), 31.50, tt.payerInfo)
		require.NoError(t, err, "method %s", tt.method)
		assert.True(t, receipt.Success)
		assert.Equal(t, tt.method, receipt.Method)
		assert.Equal(t, 31.50, receipt.Amount)
		assert.True(t, strings.HasPrefix(receipt.TransactionID, tt.prefix),
			"transaction %q should start with %s", receipt.TransactionID, tt.prefix)
		assert.Equal(t, receipt.TransactionID, gateway.LastTransactionID())
	}
}

func TestChargeRejectsMalformedPayerInfo(t *testing.T) {
	tests := []struct {
		method    Method
		payerInfo string
	}{
		{MethodCreditCard, "4111111111111111"},
		{MethodCreditCard, ",123"},
		{MethodPayPal, "not-an-email"},
		{MethodBankTransfer, "   "},
	}
	for _, tt := range tests {
		gateway := NewGateway(tt.method)
		_, err := gateway.Charge(context.Background(), 10.0, tt.payerInfo)
		assert.ErrorIs(t, err, ErrInvalidPayerInfo, "method %s payer %q", tt.method, tt.payerInfo)
		assert.Empty(t, gateway.LastTransactionID())
	}
}

func TestChargeRejectsNonPositiveAmount(t *testing.T) {
	gateway := NewGateway(MethodCreditCard)
	_, err := gateway.Charge(context.Background(), 0, "4111111111111111,123")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = gateway.Charge(context.Background(), -5, "4111111111111111,123")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestChargeHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gateway := NewGateway(MethodCreditCard)
	_, err := gateway.Charge(ctx, 10.0, "4111111111111111,123")
	assert.ErrorIs(t, err, context.Canceled)
}
