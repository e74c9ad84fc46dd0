package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidAmount    = errors.New("charge amount must be positive")
	ErrInvalidPayerInfo = errors.New("payer info is malformed for the selected method")
)

// Receipt records the outcome of a single charge attempt.
type Receipt struct {
	Method        Method  `json:"method"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Success       bool    `json:"success"`
	StatusMessage string  `json:"status_message"`
}

// Gateway charges a payer. Each variant interprets payerInfo its own way:
// "cardNumber,cvv" for cards, an email for PayPal, an account number for
// bank transfers.
type Gateway interface {
	Charge(ctx context.Context, amount float64, payerInfo string) (*Receipt, error)
	LastTransactionID() string
}

// Factory builds the gateway for a method. The booking orchestrator takes
// one of these so tests can swap in failing gateways.
type Factory func(method Method) Gateway

// NewGateway is the production factory.
func NewGateway(method Method) Gateway {
	switch method {
	case MethodPayPal:
		return &paypalGateway{}
	case MethodBankTransfer:
		return &bankTransferGateway{}
	default:
		return &creditCardGateway{}
	}
}

type creditCardGateway struct {
	lastTxn string
}

func (g *creditCardGateway) Charge(ctx context.Context, amount float64, payerInfo string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	parts := strings.SplitN(payerInfo, ",", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("%w: expected \"cardNumber,cvv\"", ErrInvalidPayerInfo)
	}

	g.lastTxn = fmt.Sprintf("CC-%d", time.Now().UnixNano())
	return &Receipt{
		Method:        MethodCreditCard,
		TransactionID: g.lastTxn,
		Amount:        amount,
		Success:       true,
		StatusMessage: "credit card charge approved",
	}, nil
}

func (g *creditCardGateway) LastTransactionID() string {
	return g.lastTxn
}

type paypalGateway struct {
	lastTxn string
}

func (g *paypalGateway) Charge(ctx context.Context, amount float64, payerInfo string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !strings.Contains(payerInfo, "@") {
		return nil, fmt.Errorf("%w: expected an email address", ErrInvalidPayerInfo)
	}

	g.lastTxn = fmt.Sprintf("PP-%d", time.Now().UnixNano())
	return &Receipt{
		Method:        MethodPayPal,
		TransactionID: g.lastTxn,
		Amount:        amount,
		Success:       true,
		StatusMessage: "paypal charge approved",
	}, nil
}

func (g *paypalGateway) LastTransactionID() string {
	return g.lastTxn
}

type bankTransferGateway struct {
	lastTxn string
}

func (g *bankTransferGateway) Charge(ctx context.Context, amount float64, payerInfo string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(payerInfo) == "" {
		return nil, fmt.Errorf("%w: expected an account number", ErrInvalidPayerInfo)
	}

	g.lastTxn = fmt.Sprintf("BT-%d", time.Now().UnixNano())
	return &Receipt{
		Method:        MethodBankTransfer,
		TransactionID: g.lastTxn,
		Amount:        amount,
		Success:       true,
		StatusMessage: "bank transfer initiated",
	}, nil
}

func (g *bankTransferGateway) LastTransactionID() string {
	return g.lastTxn
}
