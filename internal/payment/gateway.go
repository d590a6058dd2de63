package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// TransactionStatus enumerates the states the gateway reports for a
// submitted transaction.
type TransactionStatus string

const (
	StatusPaid           TransactionStatus = "paid"
	StatusRefused        TransactionStatus = "refused"
	StatusProcessing     TransactionStatus = "processing"
	StatusWaitingPayment TransactionStatus = "waiting_payment"
)

// Method enumerates supported payment methods.
type Method string

const (
	MethodCreditCard Method = "credit_card"
	MethodBoleto     Method = "boleto"
)

// ErrGatewayUnavailable covers transport failures, timeouts and unexpected
// gateway responses. A refused transaction is a normal result, not this error.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// SandboxCard is the gateway's documented test card.
var SandboxCard = Card{
	Number:         "4024007138010896",
	ExpirationDate: "1050",
	HolderName:     "Ash Ketchum",
	CVV:            "123",
}

type Card struct {
	Number         string `json:"card_number"`
	ExpirationDate string `json:"card_expiration_date"`
	HolderName     string `json:"card_holder_name"`
	CVV            string `json:"card_cvv"`
}

type Metadata struct {
	Product  string `json:"product"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// TransactionInfo is the payload submitted to the gateway. Card fields are
// flattened into the request body, matching the gateway's wire format.
type TransactionInfo struct {
	Amount        int64  `json:"amount"`
	PaymentMethod Method `json:"payment_method"`
	Card
	Metadata Metadata `json:"metadata"`
}

type TransactionResult struct {
	Status   TransactionStatus `json:"status"`
	Amount   int64             `json:"amount"`
	Metadata Metadata          `json:"metadata"`
}

const (
	// DefaultMaxAmount is the purchase ceiling in currency minor units.
	DefaultMaxAmount = 200000

	defaultBaseURL = "https://api.pagar.me/1"
	defaultTimeout = 10 * time.Second
)

type Config struct {
	BaseURL   string
	APIKey    string
	MaxAmount int64
	Timeout   time.Duration
}

// Client submits transactions to the payment processor over HTTP.
type Client struct {
	http      *resty.Client
	apiKey    string
	maxAmount int64
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxAmount := cfg.MaxAmount
	if maxAmount <= 0 {
		maxAmount = DefaultMaxAmount
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:      httpClient,
		apiKey:    cfg.APIKey,
		maxAmount: maxAmount,
	}
}

// IsValidAmount reports whether amount is chargeable: positive and within
// the configured ceiling. Pure, no gateway call.
func (c *Client) IsValidAmount(amount int64) bool {
	return amount > 0 && amount <= c.maxAmount
}

// MaxAmount returns the configured purchase ceiling.
func (c *Client) MaxAmount() int64 {
	return c.maxAmount
}

type transactionRequest struct {
	APIKey string `json:"api_key"`
	TransactionInfo
}

// Transaction submits info synchronously and returns the processor's
// result. The caller decides what a non-paid status means.
func (c *Client) Transaction(ctx context.Context, info TransactionInfo) (TransactionResult, error) {
	var result TransactionResult

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(transactionRequest{APIKey: c.apiKey, TransactionInfo: info}).
		SetResult(&result).
		Post("/transactions")
	if err != nil {
		return TransactionResult{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if resp.IsError() {
		return TransactionResult{}, fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, resp.StatusCode())
	}
	if result.Status == "" {
		return TransactionResult{}, fmt.Errorf("%w: missing transaction status", ErrGatewayUnavailable)
	}
	return result, nil
}
