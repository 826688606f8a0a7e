// Package bankclient is a typed HTTP client for the banking API.
//
// It is the client-side counterpart of the transfer and account endpoints:
// it attaches the bearer token, translates the error envelope back into
// domain sentinels, and classifies transfer submissions into an outcome so
// callers can distinguish a rejected transfer from one whose fate is unknown.
package bankclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/pkg/web"
)

// ErrNetwork indicates that the request never produced an HTTP response.
var ErrNetwork = errors.New("network error")

// Outcome classifies a transfer submission.
type Outcome string

// Transfer outcomes. OutcomeUnknown means the request may or may not have
// been applied on the server and the caller must reconcile before retrying
// without an idempotency key.
const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeUnknown   Outcome = "unknown"
)

// IdempotencyKeyHeader carries the retry-safety token on transfer requests.
const IdempotencyKeyHeader = "Idempotency-Key"

const defaultTimeout = 15 * time.Second

// Client calls the banking API.
type Client struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string
}

// New returns a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetAccessToken stores the bearer token attached to subsequent requests.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// TransferRequest describes a transfer submission.
type TransferRequest struct {
	FromAccountID  string          `json:"fromAccountId"`
	ToAccountID    string          `json:"toAccountId,omitempty"`
	ToPhoneRef     string          `json:"toPhoneRef,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	RecipientName  string          `json:"recipientName,omitempty"`
	IdempotencyKey string          `json:"-"`
}

// TransferResult is the classified outcome of a transfer submission.
type TransferResult struct {
	Outcome     Outcome
	Transaction domain.Transaction
	Err         error
}

type transactionData struct {
	Transaction domain.Transaction `json:"transaction"`
}

// Transfer submits a transfer and classifies the result.
//
// A 2xx response is Completed, a decoded API error is Failed with the
// matching sentinel, and a transport failure is Unknown wrapping ErrNetwork.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) TransferResult {
	body, err := json.Marshal(req)
	if err != nil {
		return TransferResult{Outcome: OutcomeFailed, Err: err}
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/transfers", bytes.NewReader(body))
	if err != nil {
		return TransferResult{Outcome: OutcomeFailed, Err: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set(IdempotencyKeyHeader, req.IdempotencyKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return TransferResult{
			Outcome: OutcomeUnknown,
			Err:     fmt.Errorf("%w: %v", ErrNetwork, err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		var data transactionData
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return TransferResult{Outcome: OutcomeUnknown, Err: err}
		}

		return TransferResult{Outcome: OutcomeCompleted, Transaction: data.Transaction}
	}

	return TransferResult{Outcome: OutcomeFailed, Err: decodeError(resp)}
}

// Balance reads the authoritative balance of an account. Callers use it to
// reconcile after an Unknown transfer outcome.
func (c *Client) Balance(ctx context.Context, accountID string) (domain.Balance, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, "/accounts/"+accountID+"/balance", nil)
	if err != nil {
		return domain.Balance{}, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Balance{}, decodeError(resp)
	}

	var balance domain.Balance
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return domain.Balance{}, err
	}

	return balance, nil
}

// Reconcile resolves an Unknown transfer outcome.
//
// It re-reads the authoritative balance and reports whether the attempted
// debit was applied, by comparing against the balance observed before the
// attempt. The caller must not retry without an idempotency key until the
// outcome is resolved.
func (c *Client) Reconcile(ctx context.Context, accountID string, balanceBefore, amount decimal.Decimal) (bool, error) {
	balance, err := c.Balance(ctx, accountID)
	if err != nil {
		return false, err
	}

	return balance.Amount.Equal(balanceBefore.Sub(amount)), nil
}

// Accounts lists the authenticated user's accounts.
func (c *Client) Accounts(ctx context.Context) ([]domain.Account, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, "/accounts", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var data struct {
		Accounts []domain.Account `json:"accounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	return data.Accounts, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error

	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	}

	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()

	if token != "" {
		req.Header.Set("Authorization", "bearer "+token)
	}

	return req, nil
}

// decodeError maps the API error envelope back onto domain sentinels so
// callers can branch with errors.Is instead of inspecting codes.
func decodeError(resp *http.Response) error {
	var envelope web.JSONError
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Code == "" {
		return fmt.Errorf("unexpected response status %d", resp.StatusCode)
	}

	switch envelope.Error.Code {
	case web.CodeInvalidAmount:
		return domain.ErrInvalidAmount
	case web.CodeInsufficientFunds:
		return domain.ErrInsufficientFunds
	case web.CodeAccountNotFound:
		return domain.ErrAccountNotFound
	case web.CodeInvalidCredentials:
		return domain.ErrInvalidCredentials
	case web.CodeDuplicateEntry:
		return domain.ErrDuplicateTransfer
	}

	return fmt.Errorf("%s: %s", envelope.Error.Code, envelope.Error.Message)
}
