package bankclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/pkg/web"
)

func TestTransferCompleted(t *testing.T) {
	transactionID := uuid.NewString()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transfers", r.URL.Path)
		require.Equal(t, "bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "key-1", r.Header.Get(IdempotencyKeyHeader))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "100", body["amount"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		resp := map[string]interface{}{
			"transaction": domain.Transaction{
				ID:     transactionID,
				Type:   domain.TransactionTypeTransfer,
				Amount: decimal.NewFromInt(-100),
				Status: domain.TransactionStatusCompleted,
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := New(server.URL)
	client.SetAccessToken("test-token")

	result := client.Transfer(context.Background(), TransferRequest{
		FromAccountID:  uuid.NewString(),
		ToAccountID:    uuid.NewString(),
		Amount:         decimal.NewFromInt(100),
		IdempotencyKey: "key-1",
	})

	require.Equal(t, OutcomeCompleted, result.Outcome)
	require.NoError(t, result.Err)
	require.Equal(t, transactionID, result.Transaction.ID)
}

func TestTransferFailed(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		errorCode  string
		wantErr    error
	}{
		{
			name:       "InsufficientFunds",
			statusCode: http.StatusBadRequest,
			errorCode:  web.CodeInsufficientFunds,
			wantErr:    domain.ErrInsufficientFunds,
		},
		{
			name:       "InvalidAmount",
			statusCode: http.StatusBadRequest,
			errorCode:  web.CodeInvalidAmount,
			wantErr:    domain.ErrInvalidAmount,
		},
		{
			name:       "AccountNotFound",
			statusCode: http.StatusNotFound,
			errorCode:  web.CodeAccountNotFound,
			wantErr:    domain.ErrAccountNotFound,
		},
		{
			name:       "DuplicateEntry",
			statusCode: http.StatusConflict,
			errorCode:  web.CodeDuplicateEntry,
			wantErr:    domain.ErrDuplicateTransfer,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.statusCode)

				envelope := web.JSONError{Error: web.ErrorBody{Code: tc.errorCode, Message: "rejected"}}
				require.NoError(t, json.NewEncoder(w).Encode(envelope))
			}))
			defer server.Close()

			client := New(server.URL)

			result := client.Transfer(context.Background(), TransferRequest{
				FromAccountID: uuid.NewString(),
				ToAccountID:   uuid.NewString(),
				Amount:        decimal.NewFromInt(100),
			})

			// A decoded rejection is final: the server did not move money.
			require.Equal(t, OutcomeFailed, result.Outcome)
			require.ErrorIs(t, result.Err, tc.wantErr)
		})
	}
}

func TestTransferUnknownOnNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL)

	result := client.Transfer(context.Background(), TransferRequest{
		FromAccountID: uuid.NewString(),
		ToAccountID:   uuid.NewString(),
		Amount:        decimal.NewFromInt(100),
	})

	// The request may or may not have been applied; the caller has to
	// reconcile against the authoritative balance.
	require.Equal(t, OutcomeUnknown, result.Outcome)
	require.ErrorIs(t, result.Err, ErrNetwork)
}

func TestBalance(t *testing.T) {
	accountID := uuid.NewString()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/"+accountID+"/balance", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(domain.Balance{
			Amount:   decimal.RequireFromString("900.50"),
			Currency: "USD",
		}))
	}))
	defer server.Close()

	client := New(server.URL)

	balance, err := client.Balance(context.Background(), accountID)
	require.NoError(t, err)
	require.True(t, balance.Amount.Equal(decimal.RequireFromString("900.50")))
	require.Equal(t, "USD", balance.Currency)
}

func TestReconcile(t *testing.T) {
	accountID := uuid.NewString()
	before := decimal.NewFromInt(1000)
	amount := decimal.NewFromInt(100)

	testCases := []struct {
		name        string
		serverSays  decimal.Decimal
		wantApplied bool
	}{
		{
			name:        "TransferWasApplied",
			serverSays:  decimal.NewFromInt(900),
			wantApplied: true,
		},
		{
			name:        "TransferWasNotApplied",
			serverSays:  decimal.NewFromInt(1000),
			wantApplied: false,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				require.NoError(t, json.NewEncoder(w).Encode(domain.Balance{
					Amount:   tc.serverSays,
					Currency: "USD",
				}))
			}))
			defer server.Close()

			client := New(server.URL)

			applied, err := client.Reconcile(context.Background(), accountID, before, amount)
			require.NoError(t, err)
			require.Equal(t, tc.wantApplied, applied)
		})
	}
}

func TestBalanceNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)

		envelope := web.JSONError{Error: web.ErrorBody{Code: web.CodeAccountNotFound, Message: "account not found"}}
		require.NoError(t, json.NewEncoder(w).Encode(envelope))
	}))
	defer server.Close()

	client := New(server.URL)

	_, err := client.Balance(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")

		resp := map[string]interface{}{
			"accounts": []domain.Account{
				{ID: uuid.NewString(), Type: domain.AccountTypeChecking},
				{ID: uuid.NewString(), Type: domain.AccountTypeSavings},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := New(server.URL)

	accounts, err := client.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
}
