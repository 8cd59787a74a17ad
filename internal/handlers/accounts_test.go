package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"ledger/internal/cache"
	"ledger/internal/models"
	"ledger/internal/store"

	"github.com/shopspring/decimal"
)

func TestCreateAccount(t *testing.T) {
	var createdCurrency string
	var openingBalance decimal.Decimal
	handler := newTestHandler(testHandlerOverrides{
		accounts: stubAccountStore{
			createFn: func(_ context.Context, _ store.Execer, id, currency string) error {
				if id == "" {
					t.Fatalf("expected generated account id")
				}
				createdCurrency = currency
				return nil
			},
		},
		balances: stubBalanceStore{
			createFn: func(_ context.Context, _ store.Execer, id, accountID string, available decimal.Decimal) error {
				openingBalance = available
				return nil
			},
		},
	})

	rec := performRequest(t, handler, http.MethodPost, "/v1/accounts", `{"currency":"USD","opening_balance":"1000.00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	if createdCurrency != "USD" {
		t.Fatalf("unexpected currency: %s", createdCurrency)
	}
	if openingBalance.StringFixed(2) != "1000.00" {
		t.Fatalf("unexpected opening balance: %s", openingBalance)
	}
	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if response["available"] != "1000.00" || response["id"] == "" {
		t.Fatalf("unexpected response: %#v", response)
	}
}

func TestCreateAccountRejectsBadCurrency(t *testing.T) {
	handler := newTestHandler(testHandlerOverrides{})
	rec := performRequest(t, handler, http.MethodPost, "/v1/accounts", `{"currency":"usd"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestGetBalance(t *testing.T) {
	calls := 0
	handler := newTestHandler(testHandlerOverrides{
		balances: stubBalanceStore{
			getByAccountIDFn: func(_ context.Context, accountID string) (models.Balance, error) {
				calls++
				return models.Balance{
					AccountID: accountID,
					Available: decimal.RequireFromString("900.00"),
				}, nil
			},
		},
	})

	rec := performRequest(t, handler, http.MethodGet, "/v1/accounts/"+fromID+"/balance", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	var response balanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if response.Available != "900.00" || response.AccountID != fromID {
		t.Fatalf("unexpected response: %#v", response)
	}

	// Second read must come from the cache.
	rec = performRequest(t, handler, http.MethodGet, "/v1/accounts/"+fromID+"/balance", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status on cached read: %d", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("expected 1 store read, got %d", calls)
	}
}

func TestGetBalanceNotFound(t *testing.T) {
	handler := newTestHandler(testHandlerOverrides{
		cache: cache.NewMemory(),
		balances: stubBalanceStore{
			getByAccountIDFn: func(context.Context, string) (models.Balance, error) {
				return models.Balance{}, sql.ErrNoRows
			},
		},
	})
	rec := performRequest(t, handler, http.MethodGet, "/v1/accounts/"+fromID+"/balance", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(testHandlerOverrides{})
	rec := performRequest(t, handler, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
