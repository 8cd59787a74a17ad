package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"ledger/internal/models"

	"github.com/shopspring/decimal"
)

func TestBalanceStoreGetByAccountIDForUpdate(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected FOR UPDATE query, got: %s", query)
			}
			if len(args) != 1 || args[0] != "acc-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			balance := dest.(*models.Balance)
			balance.ID = "bal-1"
			balance.AccountID = "acc-1"
			balance.Available = decimal.RequireFromString("100.00")
			return nil
		},
	}
	store := NewBalanceStore(stubDB{})
	balance, err := store.GetByAccountIDForUpdate(ctx, getter, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.ID != "bal-1" || balance.Available.StringFixed(2) != "100.00" {
		t.Fatalf("unexpected balance: %#v", balance)
	}
}

func TestBalanceStoreUpdateAvailable(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE balances") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "updated_at = NOW()") {
				t.Fatalf("expected updated_at refresh, got: %s", query)
			}
			if len(args) != 2 || args[1] != "bal-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewBalanceStore(stubDB{})
	if err := store.UpdateAvailable(ctx, execer, "bal-1", decimal.RequireFromString("900.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBalanceStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO balances") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 3 {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewBalanceStore(stubDB{})
	if err := store.Create(ctx, execer, "bal-1", "acc-1", decimal.Zero); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
