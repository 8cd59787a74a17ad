package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ledger/internal/cache"
	"ledger/internal/config"
	"ledger/internal/models"
	"ledger/internal/ratelimit"
	"ledger/internal/services"
	"ledger/internal/store"
	"ledger/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubTransferService struct {
	processFn func(ctx context.Context, req services.ProcessRequest) (models.Transfer, error)
}

func (s stubTransferService) ProcessTransfer(ctx context.Context, req services.ProcessRequest) (models.Transfer, error) {
	if s.processFn == nil {
		return models.Transfer{}, nil
	}
	return s.processFn(ctx, req)
}

type stubAccountStore struct {
	createFn  func(ctx context.Context, tx store.Execer, id, currency string) error
	getByIDFn func(ctx context.Context, accountID string) (models.Account, error)
}

func (s stubAccountStore) Create(ctx context.Context, tx store.Execer, id, currency string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, currency)
}

func (s stubAccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	if s.getByIDFn == nil {
		return models.Account{ID: accountID}, nil
	}
	return s.getByIDFn(ctx, accountID)
}

type stubBalanceStore struct {
	createFn         func(ctx context.Context, tx store.Execer, id, accountID string, available decimal.Decimal) error
	getByAccountIDFn func(ctx context.Context, accountID string) (models.Balance, error)
}

func (s stubBalanceStore) Create(ctx context.Context, tx store.Execer, id, accountID string, available decimal.Decimal) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, accountID, available)
}

func (s stubBalanceStore) GetByAccountID(ctx context.Context, accountID string) (models.Balance, error) {
	if s.getByAccountIDFn == nil {
		return models.Balance{}, nil
	}
	return s.getByAccountIDFn(ctx, accountID)
}

type stubTransferStore struct {
	listFn func(ctx context.Context, accountID string, limit, offset int) ([]models.Transfer, error)
}

func (s stubTransferStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transfer, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, accountID, limit, offset)
}

type testHandlerOverrides struct {
	service   TransferService
	accounts  AccountStore
	balances  BalanceStore
	transfers TransferStore
	cache     ReadCache
	txRunner  fakeTxRunner
}

func newTestHandler(overrides testHandlerOverrides) *Handler {
	cfg := config.Config{
		AllowedOrigins:  "*",
		BalanceCacheTTL: time.Minute,
	}
	if overrides.service == nil {
		overrides.service = stubTransferService{}
	}
	if overrides.accounts == nil {
		overrides.accounts = stubAccountStore{}
	}
	if overrides.balances == nil {
		overrides.balances = stubBalanceStore{}
	}
	if overrides.transfers == nil {
		overrides.transfers = stubTransferStore{}
	}
	if overrides.cache == nil {
		overrides.cache = cache.NewMemory()
	}
	return New(
		cfg,
		overrides.txRunner,
		overrides.accounts,
		overrides.balances,
		overrides.transfers,
		overrides.service,
		overrides.cache,
		ratelimit.NewMemory(1000, time.Minute),
		websocket.NewHub(),
	)
}

func newJSONRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	if body == "" {
		return httptest.NewRequest(method, target, nil)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(handler *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func performRequest(t *testing.T, handler *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(handler, newJSONRequest(t, method, target, body))
}
