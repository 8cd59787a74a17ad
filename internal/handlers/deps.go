package handlers

import (
	"context"
	"time"

	"ledger/internal/models"
	"ledger/internal/services"
	"ledger/internal/store"

	"github.com/shopspring/decimal"
)

type TransferService interface {
	ProcessTransfer(ctx context.Context, req services.ProcessRequest) (models.Transfer, error)
}

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, id, currency string) error
	GetByID(ctx context.Context, accountID string) (models.Account, error)
}

type BalanceStore interface {
	Create(ctx context.Context, tx store.Execer, id, accountID string, available decimal.Decimal) error
	GetByAccountID(ctx context.Context, accountID string) (models.Balance, error)
}

type TransferStore interface {
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transfer, error)
}

type ReadCache interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
}
