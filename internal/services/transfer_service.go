package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sort"
	"time"

	"ledger/internal/db"
	"ledger/internal/event"
	"ledger/internal/models"
	"ledger/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount              = errors.New("invalid amount")
	ErrSameAccountTransfer        = errors.New("cannot transfer to same account")
	ErrSourceAccountNotFound      = errors.New("source account not found")
	ErrDestinationAccountNotFound = errors.New("destination account not found")
	ErrTransferInProgress         = errors.New("transfer already in progress for this account")
)

const (
	lockKeyPrefix            = "transfer_lock:"
	idempotencyKeyConstraint = "idx_transfers_idempotency_key"
)

type AccountStore interface {
	GetByID(ctx context.Context, accountID string) (models.Account, error)
}

type BalanceStore interface {
	GetByAccountIDForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.Balance, error)
	UpdateAvailable(ctx context.Context, tx store.Execer, id string, available decimal.Decimal) error
}

type TransferStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransferInput) error
	GetByID(ctx context.Context, transferID string) (models.Transfer, error)
	GetByIdempotencyKey(ctx context.Context, key string) (models.Transfer, error)
}

// IdempotencyStore and Locker are backed by a store shared across the
// whole fleet; the engine never assumes in-process-only coordination.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, transferID string, ttl time.Duration) error
}

type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Notifier interface {
	TransferCompleted(evt event.TransferCompleted)
}

// TransferService orchestrates the mutation path of the ledger. It is the
// sole entry point through which balances change.
type TransferService struct {
	txRunner       db.TxRunner
	accountStore   AccountStore
	balanceStore   BalanceStore
	transferStore  TransferStore
	idempotency    IdempotencyStore
	locker         Locker
	notifier       Notifier
	lockTTL        time.Duration
	idempotencyTTL time.Duration
}

func NewTransferService(
	txRunner db.TxRunner,
	accountStore AccountStore,
	balanceStore BalanceStore,
	transferStore TransferStore,
	idempotency IdempotencyStore,
	locker Locker,
	notifier Notifier,
	lockTTL time.Duration,
	idempotencyTTL time.Duration,
) *TransferService {
	return &TransferService{
		txRunner:       txRunner,
		accountStore:   accountStore,
		balanceStore:   balanceStore,
		transferStore:  transferStore,
		idempotency:    idempotency,
		locker:         locker,
		notifier:       notifier,
		lockTTL:        lockTTL,
		idempotencyTTL: idempotencyTTL,
	}
}

type ProcessRequest struct {
	FromAccountID  string
	ToAccountID    string
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
}

// ProcessTransfer moves req.Amount from the source to the destination
// account exactly once per idempotency key.
//
// The order of operations matters: the idempotency lookup happens before
// the lock so replays are side-effect free; the lock is scoped to the
// source account so concurrent transfers from disjoint sources never
// contend; both balance mutations and the transfer record commit in one
// transaction; the idempotency entry is written only after commit.
func (s *TransferService) ProcessTransfer(ctx context.Context, req ProcessRequest) (models.Transfer, error) {
	if !req.Amount.IsPositive() {
		return models.Transfer{}, ErrInvalidAmount
	}
	if req.FromAccountID == req.ToAccountID {
		return models.Transfer{}, ErrSameAccountTransfer
	}

	if transferID, ok, err := s.idempotency.Get(ctx, req.IdempotencyKey); err != nil {
		return models.Transfer{}, err
	} else if ok {
		existing, err := s.transferStore.GetByID(ctx, transferID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return models.Transfer{}, err
		}
		// Stale cache entry; fall through to the full path.
	}

	if _, err := s.accountStore.GetByID(ctx, req.FromAccountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transfer{}, ErrSourceAccountNotFound
		}
		return models.Transfer{}, err
	}
	if _, err := s.accountStore.GetByID(ctx, req.ToAccountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transfer{}, ErrDestinationAccountNotFound
		}
		return models.Transfer{}, err
	}

	lockKey := lockKeyPrefix + req.FromAccountID
	acquired, err := s.locker.TryAcquire(ctx, lockKey, s.lockTTL)
	if err != nil {
		return models.Transfer{}, err
	}
	if !acquired {
		return models.Transfer{}, ErrTransferInProgress
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			log.Printf("failed to release lock %s: %v", lockKey, err)
		}
	}()

	transferID, err := uuid.NewV7()
	if err != nil {
		return models.Transfer{}, err
	}
	transfer := models.Transfer{
		ID:             transferID.String(),
		FromAccountID:  req.FromAccountID,
		ToAccountID:    req.ToAccountID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Status:         models.TransferCompleted,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}

	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		fromBalance, toBalance, err := s.lockTwoBalances(ctx, tx, req.FromAccountID, req.ToAccountID)
		if err != nil {
			return err
		}
		if err := fromBalance.Debit(req.Amount); err != nil {
			return err
		}
		toBalance.Credit(req.Amount)
		if err := s.balanceStore.UpdateAvailable(ctx, tx, fromBalance.ID, fromBalance.Available); err != nil {
			return err
		}
		if err := s.balanceStore.UpdateAvailable(ctx, tx, toBalance.ID, toBalance.Available); err != nil {
			return err
		}
		return s.transferStore.Create(ctx, tx, store.TransferInput{
			ID:             transfer.ID,
			FromAccountID:  transfer.FromAccountID,
			ToAccountID:    transfer.ToAccountID,
			Amount:         transfer.Amount,
			Currency:       transfer.Currency,
			Status:         transfer.Status,
			IdempotencyKey: transfer.IdempotencyKey,
			CreatedAt:      transfer.CreatedAt,
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err, idempotencyKeyConstraint) {
			// A replay that missed the cache: the key already committed a
			// transfer, so return it instead of mutating twice.
			return s.transferStore.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		}
		return models.Transfer{}, err
	}

	if err := s.idempotency.Put(ctx, req.IdempotencyKey, transfer.ID, s.idempotencyTTL); err != nil {
		// The transfer is committed; the worst case is a replay re-entering
		// the engine and resolving through the idempotency-key constraint.
		log.Printf("failed to store idempotency key %s: %v", req.IdempotencyKey, err)
	}

	s.notifier.TransferCompleted(event.TransferCompleted{
		TransferID:    transfer.ID,
		FromAccountID: transfer.FromAccountID,
		ToAccountID:   transfer.ToAccountID,
		Amount:        transfer.Amount,
		Currency:      transfer.Currency,
		CompletedAt:   transfer.CreatedAt,
	})
	return transfer, nil
}

// lockTwoBalances takes both balance row locks in sorted account-id order
// so two transfers touching the same pair of accounts cannot deadlock.
func (s *TransferService) lockTwoBalances(ctx context.Context, tx store.Tx, fromAccountID, toAccountID string) (models.Balance, models.Balance, error) {
	ids := []string{fromAccountID, toAccountID}
	sort.Strings(ids)
	loaded := make(map[string]models.Balance, 2)
	for _, accountID := range ids {
		balance, err := s.balanceStore.GetByAccountIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return models.Balance{}, models.Balance{}, err
		}
		loaded[accountID] = balance
	}
	return loaded[fromAccountID], loaded[toAccountID], nil
}
