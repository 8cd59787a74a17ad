package store

import (
	"context"
	"time"

	"ledger/internal/models"

	"github.com/shopspring/decimal"
)

type TransferStore struct {
	db DB
}

type TransferInput struct {
	ID             string
	FromAccountID  string
	ToAccountID    string
	Amount         decimal.Decimal
	Currency       string
	Status         models.TransferStatus
	IdempotencyKey string
	CreatedAt      time.Time
}

func NewTransferStore(db DB) *TransferStore {
	return &TransferStore{db: db}
}

func (s *TransferStore) Create(ctx context.Context, tx Execer, input TransferInput) error {
	query := `
		INSERT INTO transfers (id, from_account_id, to_account_id, amount, currency, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.FromAccountID, input.ToAccountID, input.Amount,
		input.Currency, input.Status, input.IdempotencyKey, input.CreatedAt,
	)
	return err
}

func (s *TransferStore) GetByID(ctx context.Context, transferID string) (models.Transfer, error) {
	var row models.Transfer
	err := s.db.GetContext(ctx, &row, `
		SELECT id, from_account_id, to_account_id, amount, currency, status, idempotency_key, created_at
		FROM transfers
		WHERE id = $1
	`, transferID)
	if err != nil {
		return models.Transfer{}, err
	}
	return row, nil
}

func (s *TransferStore) GetByIdempotencyKey(ctx context.Context, key string) (models.Transfer, error) {
	var row models.Transfer
	err := s.db.GetContext(ctx, &row, `
		SELECT id, from_account_id, to_account_id, amount, currency, status, idempotency_key, created_at
		FROM transfers
		WHERE idempotency_key = $1
	`, key)
	if err != nil {
		return models.Transfer{}, err
	}
	return row, nil
}

// ListByAccount returns transfers touching the account, newest first.
// Transfer ids are time-ordered, so ordering by id matches creation order.
func (s *TransferStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.Transfer, error) {
	var rows []models.Transfer
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, from_account_id, to_account_id, amount, currency, status, idempotency_key, created_at
		FROM transfers
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
