package store

import (
	"context"

	"ledger/internal/models"

	"github.com/shopspring/decimal"
)

type BalanceStore struct {
	db DB
}

func NewBalanceStore(db DB) *BalanceStore {
	return &BalanceStore{db: db}
}

func (s *BalanceStore) Create(ctx context.Context, tx Execer, id, accountID string, available decimal.Decimal) error {
	query := `
		INSERT INTO balances (id, account_id, available)
		VALUES ($1, $2, $3)
	`
	_, err := tx.ExecContext(ctx, query, id, accountID, available)
	return err
}

func (s *BalanceStore) GetByAccountID(ctx context.Context, accountID string) (models.Balance, error) {
	var row models.Balance
	err := s.db.GetContext(ctx, &row, `
		SELECT id, account_id, available, updated_at
		FROM balances
		WHERE account_id = $1
	`, accountID)
	if err != nil {
		return models.Balance{}, err
	}
	return row, nil
}

// GetByAccountIDForUpdate takes the row lock that serializes concurrent
// mutations of one balance for the rest of the transaction.
func (s *BalanceStore) GetByAccountIDForUpdate(ctx context.Context, tx Getter, accountID string) (models.Balance, error) {
	var row models.Balance
	err := tx.GetContext(ctx, &row, `
		SELECT id, account_id, available, updated_at
		FROM balances
		WHERE account_id = $1
		FOR UPDATE
	`, accountID)
	if err != nil {
		return models.Balance{}, err
	}
	return row, nil
}

func (s *BalanceStore) UpdateAvailable(ctx context.Context, tx Execer, id string, available decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE balances
		SET available = $1, updated_at = NOW()
		WHERE id = $2
	`, available, id)
	return err
}
