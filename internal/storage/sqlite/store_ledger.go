package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/medinex-ai/registry/internal/identity"
	"github.com/medinex-ai/registry/internal/storage"
	"github.com/medinex-ai/registry/internal/token/ledger"
)

// Transfer moves tokens between accounts. The debit and credit share the
// ambient transaction when one is bound; callers moving balances alongside
// record updates should run inside InTransaction.
func (s *Store) Transfer(ctx context.Context, from, to identity.ID, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("transfer accounts are required")
	}
	if amount == 0 {
		return fmt.Errorf("transfer amount must be greater than zero")
	}
	if s.tx == nil {
		return s.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
			return tx.Transfer(ctx, from, to, amount)
		})
	}

	now := time.Now().UTC().UnixMilli()
	result, err := s.db().ExecContext(ctx, `
UPDATE token_accounts
SET balance = balance - ?, updated_at = ?
WHERE account = ? AND balance >= ?
`, amount, now, string(from), amount)
	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}
	if affected == 0 {
		return ledger.ErrInsufficientBalance
	}

	if err := s.creditAccount(ctx, to, amount, now); err != nil {
		return err
	}
	if err := s.recordTransaction(ctx, "transfer", string(from), string(to), amount, now); err != nil {
		return err
	}
	return nil
}

// Mint credits newly issued supply to an account.
func (s *Store) Mint(ctx context.Context, to identity.ID, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if to.IsZero() {
		return fmt.Errorf("mint account is required")
	}
	if amount == 0 {
		return fmt.Errorf("mint amount must be greater than zero")
	}

	now := time.Now().UTC().UnixMilli()
	if err := s.creditAccount(ctx, to, amount, now); err != nil {
		return err
	}
	return s.recordTransaction(ctx, "mint", "", string(to), amount, now)
}

// Balance reports the current balance of an account. Unknown accounts report
// zero.
func (s *Store) Balance(ctx context.Context, account identity.ID) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if account.IsZero() {
		return 0, fmt.Errorf("account is required")
	}

	var balance uint64
	err := s.db().QueryRowContext(ctx, `
SELECT balance FROM token_accounts WHERE account = ?
`, string(account)).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

func (s *Store) creditAccount(ctx context.Context, account identity.ID, amount uint64, nowMillis int64) error {
	_, err := s.db().ExecContext(ctx, `
INSERT INTO token_accounts (account, balance, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(account) DO UPDATE SET
	balance = balance + excluded.balance,
	updated_at = excluded.updated_at
`, string(account), amount, nowMillis)
	if err != nil {
		return fmt.Errorf("credit account: %w", err)
	}
	return nil
}

func (s *Store) recordTransaction(ctx context.Context, kind, from, to string, amount uint64, nowMillis int64) error {
	_, err := s.db().ExecContext(ctx, `
INSERT INTO token_transactions (kind, from_account, to_account, amount, created_at)
VALUES (?, ?, ?, ?, ?)
`, kind, from, to, amount, nowMillis)
	if err != nil {
		return fmt.Errorf("record token transaction: %w", err)
	}
	return nil
}
