package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medinex-ai/registry/internal/identity"
	"github.com/medinex-ai/registry/internal/storage"
	tokendomain "github.com/medinex-ai/registry/internal/token/domain"
)

const tokenConfigColumns = `
	name,
	symbol,
	uri,
	decimals,
	total_supply,
	authority,
	treasury,
	pending_authority,
	transfer_proposed_at,
	last_mint_at,
	created_at,
	updated_at`

// PutTokenConfig inserts the singleton token configuration. Fails with
// storage.ErrAlreadyExists when the token is already initialized.
func (s *Store) PutTokenConfig(ctx context.Context, cfg tokendomain.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if cfg.Authority.IsZero() {
		return fmt.Errorf("authority is required")
	}

	_, err := s.db().ExecContext(ctx, `
INSERT INTO token_config (id,`+tokenConfigColumns+`
) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		cfg.Name,
		cfg.Symbol,
		cfg.URI,
		cfg.Decimals,
		cfg.TotalSupply,
		string(cfg.Authority),
		string(cfg.Treasury),
		string(cfg.PendingAuthority),
		toNullMillis(cfg.TransferProposedAt),
		toNullMillis(cfg.LastMintAt),
		toMillis(cfg.CreatedAt),
		toMillis(cfg.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put token config: %w", err)
	}
	return nil
}

// UpdateTokenConfig overwrites the token configuration. Fails with
// storage.ErrNotFound when the token is not initialized.
func (s *Store) UpdateTokenConfig(ctx context.Context, cfg tokendomain.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	result, err := s.db().ExecContext(ctx, `
UPDATE token_config SET
	name = ?,
	symbol = ?,
	uri = ?,
	decimals = ?,
	total_supply = ?,
	authority = ?,
	treasury = ?,
	pending_authority = ?,
	transfer_proposed_at = ?,
	last_mint_at = ?,
	updated_at = ?
WHERE id = 1
`,
		cfg.Name,
		cfg.Symbol,
		cfg.URI,
		cfg.Decimals,
		cfg.TotalSupply,
		string(cfg.Authority),
		string(cfg.Treasury),
		string(cfg.PendingAuthority),
		toNullMillis(cfg.TransferProposedAt),
		toNullMillis(cfg.LastMintAt),
		toMillis(cfg.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("update token config: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update token config: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetTokenConfig retrieves the singleton token configuration.
func (s *Store) GetTokenConfig(ctx context.Context) (tokendomain.Config, error) {
	if err := ctx.Err(); err != nil {
		return tokendomain.Config{}, err
	}
	if s == nil || s.sqlDB == nil {
		return tokendomain.Config{}, fmt.Errorf("storage is not configured")
	}

	row := s.db().QueryRowContext(ctx, `
SELECT`+tokenConfigColumns+`
FROM token_config
WHERE id = 1
`)

	var cfg tokendomain.Config
	var authority, treasury, pendingAuthority string
	var transferProposedAt, lastMintAt sql.NullInt64
	var createdAt, updatedAt int64
	err := row.Scan(
		&cfg.Name,
		&cfg.Symbol,
		&cfg.URI,
		&cfg.Decimals,
		&cfg.TotalSupply,
		&authority,
		&treasury,
		&pendingAuthority,
		&transferProposedAt,
		&lastMintAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return tokendomain.Config{}, storage.ErrNotFound
	}
	if err != nil {
		return tokendomain.Config{}, fmt.Errorf("get token config: %w", err)
	}

	cfg.Authority = identity.ID(authority)
	cfg.Treasury = identity.ID(treasury)
	cfg.PendingAuthority = identity.ID(pendingAuthority)
	cfg.TransferProposedAt = fromNullMillis(transferProposedAt)
	cfg.LastMintAt = fromNullMillis(lastMintAt)
	cfg.CreatedAt = fromMillis(createdAt)
	cfg.UpdatedAt = fromMillis(updatedAt)
	return cfg, nil
}
