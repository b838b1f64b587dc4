// Package service exposes the token authority operations: one-time
// initialization, two-step authority transfer, rate-limited minting, and
// treasury management.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medinex-ai/registry/internal/identity"
	"github.com/medinex-ai/registry/internal/platform/requestctx"
	"github.com/medinex-ai/registry/internal/storage"
	"github.com/medinex-ai/registry/internal/token/domain"
)

// TokenService implements token configuration and supply operations.
type TokenService struct {
	store storage.Store
	clock func() time.Time
}

// NewTokenService creates a TokenService with default dependencies.
func NewTokenService(store storage.Store) *TokenService {
	return &TokenService{
		store: store,
		clock: time.Now,
	}
}

// Initialize creates the token configuration and credits the initial supply
// to the treasury. The caller becomes both authority and treasury.
func (s *TokenService) Initialize(ctx context.Context, input domain.InitializeTokenInput) (domain.Config, error) {
	if s.store == nil {
		return domain.Config{}, fmt.Errorf("token store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	cfg, err := domain.InitializeToken(input, caller, s.clock)
	if err != nil {
		return domain.Config{}, err
	}

	err = s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		if err := tx.PutTokenConfig(ctx, cfg); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return domain.ErrAlreadyInitialized
			}
			return err
		}
		return tx.Mint(ctx, cfg.Treasury, cfg.TotalSupply)
	})
	if err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// ProposeAuthorityTransfer starts a two-step authority transfer to the new
// authority. Only the current authority may propose.
func (s *TokenService) ProposeAuthorityTransfer(ctx context.Context, newAuthority identity.ID) (domain.Config, error) {
	return s.mutateConfig(ctx, func(cfg *domain.Config, caller identity.ID) error {
		return cfg.ProposeAuthorityTransfer(caller, newAuthority, s.clock)
	})
}

// AcceptAuthorityTransfer completes a pending transfer. Only the proposed
// authority may accept, within the transfer window.
func (s *TokenService) AcceptAuthorityTransfer(ctx context.Context) (domain.Config, error) {
	return s.mutateConfig(ctx, func(cfg *domain.Config, caller identity.ID) error {
		return cfg.AcceptAuthorityTransfer(caller, s.clock)
	})
}

// CancelAuthorityTransfer withdraws a pending transfer. Only the current
// authority may cancel.
func (s *TokenService) CancelAuthorityTransfer(ctx context.Context) (domain.Config, error) {
	return s.mutateConfig(ctx, func(cfg *domain.Config, caller identity.ID) error {
		return cfg.CancelAuthorityTransfer(caller, s.clock)
	})
}

// Mint issues new supply to the treasury, subject to the mint cooldown. The
// supply update and the ledger credit commit together.
func (s *TokenService) Mint(ctx context.Context, amount uint64) (domain.Config, error) {
	if s.store == nil {
		return domain.Config{}, fmt.Errorf("token store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	var updated domain.Config
	err := s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		cfg, err := getConfig(ctx, tx)
		if err != nil {
			return err
		}
		if err := cfg.Mint(caller, amount, s.clock); err != nil {
			return err
		}
		if err := tx.Mint(ctx, cfg.Treasury, amount); err != nil {
			return err
		}
		if err := tx.UpdateTokenConfig(ctx, cfg); err != nil {
			return fmt.Errorf("persist token config: %w", err)
		}
		updated = cfg
		return nil
	})
	if err != nil {
		return domain.Config{}, err
	}
	return updated, nil
}

// SetTreasury repoints the treasury account. Only the authority may do so.
func (s *TokenService) SetTreasury(ctx context.Context, treasury identity.ID) (domain.Config, error) {
	return s.mutateConfig(ctx, func(cfg *domain.Config, caller identity.ID) error {
		return cfg.SetTreasury(caller, treasury, s.clock)
	})
}

// Get retrieves the token configuration.
func (s *TokenService) Get(ctx context.Context) (domain.Config, error) {
	if s.store == nil {
		return domain.Config{}, fmt.Errorf("token store is not configured")
	}
	cfg, err := s.store.GetTokenConfig(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Config{}, domain.ErrNotInitialized
		}
		return domain.Config{}, err
	}
	return cfg, nil
}

// Balance reports the ledger balance of an account.
func (s *TokenService) Balance(ctx context.Context, account identity.ID) (uint64, error) {
	if s.store == nil {
		return 0, fmt.Errorf("token store is not configured")
	}
	return s.store.Balance(ctx, account)
}

func (s *TokenService) mutateConfig(ctx context.Context, mutate func(cfg *domain.Config, caller identity.ID) error) (domain.Config, error) {
	if s.store == nil {
		return domain.Config{}, fmt.Errorf("token store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	var updated domain.Config
	err := s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		cfg, err := getConfig(ctx, tx)
		if err != nil {
			return err
		}
		if err := mutate(&cfg, caller); err != nil {
			return err
		}
		if err := tx.UpdateTokenConfig(ctx, cfg); err != nil {
			return fmt.Errorf("persist token config: %w", err)
		}
		updated = cfg
		return nil
	})
	if err != nil {
		return domain.Config{}, err
	}
	return updated, nil
}

func getConfig(ctx context.Context, tx storage.Bundle) (domain.Config, error) {
	cfg, err := tx.GetTokenConfig(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Config{}, domain.ErrNotInitialized
		}
		return domain.Config{}, err
	}
	return cfg, nil
}
