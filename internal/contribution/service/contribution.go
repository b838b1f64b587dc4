// Package service exposes the contribution ledger operations on top of
// domain rules, storage, and the token ledger.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medinex-ai/registry/internal/contribution/domain"
	"github.com/medinex-ai/registry/internal/identity"
	"github.com/medinex-ai/registry/internal/platform/id"
	"github.com/medinex-ai/registry/internal/platform/requestctx"
	"github.com/medinex-ai/registry/internal/storage"
	tokendomain "github.com/medinex-ai/registry/internal/token/domain"
)

const (
	defaultListContributionsPageSize = 10
	maxListContributionsPageSize     = 100
)

// ContributionService implements contribution submission and review.
type ContributionService struct {
	store       storage.Store
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewContributionService creates a ContributionService with default dependencies.
func NewContributionService(store storage.Store) *ContributionService {
	return &ContributionService{
		store:       store,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// Record validates and persists a pending contribution, incrementing the
// target model's contribution counter in the same transaction.
func (s *ContributionService) Record(ctx context.Context, input domain.RecordContributionInput) (domain.Contribution, error) {
	if s.store == nil {
		return domain.Contribution{}, fmt.Errorf("contribution store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	var recorded domain.Contribution
	err := s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		model, err := tx.GetModel(ctx, input.ModelID)
		if err != nil {
			return err
		}

		contribution, err := domain.RecordContribution(input, caller, s.clock, s.idGenerator)
		if err != nil {
			return err
		}

		model.IncrementContributionCount(s.clock)
		if err := tx.PutContribution(ctx, contribution); err != nil {
			return fmt.Errorf("persist contribution: %w", err)
		}
		if err := tx.PutModel(ctx, model); err != nil {
			return fmt.Errorf("persist model: %w", err)
		}
		recorded = contribution
		return nil
	})
	if err != nil {
		return domain.Contribution{}, err
	}
	return recorded, nil
}

// Review moves a contribution into review. Any authenticated caller may
// review; terminal contributions are rejected.
func (s *ContributionService) Review(ctx context.Context, contributionID, notes string) (domain.Contribution, error) {
	if s.store == nil {
		return domain.Contribution{}, fmt.Errorf("contribution store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	if caller.IsZero() {
		return domain.Contribution{}, identity.ErrCallerMissing
	}

	var reviewed domain.Contribution
	err := s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		contribution, err := tx.GetContribution(ctx, contributionID)
		if err != nil {
			return err
		}
		if err := contribution.Review(notes, s.clock); err != nil {
			return err
		}
		if err := tx.PutContribution(ctx, contribution); err != nil {
			return fmt.Errorf("persist contribution: %w", err)
		}
		reviewed = contribution
		return nil
	})
	if err != nil {
		return domain.Contribution{}, err
	}
	return reviewed, nil
}

// Approve terminates a contribution as approved, blends its accuracy
// improvement into the model, and pays the reward from the treasury. The
// record updates and the ledger transfer commit or roll back together. Only
// the model authority may approve.
func (s *ContributionService) Approve(ctx context.Context, contributionID string, rewardAmount uint64) (domain.Contribution, error) {
	if s.store == nil {
		return domain.Contribution{}, fmt.Errorf("contribution store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	var approved domain.Contribution
	err := s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		contribution, err := tx.GetContribution(ctx, contributionID)
		if err != nil {
			return err
		}
		model, err := tx.GetModel(ctx, contribution.ModelID)
		if err != nil {
			return err
		}
		if err := identity.Authorize(model.Authority, caller); err != nil {
			return err
		}
		if err := contribution.Approve(&model, rewardAmount, s.clock); err != nil {
			return err
		}

		if rewardAmount > 0 {
			cfg, err := tx.GetTokenConfig(ctx)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return tokendomain.ErrNotInitialized
				}
				return err
			}
			if err := tx.Transfer(ctx, cfg.Treasury, contribution.Contributor, rewardAmount); err != nil {
				return err
			}
		}

		if err := tx.PutContribution(ctx, contribution); err != nil {
			return fmt.Errorf("persist contribution: %w", err)
		}
		if err := tx.PutModel(ctx, model); err != nil {
			return fmt.Errorf("persist model: %w", err)
		}
		approved = contribution
		return nil
	})
	if err != nil {
		return domain.Contribution{}, err
	}
	return approved, nil
}

// Reject terminates a contribution as rejected with a reason. Only the model
// authority may reject.
func (s *ContributionService) Reject(ctx context.Context, contributionID, rejectionReason string) (domain.Contribution, error) {
	if s.store == nil {
		return domain.Contribution{}, fmt.Errorf("contribution store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	var rejected domain.Contribution
	err := s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		contribution, err := tx.GetContribution(ctx, contributionID)
		if err != nil {
			return err
		}
		model, err := tx.GetModel(ctx, contribution.ModelID)
		if err != nil {
			return err
		}
		if err := identity.Authorize(model.Authority, caller); err != nil {
			return err
		}
		if err := contribution.Reject(rejectionReason, s.clock); err != nil {
			return err
		}
		if err := tx.PutContribution(ctx, contribution); err != nil {
			return fmt.Errorf("persist contribution: %w", err)
		}
		rejected = contribution
		return nil
	})
	if err != nil {
		return domain.Contribution{}, err
	}
	return rejected, nil
}

// Get retrieves a contribution by id.
func (s *ContributionService) Get(ctx context.Context, contributionID string) (domain.Contribution, error) {
	if s.store == nil {
		return domain.Contribution{}, fmt.Errorf("contribution store is not configured")
	}
	return s.store.GetContribution(ctx, contributionID)
}

// ListByModel returns a page of contributions targeting a model in
// submission order.
func (s *ContributionService) ListByModel(ctx context.Context, modelID string, pageSize int, pageToken string) (storage.ContributionPage, error) {
	if s.store == nil {
		return storage.ContributionPage{}, fmt.Errorf("contribution store is not configured")
	}
	if pageSize <= 0 {
		pageSize = defaultListContributionsPageSize
	}
	if pageSize > maxListContributionsPageSize {
		pageSize = maxListContributionsPageSize
	}
	return s.store.ListContributionsByModel(ctx, modelID, pageSize, pageToken)
}
