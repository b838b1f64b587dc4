// Package service exposes the model registry operations on top of domain
// rules and storage.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/medinex-ai/registry/internal/identity"
	"github.com/medinex-ai/registry/internal/platform/id"
	"github.com/medinex-ai/registry/internal/platform/requestctx"
	"github.com/medinex-ai/registry/internal/registry/domain"
	"github.com/medinex-ai/registry/internal/storage"
)

const (
	defaultListModelsPageSize = 10
	maxListModelsPageSize     = 100
)

// ModelService implements model registration and lifecycle operations.
type ModelService struct {
	store       storage.Store
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewModelService creates a ModelService with default dependencies.
func NewModelService(store storage.Store) *ModelService {
	return &ModelService{
		store:       store,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// Register validates and persists a new model. The caller becomes the
// model's authority.
func (s *ModelService) Register(ctx context.Context, input domain.RegisterModelInput) (domain.Model, error) {
	if s.store == nil {
		return domain.Model{}, fmt.Errorf("model store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	model, err := domain.RegisterModel(input, caller, s.clock, s.idGenerator)
	if err != nil {
		return domain.Model{}, err
	}
	if err := s.store.PutModel(ctx, model); err != nil {
		return domain.Model{}, fmt.Errorf("persist model: %w", err)
	}
	return model, nil
}

// Derive registers a new model recording its lineage from an existing parent.
// Parent statistics are not inherited.
func (s *ModelService) Derive(ctx context.Context, parentID string, input domain.RegisterModelInput) (domain.Model, error) {
	if s.store == nil {
		return domain.Model{}, fmt.Errorf("model store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	parent, err := s.store.GetModel(ctx, parentID)
	if err != nil {
		return domain.Model{}, err
	}
	model, err := domain.DeriveModel(parent, input, caller, s.clock, s.idGenerator)
	if err != nil {
		return domain.Model{}, err
	}
	if err := s.store.PutModel(ctx, model); err != nil {
		return domain.Model{}, fmt.Errorf("persist model: %w", err)
	}
	return model, nil
}

// Update applies a partial metadata update. Only the model authority may
// update a model.
func (s *ModelService) Update(ctx context.Context, modelID string, input domain.UpdateModelInput) (domain.Model, error) {
	if s.store == nil {
		return domain.Model{}, fmt.Errorf("model store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	var updated domain.Model
	err := s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		model, err := tx.GetModel(ctx, modelID)
		if err != nil {
			return err
		}
		if err := identity.Authorize(model.Authority, caller); err != nil {
			return err
		}
		if err := model.ApplyUpdate(input, s.clock); err != nil {
			return err
		}
		if err := tx.PutModel(ctx, model); err != nil {
			return fmt.Errorf("persist model: %w", err)
		}
		updated = model
		return nil
	})
	if err != nil {
		return domain.Model{}, err
	}
	return updated, nil
}

// Verify marks a model as verified. Any authenticated caller may verify;
// the attestation trail lives in the verification log.
func (s *ModelService) Verify(ctx context.Context, modelID string) (domain.Model, error) {
	if s.store == nil {
		return domain.Model{}, fmt.Errorf("model store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	if caller.IsZero() {
		return domain.Model{}, identity.ErrCallerMissing
	}

	var verified domain.Model
	err := s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		model, err := tx.GetModel(ctx, modelID)
		if err != nil {
			return err
		}
		model.Verify(s.clock)
		if err := tx.PutModel(ctx, model); err != nil {
			return fmt.Errorf("persist model: %w", err)
		}
		verified = model
		return nil
	})
	if err != nil {
		return domain.Model{}, err
	}
	return verified, nil
}

// RecordUsage folds one inference outcome into the model's usage statistics.
// Any authenticated caller may record usage.
func (s *ModelService) RecordUsage(ctx context.Context, modelID string, confidenceScore float64) (domain.Model, error) {
	if s.store == nil {
		return domain.Model{}, fmt.Errorf("model store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	if caller.IsZero() {
		return domain.Model{}, identity.ErrCallerMissing
	}

	var updated domain.Model
	err := s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		model, err := tx.GetModel(ctx, modelID)
		if err != nil {
			return err
		}
		if err := model.RecordUsage(confidenceScore, s.clock); err != nil {
			return err
		}
		if err := tx.PutModel(ctx, model); err != nil {
			return fmt.Errorf("persist model: %w", err)
		}
		updated = model
		return nil
	})
	if err != nil {
		return domain.Model{}, err
	}
	return updated, nil
}

// Get retrieves a model by id.
func (s *ModelService) Get(ctx context.Context, modelID string) (domain.Model, error) {
	if s.store == nil {
		return domain.Model{}, fmt.Errorf("model store is not configured")
	}
	return s.store.GetModel(ctx, modelID)
}

// List returns a page of models in registration order.
func (s *ModelService) List(ctx context.Context, pageSize int, pageToken string) (storage.ModelPage, error) {
	if s.store == nil {
		return storage.ModelPage{}, fmt.Errorf("model store is not configured")
	}
	if pageSize <= 0 {
		pageSize = defaultListModelsPageSize
	}
	if pageSize > maxListModelsPageSize {
		pageSize = maxListModelsPageSize
	}
	return s.store.ListModels(ctx, pageSize, pageToken)
}
