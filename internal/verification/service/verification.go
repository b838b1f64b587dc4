// Package service exposes the verification log operations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/medinex-ai/registry/internal/platform/id"
	"github.com/medinex-ai/registry/internal/platform/requestctx"
	"github.com/medinex-ai/registry/internal/storage"
	"github.com/medinex-ai/registry/internal/verification/domain"
)

const (
	defaultListVerificationsPageSize = 10
	maxListVerificationsPageSize     = 100
)

// VerificationService implements append-only verification recording.
type VerificationService struct {
	store       storage.Store
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewVerificationService creates a VerificationService with default dependencies.
func NewVerificationService(store storage.Store) *VerificationService {
	return &VerificationService{
		store:       store,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// VerifyDataInput describes a verification entry that may optionally
// reference a model.
type VerifyDataInput struct {
	DataHash        string
	Method          string
	ConfidenceScore float64
	IsValid         bool
	ModelID         string
	ResultDetails   string
	Metadata        string
	EvidenceURI     string
}

// VerifyMedicalData records a medical dataset verification.
func (s *VerificationService) VerifyMedicalData(ctx context.Context, input VerifyDataInput) (domain.Verification, error) {
	return s.record(ctx, domain.KindMedicalData, input)
}

// VerifyAnalysisResult records an analysis output verification.
func (s *VerificationService) VerifyAnalysisResult(ctx context.Context, input VerifyDataInput) (domain.Verification, error) {
	return s.record(ctx, domain.KindAnalysisResult, input)
}

// VerifyModelOutput records a verification of a specific model's inference.
// The model reference is mandatory and the model's verification counter
// moves in the same transaction.
func (s *VerificationService) VerifyModelOutput(ctx context.Context, input VerifyDataInput) (domain.Verification, error) {
	return s.record(ctx, domain.KindModelOutput, input)
}

// RecordExpertReview records a human expert's attestation.
func (s *VerificationService) RecordExpertReview(ctx context.Context, input VerifyDataInput) (domain.Verification, error) {
	return s.record(ctx, domain.KindExpertReview, input)
}

func (s *VerificationService) record(ctx context.Context, kind domain.Kind, input VerifyDataInput) (domain.Verification, error) {
	if s.store == nil {
		return domain.Verification{}, fmt.Errorf("verification store is not configured")
	}

	caller := requestctx.CallerFromContext(ctx)
	verification, err := domain.RecordVerification(domain.RecordVerificationInput{
		Kind:            kind,
		DataHash:        input.DataHash,
		Method:          input.Method,
		ConfidenceScore: input.ConfidenceScore,
		IsValid:         input.IsValid,
		ModelID:         input.ModelID,
		ResultDetails:   input.ResultDetails,
		Metadata:        input.Metadata,
		EvidenceURI:     input.EvidenceURI,
	}, caller, s.clock, s.idGenerator)
	if err != nil {
		return domain.Verification{}, err
	}

	err = s.store.InTransaction(ctx, func(ctx context.Context, tx storage.Bundle) error {
		if verification.ModelID != "" {
			model, err := tx.GetModel(ctx, verification.ModelID)
			if err != nil {
				return err
			}
			model.IncrementVerificationCount(s.clock)
			if err := tx.PutModel(ctx, model); err != nil {
				return fmt.Errorf("persist model: %w", err)
			}
		}
		if err := tx.PutVerification(ctx, verification); err != nil {
			return fmt.Errorf("persist verification: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Verification{}, err
	}
	return verification, nil
}

// Get retrieves a verification entry by id.
func (s *VerificationService) Get(ctx context.Context, verificationID string) (domain.Verification, error) {
	if s.store == nil {
		return domain.Verification{}, fmt.Errorf("verification store is not configured")
	}
	return s.store.GetVerification(ctx, verificationID)
}

// List returns a page of verification entries in creation order. An empty
// modelID lists entries across all models.
func (s *VerificationService) List(ctx context.Context, modelID string, pageSize int, pageToken string) (storage.VerificationPage, error) {
	if s.store == nil {
		return storage.VerificationPage{}, fmt.Errorf("verification store is not configured")
	}
	if pageSize <= 0 {
		pageSize = defaultListVerificationsPageSize
	}
	if pageSize > maxListVerificationsPageSize {
		pageSize = maxListVerificationsPageSize
	}
	return s.store.ListVerifications(ctx, modelID, pageSize, pageToken)
}
