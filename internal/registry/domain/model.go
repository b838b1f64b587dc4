package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/medinex-ai/registry/internal/core/bounds"
	apperrors "github.com/medinex-ai/registry/internal/errors"
	"github.com/medinex-ai/registry/internal/identity"
	"github.com/medinex-ai/registry/internal/platform/id"
)

// MinHashLength is the minimum accepted length for content hashes.
const MinHashLength = 16

var (
	// ErrEmptyName indicates a missing model name.
	ErrEmptyName = apperrors.New(apperrors.CodeModelNameEmpty, "model name is required")
	// ErrInvalidModelHash indicates a content hash shorter than the minimum.
	ErrInvalidModelHash = apperrors.New(apperrors.CodeInvalidModelHash, "model hash must be at least 16 characters")
	// ErrInvalidAccuracy indicates an accuracy outside [0, 1].
	ErrInvalidAccuracy = apperrors.New(apperrors.CodeInvalidAccuracyValue, "accuracy must be between 0.0 and 1.0")
	// ErrInvalidConfidenceScore indicates a confidence score outside [0, 1].
	ErrInvalidConfidenceScore = apperrors.New(apperrors.CodeInvalidConfidenceScore, "confidence score must be between 0.0 and 1.0")
)

// Model represents a registered AI model record.
type Model struct {
	ID                 string
	Name               string
	Description        string
	Version            string
	ModelType          string
	ModelHash          string
	Accuracy           float64
	PerformanceMetrics string
	Authority          identity.ID
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ContributionCount  uint64
	VerificationCount  uint64
	AvgConfidenceScore float64
	UsageCount         uint64
	IsVerified         bool
	ParentModel        string // empty when the model is not derived
}

// RegisterModelInput describes the metadata needed to register a model.
type RegisterModelInput struct {
	Name               string
	Description        string
	Version            string
	ModelType          string
	ModelHash          string
	Accuracy           float64
	PerformanceMetrics string
}

// UpdateModelInput describes a partial model update. Nil fields are unchanged.
type UpdateModelInput struct {
	Name               *string
	Description        *string
	Version            *string
	ModelHash          *string
	Accuracy           *float64
	PerformanceMetrics *string
}

// RegisterModel creates a new model record with a generated ID and timestamps.
func RegisterModel(input RegisterModelInput, authority identity.ID, now func() time.Time, idGenerator func() (string, error)) (Model, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if authority.IsZero() {
		return Model{}, identity.ErrCallerMissing
	}

	normalized, err := normalizeRegisterModelInput(input)
	if err != nil {
		return Model{}, err
	}

	modelID, err := idGenerator()
	if err != nil {
		return Model{}, fmt.Errorf("generate model id: %w", err)
	}

	createdAt := now().UTC()
	return Model{
		ID:                 modelID,
		Name:               normalized.Name,
		Description:        normalized.Description,
		Version:            normalized.Version,
		ModelType:          normalized.ModelType,
		ModelHash:          normalized.ModelHash,
		Accuracy:           normalized.Accuracy,
		PerformanceMetrics: normalized.PerformanceMetrics,
		Authority:          authority,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}, nil
}

// DeriveModel creates a model derived from a parent. The parent's statistics
// are not copied or aggregated; only the lineage reference is recorded.
func DeriveModel(parent Model, input RegisterModelInput, authority identity.ID, now func() time.Time, idGenerator func() (string, error)) (Model, error) {
	derived, err := RegisterModel(input, authority, now, idGenerator)
	if err != nil {
		return Model{}, err
	}
	derived.ParentModel = parent.ID
	return derived, nil
}

// ApplyUpdate overwrites provided fields, re-validating the model hash and
// accuracy with the registration rules. Omitted fields are unchanged.
func (m *Model) ApplyUpdate(input UpdateModelInput, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ErrEmptyName
		}
		if err := bounds.Check("name", name, bounds.MaxName); err != nil {
			return err
		}
		m.Name = name
	}
	if input.Description != nil {
		if err := bounds.Check("description", *input.Description, bounds.MaxDescription); err != nil {
			return err
		}
		m.Description = *input.Description
	}
	if input.Version != nil {
		if err := bounds.Check("version", *input.Version, bounds.MaxVersion); err != nil {
			return err
		}
		m.Version = *input.Version
	}
	if input.ModelHash != nil {
		if err := validateModelHash(*input.ModelHash); err != nil {
			return err
		}
		m.ModelHash = *input.ModelHash
	}
	if input.Accuracy != nil {
		if !inUnitInterval(*input.Accuracy) {
			return ErrInvalidAccuracy
		}
		m.Accuracy = *input.Accuracy
	}
	if input.PerformanceMetrics != nil {
		if err := bounds.Check("performance_metrics", *input.PerformanceMetrics, bounds.MaxBlob); err != nil {
			return err
		}
		m.PerformanceMetrics = *input.PerformanceMetrics
	}

	m.UpdatedAt = now().UTC()
	return nil
}

// Verify marks the model as verified. The verifier identity is not recorded;
// the caller-authentication boundary is trusted to gate access.
func (m *Model) Verify(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.IsVerified = true
	m.UpdatedAt = now().UTC()
}

// RecordUsage increments the usage counter and folds the confidence score
// into the exact running mean. The first usage sets the average directly.
func (m *Model) RecordUsage(confidenceScore float64, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if !inUnitInterval(confidenceScore) {
		return ErrInvalidConfidenceScore
	}

	previousCount := m.UsageCount
	m.UsageCount++
	if previousCount == 0 {
		m.AvgConfidenceScore = confidenceScore
	} else {
		m.AvgConfidenceScore = (m.AvgConfidenceScore*float64(previousCount) + confidenceScore) / float64(m.UsageCount)
	}
	m.UpdatedAt = now().UTC()
	return nil
}

// BlendAccuracy folds an accuracy improvement into the model's accuracy with
// diminishing returns: new = min(1, old + improvement*(1-old)). Accuracy never
// decreases and never exceeds 1.0.
func (m *Model) BlendAccuracy(improvement float64) {
	if improvement <= 0 {
		return
	}
	blended := m.Accuracy + improvement*(1.0-m.Accuracy)
	if blended > 1.0 {
		blended = 1.0
	}
	m.Accuracy = blended
}

// IncrementVerificationCount records one verification referencing the model.
func (m *Model) IncrementVerificationCount(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.VerificationCount++
	m.UpdatedAt = now().UTC()
}

// IncrementContributionCount records one contribution targeting the model.
func (m *Model) IncrementContributionCount(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.ContributionCount++
	m.UpdatedAt = now().UTC()
}

func normalizeRegisterModelInput(input RegisterModelInput) (RegisterModelInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return RegisterModelInput{}, ErrEmptyName
	}
	if err := bounds.Check("name", input.Name, bounds.MaxName); err != nil {
		return RegisterModelInput{}, err
	}
	if err := bounds.Check("description", input.Description, bounds.MaxDescription); err != nil {
		return RegisterModelInput{}, err
	}
	if err := bounds.Check("version", input.Version, bounds.MaxVersion); err != nil {
		return RegisterModelInput{}, err
	}
	if err := bounds.Check("model_type", input.ModelType, bounds.MaxTypeTag); err != nil {
		return RegisterModelInput{}, err
	}
	if err := validateModelHash(input.ModelHash); err != nil {
		return RegisterModelInput{}, err
	}
	if !inUnitInterval(input.Accuracy) {
		return RegisterModelInput{}, ErrInvalidAccuracy
	}
	if err := bounds.Check("performance_metrics", input.PerformanceMetrics, bounds.MaxBlob); err != nil {
		return RegisterModelInput{}, err
	}
	return input, nil
}

func validateModelHash(hash string) error {
	if len(hash) < MinHashLength {
		return ErrInvalidModelHash
	}
	return bounds.Check("model_hash", hash, bounds.MaxHash)
}

func inUnitInterval(value float64) bool {
	return value >= 0.0 && value <= 1.0
}
